package domain

import "errors"

var (
	// ErrInvalidColumn is returned when a column index is out of range
	ErrInvalidColumn = errors.New("invalid column")

	// ErrColumnFull is returned when a column has no empty cell left
	ErrColumnFull = errors.New("column full")

	// ErrNilToken is returned when placing a nil token
	ErrNilToken = errors.New("nil token")

	// ErrOutOfBounds is returned for a cell outside the grid
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrEmptyRow is returned when consuming from an empty execution row
	ErrEmptyRow = errors.New("execution row empty")

	// ErrActionPending is returned when a consume is already awaiting ActionEnd
	ErrActionPending = errors.New("action already pending")

	// ErrTokenNotFound is returned when the inventory does not hold a token
	ErrTokenNotFound = errors.New("token not found")

	// ErrDimensionMismatch is returned when restoring a matrix of another size
	ErrDimensionMismatch = errors.New("grid dimension mismatch")
)

// ErrSnapshotNotFound is returned when no attempt snapshot has been taken
var ErrSnapshotNotFound = errors.New("snapshot not found")
