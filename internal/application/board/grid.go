package board

import (
	"fmt"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// Grid is a columns x rows matrix of tokens. Row 0 is the bottom row.
type Grid struct {
	columns int
	rows    int
	cells   [][]*domain.Token // [column][row]
}

// NewGrid creates an empty grid
func NewGrid(columns, rows int) (*Grid, error) {
	if columns < 1 || rows < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", columns, rows)
	}
	return &Grid{
		columns: columns,
		rows:    rows,
		cells:   newMatrix(columns, rows),
	}, nil
}

func newMatrix(columns, rows int) [][]*domain.Token {
	m := make([][]*domain.Token, columns)
	for c := range m {
		m[c] = make([]*domain.Token, rows)
	}
	return m
}

// Columns returns the grid width in cells
func (g *Grid) Columns() int { return g.columns }

// Rows returns the grid height in cells
func (g *Grid) Rows() int { return g.rows }

// Place drops token into the lowest empty cell of column and returns the row
func (g *Grid) Place(column int, token *domain.Token) (int, error) {
	if column < 0 || column >= g.columns {
		return -1, fmt.Errorf("place in column %d: %w", column, domain.ErrInvalidColumn)
	}
	if token == nil {
		return -1, fmt.Errorf("place in column %d: %w", column, domain.ErrNilToken)
	}

	for row := 0; row < g.rows; row++ {
		if g.cells[column][row] == nil {
			g.cells[column][row] = token
			token.Column = column
			token.Row = row
			return row, nil
		}
	}

	return -1, fmt.Errorf("place in column %d: %w", column, domain.ErrColumnFull)
}

// At returns the token at a cell, nil if empty or out of bounds
func (g *Grid) At(column, row int) *domain.Token {
	if !g.inBounds(column, row) {
		return nil
	}
	return g.cells[column][row]
}

// Remove clears a cell and collapses its column.
// Returns the removed token, nil if the cell was empty.
func (g *Grid) Remove(column, row int) (*domain.Token, error) {
	if !g.inBounds(column, row) {
		return nil, fmt.Errorf("remove (%d,%d): %w", column, row, domain.ErrOutOfBounds)
	}

	token := g.cells[column][row]
	g.cells[column][row] = nil
	if token != nil {
		token.ClearPosition()
	}

	g.Collapse(column)
	return token, nil
}

// Collapse closes gaps in a column. Each empty cell, scanned bottom-up,
// pulls down the nearest token above it.
func (g *Grid) Collapse(column int) {
	if column < 0 || column >= g.columns {
		return
	}

	col := g.cells[column]
	for row := 0; row < g.rows-1; row++ {
		if col[row] != nil {
			continue
		}
		for upper := row + 1; upper < g.rows; upper++ {
			if col[upper] == nil {
				continue
			}
			col[row] = col[upper]
			col[upper] = nil
			col[row].Row = row
			break
		}
	}
}

// DispatchBottomRow removes row 0 and returns it, one slot per column.
// Empty cells produce nil slots. Each column is collapsed afterwards.
func (g *Grid) DispatchBottomRow() []*domain.Token {
	out := make([]*domain.Token, g.columns)
	for column := 0; column < g.columns; column++ {
		if token := g.cells[column][0]; token != nil {
			g.cells[column][0] = nil
			token.ClearPosition()
			out[column] = token
		}
		g.Collapse(column)
	}
	return out
}

// IsEmpty reports whether no cell holds a token
func (g *Grid) IsEmpty() bool {
	return g.Count() == 0
}

// Count returns the number of occupied cells
func (g *Grid) Count() int {
	n := 0
	for _, col := range g.cells {
		for _, t := range col {
			if t != nil {
				n++
			}
		}
	}
	return n
}

// Contiguous reports whether every column is gap-free from row 0 upward
func (g *Grid) Contiguous() bool {
	for _, col := range g.cells {
		gap := false
		for _, t := range col {
			if t == nil {
				gap = true
			} else if gap {
				return false
			}
		}
	}
	return true
}

// Snapshot deep-copies the matrix, position metadata included
func (g *Grid) Snapshot() [][]*domain.Token {
	return domain.CloneMatrix(g.cells)
}

// Restore overwrites the grid with clones of m
func (g *Grid) Restore(m [][]*domain.Token) error {
	if len(m) != g.columns {
		return fmt.Errorf("restore %d columns into %d: %w", len(m), g.columns, domain.ErrDimensionMismatch)
	}
	for c, col := range m {
		if len(col) != g.rows {
			return fmt.Errorf("restore column %d with %d rows into %d: %w", c, len(col), g.rows, domain.ErrDimensionMismatch)
		}
	}

	cells := domain.CloneMatrix(m)
	for c, col := range cells {
		for r, t := range col {
			if t != nil {
				t.Column, t.Row = c, r
			}
		}
	}
	g.cells = cells
	return nil
}

// Clear empties every cell
func (g *Grid) Clear() {
	g.cells = newMatrix(g.columns, g.rows)
}

func (g *Grid) inBounds(column, row int) bool {
	return column >= 0 && column < g.columns && row >= 0 && row < g.rows
}
