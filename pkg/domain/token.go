package domain

import "github.com/google/uuid"

// NoPosition marks a token that is not resident in a grid cell
const NoPosition = -1

// Token is a placed unit carrying one action kind.
// A token is owned by exactly one container at a time.
type Token struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Column int    `json:"column"`
	Row    int    `json:"row"`
}

// NewToken creates a token with a fresh id and no grid position
func NewToken(kind Kind) *Token {
	return &Token{
		ID:     uuid.NewString(),
		Kind:   kind,
		Column: NoPosition,
		Row:    NoPosition,
	}
}

// Clone returns an independent copy, position metadata included
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// InGrid reports whether the token records a grid position
func (t *Token) InGrid() bool {
	return t.Column != NoPosition && t.Row != NoPosition
}

// ClearPosition drops grid metadata when the token leaves the grid
func (t *Token) ClearPosition() {
	t.Column = NoPosition
	t.Row = NoPosition
}
