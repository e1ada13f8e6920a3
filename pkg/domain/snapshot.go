package domain

// Snapshot is a value copy of the inventory and grid taken when an
// attempt starts. Grid is indexed [column][row].
type Snapshot struct {
	Inventory []*Token   `json:"inventory"`
	Grid      [][]*Token `json:"grid"`
}

// Clone deep-copies the snapshot so later mutation cannot leak into it
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Inventory: CloneTokens(s.Inventory),
		Grid:      CloneMatrix(s.Grid),
	}
}

// CloneTokens deep-copies a token list, nil entries included
func CloneTokens(tokens []*Token) []*Token {
	if tokens == nil {
		return nil
	}
	out := make([]*Token, len(tokens))
	for i, t := range tokens {
		out[i] = t.Clone()
	}
	return out
}

// CloneMatrix deep-copies a [column][row] token matrix
func CloneMatrix(m [][]*Token) [][]*Token {
	if m == nil {
		return nil
	}
	out := make([][]*Token, len(m))
	for c, col := range m {
		out[c] = CloneTokens(col)
	}
	return out
}
