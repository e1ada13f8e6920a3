package board

import "math"

// Layout describes the on-screen cell geometry input devices resolve against
type Layout struct {
	CellWidth float64
	Spacing   float64
}

// Width returns the total width of columns cells
func (l Layout) Width(columns int) float64 {
	return float64(columns) * (l.CellWidth + l.Spacing)
}

// ResolveColumn maps a local x coordinate, centred on the grid, to a column.
// Returns false when x lies outside the grid.
func ResolveColumn(x, width float64, columns int) (int, bool) {
	if columns < 1 || width <= 0 {
		return -1, false
	}
	if x < -width/2 || x > width/2 {
		return -1, false
	}

	cellWidth := width / float64(columns)
	col := int(math.Floor((x + width/2) / cellWidth))
	if col < 0 {
		col = 0
	}
	if col > columns-1 {
		col = columns - 1
	}
	return col, true
}
