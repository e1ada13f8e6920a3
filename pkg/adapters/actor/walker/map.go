package walker

import (
	"fmt"
	"strings"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// Tile is one map cell
type Tile byte

const (
	TileVoid  Tile = ' '
	TileFloor Tile = '.'
	TileWall  Tile = '#'
	TileStart Tile = 'S'
	TileGoal  Tile = 'G'
	TileSpike Tile = '^'
)

// Point is a map coordinate. Y grows southwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the point one move of kind away
func (p Point) Step(kind domain.Kind) Point {
	switch kind {
	case domain.KindForward:
		return Point{p.X, p.Y - 1}
	case domain.KindBackward:
		return Point{p.X, p.Y + 1}
	case domain.KindLeft:
		return Point{p.X - 1, p.Y}
	case domain.KindRight:
		return Point{p.X + 1, p.Y}
	default:
		return p
	}
}

// Map is an immutable tile map
type Map struct {
	tiles [][]Tile
	start Point
	goals int
}

// ParseMap parses rows of tiles, north first.
// Rows may differ in length; missing cells are void.
func ParseMap(rows []string) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("map is empty")
	}

	m := &Map{tiles: make([][]Tile, len(rows))}
	starts := 0

	for y, row := range rows {
		line := strings.TrimRight(row, "\r")
		m.tiles[y] = make([]Tile, len(line))
		for x := 0; x < len(line); x++ {
			t := Tile(line[x])
			switch t {
			case TileStart:
				starts++
				m.start = Point{x, y}
			case TileGoal:
				m.goals++
			case TileVoid, TileFloor, TileWall, TileSpike:
			default:
				return nil, fmt.Errorf("row %d col %d: unknown tile %q", y, x, line[x])
			}
			m.tiles[y][x] = t
		}
	}

	if starts != 1 {
		return nil, fmt.Errorf("map needs exactly one start tile, found %d", starts)
	}
	if m.goals == 0 {
		return nil, fmt.Errorf("map needs at least one goal tile")
	}

	return m, nil
}

// At returns the tile at p, void outside the map
func (m *Map) At(p Point) Tile {
	if p.Y < 0 || p.Y >= len(m.tiles) {
		return TileVoid
	}
	row := m.tiles[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return TileVoid
	}
	return row[p.X]
}

// Start returns the start point
func (m *Map) Start() Point {
	return m.start
}
