package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/blockqueue/pkg/adapters/actor/walker"
	"github.com/aescanero/blockqueue/pkg/domain"
)

const corridorStage = `
id: "1-1"
name: corridor
grid:
  columns: 2
  rows: 2
inventory: [forward, MOVE_FORWARD, left]
map:
  - "#####"
  - "#.G.#"
  - "#.S.#"
  - "#####"
plan:
  - kind: forward
    column: 0
  - kind: forward
    column: 0
`

func TestParseStage(t *testing.T) {
	s, err := Parse([]byte(corridorStage))
	require.NoError(t, err)

	assert.Equal(t, "1-1", s.ID)
	assert.Equal(t, "corridor", s.Name)
	assert.Equal(t, GridSpec{Columns: 2, Rows: 2}, s.Grid)

	kinds, err := s.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []domain.Kind{domain.KindForward, domain.KindForward, domain.KindLeft}, kinds)

	steps, err := s.Steps()
	require.NoError(t, err)
	assert.Equal(t, []Step{{domain.KindForward, 0}, {domain.KindForward, 0}}, steps)

	m, err := s.TileMap()
	require.NoError(t, err)
	assert.Equal(t, walker.Point{X: 2, Y: 2}, m.Start())
}

func TestParseAppliesDefaults(t *testing.T) {
	s, err := Parse([]byte("inventory: [right]\n"))
	require.NoError(t, err)

	assert.Equal(t, "default", s.ID)
	assert.Equal(t, DefaultMap, s.Map)
	assert.Equal(t, GridSpec{}, s.Grid)

	_, err = s.TileMap()
	require.NoError(t, err)
}

func TestDefaultStage(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	kinds, err := s.Kinds()
	require.NoError(t, err)
	assert.Nil(t, kinds)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"yaml", "grid: [1, 2"},
		{"negative grid", "grid: {columns: -1}"},
		{"bad kind", "inventory: [jump]"},
		{"bad map", "map: [\"...\"]"},
		{"plan outside grid", "grid: {columns: 2}\nplan: [{kind: left, column: 2}]"},
		{"plan kind missing", "inventory: [left]\nplan: [{kind: right, column: 0}]"},
		{"plan overdraws", "inventory: [left]\nplan: [{kind: left, column: 0}, {kind: left, column: 0}]"},
		{"plan bad kind", "plan: [{kind: jump, column: 0}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(corridorStage), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "corridor", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
