package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aescanero/blockqueue/pkg/adapters/events/memory"
	"github.com/aescanero/blockqueue/pkg/domain"
)

var corridor = []string{
	"#####",
	"#.G.#",
	"#.^.#",
	"#.S.#",
	"#####",
}

type outcome struct {
	ends, failed, cleared int
}

func newWalker(t *testing.T, rows []string) (*Walker, *memory.Bus, *outcome) {
	t.Helper()
	m, err := ParseMap(rows)
	require.NoError(t, err)

	bus := memory.NewBus()
	w := NewWalker(bus, m, zaptest.NewLogger(t))

	out := &outcome{}
	bus.ActionEnd.Subscribe(func(memory.Void) { out.ends++ })
	bus.GameFailed.Subscribe(func(memory.Void) { out.failed++ })
	bus.GameClear.Subscribe(func(memory.Void) { out.cleared++ })
	return w, bus, out
}

func TestWalkerReachesGoal(t *testing.T) {
	w, bus, out := newWalker(t, corridor)

	bus.TriggerAction.Raise(domain.KindForward)
	assert.Equal(t, Point{2, 2}, w.State().Position)
	assert.Equal(t, 0, out.failed, "spikes are down on the first map action")

	bus.TriggerAction.Raise(domain.KindForward)
	state := w.State()
	assert.Equal(t, Point{2, 1}, state.Position)
	assert.True(t, state.Cleared)
	assert.True(t, state.SpikesRaised)
	assert.Equal(t, 1, out.cleared)
	assert.Equal(t, 2, out.ends)

	// a cleared walker still answers every trigger
	bus.TriggerAction.Raise(domain.KindBackward)
	assert.Equal(t, Point{2, 1}, w.State().Position)
	assert.Equal(t, 3, out.ends)
}

func TestWalkerRaisedSpikesFail(t *testing.T) {
	w, bus, out := newWalker(t, corridor)

	bus.TriggerAction.Raise(domain.KindNone)
	bus.TriggerAction.Raise(domain.KindNone)
	require.True(t, w.State().SpikesRaised)
	assert.Equal(t, Point{2, 3}, w.State().Position)

	bus.TriggerAction.Raise(domain.KindForward)

	assert.Equal(t, 1, out.failed)
	assert.Equal(t, 3, out.ends)

	state := w.State()
	assert.Equal(t, Point{2, 3}, state.Position, "failure returns the walker to the start")
	assert.False(t, state.SpikesRaised)
}

func TestWalkerLeavingFloorFails(t *testing.T) {
	w, bus, out := newWalker(t, []string{"S.G"})

	bus.TriggerAction.Raise(domain.KindForward)

	assert.Equal(t, 1, out.failed)
	assert.Equal(t, 1, out.ends)
	assert.Equal(t, Point{0, 0}, w.State().Position)
}

func TestWalkerBlockedByWall(t *testing.T) {
	w, bus, out := newWalker(t, corridor)

	bus.TriggerAction.Raise(domain.KindBackward)
	assert.Equal(t, Point{2, 3}, w.State().Position)

	bus.TriggerAction.Raise(domain.KindLeft)
	assert.Equal(t, Point{1, 3}, w.State().Position)

	bus.TriggerAction.Raise(domain.KindLeft)
	assert.Equal(t, Point{1, 3}, w.State().Position)

	assert.Equal(t, 0, out.failed)
	assert.Equal(t, 3, out.ends)
}

func TestWalkerClose(t *testing.T) {
	w, bus, out := newWalker(t, corridor)
	w.Close()

	bus.TriggerAction.Raise(domain.KindForward)
	assert.Equal(t, 0, out.ends)
	assert.Equal(t, Point{2, 3}, w.State().Position)
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"empty", nil},
		{"no start", []string{"..G"}},
		{"two starts", []string{"S.S.G"}},
		{"no goal", []string{"S.."}},
		{"unknown tile", []string{"S.x.G"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap(tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestMapAtOutsideIsVoid(t *testing.T) {
	m, err := ParseMap([]string{"S.G", "#"})
	require.NoError(t, err)

	assert.Equal(t, TileVoid, m.At(Point{-1, 0}))
	assert.Equal(t, TileVoid, m.At(Point{2, 1}))
	assert.Equal(t, TileWall, m.At(Point{0, 1}))
	assert.Equal(t, TileGoal, m.At(Point{2, 0}))
}
