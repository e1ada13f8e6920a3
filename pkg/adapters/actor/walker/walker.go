package walker

import (
	"sync"

	"github.com/aescanero/blockqueue/pkg/adapters/events/memory"
	"github.com/aescanero/blockqueue/pkg/domain"
	"go.uber.org/zap"
)

// Walker answers TriggerAction by moving a character across a Map
type Walker struct {
	bus    *memory.Bus
	tiles  *Map
	logger *zap.Logger

	mu         sync.RWMutex
	pos        Point
	mapActions int
	spikesUp   bool
	cleared    bool

	unsubscribe []func()
}

// State is a copy of the walker position and map state
type State struct {
	Position     Point `json:"position"`
	SpikesRaised bool  `json:"spikes_raised"`
	Cleared      bool  `json:"cleared"`
}

// NewWalker places a character on the start tile and subscribes it to bus
func NewWalker(bus *memory.Bus, tiles *Map, logger *zap.Logger) *Walker {
	w := &Walker{
		bus:    bus,
		tiles:  tiles,
		logger: logger,
		pos:    tiles.Start(),
	}

	trigger := bus.TriggerAction.Subscribe(w.onTriggerAction)
	mapAction := bus.TriggerMapAction.Subscribe(func(memory.Void) { w.onMapAction() })
	failed := bus.GameFailed.Subscribe(func(memory.Void) { w.Reset() })

	w.unsubscribe = []func(){
		func() { bus.TriggerAction.Unsubscribe(trigger) },
		func() { bus.TriggerMapAction.Unsubscribe(mapAction) },
		func() { bus.GameFailed.Unsubscribe(failed) },
	}
	return w
}

// Reset returns the character to the start tile and lowers the spikes
func (w *Walker) Reset() {
	w.mu.Lock()
	w.pos = w.tiles.Start()
	w.mapActions = 0
	w.spikesUp = false
	w.cleared = false
	w.mu.Unlock()

	w.logger.Debug("walker reset")
}

// State returns a copy of the walker state
func (w *Walker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return State{
		Position:     w.pos,
		SpikesRaised: w.spikesUp,
		Cleared:      w.cleared,
	}
}

// Close unsubscribes the walker
func (w *Walker) Close() {
	for _, u := range w.unsubscribe {
		u()
	}
	w.unsubscribe = nil
}

func (w *Walker) onTriggerAction(kind domain.Kind) {
	defer w.bus.ActionEnd.Raise(memory.Void{})

	w.mu.Lock()
	if w.cleared {
		w.mu.Unlock()
		return
	}
	from := w.pos
	next := from.Step(kind)
	if w.tiles.At(next) == TileWall {
		next = from
	}
	w.pos = next
	w.mu.Unlock()

	w.logger.Debug("walker moved",
		zap.String("kind", kind.String()),
		zap.Int("x", next.X),
		zap.Int("y", next.Y))

	w.bus.TriggerMapAction.Raise(memory.Void{})

	w.mu.RLock()
	tile := w.tiles.At(next)
	spikesUp := w.spikesUp
	w.mu.RUnlock()

	switch {
	case tile == TileVoid:
		w.logger.Info("walker left the floor", zap.Int("x", next.X), zap.Int("y", next.Y))
		w.bus.GameFailed.Raise(memory.Void{})
	case tile == TileSpike && spikesUp:
		w.logger.Info("walker hit raised spikes", zap.Int("x", next.X), zap.Int("y", next.Y))
		w.bus.GameFailed.Raise(memory.Void{})
	case tile == TileGoal:
		w.mu.Lock()
		w.cleared = true
		w.mu.Unlock()
		w.logger.Info("walker reached the goal")
		w.bus.GameClear.Raise(memory.Void{})
	}
}

// onMapAction toggles the spikes on every other map action
func (w *Walker) onMapAction() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mapActions++
	if w.mapActions%2 == 0 {
		w.spikesUp = !w.spikesUp
	}
}
