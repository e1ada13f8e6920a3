package board

import (
	"github.com/aescanero/blockqueue/pkg/adapters/events/memory"
	"github.com/aescanero/blockqueue/pkg/domain"
	"go.uber.org/zap"
)

// Row is the execution queue for the current turn. Slots are consumed
// front to back, one external action per slot.
type Row struct {
	bus    *memory.Bus
	logger *zap.Logger
	sub    memory.Subscription

	slots   []*domain.Token
	pending bool
	done    func()

	// completions still owed by the actor for triggers dropped by Load
	orphans int
}

// NewRow creates an empty row listening for ActionEnd on bus
func NewRow(bus *memory.Bus, logger *zap.Logger) *Row {
	r := &Row{
		bus:    bus,
		logger: logger,
	}
	r.sub = bus.ActionEnd.Subscribe(r.onActionEnd)
	return r
}

// Load replaces the row content. Adopted tokens lose their grid position.
// A consume still awaiting ActionEnd is dropped and its completion absorbed.
func (r *Row) Load(tokens []*domain.Token) {
	if r.pending {
		r.orphans++
		r.pending = false
		r.done = nil
		r.logger.Debug("pending action orphaned by row load", zap.Int("orphans", r.orphans))
	}

	slots := make([]*domain.Token, len(tokens))
	for i, t := range tokens {
		if t != nil {
			t.ClearPosition()
		}
		slots[i] = t
	}
	r.slots = slots
}

// ConsumeFront triggers the action of the front slot and suspends until
// the actor raises ActionEnd, then discards the slot and calls done.
// An empty slot triggers KindNone and follows the same contract.
func (r *Row) ConsumeFront(done func()) error {
	if r.pending {
		return domain.ErrActionPending
	}
	kind, ok := r.Front()
	if !ok {
		return domain.ErrEmptyRow
	}

	r.pending = true
	r.done = done

	r.logger.Debug("consuming row front",
		zap.String("kind", kind.String()),
		zap.Int("remaining", len(r.slots)))

	r.bus.TurnStart.Raise(kind)
	r.bus.TriggerAction.Raise(kind)
	return nil
}

// onActionEnd matches completions to triggers in FIFO order, so completions
// owed for dropped triggers are absorbed before the pending one.
func (r *Row) onActionEnd(memory.Void) {
	if r.orphans > 0 {
		r.orphans--
		r.logger.Debug("absorbed orphaned action end",
			zap.Int("orphans", r.orphans),
			zap.Bool("pending", r.pending))
		return
	}
	if !r.pending {
		r.logger.Warn("action end without pending action")
		return
	}

	r.slots[0] = nil
	r.slots = r.slots[1:]
	r.pending = false

	done := r.done
	r.done = nil
	if done != nil {
		done()
	}
}

// Front returns the kind the next ConsumeFront triggers.
// Returns false when the row is empty.
func (r *Row) Front() (domain.Kind, bool) {
	if len(r.slots) == 0 {
		return domain.KindNone, false
	}
	if t := r.slots[0]; t != nil {
		return t.Kind, true
	}
	return domain.KindNone, true
}

// Orphans returns the number of completions still owed for dropped triggers
func (r *Row) Orphans() int {
	return r.orphans
}

// IsEmpty reports whether no slot is left
func (r *Row) IsEmpty() bool {
	return len(r.slots) == 0
}

// Len returns the number of remaining slots
func (r *Row) Len() int {
	return len(r.slots)
}

// Pending reports whether a consume is awaiting ActionEnd
func (r *Row) Pending() bool {
	return r.pending
}

// Slots returns clones of the remaining slots
func (r *Row) Slots() []*domain.Token {
	return domain.CloneTokens(r.slots)
}

// Close stops listening for ActionEnd
func (r *Row) Close() {
	r.bus.ActionEnd.Unsubscribe(r.sub)
}
