package memory

import (
	"time"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// Void is the payload of channels that carry no data
type Void = struct{}

// Bus groups the channels the engine and its actors talk over
type Bus struct {
	GameStart        *Channel[Void]
	GameFailed       *Channel[Void]
	GameClear        *Channel[Void]
	TurnStart        *Channel[domain.Kind]
	TurnEnd          *Channel[Void]
	TriggerAction    *Channel[domain.Kind]
	ActionEnd        *Channel[Void]
	TriggerMapAction *Channel[Void]
}

// NewBus creates a bus with empty channels
func NewBus() *Bus {
	return &Bus{
		GameStart:        NewChannel[Void](domain.EventTypeGameStart),
		GameFailed:       NewChannel[Void](domain.EventTypeGameFailed),
		GameClear:        NewChannel[Void](domain.EventTypeGameClear),
		TurnStart:        NewChannel[domain.Kind](domain.EventTypeTurnStart),
		TurnEnd:          NewChannel[Void](domain.EventTypeTurnEnd),
		TriggerAction:    NewChannel[domain.Kind](domain.EventTypeTriggerAction),
		ActionEnd:        NewChannel[Void](domain.EventTypeActionEnd),
		TriggerMapAction: NewChannel[Void](domain.EventTypeTriggerMapAction),
	}
}

// Tap subscribes fn to every channel. Seq is local to this observer.
// The returned function removes all of its subscriptions.
func (b *Bus) Tap(fn func(domain.Event)) (cancel func()) {
	var seq uint64
	emit := func(t domain.EventType, k domain.Kind) {
		seq++
		fn(domain.Event{Type: t, Kind: k, Seq: seq, Timestamp: time.Now()})
	}

	var undo []func()
	for _, ch := range b.voidChannels() {
		ch := ch
		sub := ch.Subscribe(func(Void) { emit(ch.Name(), domain.KindNone) })
		undo = append(undo, func() { ch.Unsubscribe(sub) })
	}
	for _, ch := range b.kindChannels() {
		ch := ch
		sub := ch.Subscribe(func(k domain.Kind) { emit(ch.Name(), k) })
		undo = append(undo, func() { ch.Unsubscribe(sub) })
	}

	return func() {
		for _, u := range undo {
			u()
		}
	}
}

// Close drops every subscription on every channel
func (b *Bus) Close() {
	for _, ch := range b.voidChannels() {
		ch.Close()
	}
	for _, ch := range b.kindChannels() {
		ch.Close()
	}
}

func (b *Bus) voidChannels() []*Channel[Void] {
	return []*Channel[Void]{
		b.GameStart, b.GameFailed, b.GameClear,
		b.TurnEnd, b.ActionEnd, b.TriggerMapAction,
	}
}

func (b *Bus) kindChannels() []*Channel[domain.Kind] {
	return []*Channel[domain.Kind]{b.TurnStart, b.TriggerAction}
}
