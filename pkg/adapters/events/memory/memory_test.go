package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/blockqueue/pkg/domain"
)

func TestRaiseWithoutSubscribers(t *testing.T) {
	ch := NewChannel[Void](domain.EventTypeTurnEnd)
	assert.NotPanics(t, func() { ch.Raise(Void{}) })
}

func TestUnsubscribedHandlerNeverRuns(t *testing.T) {
	ch := NewChannel[Void](domain.EventTypeActionEnd)
	calls := 0
	sub := ch.Subscribe(func(Void) { calls++ })
	require.True(t, ch.Unsubscribe(sub))

	ch.Raise(Void{})
	assert.Equal(t, 0, calls)
	assert.False(t, ch.Unsubscribe(sub))
}

func TestHandlersRunInSubscriptionOrder(t *testing.T) {
	ch := NewChannel[domain.Kind](domain.EventTypeTriggerAction)
	var order []string
	ch.Subscribe(func(k domain.Kind) { order = append(order, "a:"+k.String()) })
	ch.Subscribe(func(k domain.Kind) { order = append(order, "b:"+k.String()) })

	ch.Raise(domain.KindLeft)
	assert.Equal(t, []string{"a:left", "b:left"}, order)
}

func TestDuplicateSubscriptionRunsTwice(t *testing.T) {
	ch := NewChannel[Void](domain.EventTypeGameClear)
	calls := 0
	h := func(Void) { calls++ }
	first := ch.Subscribe(h)
	ch.Subscribe(h)

	ch.Raise(Void{})
	assert.Equal(t, 2, calls)

	ch.Unsubscribe(first)
	ch.Raise(Void{})
	assert.Equal(t, 3, calls)
}

func TestChangesDuringRaiseApplyNextRaise(t *testing.T) {
	ch := NewChannel[Void](domain.EventTypeTurnEnd)
	lateCalls := 0
	var selfSub Subscription
	selfCalls := 0

	selfSub = ch.Subscribe(func(Void) {
		selfCalls++
		ch.Unsubscribe(selfSub)
		ch.Subscribe(func(Void) { lateCalls++ })
	})
	ch.Subscribe(func(Void) {})

	ch.Raise(Void{})
	assert.Equal(t, 1, selfCalls)
	assert.Equal(t, 0, lateCalls)

	ch.Raise(Void{})
	assert.Equal(t, 1, selfCalls)
	assert.Equal(t, 1, lateCalls)
}

func TestUnsubscribeOnlyMatchesOwnChannel(t *testing.T) {
	a := NewChannel[Void](domain.EventTypeGameStart)
	b := NewChannel[Void](domain.EventTypeGameFailed)
	subA := a.Subscribe(func(Void) {})
	b.Subscribe(func(Void) {})

	assert.False(t, b.Unsubscribe(subA))
	assert.Equal(t, 1, b.Len())
}

func TestBusTap(t *testing.T) {
	bus := NewBus()
	var seen []domain.Event
	cancel := bus.Tap(func(e domain.Event) { seen = append(seen, e) })

	bus.GameStart.Raise(Void{})
	bus.TriggerAction.Raise(domain.KindForward)
	bus.ActionEnd.Raise(Void{})

	require.Len(t, seen, 3)
	assert.Equal(t, domain.EventTypeGameStart, seen[0].Type)
	assert.Equal(t, domain.EventTypeTriggerAction, seen[1].Type)
	assert.Equal(t, domain.KindForward, seen[1].Kind)
	assert.Equal(t, uint64(3), seen[2].Seq)

	cancel()
	bus.TurnEnd.Raise(Void{})
	assert.Len(t, seen, 3)
	assert.Equal(t, 0, bus.TurnEnd.Len())
}
