package memory

import (
	"sync"

	"github.com/aescanero/blockqueue/pkg/domain"
)

// Handler receives the payload of a raise
type Handler[T any] func(payload T)

// Subscription identifies a single Subscribe call
type Subscription struct {
	channel domain.EventType
	id      uint64
}

type entry[T any] struct {
	sub     Subscription
	handler Handler[T]
}

// Channel is a synchronous publish-subscribe channel.
// Subscribing the same handler twice makes it run twice per raise.
type Channel[T any] struct {
	name domain.EventType

	mu          sync.RWMutex
	nextID      uint64
	subscribers []entry[T]
}

// NewChannel creates an empty channel
func NewChannel[T any](name domain.EventType) *Channel[T] {
	return &Channel[T]{name: name}
}

// Name returns the channel identity
func (c *Channel[T]) Name() domain.EventType {
	return c.name
}

// Subscribe appends a handler to the channel
func (c *Channel[T]) Subscribe(handler Handler[T]) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	sub := Subscription{channel: c.name, id: c.nextID}
	c.subscribers = append(c.subscribers, entry[T]{sub: sub, handler: handler})
	return sub
}

// Unsubscribe removes the first entry matching sub.
// Returns false if it was not subscribed.
func (c *Channel[T]) Unsubscribe(sub Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.subscribers {
		if e.sub == sub {
			c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Raise invokes the handlers subscribed when the raise began, in
// subscription order. Changes made by a handler apply to the next raise.
func (c *Channel[T]) Raise(payload T) {
	c.mu.RLock()
	handlers := make([]Handler[T], len(c.subscribers))
	for i, e := range c.subscribers {
		handlers[i] = e.handler
	}
	c.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Len returns the number of subscriptions
func (c *Channel[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscribers)
}

// Close drops every subscription
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = nil
}
