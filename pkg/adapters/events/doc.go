// Package events provides the event bus and its observers.
//
// Implementations:
//   - memory: synchronous in-process channels, the bus the engine runs on
//   - redis: mirrors bus traffic into a Redis stream for display collaborators
package events
