// Package domain holds the value types shared by the puzzle engine.
//
// It defines:
//   - Kind, the closed set of actions a token can carry
//   - Token, the placeable unit moved between inventory, grid and row
//   - Event, the flattened record observers receive from the event bus
//   - the sentinel errors returned by grid and row operations
package domain
