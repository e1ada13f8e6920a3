// Package orchestrator implements the turn state machine.
//
// The manager coordinates an attempt by:
//   - Capturing a snapshot of inventory and grid on GameStart
//   - Dispatching the grid's bottom row into the execution row on TurnEnd
//   - Consuming the row one action at a time, never more than one in flight
//   - Restoring the snapshot on GameFailed
//
// The validator checks grid dimensions, layout and inventory templates
// before a manager is built.
package orchestrator
