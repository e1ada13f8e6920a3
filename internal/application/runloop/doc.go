// Package runloop provides the single control thread the engine runs on.
//
// The loop owns one goroutine that:
//   - Executes every core call posted with Post or Do, in submission order
//   - Runs timers scheduled with AfterFunc back on the same goroutine
//   - Stops accepting work once Shutdown begins
//
// The watchdog periodically inspects the orchestrator from the loop and
// reports actions that never completed.
package runloop
