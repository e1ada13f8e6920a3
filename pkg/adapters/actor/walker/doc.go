// Package walker implements a reference action actor.
//
// The walker moves a character over a tile map, one step per triggered
// action:
//   - forward moves north, backward south, left west, right east
//   - none waits in place
//   - walls block movement
//   - every move raises TriggerMapAction, which drives the spike cycle
//   - stepping into the void or onto a raised spike raises GameFailed
//   - reaching the goal raises GameClear
//
// Every trigger is answered with exactly one ActionEnd.
package walker
