// Package stage loads stage definitions from YAML files.
//
// A stage file may set:
//   - the grid dimensions, overriding GRID_COLUMNS and GRID_ROWS
//   - the inventory templates, overriding INVENTORY
//   - the walker tile map
//   - a placement plan used by autoplay
package stage
