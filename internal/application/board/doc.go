// Package board holds the mutable puzzle state.
//
//   - Grid: bounded column/row matrix with first-fit placement and gravity collapse
//   - Inventory: the pool tokens are drawn from and returned to
//   - Row: the FIFO execution queue filled from the grid's bottom row
//
// None of these types lock. They are driven from a single control thread.
package board
