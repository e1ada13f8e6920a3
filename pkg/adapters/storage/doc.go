// Package storage provides snapshot storage implementations.
//
// Implementations:
//   - memory: in-process map with deep copies on save and load
package storage
