// Package domain holds sentinel errors shared across layers.
package domain

import "errors"

// Sentinel errors for error handling via errors.Is.
var (
	// ErrNoSource means the engine was built from a static catalog and has
	// no backend to reload from.
	ErrNoSource = errors.New("catalog has no reloadable source")
	// ErrEmptyCatalog means a source load produced zero items.
	ErrEmptyCatalog = errors.New("catalog source returned no items")
)
