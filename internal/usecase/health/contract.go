package health

import "context"

// SourcePinger checks catalog source availability.
type SourcePinger interface {
	Ping(ctx context.Context) error
}

// CatalogCounter reports how many items the engine currently serves.
type CatalogCounter interface {
	CatalogSize() int
}
