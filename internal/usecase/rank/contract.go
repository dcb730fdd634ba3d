package rank

import "github.com/calliope-systems/shelfrank/internal/usecase/compact"

// Projector supplies the compacted catalog view the scorer works against
// and the savings estimate for prompt payloads.
type Projector interface {
	// Minimal returns the projection aligned index-for-index with the
	// catalog the service was built with.
	Minimal() []compact.MinimalItem
	// OptimizedByID returns compact representations for the given ids.
	OptimizedByID(ids []string) []compact.MinimalItem
	// Savings estimates the token reduction for a result set of n items.
	Savings(n int) compact.Savings
}
