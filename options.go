package shelfrank

import (
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
)

type engineConfig struct {
	items     []catalog.Item
	source    Source
	defaults  params.Config
	estimator compact.TokenEstimator
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithCatalog seeds the engine with a static catalog snapshot.
func WithCatalog(items []catalog.Item) Option {
	return func(c *engineConfig) {
		c.items = items
	}
}

// WithSource attaches a catalog source. The engine loads from it at
// construction when no static catalog was given, and on every Reload.
func WithSource(source Source) Option {
	return func(c *engineConfig) {
		c.source = source
	}
}

// WithSearchDefaults overrides the built-in search parameters. Per-call
// overrides still apply on top of these.
func WithSearchDefaults(defaults params.Config) Option {
	return func(c *engineConfig) {
		c.defaults = defaults
	}
}

// WithTokenEstimator sets the estimator used for token statistics.
// Default is the bytes/4 heuristic.
func WithTokenEstimator(est compact.TokenEstimator) Option {
	return func(c *engineConfig) {
		c.estimator = est
	}
}

// WithLogger sets the logger. Default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
