package shelfrank

import (
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
	"github.com/calliope-systems/shelfrank/internal/domain/search/field"
	"github.com/calliope-systems/shelfrank/internal/domain/search/params"
	"github.com/calliope-systems/shelfrank/internal/domain/search/result"
	catalogrepo "github.com/calliope-systems/shelfrank/internal/repository/catalog"
	"github.com/calliope-systems/shelfrank/internal/usecase/compact"
	"github.com/calliope-systems/shelfrank/internal/usecase/rank"
)

// Aliases re-export the domain types SDK consumers need, so the module is
// usable without reaching into internal packages.
type (
	// Item is one catalog entry of any kind.
	Item = catalog.Item
	// Kind discriminates catalog item variants.
	Kind = catalog.Kind
	// Core holds the fields every item shares.
	Core = catalog.Core
	// Format is one circulating form of an item.
	Format = catalog.Format

	// BookItem through ThingItem are the catalog item variants.
	BookItem      = catalog.BookItem
	MediaItem     = catalog.MediaItem
	GameItem      = catalog.GameItem
	EquipmentItem = catalog.EquipmentItem
	ComicItem     = catalog.ComicItem
	ThingItem     = catalog.ThingItem

	// SearchOptions carries optional per-call parameter overrides; the
	// zero value means "use the engine defaults".
	SearchOptions = params.Config
	// Result is one ranked hit.
	Result = result.Result
	// MatchedField names an item field a keyword landed on.
	MatchedField = field.Field
	// Summary is the per-query diagnostic report.
	Summary = rank.Summary
	// PromptPayload is the compacted result set for prompt construction.
	PromptPayload = rank.PromptPayload
	// MinimalItem is the short-key projection of a catalog item.
	MinimalItem = compact.MinimalItem
	// Stats summarizes catalog compaction sizes.
	Stats = compact.Stats
	// Savings estimates token reduction for a result set.
	Savings = compact.Savings

	// RedisSource loads catalogs from a Redis key; RedisSourceConfig
	// holds its connection parameters.
	RedisSource       = catalogrepo.RedisSource
	RedisSourceConfig = catalogrepo.RedisConfig
)

// NewFileSource returns a Source reading a JSON catalog file.
func NewFileSource(path string, logger *zap.Logger) Source {
	return catalogrepo.NewFileSource(path, logger)
}

// NewRedisSource returns a Source reading the catalog from a Redis key.
func NewRedisSource(cfg RedisSourceConfig, logger *zap.Logger) (*RedisSource, error) {
	return catalogrepo.NewRedisSource(cfg, logger)
}
