package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
)

// RedisConfig holds connection parameters for a Redis catalog source.
type RedisConfig struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	Key      string
}

// RedisSource loads catalog snapshots from a single Redis key holding the
// JSON payload. A live backend makes catalog reloads meaningful: the
// publishing side overwrites the key, the engine re-reads it on demand.
type RedisSource struct {
	client rueidis.Client
	key    string
	logger *zap.Logger
}

// NewRedisSource creates a Redis-backed catalog source.
func NewRedisSource(cfg RedisConfig, logger *zap.Logger) (*RedisSource, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &RedisSource{client: client, key: cfg.Key, logger: logger}, nil
}

// Load fetches and hydrates the catalog payload.
func (s *RedisSource) Load(ctx context.Context) ([]catalog.Item, error) {
	cmd := s.client.B().Get().Key(s.key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, fmt.Errorf("catalog key %q not found", s.key)
		}
		return nil, fmt.Errorf("get catalog %q: %w", s.key, err)
	}

	items, err := decodeRecords(data, s.logger)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", s.key, err)
	}

	s.logger.Info("catalog loaded from redis",
		zap.String("key", s.key), zap.Int("items", len(items)))
	return items, nil
}

// Ping checks connectivity.
func (s *RedisSource) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the backend responds or timeout expires.
func (s *RedisSource) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for catalog backend: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Close shuts down the client.
func (s *RedisSource) Close() {
	s.client.Close()
}
