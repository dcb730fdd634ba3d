package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/calliope-systems/shelfrank/internal/domain/catalog"
)

// FileSource loads catalog snapshots from a JSON file on disk. The file
// holds either a bare array of records or an object with an "items" key.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a file-backed catalog source.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{path: path, logger: logger}
}

// Load reads and hydrates the catalog file.
func (s *FileSource) Load(ctx context.Context) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	items, err := decodeRecords(data, s.logger)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.path, err)
	}

	s.logger.Info("catalog loaded from file",
		zap.String("path", s.path), zap.Int("items", len(items)))
	return items, nil
}

// Ping checks that the catalog file is still readable.
func (s *FileSource) Ping(_ context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("catalog file: %w", err)
	}
	return nil
}

// decodeRecords parses the wire payload and hydrates each record.
func decodeRecords(data []byte, logger *zap.Logger) ([]catalog.Item, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		// Wrapped form: {"items": [...]}
		var wrapped struct {
			Items []Record `json:"items"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, err
		}
		records = wrapped.Items
	}

	items := make([]catalog.Item, 0, len(records))
	for _, r := range records {
		items = append(items, r.ToItem(logger))
	}
	return items, nil
}
