// Package storage exports crawled catalog records.
package storage

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists a batch of items.
	Store(items []*types.Item) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend selected by cfg.Type. name is the base file name
// (without extension) used by file backends.
func New(ctx context.Context, cfg *config.StorageConfig, name string, logger *slog.Logger) (Storage, error) {
	if cfg.Type == "mongodb" {
		return NewMongoStorage(ctx, cfg.MongoURI, cfg.Database, cfg.Collection, logger)
	}
	return NewFileStorage(cfg.Type, cfg.OutputPath, name, logger)
}
