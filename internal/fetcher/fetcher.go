// Package fetcher retrieves rendered documents for the engine.
//
// Implementations return a Response for every HTTP status they receive; only
// failures to obtain a response at all are returned as errors. Deciding what a
// non-2xx status means is left to the caller. All implementations are safe for
// concurrent use.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// Fetcher is the interface for all request fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New builds the fetcher selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "", "http":
		return NewHTTPFetcher(cfg, logger)
	case "browser":
		return NewBrowserFetcher(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Fetcher.Type)
	}
}
