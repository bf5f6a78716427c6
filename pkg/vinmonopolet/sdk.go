// Package vinmonopolet provides a public SDK for reading the Vinmonopolet
// product catalog: the category overview, filtered product listings and
// single product pages.
//
// Example usage:
//
//	client, err := vinmonopolet.New(vinmonopolet.WithMaxPages(50))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	products, err := client.GetProductsByFilters(ctx, vinmonopolet.Filters{25: "Alkoholfritt"})
//
// Every call either returns its complete result or an error, never both.
package vinmonopolet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/engine"
	"github.com/IshaanNene/vinmonopolet/internal/fetcher"
	"github.com/IshaanNene/vinmonopolet/internal/observability"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

type (
	// Category is one entry of the category overview.
	Category = catalog.Category
	// Product is one product card of a listing page.
	Product = catalog.ProductSummary
	// ProductDetail is the full attribute set of a product page.
	ProductDetail = catalog.ProductDetail
	// Filters maps filter ids to filter values.
	Filters = catalog.FilterSet
	// Fetcher retrieves pages; supply one with WithFetcher to control transport.
	Fetcher = fetcher.Fetcher
	// Config is the full crawler configuration.
	Config = config.Config
	// Metrics holds the Prometheus counters of a client.
	Metrics = observability.Metrics
)

// Errors callers can match with errors.Is.
var (
	ErrTransport     = types.ErrTransport
	ErrNoCategories  = types.ErrNoCategories
	ErrNoProductData = types.ErrNoProductData
	ErrMissingField  = types.ErrMissingField
	ErrMalformed     = types.ErrMalformedField
	ErrSKUMismatch   = types.ErrSKUMismatch
	ErrPageLimit     = types.ErrPageLimit
	ErrNoFilters     = types.ErrNoFilters
)

// Result carries the outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// Client is the high-level API for using the crawler as a library.
// It is safe for concurrent use.
type Client struct {
	cfg       *config.Config
	engine    *engine.Engine
	fetcher   fetcher.Fetcher
	ownsFetch bool
	logger    *slog.Logger
	metrics   *observability.Metrics
}

type settings struct {
	cfg     *config.Config
	fetcher fetcher.Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Client.
type Option func(*settings)

// WithConfig replaces the default configuration. Options applied after it
// still modify the given config.
func WithConfig(cfg *Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithFetcher supplies the page fetcher. The client does not close it.
func WithFetcher(f Fetcher) Option {
	return func(s *settings) { s.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// NewMetrics creates a metrics set for WithMetrics.
func NewMetrics(logger *slog.Logger) *Metrics {
	return observability.NewMetrics(logger)
}

// DefaultConfig returns the configuration for www.vinmonopolet.no.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// WithMetrics records Prometheus counters into m.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithBaseURL points the client at another host serving the same markup.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) { s.cfg.Site.BaseURL = baseURL }
}

// WithMaxPages bounds listing crawls; 0 disables the limit.
func WithMaxPages(n int) Option {
	return func(s *settings) { s.cfg.Site.MaxPages = n }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.cfg.Fetcher.RequestTimeout = d }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.cfg.Fetcher.UserAgents = []string{ua} }
}

// WithBrowser renders pages in headless Chromium instead of plain HTTP.
func WithBrowser(stealth bool) Option {
	return func(s *settings) {
		s.cfg.Fetcher.Type = "browser"
		s.cfg.Fetcher.Stealth = stealth
	}
}

// WithVerbose enables debug-level logging on the default logger.
func WithVerbose() Option {
	return func(s *settings) { s.cfg.Logging.Level = "debug" }
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	s := &settings{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		prev := s.cfg
		opt(s)
		if s.cfg == nil {
			s.cfg = prev
		}
	}

	if err := config.Validate(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if s.logger == nil {
		level := slog.LevelInfo
		if s.cfg.Logging.Level == "debug" {
			level = slog.LevelDebug
		}
		s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	c := &Client{cfg: s.cfg, logger: s.logger, metrics: s.metrics, fetcher: s.fetcher}
	if c.fetcher == nil {
		f, err := fetcher.New(s.cfg, s.logger)
		if err != nil {
			return nil, fmt.Errorf("create fetcher: %w", err)
		}
		c.fetcher = f
		c.ownsFetch = true
	}

	var engOpts []engine.Option
	if s.metrics != nil {
		engOpts = append(engOpts, engine.WithMetrics(s.metrics))
	}
	eng, err := engine.New(s.cfg, c.fetcher, s.logger, engOpts...)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	c.engine = eng
	return c, nil
}

// GetCategories returns the category list of the overview page.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	return c.engine.Categories(ctx)
}

// GetProductsByFilters returns every product matching filters across all
// listing pages, in page order.
func (c *Client) GetProductsByFilters(ctx context.Context, filters Filters) ([]Product, error) {
	return c.engine.ProductsByFilters(ctx, filters)
}

// GetProductDetails returns the product page of sku.
func (c *Client) GetProductDetails(ctx context.Context, sku int) (*ProductDetail, error) {
	return c.engine.ProductDetails(ctx, sku)
}

// GetCategoriesAsync runs GetCategories in the background. The channel
// delivers exactly one Result and is then closed.
func (c *Client) GetCategoriesAsync(ctx context.Context) <-chan Result[[]Category] {
	return async(func() ([]Category, error) { return c.GetCategories(ctx) })
}

// GetProductsByFiltersAsync runs GetProductsByFilters in the background.
func (c *Client) GetProductsByFiltersAsync(ctx context.Context, filters Filters) <-chan Result[[]Product] {
	return async(func() ([]Product, error) { return c.GetProductsByFilters(ctx, filters) })
}

// GetProductDetailsAsync runs GetProductDetails in the background.
func (c *Client) GetProductDetailsAsync(ctx context.Context, sku int) <-chan Result[*ProductDetail] {
	return async(func() (*ProductDetail, error) { return c.GetProductDetails(ctx, sku) })
}

func async[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// Config returns the client's effective configuration.
func (c *Client) Config() *Config { return c.cfg }

// Close releases the fetcher if the client created it.
func (c *Client) Close() error {
	if c.ownsFetch && c.fetcher != nil {
		return c.fetcher.Close()
	}
	return nil
}
