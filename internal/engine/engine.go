// Package engine drives fetch and parse cycles against the store and
// aggregates the results of the three catalog operations.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/extract"
	"github.com/IshaanNene/vinmonopolet/internal/fetcher"
	"github.com/IshaanNene/vinmonopolet/internal/observability"
	"github.com/IshaanNene/vinmonopolet/internal/parser"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// State is a step of the retrieval state machine every operation follows:
// Start -> Fetching -> {Parsing -> (Done | Fetching) | Failed}.
type State int32

const (
	StateStart    State = 0
	StateFetching State = 1
	StateParsing  State = 2
	StateDone     State = 3
	StateFailed   State = 4
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StateHook observes every state transition of every operation.
type StateHook func(op string, state State)

// Engine runs catalog operations. It keeps no per-call state, so one Engine
// may serve concurrent calls as long as its fetcher does.
type Engine struct {
	fetcher  fetcher.Fetcher
	urls     *URLBuilder
	sel      extract.Selectors
	maxPages int
	metrics  *observability.Metrics
	hook     StateHook
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records fetch, parse and record counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithStateHook registers a transition observer.
func WithStateHook(h StateHook) Option {
	return func(e *Engine) { e.hook = h }
}

// New creates an Engine for the site described by cfg.
func New(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if f == nil {
		return nil, errors.New("engine: fetcher is required")
	}
	urls, err := NewURLBuilder(cfg.Site)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		fetcher:  f,
		urls:     urls,
		sel:      cfg.Site.Selectors,
		maxPages: cfg.Site.MaxPages,
		logger:   logger.With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Categories fetches the overview page and returns its category list.
func (e *Engine) Categories(ctx context.Context) ([]catalog.Category, error) {
	op := e.begin("categories")

	doc, err := e.fetchDocument(ctx, op, e.urls.Overview(), types.KindOverview, 0)
	if err != nil {
		return nil, op.fail(err)
	}

	op.to(StateParsing)
	categories, err := parser.ParseCategories(doc, e.sel)
	if err != nil {
		e.countParseFailure(types.KindOverview)
		return nil, op.fail(err)
	}

	e.countRecords("category", len(categories))
	op.to(StateDone, "categories", len(categories))
	return categories, nil
}

// ProductsByFilters crawls every listing page for filters, starting at page 1,
// one page at a time, until a page without a next-page link. The result keeps
// page order, then document order. Any failure discards the pages collected
// so far.
func (e *Engine) ProductsByFilters(ctx context.Context, filters catalog.FilterSet) ([]catalog.ProductSummary, error) {
	op := e.begin("products_by_filters")
	if len(filters) == 0 {
		return nil, op.fail(types.ErrNoFilters)
	}

	products := make([]catalog.ProductSummary, 0)
	for page := 1; ; page++ {
		if e.maxPages > 0 && page > e.maxPages {
			return nil, op.fail(fmt.Errorf("%w: stopped after %d pages", types.ErrPageLimit, e.maxPages))
		}

		doc, err := e.fetchDocument(ctx, op, e.urls.Search(filters, page), types.KindListing, page)
		if err != nil {
			return nil, op.fail(err)
		}

		op.to(StateParsing, "page", page)
		pageProducts, hasNext, err := parser.ParseListingPage(doc, e.sel)
		if err != nil {
			e.countParseFailure(types.KindListing)
			return nil, op.fail(err)
		}
		products = append(products, pageProducts...)
		e.countRecords("product", len(pageProducts))

		if !hasNext {
			op.to(StateDone, "pages", page, "products", len(products))
			return products, nil
		}
	}
}

// ProductDetails fetches and parses the detail page of sku.
func (e *Engine) ProductDetails(ctx context.Context, sku int) (*catalog.ProductDetail, error) {
	op := e.begin("product_details")
	if sku <= 0 {
		return nil, op.fail(types.ErrInvalidSKU)
	}

	doc, err := e.fetchDocument(ctx, op, e.urls.Product(sku), types.KindDetail, 0)
	if err != nil {
		return nil, op.fail(err)
	}

	op.to(StateParsing)
	detail, err := parser.ParseProductDetail(doc, e.sel, sku)
	if err != nil {
		e.countParseFailure(types.KindDetail)
		return nil, op.fail(err)
	}

	e.countRecords("product_detail", 1)
	op.to(StateDone, "sku", sku)
	return detail, nil
}

// fetchDocument performs the Fetching step: any transport failure or non-2xx
// status becomes a *types.FetchError.
func (e *Engine) fetchDocument(ctx context.Context, op *operation, rawURL, kind string, page int) (*goquery.Document, error) {
	req, err := types.NewRequest(rawURL, kind)
	if err != nil {
		return nil, err
	}
	req.Page = page

	op.to(StateFetching, "url", rawURL)
	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		e.countFetchFailure(kind)
		var fetchErr *types.FetchError
		if !errors.As(err, &fetchErr) {
			err = &types.FetchError{URL: rawURL, Err: err}
		}
		return nil, err
	}
	if !resp.IsSuccess() {
		e.countFetchFailure(kind)
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected HTTP status %d", resp.StatusCode),
		}
	}
	if e.metrics != nil {
		e.metrics.PagesFetched.WithLabelValues(kind).Inc()
	}

	return resp.Document()
}

func (e *Engine) countFetchFailure(kind string) {
	if e.metrics != nil {
		e.metrics.FetchFailures.WithLabelValues(kind).Inc()
	}
}

func (e *Engine) countParseFailure(kind string) {
	if e.metrics != nil {
		e.metrics.ParseFailures.WithLabelValues(kind).Inc()
	}
}

func (e *Engine) countRecords(kind string, n int) {
	if e.metrics != nil && n > 0 {
		e.metrics.Records.WithLabelValues(kind).Add(float64(n))
	}
}

// operation tracks the state of one top-level call.
type operation struct {
	name   string
	state  State
	hook   StateHook
	logger *slog.Logger
}

func (e *Engine) begin(name string) *operation {
	op := &operation{name: name, hook: e.hook, logger: e.logger.With("op", name)}
	op.to(StateStart)
	return op
}

func (o *operation) to(s State, args ...any) {
	o.state = s
	if o.hook != nil {
		o.hook(o.name, s)
	}
	o.logger.Debug("state "+s.String(), args...)
}

func (o *operation) fail(err error) error {
	o.state = StateFailed
	if o.hook != nil {
		o.hook(o.name, StateFailed)
	}
	o.logger.Warn("operation failed", "error", err)
	return err
}
