// Package pipeline post-processes export records before they reach storage.
package pipeline

import (
	"log/slog"
	"sync"

	"github.com/IshaanNene/vinmonopolet/internal/types"
)

// Middleware processes an item and returns the (possibly modified) item.
// Return nil to drop the item from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms an item. Return nil to drop the item.
	Process(item *types.Item) (*types.Item, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the item through all middleware in order.
func (p *Pipeline) Process(item *types.Item) (*types.Item, error) {
	current := item

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:  mw.Name(),
				ItemID: current.ID,
				Err:    err,
			}
		}
		if result == nil {
			p.logger.Debug("item dropped", "stage", mw.Name(), "id", item.ID)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll runs every item through the chain, keeping order and omitting
// dropped items. The first error aborts the batch.
func (p *Pipeline) ProcessAll(items []*types.Item) ([]*types.Item, error) {
	out := make([]*types.Item, 0, len(items))
	for _, item := range items {
		result, err := p.Process(item)
		if err != nil {
			return nil, err
		}
		if result != nil {
			out = append(out, result)
		}
	}
	if dropped := len(items) - len(out); dropped > 0 {
		p.logger.Info("items dropped", "count", dropped, "kept", len(out))
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// FieldFilterMiddleware keeps only specified fields.
type FieldFilterMiddleware struct {
	Fields map[string]bool
}

// NewFieldFilterMiddleware keeps the named fields; no names keeps everything.
func NewFieldFilterMiddleware(fields []string) *FieldFilterMiddleware {
	m := &FieldFilterMiddleware{Fields: make(map[string]bool, len(fields))}
	for _, f := range fields {
		m.Fields[f] = true
	}
	return m
}

func (m *FieldFilterMiddleware) Name() string { return "field_filter" }

func (m *FieldFilterMiddleware) Process(item *types.Item) (*types.Item, error) {
	if len(m.Fields) == 0 {
		return item, nil
	}
	for key := range item.Fields {
		if !m.Fields[key] {
			item.Delete(key)
		}
	}
	return item, nil
}

// DedupMiddleware drops items whose ID was already seen. Listing order can
// shift while a crawl is running, so the same product may show up twice.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{seen: make(map[string]struct{})}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

func (m *DedupMiddleware) Process(item *types.Item) (*types.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[item.ID]; exists {
		return nil, nil
	}
	m.seen[item.ID] = struct{}{}
	return item, nil
}
