package vinmonopolet

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// catalogServer serves the engine fixtures with the store's URL layout.
func catalogServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	read := func(name string) []byte {
		b, err := os.ReadFile(filepath.Join("..", "..", "internal", "engine", "testdata", name))
		require.NoError(t, err)
		return b
	}
	overview, page1, page2, detail := read("overview.html"), read("search-1.html"), read("search-2.html"), read("detail.html")

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case r.URL.Path == "/vareutvalg":
			_, _ = w.Write(overview)
		case r.URL.Path == "/vareutvalg/sok" && r.URL.Query().Get("filterIds") == "25":
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write(page1)
			case "2":
				_, _ = w.Write(page2)
			default:
				http.NotFound(w, r)
			}
		case strings.HasSuffix(r.URL.Path, "/sku-9351702"):
			_, _ = w.Write(detail)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(append([]Option{WithLogger(quiet)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientEndToEnd(t *testing.T) {
	srv, hits := catalogServer(t)
	metrics := NewMetrics(quiet)
	c := newClient(t, WithBaseURL(srv.URL), WithMetrics(metrics))
	ctx := context.Background()

	categories, err := c.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 9)
	assert.Equal(t, Category{Title: "Rødvin", Count: 6033, FilterID: 25}, categories[0])

	products, err := c.GetProductsByFilters(ctx, Filters{25: "Alkoholfritt"})
	require.NoError(t, err)
	require.Len(t, products, 56)
	assert.Equal(t, 109802, products[0].SKU)
	assert.Equal(t, 116502, products[55].SKU)

	detail, err := c.GetProductDetails(ctx, 9351702)
	require.NoError(t, err)
	assert.Equal(t, "Ægir Lynchburg Natt Barrel-Aged Imperial Porter", detail.Title)
	assert.Equal(t, "10.01", detail.Alcohol.String())

	assert.Equal(t, int32(4), hits.Load())
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `vinmonopolet_pages_fetched_total{kind="listing"} 2`)
	assert.Contains(t, body, `vinmonopolet_records_extracted_total{kind="product"} 56`)
}

func TestClientTransportError(t *testing.T) {
	srv, _ := catalogServer(t)
	c := newClient(t, WithBaseURL(srv.URL))

	_, err := c.GetProductDetails(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClientAsync(t *testing.T) {
	srv, _ := catalogServer(t)
	c := newClient(t, WithBaseURL(srv.URL))
	ctx := context.Background()

	cats := c.GetCategoriesAsync(ctx)
	prods := c.GetProductsByFiltersAsync(ctx, Filters{25: "Alkoholfritt"})
	det := c.GetProductDetailsAsync(ctx, 9351702)

	catRes := <-cats
	require.NoError(t, catRes.Err)
	assert.Len(t, catRes.Value, 9)

	prodRes := <-prods
	require.NoError(t, prodRes.Err)
	assert.Len(t, prodRes.Value, 56)

	detRes := <-det
	require.NoError(t, detRes.Err)
	assert.Equal(t, 9351702, detRes.Value.SKU)

	_, open := <-cats
	assert.False(t, open, "channel should be closed after its result")
}

func TestClientAsyncError(t *testing.T) {
	srv, _ := catalogServer(t)
	c := newClient(t, WithBaseURL(srv.URL))

	res := <-c.GetProductsByFiltersAsync(context.Background(), Filters{})
	assert.ErrorIs(t, res.Err, ErrNoFilters)
	assert.Nil(t, res.Value)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(WithLogger(quiet), WithBaseURL("nope"))
	assert.Error(t, err)

	_, err = New(WithLogger(quiet), WithMaxPages(-1))
	assert.Error(t, err)
}

func TestWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.MaxPages = 1
	c := newClient(t, WithConfig(cfg), WithUserAgent("test/1.0"))

	assert.Equal(t, 1, c.Config().Site.MaxPages)
	assert.Equal(t, []string{"test/1.0"}, c.Config().Fetcher.UserAgents)
}
