package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

const page = `<html><body><div id="categoryNav"></div></body></html>`

func newTestFetcher(t *testing.T, mutate func(*config.Config)) *HTTPFetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	f, err := NewHTTPFetcher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func get(t *testing.T, f Fetcher, url string) (*types.Response, error) {
	t.Helper()
	req, err := types.NewRequest(url, types.KindOverview)
	require.NoError(t, err)
	return f.Fetch(context.Background(), req)
}

func TestHTTPFetcherHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	f := newTestFetcher(t, func(c *config.Config) { c.Fetcher.UserAgents = []string{"test-agent/1.0"} })
	resp, err := get(t, f, srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, page, string(resp.Body))
	assert.Equal(t, "test-agent/1.0", got.Get("User-Agent"))
	assert.Equal(t, "nb-NO,nb;q=0.9,no;q=0.8,en;q=0.5", got.Get("Accept-Language"))
	assert.Equal(t, "gzip, deflate, br", got.Get("Accept-Encoding"))
}

func TestHTTPFetcherDecodesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(page))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := get(t, newTestFetcher(t, nil), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, string(resp.Body))
}

func TestHTTPFetcherDecodesBrotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte(page))
		_ = bw.Close()
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := get(t, newTestFetcher(t, nil), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, string(resp.Body))
}

func TestHTTPFetcherReturnsErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	resp, err := get(t, newTestFetcher(t, nil), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestHTTPFetcherBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	f := newTestFetcher(t, func(c *config.Config) { c.Fetcher.MaxBodySize = 6 })
	resp, err := get(t, f, srv.URL)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, types.ErrTransport))
	assert.Contains(t, err.Error(), "body exceeds 6 bytes")
}

func TestHTTPFetcherBodyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	f := newTestFetcher(t, func(c *config.Config) { c.Fetcher.MaxBodySize = int64(len(page)) })
	resp, err := get(t, f, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, string(resp.Body))
}

func TestHTTPFetcherBrokenGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = io.WriteString(w, page)
	}))
	defer srv.Close()

	_, err := get(t, newTestFetcher(t, nil), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTransport))
	assert.Contains(t, err.Error(), "decompress gzip")
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := get(t, newTestFetcher(t, nil), url)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTransport))

	var fe *types.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, url, fe.URL)
}

func TestHTTPFetcherRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	req, err := types.NewRequest(srv.URL, types.KindDetail)
	require.NoError(t, err)
	req.Timeout = 50 * time.Millisecond

	_, err = newTestFetcher(t, nil).Fetch(context.Background(), req)
	assert.ErrorIs(t, err, types.ErrTransport)
}

func TestNewSelectsFetcher(t *testing.T) {
	cfg := config.DefaultConfig()
	f, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, "http", f.Type())

	cfg.Fetcher.Type = "curl"
	_, err = New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
