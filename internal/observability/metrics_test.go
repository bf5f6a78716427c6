package observability

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.PagesFetched.WithLabelValues("overview").Inc()
	m.FetchFailures.WithLabelValues("listing").Add(2)
	m.Records.WithLabelValues("category").Add(9)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `vinmonopolet_pages_fetched_total{kind="overview"} 1`)
	assert.Contains(t, body, `vinmonopolet_fetch_failures_total{kind="listing"} 2`)
	assert.Contains(t, body, `vinmonopolet_records_extracted_total{kind="category"} 9`)
	assert.NotContains(t, body, "go_goroutines", "only crawler metrics are registered")
}
