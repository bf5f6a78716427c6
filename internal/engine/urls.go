package engine

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/config"
)

// URLBuilder renders the overview, search and product URL templates.
// It is immutable after construction.
type URLBuilder struct {
	base string
	site config.SiteConfig
}

// NewURLBuilder validates the site's base URL and returns a builder for it.
func NewURLBuilder(site config.SiteConfig) (*URLBuilder, error) {
	if err := config.ValidateURL(site.BaseURL); err != nil {
		return nil, fmt.Errorf("site base url: %w", err)
	}
	return &URLBuilder{
		base: strings.TrimRight(site.BaseURL, "/"),
		site: site,
	}, nil
}

// Overview returns the category overview URL.
func (b *URLBuilder) Overview() string {
	return b.base + b.site.OverviewPath
}

// Search returns the URL of one listing page. Filter ids are sent in ascending
// order as a comma-separated list, with their values in the same order.
func (b *URLBuilder) Search(filters catalog.FilterSet, page int) string {
	ids := filters.IDs()
	idParts := make([]string, len(ids))
	valueParts := make([]string, len(ids))
	for i, id := range ids {
		idParts[i] = strconv.Itoa(id)
		valueParts[i] = queryValue(filters[id])
	}

	var sb strings.Builder
	sb.WriteString(b.base)
	sb.WriteString(b.site.SearchPath)
	fmt.Fprintf(&sb, "?query=%s&sort=%d&sortMode=%d", queryValue(b.site.SearchQuery), b.site.Sort, b.site.SortMode)
	sb.WriteString("&filterIds=" + strings.Join(idParts, ","))
	sb.WriteString("&filterValues=" + strings.Join(valueParts, ","))
	sb.WriteString("&page=" + strconv.Itoa(page))
	return sb.String()
}

// Product returns the detail page URL for sku.
func (b *URLBuilder) Product(sku int) string {
	return b.base + b.site.ProductPath + strconv.Itoa(sku) + b.site.ProductQuery
}

// queryValue escapes a query value but keeps the search wildcard readable.
func queryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2A", "*")
}
