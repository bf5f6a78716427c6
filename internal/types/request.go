package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request kinds, one per page shape the site serves.
const (
	KindOverview = "overview"
	KindListing  = "listing"
	KindDetail   = "detail"
)

// Request represents a single page retrieval issued by the engine.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Kind is the page shape expected back (overview, listing, detail).
	Kind string

	// Page is the 1-based listing page number; zero for other kinds.
	Page int

	// Timeout overrides the fetcher's request timeout for this request.
	Timeout time.Duration

	// CreatedAt is when this request was created.
	CreatedAt time.Time
}

// NewRequest creates a new GET Request of the given kind.
func NewRequest(rawURL, kind string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: scheme must be http or https", ErrInvalidURL, rawURL)
	}

	return &Request{
		URL:       u,
		Method:    http.MethodGet,
		Kind:      kind,
		CreatedAt: time.Now(),
	}, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}
