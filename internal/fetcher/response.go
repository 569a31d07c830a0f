package fetcher

import (
	"net/http"
	"strings"
	"time"
)

// Response is the result of fetching a single URL.
type Response struct {
	// Original requested URL
	RequestURL string

	// Final URL after redirects
	FinalURL string

	// HTTP status code of the final hop
	StatusCode int

	// Status text (e.g., "200 OK")
	Status string

	// Response headers of the final hop
	Headers http.Header

	// Content-Type header value
	ContentType string

	// Actual body size in bytes
	BodySize int64

	// Response body
	Body []byte

	// Redirect chain (list of hops in redirect sequence)
	RedirectChain []RedirectHop

	// Total response time
	ResponseTime time.Duration
}

// RedirectHop is a single redirect in the chain.
type RedirectHop struct {
	URL        string
	StatusCode int
	Location   string
}

// IsSuccess reports whether the response was successful (2xx).
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports whether the final hop was a redirect (3xx).
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// RedirectCount returns the number of redirects followed.
func (r *Response) RedirectCount() int {
	return len(r.RedirectChain)
}

// IsHTML reports whether the content type is HTML.
func (r *Response) IsHTML() bool {
	return strings.HasPrefix(r.ContentType, "text/html")
}
