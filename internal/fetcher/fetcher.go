// Package fetcher handles HTTP fetching with redirect tracking and rate limiting.
package fetcher

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/seoscope/seoscope/internal/config"
)

const maxRedirects = 10

// Fetcher performs HTTP requests, following redirects manually so the
// full chain can be reported.
type Fetcher struct {
	client      *http.Client
	config      *config.Config
	limiter     *rate.Limiter
	maxBodySize int64
}

// NewFetcher creates a fetcher for the given configuration.
func NewFetcher(cfg *config.Config) *Fetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    true,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
	}

	// 0 requests per second means unlimited.
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Stop automatic redirects; the chain is followed manually.
				return http.ErrUseLastResponse
			},
		},
		config:      cfg,
		limiter:     rate.NewLimiter(limit, 1),
		maxBodySize: cfg.MaxResponseSize,
	}
}

// Fetch retrieves a URL, following up to maxRedirects redirects and
// recording every hop. The body is capped at the configured maximum
// response size.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	result := &Response{
		RequestURL: rawURL,
		FinalURL:   rawURL,
	}

	start := time.Now()
	currentURL := rawURL

	for i := 0; i <= maxRedirects; i++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, currentURL, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", currentURL, err)
		}
		f.setRequestHeaders(req)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, categorizeError(currentURL, err)
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location := resp.Header.Get("Location")
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()

			if location == "" {
				result.StatusCode = resp.StatusCode
				result.Status = resp.Status
				result.Headers = resp.Header
				result.FinalURL = currentURL
				result.ResponseTime = time.Since(start)
				return result, nil
			}

			next, err := resolveRedirectURL(currentURL, location)
			if err != nil {
				return nil, fmt.Errorf("bad redirect from %q: %w", currentURL, err)
			}
			result.RedirectChain = append(result.RedirectChain, RedirectHop{
				URL:        currentURL,
				StatusCode: resp.StatusCode,
				Location:   next,
			})
			currentURL = next
			continue
		}

		body, err := f.readBody(resp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading body of %q: %w", currentURL, err)
		}

		result.StatusCode = resp.StatusCode
		result.Status = resp.Status
		result.Headers = resp.Header
		result.ContentType = parseContentType(resp.Header.Get("Content-Type"))
		result.Body = body
		result.BodySize = int64(len(body))
		result.FinalURL = currentURL
		result.ResponseTime = time.Since(start)
		return result, nil
	}

	return nil, fmt.Errorf("too many redirects fetching %q (limit %d)", rawURL, maxRedirects)
}

func (f *Fetcher) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Connection", "keep-alive")
}

// readBody decodes the response body, handling gzip and enforcing the
// size cap.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}

func resolveRedirectURL(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(locURL).String(), nil
}

func parseContentType(header string) string {
	if idx := strings.Index(header, ";"); idx != -1 {
		header = header[:idx]
	}
	return strings.TrimSpace(strings.ToLower(header))
}

// categorizeError wraps transport errors with a description of the
// failure class.
func categorizeError(rawURL string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("timeout fetching %q: %w", rawURL, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such host"):
		return fmt.Errorf("DNS lookup failed for %q: %w", rawURL, err)
	case strings.Contains(msg, "connection refused"):
		return fmt.Errorf("connection refused for %q: %w", rawURL, err)
	case strings.Contains(msg, "tls") || strings.Contains(msg, "certificate"):
		return fmt.Errorf("TLS error fetching %q: %w", rawURL, err)
	default:
		return fmt.Errorf("fetching %q: %w", rawURL, err)
	}
}
