// Package insights queries the PageSpeed Insights API for per-device
// performance scores and metric display values.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the production PageSpeed Insights API URL.
const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// ErrNoAPIKey is returned when the client has no API key configured.
var ErrNoAPIKey = errors.New("insights: no API key configured")

// Strategies queried per page.
var strategies = []string{"MOBILE", "DESKTOP"}

// metricAudits maps result metric names to Lighthouse audit keys.
var metricAudits = []struct {
	name  string
	audit string
}{
	{"lcp", "largest-contentful-paint"},
	{"fid", "max-potential-fid"},
	{"inp", "interaction-to-next-paint"},
	{"cls", "cumulative-layout-shift"},
	{"fcp", "first-contentful-paint"},
	{"ttfb", "server-response-time"},
	{"speed_index", "speed-index"},
	{"tbt", "total-blocking-time"},
	{"tti", "interactive"},
}

// Metric is one Lighthouse audit result, kept as opaque display data.
type Metric struct {
	Score        float64 `json:"score"`
	NumericValue float64 `json:"numeric_value"`
	DisplayValue string  `json:"display_value"`
	Unit         string  `json:"unit"`
	Title        string  `json:"title"`
}

// DeviceReport is the performance result for one strategy.
type DeviceReport struct {
	Strategy         string            `json:"strategy"`
	PerformanceScore int               `json:"performance_score"`
	Metrics          map[string]Metric `json:"metrics"`
	Err              error             `json:"-"`
}

// Report holds per-device results. A device-level failure is recorded
// on the DeviceReport, never returned as a client error.
type Report struct {
	Mobile  *DeviceReport `json:"mobile,omitempty"`
	Desktop *DeviceReport `json:"desktop,omitempty"`
}

// Available reports whether at least one device query succeeded.
func (r *Report) Available() bool {
	return (r.Mobile != nil && r.Mobile.Err == nil) ||
		(r.Desktop != nil && r.Desktop.Err == nil)
}

// Client queries the PageSpeed Insights API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient creates an insights client. An empty endpoint selects the
// production API.
func NewClient(apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze queries both strategies for the page. It returns ErrNoAPIKey
// when no key is configured; individual strategy failures land on the
// device reports.
func (c *Client) Analyze(ctx context.Context, pageURL string) (*Report, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	rep := &Report{}
	for _, strategy := range strategies {
		dev := c.analyzeStrategy(ctx, pageURL, strategy)
		switch strategy {
		case "MOBILE":
			rep.Mobile = dev
		case "DESKTOP":
			rep.Desktop = dev
		}
	}
	return rep, nil
}

func (c *Client) analyzeStrategy(ctx context.Context, pageURL, strategy string) *DeviceReport {
	dev := &DeviceReport{Strategy: strategy}

	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("key", c.apiKey)
	q.Set("category", "PERFORMANCE")
	q.Set("strategy", strategy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		dev.Err = err
		return dev
	}

	resp, err := c.http.Do(req)
	if err != nil {
		dev.Err = fmt.Errorf("insights request for %s: %w", strategy, err)
		return dev
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		dev.Err = err
		return dev
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		dev.Err = errors.New("invalid API key or quota exceeded")
		return dev
	default:
		dev.Err = fmt.Errorf("insights API returned HTTP %d", resp.StatusCode)
		return dev
	}

	var payload struct {
		LighthouseResult struct {
			Categories struct {
				Performance struct {
					Score float64 `json:"score"`
				} `json:"performance"`
			} `json:"categories"`
			Audits map[string]struct {
				Score        float64 `json:"score"`
				NumericValue float64 `json:"numericValue"`
				DisplayValue string  `json:"displayValue"`
				NumericUnit  string  `json:"numericUnit"`
				Title        string  `json:"title"`
			} `json:"audits"`
		} `json:"lighthouseResult"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		dev.Err = fmt.Errorf("decoding insights response: %w", err)
		return dev
	}

	lr := payload.LighthouseResult
	dev.PerformanceScore = int(lr.Categories.Performance.Score * 100)
	dev.Metrics = make(map[string]Metric, len(metricAudits))
	for _, m := range metricAudits {
		audit, ok := lr.Audits[m.audit]
		if !ok {
			dev.Metrics[m.name] = Metric{DisplayValue: "N/A", Title: m.audit}
			continue
		}
		dev.Metrics[m.name] = Metric{
			Score:        audit.Score,
			NumericValue: audit.NumericValue,
			DisplayValue: audit.DisplayValue,
			Unit:         audit.NumericUnit,
			Title:        audit.Title,
		}
	}
	return dev
}
