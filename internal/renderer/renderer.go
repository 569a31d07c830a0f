// Package renderer fetches pages through headless Chromium so that
// JavaScript-built markup can be analyzed like static HTML.
package renderer

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/fetcher"
)

// Renderer drives a pool of headless browser tabs. It satisfies the
// same fetch contract as the plain HTTP fetcher.
type Renderer struct {
	mu     sync.Mutex
	closed bool

	config    *config.Config
	allocator context.Context
	cancel    context.CancelFunc

	browserPool chan context.Context
}

// NewRenderer starts a browser allocator and a tab pool sized to the
// configured concurrency.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ChromiumPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromiumPath))
	}

	r := &Renderer{config: cfg}
	r.allocator, r.cancel = chromedp.NewExecAllocator(context.Background(), opts...)

	r.browserPool = make(chan context.Context, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		ctx, _ := chromedp.NewContext(r.allocator)
		r.browserPool <- ctx
	}

	return r, nil
}

// Fetch renders a page and returns the post-JavaScript HTML. The
// status code is taken from the main document response; client-side
// redirects are reflected in FinalURL.
func (r *Renderer) Fetch(ctx context.Context, rawURL string) (*fetcher.Response, error) {
	tab := <-r.browserPool
	defer func() {
		r.browserPool <- tab
	}()

	timeout := r.config.RenderTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	renderCtx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()

	statusCode := http.StatusOK
	chromedp.ListenTarget(renderCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok {
			if e.Type == network.ResourceTypeDocument {
				statusCode = int(e.Response.Status)
			}
		}
	})

	start := time.Now()
	var html, finalURL string
	err := chromedp.Run(renderCtx,
		network.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering %q: %w", rawURL, err)
	}

	body := []byte(html)
	if int64(len(body)) > r.config.MaxResponseSize {
		body = body[:r.config.MaxResponseSize]
	}

	return &fetcher.Response{
		RequestURL:   rawURL,
		FinalURL:     finalURL,
		StatusCode:   statusCode,
		Status:       http.StatusText(statusCode),
		ContentType:  "text/html",
		Body:         body,
		BodySize:     int64(len(body)),
		ResponseTime: time.Since(start),
	}, nil
}

// Close shuts down the tab pool and the browser allocator.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	close(r.browserPool)
	for ctx := range r.browserPool {
		chromedp.Cancel(ctx)
	}
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}
