// Package crawler discovers site URLs breadth-first and ranks them for
// analysis by structural priority and internal backlinks.
package crawler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/fetcher"
	"github.com/seoscope/seoscope/internal/page"
	"github.com/seoscope/seoscope/internal/urlutil"
)

// Fetcher retrieves a URL. Implemented by fetcher.Fetcher and the
// JavaScript renderer.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Response, error)
}

// Page is one discovered URL. Pages within the crawl budget carry the
// fetched HTML; the rest are discovery-only entries.
type Page struct {
	URL        string
	Type       PageType
	Priority   int
	Depth      int
	Backlinks  int
	Crawled    bool
	StatusCode int
	HTML       []byte

	order int
}

// Result is the outcome of a site crawl, with pages sorted by priority.
type Result struct {
	BaseURL      string
	Pages        []*Page
	CrawledCount int
	FailedCount  int
}

// Crawler walks a site breadth-first up to the configured page budget.
type Crawler struct {
	cfg   *config.Config
	lex   *config.Lexicon
	fetch Fetcher
	log   *logrus.Entry

	mu        sync.Mutex
	pages     map[string]*Page
	backlinks map[string]map[string]struct{}
	queue     []string
	crawled   int
	failed    int
	order     int
}

// New creates a crawler using the given fetcher for page retrieval.
func New(cfg *config.Config, lex *config.Lexicon, f Fetcher, log *logrus.Logger) *Crawler {
	return &Crawler{
		cfg:       cfg,
		lex:       lex,
		fetch:     f,
		log:       log.WithField("component", "crawler"),
		pages:     make(map[string]*Page),
		backlinks: make(map[string]map[string]struct{}),
	}
}

// Crawl walks the site starting at the configured base URL. The budget
// bounds successfully crawled pages; discovered URLs beyond the budget
// are still listed in the result, unfetched.
func (c *Crawler) Crawl(ctx context.Context) (*Result, error) {
	base, err := urlutil.Normalize(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", c.cfg.BaseURL, err)
	}

	c.register(base, 0)
	frontier := c.takeQueue()

	for len(frontier) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.Concurrency)

		for _, u := range frontier {
			u := u
			g.Go(func() error {
				return c.visit(gctx, u, base)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		frontier = c.takeQueue()
	}

	return c.buildResult(base), nil
}

// visit fetches one page, records its outgoing links, and queues newly
// discovered relevant URLs for the next wave.
func (c *Crawler) visit(ctx context.Context, normalizedURL, base string) error {
	c.mu.Lock()
	if c.crawled >= c.cfg.MaxPages {
		c.mu.Unlock()
		return nil
	}
	c.crawled++
	current := c.pages[normalizedURL]
	depth := current.Depth
	c.mu.Unlock()

	resp, err := c.fetch.Fetch(ctx, normalizedURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).WithField("url", normalizedURL).Warn("fetch failed")
		c.recordFailure(current, 0)
		return nil
	}
	if !resp.IsSuccess() {
		c.log.WithFields(logrus.Fields{
			"url":    normalizedURL,
			"status": resp.StatusCode,
		}).Warn("skipping page with non-success status")
		c.recordFailure(current, resp.StatusCode)
		return nil
	}

	doc, err := page.Parse(resp.Body, resp.FinalURL)
	if err != nil {
		c.log.WithError(err).WithField("url", normalizedURL).Warn("parse failed")
		c.recordFailure(current, resp.StatusCode)
		return nil
	}

	c.mu.Lock()
	current.Crawled = true
	current.StatusCode = resp.StatusCode
	current.HTML = resp.Body
	c.mu.Unlock()

	for _, link := range doc.InternalLinks {
		c.recordLink(normalizedURL, link, base, depth+1)
	}
	return nil
}

// recordLink counts a backlink for every same-site target except
// self-links, and queues relevant unseen URLs.
func (c *Crawler) recordLink(source, link, base string, depth int) {
	if !urlutil.SameHost(link, base) {
		return
	}
	target, err := urlutil.Normalize(link)
	if err != nil || target == source {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backlinks[target] == nil {
		c.backlinks[target] = make(map[string]struct{})
	}
	c.backlinks[target][source] = struct{}{}

	if !IsRelevant(c.lex, target) {
		return
	}
	if _, seen := c.pages[target]; seen {
		return
	}
	c.registerLocked(target, depth)
}

func (c *Crawler) register(normalizedURL string, depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerLocked(normalizedURL, depth)
}

func (c *Crawler) registerLocked(normalizedURL string, depth int) {
	c.pages[normalizedURL] = &Page{
		URL:   normalizedURL,
		Depth: depth,
		order: c.order,
	}
	c.order++
	c.queue = append(c.queue, normalizedURL)
}

func (c *Crawler) recordFailure(p *Page, status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crawled--
	c.failed++
	p.StatusCode = status
}

func (c *Crawler) takeQueue() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queue
	c.queue = nil
	return q
}

// buildResult computes final priorities from the complete backlink
// graph and sorts pages by priority, preserving discovery order on
// ties.
func (c *Crawler) buildResult(base string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := make([]*Page, 0, len(c.pages))
	for _, p := range c.pages {
		p.Backlinks = len(c.backlinks[p.URL])
		p.Priority = priority(c.lex, p.URL, base, p.Backlinks)
		p.Type = Classify(p.URL, base)
		pages = append(pages, p)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Priority != pages[j].Priority {
			return pages[i].Priority > pages[j].Priority
		}
		return pages[i].order < pages[j].order
	})

	c.log.WithFields(logrus.Fields{
		"discovered": len(pages),
		"crawled":    c.crawled,
		"failed":     c.failed,
	}).Info("crawl complete")

	return &Result{
		BaseURL:      base,
		Pages:        pages,
		CrawledCount: c.crawled,
		FailedCount:  c.failed,
	}
}
