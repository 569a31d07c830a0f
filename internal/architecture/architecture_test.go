package architecture

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope/internal/analyzer"
	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/fetcher"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestAnalyzer(baseURL string) *Analyzer {
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RequestsPerSecond = 1000
	return New(cfg, config.DefaultLexicon(), fetcher.NewFetcher(cfg), testLogger())
}

const sitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
  <url><loc>https://example.com/about</loc></url>
</urlset>`

func linkPage(links ...string) string {
	body := "<html><body>"
	for _, l := range links {
		body += `<a href="` + l + `">x</a>`
	}
	return body + "</body></html>"
}

func TestAnalyzeWellStructuredSite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "User-agent: *\nDisallow: /admin/\n")
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		io.WriteString(w, sitemapXML)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			io.WriteString(w, linkPage("/about-our-company", "/our-services"))
		case "/about-our-company", "/our-services":
			io.WriteString(w, linkPage("/"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)
	rep, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Crawlability.RobotsTxtFound)
	assert.True(t, rep.Crawlability.CrawlingAllowed)
	assert.True(t, rep.Indexability.SitemapFound)
	assert.Equal(t, 2, rep.Indexability.URLsInSitemap)
	assert.Equal(t, 3, rep.PagesCrawled)
	assert.Equal(t, 1, rep.Structure.MaxDepth)
	assert.Zero(t, rep.URLs.BrokenLinks)

	// Sitemap 25 + depth 25 + deep pages 20 + hygiene 12 + links 15.
	// The bare homepage URL has no path letters, so the
	// keyword-friendly ratio lands in the middle tier.
	assert.Equal(t, 97, rep.Score)
	assert.Equal(t, analyzer.StatusGood, rep.Status)
	assert.Empty(t, rep.Issues)
	assert.Contains(t, rep.Suggestions, "Website architecture looks well-optimized for SEO")
}

func TestAnalyzeMissingRobotsAndSitemap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			io.WriteString(w, linkPage())
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)
	rep, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.False(t, rep.Crawlability.RobotsTxtFound)
	assert.False(t, rep.Indexability.SitemapFound)
	assert.Contains(t, rep.Issues, "Sitemap.xml not found")
	assert.Contains(t, rep.Issues, "Robots.txt file not found")
	// No sitemap points; the rest of the budget is still reachable.
	assert.Less(t, rep.Score, 80)
}

func TestAnalyzeCrawlBlocked(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "User-agent: *\nDisallow: /\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, linkPage())
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)
	rep, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Crawlability.RobotsTxtFound)
	assert.False(t, rep.Crawlability.CrawlingAllowed)
	assert.Contains(t, rep.Issues, "Crawling is blocked by robots.txt")
}

func TestAnalyzeCountsBrokenLinksAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			io.WriteString(w, linkPage("/gone", "/moved", "/fine"))
		case "/fine":
			io.WriteString(w, linkPage("/"))
		case "/moved":
			http.Redirect(w, r, "/fine", http.StatusMovedPermanently)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)
	rep, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.URLs.BrokenLinks)
	assert.Equal(t, 1, rep.URLs.Redirects)
}

func TestCountSitemapURLs(t *testing.T) {
	index := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/a.xml</loc></sitemap>
  <sitemap><loc>https://example.com/b.xml</loc></sitemap>
  <sitemap><loc>https://example.com/c.xml</loc></sitemap>
</sitemapindex>`

	assert.Equal(t, 3, countSitemapURLs([]byte(index)))
	assert.Equal(t, 2, countSitemapURLs([]byte(sitemapXML)))
	assert.Equal(t, 0, countSitemapURLs([]byte("not xml")))
}

func TestScoreDeepPagesTiers(t *testing.T) {
	a := newTestAnalyzer("https://example.com")

	rep := &Report{Structure: Structure{DepthDistribution: map[int]int{}}}
	assert.Equal(t, 20, a.scoreDeepPages(map[string]int{}, nil, rep))

	depths := map[string]int{"a": 4, "b": 4, "c": 4, "d": 4}
	visited := make([]string, 10)
	rep = &Report{Structure: Structure{DepthDistribution: map[int]int{}}}
	// 4 of 10 pages deep: worst tier.
	assert.Equal(t, 5, a.scoreDeepPages(depths, visited, rep))
	assert.Equal(t, 4, rep.URLs.DeepPages)
}
