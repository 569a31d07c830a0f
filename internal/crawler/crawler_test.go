package crawler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/fetcher"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestCrawler(t *testing.T, baseURL string, maxPages int) *Crawler {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.MaxPages = maxPages
	cfg.RequestsPerSecond = 1000
	return New(cfg, config.DefaultLexicon(), fetcher.NewFetcher(cfg), testLogger())
}

func pageHTML(links ...string) string {
	body := "<html><body><h1>Heading</h1>"
	for _, l := range links {
		body += `<a href="` + l + `">link</a>`
	}
	return body + "</body></html>"
}

func testSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, pageHTML("/about", "/products", "/blog/post-1", "/brochure.pdf", "/admin/panel", "/contact?session=abc"))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pageHTML("/", "/products"))
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pageHTML("/", "/about"))
	})
	mux.HandleFunc("/blog/post-1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pageHTML("/", "/products"))
	})
	return httptest.NewServer(mux)
}

func findPage(pages []*Page, url string) *Page {
	for _, p := range pages {
		if p.URL == url {
			return p
		}
	}
	return nil
}

func TestCrawlerDiscoversSite(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := newTestCrawler(t, srv.URL, 25)
	res, err := c.Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.CrawledCount)
	assert.Equal(t, 0, res.FailedCount)

	urls := make([]string, 0, len(res.Pages))
	for _, p := range res.Pages {
		urls = append(urls, p.URL)
	}
	assert.Contains(t, urls, srv.URL)
	assert.Contains(t, urls, srv.URL+"/about")
	assert.Contains(t, urls, srv.URL+"/blog/post-1")
	assert.NotContains(t, urls, srv.URL+"/brochure.pdf")
	assert.NotContains(t, urls, srv.URL+"/admin/panel")
	assert.NotContains(t, urls, srv.URL+"/contact?session=abc")
}

func TestCrawlerHomepageRankedFirst(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := newTestCrawler(t, srv.URL, 25)
	res, err := c.Crawl(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, res.Pages)
	assert.Equal(t, srv.URL, res.Pages[0].URL)
	assert.Equal(t, PageHomepage, res.Pages[0].Type)
	// Homepage has three internal backlinks.
	assert.Equal(t, 1003, res.Pages[0].Priority)
}

func TestCrawlerBacklinkCounting(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := newTestCrawler(t, srv.URL, 25)
	res, err := c.Crawl(context.Background())
	require.NoError(t, err)

	products := findPage(res.Pages, srv.URL+"/products")
	require.NotNil(t, products)
	// Linked from homepage, about, and the blog post.
	assert.Equal(t, 3, products.Backlinks)
	assert.Equal(t, PageProducts, products.Type)
}

func TestCrawlerBudgetSeedOnly(t *testing.T) {
	srv := testSite()
	defer srv.Close()

	c := newTestCrawler(t, srv.URL, 1)
	res, err := c.Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.CrawledCount)
	home := findPage(res.Pages, srv.URL)
	require.NotNil(t, home)
	assert.True(t, home.Crawled)

	// Links are discovered but stay unfetched.
	about := findPage(res.Pages, srv.URL+"/about")
	require.NotNil(t, about)
	assert.False(t, about.Crawled)
	assert.Greater(t, len(res.Pages), 1)
}

func TestCrawlerCountsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pageHTML("/broken", "/about"))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, pageHTML("/"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(t, srv.URL, 25)
	res, err := c.Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.CrawledCount)
	assert.Equal(t, 1, res.FailedCount)

	broken := findPage(res.Pages, srv.URL+"/broken")
	require.NotNil(t, broken)
	assert.False(t, broken.Crawled)
	assert.Equal(t, http.StatusNotFound, broken.StatusCode)
}

func TestClassify(t *testing.T) {
	base := "https://example.com"
	tests := []struct {
		url  string
		want PageType
	}{
		{"https://example.com", PageHomepage},
		{"https://example.com/contact", PageContact},
		{"https://example.com/about-us", PageAbout},
		{"https://example.com/customer-reviews", PageTestimonials},
		{"https://example.com/services/piping", PageServices},
		{"https://example.com/products", PageProducts},
		{"https://example.com/gallery", PagePortfolio},
		{"https://example.com/our-team", PageTeam},
		{"https://example.com/careers", PageCareers},
		{"https://example.com/blog/post", PageBlog},
		{"https://example.com/collection/pipes", PageCategory},
		{"https://example.com/misc", PageOther},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url, base))
		})
	}
}

func TestPriorityTiers(t *testing.T) {
	lex := config.DefaultLexicon()
	base := "https://example.com"

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"homepage", "https://example.com", 1000},
		{"important keyword", "https://example.com/contact", 900},
		{"content keyword", "https://example.com/blog", 80},
		{"shallow path", "https://example.com/misc", 70},
		{"depth two", "https://example.com/x/y", 60},
		{"depth three", "https://example.com/x/y/z", 50},
		{"deep path", "https://example.com/x/y/z/w", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priority(lex, tt.url, base, 0))
		})
	}
}

func TestIsRelevant(t *testing.T) {
	lex := config.DefaultLexicon()

	assert.True(t, IsRelevant(lex, "https://example.com/about"))
	assert.False(t, IsRelevant(lex, "https://example.com/file.pdf"))
	assert.False(t, IsRelevant(lex, "https://example.com/wp-admin/options"))
	assert.False(t, IsRelevant(lex, "https://example.com/page?token=xyz"))
	assert.True(t, IsRelevant(lex, "https://example.com/products?page=2"))
}
