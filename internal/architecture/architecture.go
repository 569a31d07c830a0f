// Package architecture evaluates site-level structure: crawlability,
// sitemap coverage, click depth, URL hygiene, and link health.
package architecture

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/seoscope/seoscope/internal/analyzer"
	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/crawler"
	"github.com/seoscope/seoscope/internal/page"
	"github.com/seoscope/seoscope/internal/robots"
)

const structureWorkers = 2

var keywordPathRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// Crawlability reports robots.txt presence and crawl permission. It is
// informational and does not contribute to the score.
type Crawlability struct {
	RobotsTxtFound  bool
	CrawlingAllowed bool
}

// Indexability reports sitemap.xml presence and size.
type Indexability struct {
	SitemapFound  bool
	URLsInSitemap int
}

// Structure summarizes the click-depth distribution of crawled pages.
type Structure struct {
	MaxDepth          int
	FlatPercent       float64
	DepthDistribution map[int]int
}

// URLAnalysis summarizes URL quality and link health counters.
type URLAnalysis struct {
	TotalURLs   int
	BrokenLinks int
	Redirects   int
	DeepPages   int
	KeywordURLs int
	CleanURLs   int
}

// Report is the full architecture assessment.
type Report struct {
	PagesCrawled int
	Crawlability Crawlability
	Indexability Indexability
	Structure    Structure
	URLs         URLAnalysis
	Score        int
	Status       analyzer.Status
	Issues       []string
	Suggestions  []string
}

// Analyzer runs the architecture checks with its own shallow crawl.
type Analyzer struct {
	cfg   *config.Config
	lex   *config.Lexicon
	fetch crawler.Fetcher
	log   *logrus.Entry
}

// New creates an architecture analyzer using the given fetcher.
func New(cfg *config.Config, lex *config.Lexicon, f crawler.Fetcher, log *logrus.Logger) *Analyzer {
	return &Analyzer{
		cfg:   cfg,
		lex:   lex,
		fetch: f,
		log:   log.WithField("component", "architecture"),
	}
}

// Analyze crawls up to the configured page budget and scores the site
// structure on a 100-point scale.
func (a *Analyzer) Analyze(ctx context.Context) (*Report, error) {
	base, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", a.cfg.BaseURL, err)
	}
	origin := base.Scheme + "://" + base.Host

	rep := &Report{
		Structure: Structure{DepthDistribution: make(map[int]int)},
	}
	score := 0

	rep.Crawlability = a.checkRobots(ctx, origin)
	score += a.checkSitemap(ctx, origin, rep)

	depths, visited, broken, redirects := a.crawlStructure(ctx, base)
	rep.PagesCrawled = len(depths)

	score += a.scoreDepth(depths, rep)
	score += a.scoreDeepPages(depths, visited, rep)
	score += a.scoreURLHygiene(visited, rep)
	score += a.scoreLinkHealth(broken, redirects, len(visited), rep)

	rep.URLs.TotalURLs = len(visited)
	rep.URLs.BrokenLinks = broken
	rep.URLs.Redirects = redirects

	if !rep.Crawlability.RobotsTxtFound {
		rep.Issues = append(rep.Issues, "Robots.txt file not found")
		rep.Suggestions = append(rep.Suggestions, "Create a robots.txt file to guide search engine crawlers")
	}
	if !rep.Crawlability.CrawlingAllowed {
		rep.Issues = append(rep.Issues, "Crawling is blocked by robots.txt")
		rep.Suggestions = append(rep.Suggestions, "Review robots.txt to ensure important pages are crawlable")
	}

	rep.Score = score
	rep.Status = analyzer.StatusFor(score)
	if len(rep.Issues) == 0 && score >= 80 {
		rep.Suggestions = append(rep.Suggestions, "Website architecture looks well-optimized for SEO")
	}
	return rep, nil
}

func (a *Analyzer) checkRobots(ctx context.Context, origin string) Crawlability {
	c := Crawlability{CrawlingAllowed: true}

	resp, err := a.fetch.Fetch(ctx, origin+"/robots.txt")
	if err != nil || resp.StatusCode != 200 {
		return c
	}
	c.RobotsTxtFound = true

	f := robots.Parse(string(resp.Body))
	c.CrawlingAllowed = f.IsAllowed("*", robots.PathForMatching(a.cfg.BaseURL))
	return c
}

type sitemapIndex struct {
	XMLName  xml.Name   `xml:"sitemapindex"`
	Sitemaps []struct{} `xml:"sitemap"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []struct{} `xml:"url"`
}

// checkSitemap scores sitemap coverage: 25 for a sitemap with URLs, 10
// for an empty or invalid one, 0 when missing.
func (a *Analyzer) checkSitemap(ctx context.Context, origin string, rep *Report) int {
	resp, err := a.fetch.Fetch(ctx, origin+"/sitemap.xml")
	if err != nil || resp.StatusCode != 200 {
		rep.Issues = append(rep.Issues, "Sitemap.xml not found")
		rep.Suggestions = append(rep.Suggestions, "Create and submit an XML sitemap to help search engines discover your pages")
		return 0
	}
	rep.Indexability.SitemapFound = true
	rep.Indexability.URLsInSitemap = countSitemapURLs(resp.Body)

	if rep.Indexability.URLsInSitemap > 0 {
		rep.Suggestions = append(rep.Suggestions, "Sitemap.xml found with URLs")
		return 25
	}
	rep.Issues = append(rep.Issues, "Sitemap.xml is empty or invalid")
	rep.Suggestions = append(rep.Suggestions, "Ensure your sitemap contains valid URLs and follows XML sitemap protocol")
	return 10
}

func countSitemapURLs(data []byte) int {
	var idx sitemapIndex
	if err := xml.Unmarshal(data, &idx); err == nil {
		return len(idx.Sitemaps)
	}
	var set urlSet
	if err := xml.Unmarshal(data, &set); err == nil {
		return len(set.URLs)
	}
	return 0
}

// crawlStructure walks the site breadth-first with two workers, keyed
// by scheme://host/path so query variants collapse. It returns depths
// of successfully fetched pages, all visited URLs, and the broken link
// and redirect counters.
func (a *Analyzer) crawlStructure(ctx context.Context, base *url.URL) (map[string]int, []string, int, int) {
	var mu sync.Mutex
	visited := make(map[string]bool)
	depths := make(map[string]int)
	broken := 0
	redirects := 0

	seed := structureKey(base)
	type item struct {
		url   string
		depth int
	}
	frontier := []item{{seed, 0}}
	visited[seed] = true

	for len(frontier) > 0 {
		var next []item
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(structureWorkers)

		for _, it := range frontier {
			it := it
			g.Go(func() error {
				resp, err := a.fetch.Fetch(gctx, it.url)
				if err != nil {
					mu.Lock()
					broken++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				if resp.RedirectCount() > 0 {
					redirects++
				}
				mu.Unlock()
				if !resp.IsSuccess() {
					mu.Lock()
					broken++
					mu.Unlock()
					return nil
				}

				doc, err := page.Parse(resp.Body, resp.FinalURL)
				if err != nil {
					return nil
				}

				mu.Lock()
				depths[it.url] = it.depth
				for _, link := range doc.InternalLinks {
					lu, err := url.Parse(link)
					if err != nil {
						continue
					}
					key := structureKey(lu)
					if visited[key] || len(visited) >= a.cfg.MaxPages {
						continue
					}
					if !crawler.IsRelevant(a.lex, key) {
						continue
					}
					visited[key] = true
					next = append(next, item{key, it.depth + 1})
				}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			break
		}
		frontier = next
	}

	urls := make([]string, 0, len(visited))
	for u := range visited {
		urls = append(urls, u)
	}
	return depths, urls, broken, redirects
}

func structureKey(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// scoreDepth awards up to 25 points for shallow, flat structures.
func (a *Analyzer) scoreDepth(depths map[string]int, rep *Report) int {
	if len(depths) == 0 {
		return 0
	}

	maxDepth := 0
	atDepthOne := 0
	for _, d := range depths {
		rep.Structure.DepthDistribution[d]++
		if d > maxDepth {
			maxDepth = d
		}
		if d <= 1 {
			atDepthOne++
		}
	}
	flatPercent := float64(atDepthOne) / float64(len(depths)) * 100
	rep.Structure.MaxDepth = maxDepth
	rep.Structure.FlatPercent = flatPercent

	score := 0
	switch {
	case maxDepth <= 3:
		score += 15
	case maxDepth <= 4:
		score += 10
	default:
		score += 5
		rep.Issues = append(rep.Issues, fmt.Sprintf("Site has deep page structure (max depth: %d clicks)", maxDepth))
		rep.Suggestions = append(rep.Suggestions, "Reduce page depth - important pages should be reachable within 3 clicks")
	}

	switch {
	case flatPercent >= 80:
		score += 10
	case flatPercent >= 60:
		score += 7
	default:
		score += 3
		rep.Issues = append(rep.Issues, fmt.Sprintf("Site structure is not flat enough (%.1f%% at depth ≤1)", flatPercent))
		rep.Suggestions = append(rep.Suggestions, "Improve site architecture by moving important pages closer to homepage")
	}
	return score
}

// scoreDeepPages awards up to 20 points based on the share of pages
// more than three clicks deep.
func (a *Analyzer) scoreDeepPages(depths map[string]int, visited []string, rep *Report) int {
	deep := 0
	for _, d := range depths {
		if d > 3 {
			deep++
		}
	}
	rep.URLs.DeepPages = deep
	if deep == 0 || len(visited) == 0 {
		return 20
	}

	rate := float64(deep) / float64(len(visited)) * 100
	switch {
	case rate <= 10:
		return 20
	case rate <= 20:
		return 15
	case rate <= 30:
		return 10
	default:
		rep.Issues = append(rep.Issues, fmt.Sprintf("%d pages are more than 3 clicks deep", deep))
		rep.Suggestions = append(rep.Suggestions, "Restructure navigation to make deep pages more accessible")
		return 5
	}
}

// scoreURLHygiene awards up to 15 points for clean, keyword-friendly
// URLs.
func (a *Analyzer) scoreURLHygiene(visited []string, rep *Report) int {
	if len(visited) == 0 {
		return 0
	}

	clean := 0
	keyworded := 0
	for _, raw := range visited {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		path := strings.ToLower(u.Path)
		if u.RawQuery == "" && !strings.HasSuffix(path, ".php") && !strings.HasSuffix(path, ".asp") {
			clean++
		}
		if keywordPathRe.MatchString(path) {
			keyworded++
		}
	}
	rep.URLs.CleanURLs = clean
	rep.URLs.KeywordURLs = keyworded

	total := len(visited)
	score := 0

	switch ratio := float64(clean) / float64(total); {
	case ratio >= 0.9:
		score += 7
	case ratio >= 0.7:
		score += 5
	default:
		score += 2
		rep.Issues = append(rep.Issues, fmt.Sprintf("Only %d/%d URLs are clean", clean, total))
		rep.Suggestions = append(rep.Suggestions, "Remove unnecessary query parameters and use clean URL structure")
	}

	switch ratio := float64(keyworded) / float64(total); {
	case ratio >= 0.8:
		score += 8
	case ratio >= 0.6:
		score += 5
	default:
		score += 2
		rep.Issues = append(rep.Issues, fmt.Sprintf("Only %d/%d URLs are keyword-friendly", keyworded, total))
		rep.Suggestions = append(rep.Suggestions, "Use descriptive, keyword-rich URLs instead of generic IDs or numbers")
	}
	return score
}

// scoreLinkHealth awards up to 15 points for broken link and redirect
// management.
func (a *Analyzer) scoreLinkHealth(broken, redirects, total int, rep *Report) int {
	score := 0

	switch {
	case broken == 0:
		score += 8
	case broken <= 2:
		score += 5
	default:
		score += 2
		rep.Issues = append(rep.Issues, fmt.Sprintf("%d broken internal links found", broken))
		rep.Suggestions = append(rep.Suggestions, "Fix broken internal links to improve user experience and crawlability")
	}

	switch {
	case float64(redirects) <= float64(total)*0.1:
		score += 7
	case float64(redirects) <= float64(total)*0.2:
		score += 4
	default:
		score += 1
		rep.Issues = append(rep.Issues, fmt.Sprintf("High number of redirects (%d)", redirects))
		rep.Suggestions = append(rep.Suggestions, "Minimize redirects to improve page load speed and crawl efficiency")
	}
	return score
}
