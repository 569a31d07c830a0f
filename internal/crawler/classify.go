package crawler

import (
	"net/url"
	"strings"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/urlutil"
)

// PageType labels a discovered URL by its likely role on the site.
type PageType string

const (
	PageHomepage     PageType = "HOMEPAGE"
	PageContact      PageType = "CONTACT"
	PageAbout        PageType = "ABOUT"
	PageTestimonials PageType = "TESTIMONIALS"
	PageServices     PageType = "SERVICES"
	PageProducts     PageType = "PRODUCTS"
	PagePortfolio    PageType = "PORTFOLIO"
	PageTeam         PageType = "TEAM"
	PageCareers      PageType = "CAREERS"
	PageBlog         PageType = "BLOG"
	PageCategory     PageType = "CATEGORY"
	PageOther        PageType = "OTHER"
)

// pathTypes maps path keywords to page types, checked in order.
var pathTypes = []struct {
	keywords []string
	pageType PageType
}{
	{[]string{"contact"}, PageContact},
	{[]string{"about"}, PageAbout},
	{[]string{"testimonial", "review"}, PageTestimonials},
	{[]string{"service"}, PageServices},
	{[]string{"product"}, PageProducts},
	{[]string{"portfolio", "gallery"}, PagePortfolio},
	{[]string{"team", "staff"}, PageTeam},
	{[]string{"career", "job"}, PageCareers},
	{[]string{"blog", "news"}, PageBlog},
	{[]string{"category", "collection"}, PageCategory},
}

// Classify labels a normalized URL relative to the normalized site root.
func Classify(normalizedURL, normalizedBase string) PageType {
	if normalizedURL == normalizedBase {
		return PageHomepage
	}
	lower := strings.ToLower(normalizedURL)
	for _, pt := range pathTypes {
		for _, kw := range pt.keywords {
			if strings.Contains(lower, kw) {
				return pt.pageType
			}
		}
	}
	return PageOther
}

// priority scores a normalized URL for analysis ordering. Backlink
// counts from the rest of the site are added on top of the base tier.
func priority(lex *config.Lexicon, normalizedURL, normalizedBase string, backlinks int) int {
	if normalizedURL == normalizedBase {
		return 1000 + backlinks
	}

	lower := strings.ToLower(normalizedURL)
	for _, kw := range lex.ImportantPathKeywords {
		if strings.Contains(lower, kw) {
			return 900 + backlinks
		}
	}
	for _, kw := range lex.ContentPathKeywords {
		if strings.Contains(lower, kw) {
			return 80 + backlinks
		}
	}

	switch depth := urlutil.PathDepth(normalizedURL); {
	case depth <= 1:
		return 70 + backlinks
	case depth == 2:
		return 60 + backlinks
	case depth == 3:
		return 50 + backlinks
	default:
		return 40 + backlinks
	}
}

// IsRelevant filters out URLs that cannot be content pages: binary and
// asset extensions, administrative paths, and session-bound queries.
func IsRelevant(lex *config.Lexicon, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range lex.SkipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	for _, p := range lex.SkipPaths {
		if strings.Contains(path, p) {
			return false
		}
	}
	if u.RawQuery != "" {
		query := strings.ToLower(u.RawQuery)
		for _, p := range lex.SkipQueryParams {
			if strings.Contains(query, p) {
				return false
			}
		}
	}
	return true
}
