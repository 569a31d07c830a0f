// Package urlutil provides URL normalization shared by the crawler and
// the site architecture checks.
package urlutil

import (
	"net/url"
	"strings"
)

// homepageAliases are paths that resolve to the site root.
var homepageAliases = map[string]bool{
	"":              true,
	"/index.html":   true,
	"/index.htm":    true,
	"/index.php":    true,
	"/default.html": true,
	"/default.htm":  true,
}

// Normalize canonicalizes a URL for deduplication: the fragment is
// dropped, trailing slashes are trimmed, and common homepage aliases
// collapse to the bare host.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	path := strings.TrimRight(u.Path, "/")
	if homepageAliases[strings.ToLower(path)] {
		path = ""
	}

	normalized := u.Scheme + "://" + u.Host + path
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	return normalized, nil
}

// Resolve resolves a possibly relative reference against a base URL.
func Resolve(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// Host returns the lowercased host of a URL with any www prefix removed.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameHost reports whether two URLs point at the same site, treating
// www and bare hosts as equivalent.
func SameHost(a, b string) bool {
	ha, hb := Host(a), Host(b)
	return ha != "" && ha == hb
}

// PathDepth counts the non-empty path segments of a URL.
func PathDepth(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	depth := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}
