// Package robots parses robots.txt files so the architecture checks
// can report whether crawling is permitted.
package robots

import (
	"bufio"
	"net/url"
	"regexp"
	"strings"
)

// File is a parsed robots.txt file.
type File struct {
	rules map[string]*agentRules

	// Sitemaps lists Sitemap: directives in declaration order.
	Sitemaps []string
}

type agentRules struct {
	allow    []string
	disallow []string

	allowPatterns    []*regexp.Regexp
	disallowPatterns []*regexp.Regexp
}

// Parse parses robots.txt content. Unknown directives are ignored.
func Parse(content string) *File {
	f := &File{rules: make(map[string]*agentRules)}

	scanner := bufio.NewScanner(strings.NewReader(content))
	var currentAgents []string
	inGroup := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if idx := strings.Index(line, "#"); idx != -1 {
			line = strings.TrimSpace(line[:idx])
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		directive := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch directive {
		case "user-agent":
			agent := strings.ToLower(value)
			if inGroup {
				currentAgents = append(currentAgents, agent)
			} else {
				currentAgents = []string{agent}
			}
			if _, ok := f.rules[agent]; !ok {
				f.rules[agent] = &agentRules{}
			}

		case "disallow":
			inGroup = false
			for _, agent := range currentAgents {
				r := f.rules[agent]
				r.disallow = append(r.disallow, value)
				r.disallowPatterns = append(r.disallowPatterns, compilePattern(value))
			}

		case "allow":
			inGroup = false
			for _, agent := range currentAgents {
				r := f.rules[agent]
				r.allow = append(r.allow, value)
				r.allowPatterns = append(r.allowPatterns, compilePattern(value))
			}

		case "sitemap":
			f.Sitemaps = append(f.Sitemaps, value)

		default:
			inGroup = false
		}

		if directive == "user-agent" {
			inGroup = true
		}
	}

	return f
}

// IsAllowed reports whether the given user agent may fetch the URL
// path. When allow and disallow rules both match, the longer rule
// wins.
func (f *File) IsAllowed(userAgent, urlPath string) bool {
	rules := f.rulesFor(userAgent)
	if rules == nil {
		return true
	}
	if urlPath == "" {
		urlPath = "/"
	}

	allowMatch := bestMatch(rules.allow, rules.allowPatterns, urlPath)
	disallowMatch := bestMatch(rules.disallow, rules.disallowPatterns, urlPath)

	if disallowMatch == "" {
		return true
	}
	if allowMatch == "" {
		return false
	}
	return len(allowMatch) >= len(disallowMatch)
}

func (f *File) rulesFor(userAgent string) *agentRules {
	userAgent = strings.ToLower(userAgent)

	if r, ok := f.rules[userAgent]; ok {
		return r
	}
	for agent, r := range f.rules {
		if agent != "*" && strings.Contains(userAgent, agent) {
			return r
		}
	}
	if r, ok := f.rules["*"]; ok {
		return r
	}
	return nil
}

func bestMatch(patterns []string, compiled []*regexp.Regexp, path string) string {
	var best string
	for i, pattern := range patterns {
		if pattern == "" {
			continue
		}
		var matched bool
		if compiled[i] != nil {
			matched = compiled[i].MatchString(path)
		} else {
			matched = strings.HasPrefix(path, pattern)
		}
		if matched && len(pattern) > len(best) {
			best = pattern
		}
	}
	return best
}

// compilePattern turns a robots.txt rule into an anchored regexp,
// honoring * wildcards and a trailing $ anchor.
func compilePattern(pattern string) *regexp.Regexp {
	if pattern == "" || !strings.ContainsAny(pattern, "*$") {
		return nil
	}

	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	if strings.HasSuffix(escaped, `\$`) {
		escaped = escaped[:len(escaped)-2] + "$"
	}

	re, err := regexp.Compile("^" + escaped)
	if err != nil {
		return nil
	}
	return re
}

// PathForMatching extracts the path (plus query) of a URL for rule
// matching.
func PathForMatching(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}
