package config

// Lexicon bundles the fixed word lists and heuristic tables the analyzers and
// crawler consult. It is built once by DefaultLexicon and must be treated as
// read-only afterwards; all components share the same instance.
type Lexicon struct {
	// StopWords are excluded from meaningful-word and phrase extraction.
	StopWords map[string]bool

	// Acronyms are uppercase words that are not flagged as all-caps.
	Acronyms map[string]bool

	// ModifierWords may precede a front-loaded primary keyword in a title.
	ModifierWords map[string]bool

	// GenericTitleWords make a title non-descriptive.
	GenericTitleWords []string

	// GenericMetaPhrases make a meta description boilerplate.
	GenericMetaPhrases []string

	// GenericHeadings add no descriptive value.
	GenericHeadings []string

	// CTAPhrases are call-to-action phrases looked for in meta descriptions.
	CTAPhrases []string

	// CompellingWords are persuasive adjectives looked for in meta descriptions.
	CompellingWords []string

	// SkipExtensions are URL path extensions the crawler never visits.
	SkipExtensions []string

	// SkipPaths are URL path fragments the crawler never visits.
	SkipPaths []string

	// SkipQueryParams are query substrings that mark a URL as session-bound.
	SkipQueryParams []string

	// ImportantPathKeywords mark high-value pages for crawl priority.
	ImportantPathKeywords []string

	// ContentPathKeywords mark content-listing pages for crawl priority.
	ContentPathKeywords []string
}

// DefaultLexicon returns the shared heuristic tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		StopWords: wordSet(
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
			"for", "of", "with", "by", "is", "are", "was", "were", "be",
			"been", "being", "have", "has", "had", "do", "does", "did",
			"will", "would", "could", "should", "may", "might", "must",
			"can", "this", "that", "these", "those", "i", "you", "he",
			"she", "it", "we", "they", "what", "which", "who", "when",
			"where", "why", "how", "all", "each", "every", "both", "few",
			"more", "most", "other", "some", "such", "no", "nor", "not",
			"only", "own", "same", "so", "than", "too", "very", "just",
			"as", "its", "our", "your", "their",
		),
		Acronyms: wordSet(
			"HDPE", "PVC", "API", "ISO", "USA", "UK", "EU", "CEO", "CTO",
			"SEO", "HTML", "CSS", "JS", "AI", "ML", "IT", "HR", "PR",
			"ROI", "KPI", "FAQ", "PDF", "URL", "HTTP", "HTTPS", "FTP",
			"DNS", "IP", "TCP", "UDP", "SQL", "SDK", "IDE", "OS", "UI",
			"UX", "B2B", "B2C", "SaaS", "CRM", "ERP", "CMS", "LMS",
			"AWS", "GCP", "IBM", "AMD", "GPU", "CPU", "RAM", "SSD",
			"HDD", "USB", "WiFi", "GPS", "SMS", "MMS", "VPN", "SSL", "TLS",
		),
		ModifierWords: wordSet(
			"best", "top", "leading", "premium", "quality", "professional",
			"expert", "trusted", "affordable", "cheap", "custom", "local",
			"new", "latest", "modern", "advanced", "complete", "ultimate",
		),
		GenericTitleWords: []string{
			"welcome", "home", "page", "website", "site", "untitled",
		},
		GenericMetaPhrases: []string{
			"welcome to our website",
			"this is our website",
			"home page",
			"main page",
			"default description",
		},
		GenericHeadings: []string{
			"welcome", "about us", "about", "home", "contact us", "contact",
			"services", "products", "introduction", "overview", "more info",
			"click here", "read more", "learn more", "get started",
		},
		CTAPhrases: []string{
			"learn more", "discover", "explore", "find out", "get started",
			"contact us", "call now", "visit", "shop now", "buy now",
		},
		CompellingWords: []string{
			"unique", "exclusive", "proven", "expert", "professional",
			"quality", "trusted", "leading", "award-winning",
		},
		SkipExtensions: []string{
			".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".css", ".js",
			".xml", ".txt", ".zip", ".doc", ".docx", ".xls", ".xlsx",
			".mp4", ".mp3", ".avi", ".mov",
		},
		SkipPaths: []string{
			"/admin", "/wp-admin", "/login", "/register", "/cart",
			"/checkout", "/account", "/api/", "/ajax", "/feed", "/rss",
			"/sitemap",
		},
		SkipQueryParams: []string{
			"session", "token", "auth", "login", "logout",
		},
		ImportantPathKeywords: []string{
			"about", "contact", "testimonial", "review", "service",
			"product", "portfolio", "team", "career", "job",
		},
		ContentPathKeywords: []string{
			"category", "collection", "gallery", "blog", "news",
			"case-stud", "project",
		},
	}
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
