// Package page parses HTML into the structured document model the analyzers
// consume. Parsing is tolerant: malformed markup never fails, it just yields
// fewer signals.
package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Heading is a single hN element in document order.
type Heading struct {
	Level int
	Text  string
}

// Image captures the attributes of an <img> element relevant to auditing.
// Alt is the raw attribute value, untrimmed; HasAlt distinguishes a missing
// attribute from an empty one.
type Image struct {
	Src       string
	Alt       string
	HasAlt    bool
	Title     string
	Loading   string
	Srcset    string
	Width     string
	Height    string
	Role      string
	InFigure  bool
	InPicture bool
}

// SchemaBlock is one object extracted from a JSON-LD script.
type SchemaBlock struct {
	Type   string
	Fields map[string]any
}

// TitleInfo describes the <title> element(s) of a document.
type TitleInfo struct {
	Count  int
	Text   string // first title's text, trimmed
	InBody bool
}

// MetaDescription describes the meta description tag(s) of a document.
type MetaDescription struct {
	Count        int
	Content      string // first tag's content, trimmed
	UsesProperty bool   // property="description" instead of name=
	InBody       bool
}

// Document is the parsed view of a single page.
type Document struct {
	URL   string
	Title TitleInfo
	Meta  MetaDescription

	// MetaKeywords is the raw content of <meta name="keywords">, if any.
	MetaKeywords string

	Headings      []Heading
	HeadingCounts [7]int // index by level, 1..6

	Images []Image

	// Links are absolute URLs of same-host anchors, in document order.
	InternalLinks []string
	ExternalLinks []string
	SpecialLinks  []string // mailto:, tel:, javascript:

	// Structured data.
	Schemas           []SchemaBlock
	ValidJSONLDCount  int // scripts that parsed as JSON, with or without @type
	SchemaParseErrors int
	MicrodataTypes    []string // schema.org itemtype values, short names
	HasRDFa           bool

	// Visible markup hints for structured-data suggestions.
	HasBreadcrumbNav bool
	HasFAQMarkup     bool
	HasRatingMarkup  bool

	Paragraphs []string
	BodyText   string

	// HasBodyTag reports whether the markup itself carried a <body> tag;
	// the HTML parser synthesizes one when it is missing.
	HasBodyTag bool

	HasLists  bool
	HasBold   bool
	HasItalic bool
}

var (
	breadcrumbRe = regexp.MustCompile(`(?i)breadcrumb`)
	faqRe        = regexp.MustCompile(`(?i)faq|question`)
	ratingRe     = regexp.MustCompile(`(?i)rating|star|review`)
)

// Parse builds a Document from raw HTML. baseURL anchors relative links and
// decides the internal/external split; an unparseable baseURL disables the
// split but is not an error.
func Parse(html []byte, baseURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	d := &Document{URL: baseURL}
	d.HasBodyTag = bytes.Contains(bytes.ToLower(html), []byte("<body"))
	base, _ := url.Parse(baseURL)

	d.parseTitle(doc)
	d.parseMeta(doc)
	d.parseHeadings(doc)
	d.parseImages(doc)
	d.parseLinks(doc, base)
	d.parseSchemas(doc)
	d.parseBody(doc)

	return d, nil
}

func (d *Document) parseTitle(doc *goquery.Document) {
	titles := doc.Find("title")
	d.Title.Count = titles.Length()
	if d.Title.Count > 0 {
		d.Title.Text = strings.TrimSpace(titles.First().Text())
	}
	d.Title.InBody = doc.Find("body title").Length() > 0
}

func (d *Document) parseMeta(doc *goquery.Document) {
	metas := doc.Find(`meta[name="description"], meta[property="description"]`)
	d.Meta.Count = metas.Length()
	if d.Meta.Count > 0 {
		first := metas.First()
		d.Meta.Content = strings.TrimSpace(first.AttrOr("content", ""))
		_, hasName := first.Attr("name")
		d.Meta.UsesProperty = !hasName
	}
	d.Meta.InBody = doc.Find(`body meta[name="description"], body meta[property="description"]`).Length() > 0

	d.MetaKeywords = strings.TrimSpace(doc.Find(`meta[name="keywords"]`).First().AttrOr("content", ""))
}

func (d *Document) parseHeadings(doc *goquery.Document) {
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		if level < 1 || level > 6 {
			return
		}
		d.Headings = append(d.Headings, Heading{
			Level: level,
			Text:  strings.TrimSpace(s.Text()),
		})
		d.HeadingCounts[level]++
	})
}

func (d *Document) parseImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		alt, hasAlt := s.Attr("alt")
		d.Images = append(d.Images, Image{
			Src:       s.AttrOr("src", ""),
			Alt:       alt,
			HasAlt:    hasAlt,
			Title:     s.AttrOr("title", ""),
			Loading:   s.AttrOr("loading", ""),
			Srcset:    s.AttrOr("srcset", ""),
			Width:     s.AttrOr("width", ""),
			Height:    s.AttrOr("height", ""),
			Role:      s.AttrOr("role", ""),
			InFigure:  s.ParentsFiltered("figure").Length() > 0,
			InPicture: goquery.NodeName(s.Parent()) == "picture",
		})
	})
}

func (d *Document) parseLinks(doc *goquery.Document, base *url.URL) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(lower, "javascript:") {
			d.SpecialLinks = append(d.SpecialLinks, href)
			return
		}
		if base == nil {
			d.ExternalLinks = append(d.ExternalLinks, href)
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if sameHost(abs.Host, base.Host) {
			d.InternalLinks = append(d.InternalLinks, abs.String())
		} else {
			d.ExternalLinks = append(d.ExternalLinks, abs.String())
		}
	})
}

func sameHost(a, b string) bool {
	trim := func(h string) string {
		return strings.TrimPrefix(strings.ToLower(h), "www.")
	}
	return trim(a) == trim(b)
}

func (d *Document) parseSchemas(doc *goquery.Document) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			d.SchemaParseErrors++
			return
		}
		switch v := payload.(type) {
		case []any:
			d.ValidJSONLDCount++
			for _, item := range v {
				if obj, ok := item.(map[string]any); ok {
					d.appendSchema(obj)
				}
			}
		case map[string]any:
			d.ValidJSONLDCount++
			d.appendSchema(v)
		default:
			d.SchemaParseErrors++
		}
	})

	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		itemtype := s.AttrOr("itemtype", "")
		if strings.Contains(itemtype, "schema.org") {
			parts := strings.Split(itemtype, "/")
			d.MicrodataTypes = append(d.MicrodataTypes, parts[len(parts)-1])
		}
	})

	d.HasRDFa = doc.Find("[typeof]").Length() > 0

	doc.Find("nav").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if breadcrumbRe.MatchString(s.AttrOr("aria-label", "")) {
			d.HasBreadcrumbNav = true
			return false
		}
		return true
	})
	if !d.HasBreadcrumbNav {
		d.HasBreadcrumbNav = hasClassMatching(doc, breadcrumbRe)
	}
	d.HasFAQMarkup = hasClassMatchingIn(doc, "details, div", faqRe)
	d.HasRatingMarkup = hasClassMatching(doc, ratingRe)
}

func (d *Document) appendSchema(obj map[string]any) {
	block := SchemaBlock{Fields: obj}
	if t, ok := obj["@type"].(string); ok {
		block.Type = t
	}
	if block.Type == "" {
		return
	}
	d.Schemas = append(d.Schemas, block)
}

func hasClassMatching(doc *goquery.Document, re *regexp.Regexp) bool {
	return hasClassMatchingIn(doc, "[class]", re)
}

func hasClassMatchingIn(doc *goquery.Document, selector string, re *regexp.Regexp) bool {
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if re.MatchString(s.AttrOr("class", "")) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (d *Document) parseBody(doc *goquery.Document) {
	body := doc.Find("body")
	if body.Length() == 0 {
		return
	}

	body.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			d.Paragraphs = append(d.Paragraphs, text)
		}
	})

	clone := body.Clone()
	clone.Find("script, style, noscript").Remove()
	d.BodyText = strings.Join(strings.Fields(clone.Text()), " ")

	d.HasLists = body.Find("ul, ol").Length() > 0
	d.HasBold = body.Find("b, strong").Length() > 0
	d.HasItalic = body.Find("i, em").Length() > 0
}

// HasBody reports whether the document contains a body element with content.
func (d *Document) HasBody() bool {
	return d.BodyText != "" || len(d.Paragraphs) > 0
}

// H1s returns the texts of all level-1 headings in order.
func (d *Document) H1s() []string {
	var out []string
	for _, h := range d.Headings {
		if h.Level == 1 {
			out = append(out, h.Text)
		}
	}
	return out
}

// HasSchema reports whether any form of structured data is present.
func (d *Document) HasSchema() bool {
	return d.ValidJSONLDCount > 0 || d.SchemaParseErrors > 0 ||
		len(d.MicrodataTypes) > 0 || d.HasRDFa
}
