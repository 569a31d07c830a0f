package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/seoscope/seoscope/internal/page"
)

// SchemaResult is the outcome of the structured data analysis.
type SchemaResult struct {
	Result
	SchemaTypes []string `json:"schema_types"`
}

// SchemaAnalyzer scores structured data on a raw 8-point scale that is then
// rescaled to 0-100 and clamped. Extra well-formed schemas can push the raw
// total past the nominal maximum; the clamp absorbs that.
type SchemaAnalyzer struct{}

func NewSchemaAnalyzer() *SchemaAnalyzer {
	return &SchemaAnalyzer{}
}

func (a *SchemaAnalyzer) Name() string { return "schema" }

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

const schemaMaxPoints = 8

func (a *SchemaAnalyzer) Analyze(in Input) SchemaResult {
	var res SchemaResult
	doc := in.Doc

	if !doc.HasSchema() {
		res.addIssue("No schema markup found")
		res.addSuggestion("Add structured data markup (JSON-LD recommended) for better search visibility")
		res.finalize(0)
		return res
	}

	points := 3 // presence

	for i := 0; i < doc.SchemaParseErrors; i++ {
		res.addIssue("Invalid JSON-LD syntax found")
		res.addSuggestion("Fix JSON syntax errors in structured data")
	}
	points += doc.ValidJSONLDCount

	var typesFound []string
	for _, schema := range doc.Schemas {
		res.SchemaTypes = append(res.SchemaTypes, "JSON-LD: "+schema.Type)
		typesFound = append(typesFound, strings.ToLower(schema.Type))
	}
	for _, t := range doc.MicrodataTypes {
		res.SchemaTypes = append(res.SchemaTypes, "Microdata: "+t)
		typesFound = append(typesFound, strings.ToLower(t))
		points++
	}

	hasType := func(names ...string) bool {
		for _, t := range typesFound {
			for _, n := range names {
				if t == n {
					return true
				}
			}
		}
		return false
	}
	findSchema := func(names ...string) *page.SchemaBlock {
		for i := range doc.Schemas {
			lower := strings.ToLower(doc.Schemas[i].Type)
			for _, n := range names {
				if lower == n {
					return &doc.Schemas[i]
				}
			}
		}
		return nil
	}

	if hasType("organization", "localbusiness") {
		if org := findSchema("organization", "localbusiness"); org != nil {
			missing := missingFields(org.Fields, "name", "url")
			if len(missing) > 0 {
				res.addIssue(fmt.Sprintf("Organization schema missing required fields: %s", strings.Join(missing, ", ")))
				res.addSuggestion("Add missing required fields to Organization schema")
			} else {
				res.addSuggestion("Organization schema has required fields (name, url)")
				points++
			}
			if _, hasPhone := org.Fields["telephone"]; !hasPhone {
				if _, hasContact := org.Fields["contactPoint"]; !hasContact {
					res.addSuggestion("Add contact information to Organization schema")
				} else {
					res.addSuggestion("Organization schema includes contact information")
				}
			} else {
				res.addSuggestion("Organization schema includes contact information")
			}
		}
	}

	if hasType("product") {
		if product := findSchema("product"); product != nil {
			missing := missingFields(product.Fields, "name", "description")
			if len(missing) > 0 {
				res.addIssue(fmt.Sprintf("Product schema missing fields: %s", strings.Join(missing, ", ")))
				res.addSuggestion("Add name and description to Product schema")
			} else {
				res.addSuggestion("Product schema has required fields (name, description)")
				points++
			}
			if _, hasOffers := product.Fields["offers"]; !hasOffers {
				if _, hasPrice := product.Fields["price"]; !hasPrice {
					res.addSuggestion("Add pricing information to Product schema")
				} else {
					res.addSuggestion("Product schema includes pricing information")
				}
			} else {
				res.addSuggestion("Product schema includes pricing information")
			}
		}
	}

	if hasType("article") {
		if article := findSchema("article"); article != nil {
			missing := missingFields(article.Fields, "headline", "author", "datePublished")
			if len(missing) > 0 {
				res.addIssue(fmt.Sprintf("Article schema missing fields: %s", strings.Join(missing, ", ")))
				res.addSuggestion("Add headline, author, and datePublished to Article schema")
			} else {
				res.addSuggestion("Article schema has required fields (headline, author, datePublished)")
				points++
			}
			if _, hasImage := article.Fields["image"]; !hasImage {
				res.addSuggestion("Add image to Article schema for rich snippets")
			} else {
				res.addSuggestion("Article schema includes image for rich snippets")
			}
		}
	}

	if hasType("breadcrumblist") {
		res.addSuggestion("BreadcrumbList schema is implemented")
		points++
	} else if doc.HasBreadcrumbNav {
		res.addSuggestion("Add BreadcrumbList schema to existing breadcrumb navigation")
	}

	if hasType("faqpage") {
		res.addSuggestion("FAQ schema is implemented")
		points++
	} else if doc.HasFAQMarkup {
		res.addSuggestion("Add FAQ schema to existing Q&A content")
	}

	if hasType("review", "aggregaterating") {
		res.addSuggestion("Review/Rating schema is implemented")
		points++
	} else if doc.HasRatingMarkup {
		res.addSuggestion("Add Review or AggregateRating schema to existing ratings")
	}

	typeCounts := make(map[string]int)
	var typeOrder []string
	for _, display := range res.SchemaTypes {
		name := display
		if idx := strings.Index(display, ": "); idx != -1 {
			name = display[idx+2:]
		}
		if typeCounts[name] == 0 {
			typeOrder = append(typeOrder, name)
		}
		typeCounts[name]++
	}
	var duplicates []string
	for _, name := range typeOrder {
		if typeCounts[name] > 1 {
			duplicates = append(duplicates, name)
		}
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		res.addIssue(fmt.Sprintf("Duplicate schema types found: %s", strings.Join(duplicates, ", ")))
		res.addSuggestion("Remove duplicate schema markup to avoid conflicts")
		points--
	}

	for _, schema := range doc.Schemas {
		typeLower := strings.ToLower(schema.Type)

		var keys []string
		for key := range schema.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if !strings.Contains(strings.ToLower(key), "url") {
				continue
			}
			if value, ok := schema.Fields[key].(string); ok {
				if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
					res.addIssue(fmt.Sprintf("Invalid URL in %s schema: %s", typeLower, key))
					res.addSuggestion("Use absolute URLs in schema markup")
				}
			}
		}

		for _, field := range []string{"datePublished", "dateModified", "startDate", "endDate"} {
			if value, ok := schema.Fields[field]; ok {
				if !isoDateRe.MatchString(fmt.Sprint(value)) {
					res.addIssue(fmt.Sprintf("Invalid date format in %s: %v", field, value))
					res.addSuggestion("Use ISO 8601 date format (YYYY-MM-DD) in schema")
				}
			}
		}
	}

	imagesFound := false
	for _, schema := range doc.Schemas {
		if _, ok := schema.Fields["image"]; ok {
			if !imagesFound {
				res.addSuggestion("Schema markup includes images for rich snippets")
				imagesFound = true
			}
			points++
		} else {
			switch strings.ToLower(schema.Type) {
			case "article", "product", "organization":
				res.addSuggestion(fmt.Sprintf("Add image to %s schema for rich snippets", schema.Type))
			}
		}
	}

	if len(doc.Schemas) > 0 || len(doc.MicrodataTypes) > 0 {
		points++
	}

	res.finalize(points * 100 / schemaMaxPoints)

	if (len(doc.Schemas) > 0 || len(doc.MicrodataTypes) > 0) &&
		len(res.SchemaTypes) <= 1 && len(res.Issues) == 0 {
		res.addIssue("Limited schema markup implementation")
	}
	if len(doc.Schemas) > 0 || len(doc.MicrodataTypes) > 0 {
		res.addSuggestion("Schema markup is present on the page")
	}
	switch res.Status {
	case StatusGood:
		res.addSuggestion("Schema markup is well-implemented for SEO")
	case StatusFair:
		res.addSuggestion("Schema markup needs improvement - add missing required fields")
	default:
		res.addSuggestion("Schema markup needs significant improvement or implementation")
	}
	return res
}

func missingFields(fields map[string]any, names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
