package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seoscope/seoscope/internal/textstats"
)

// BodyContentResult is the outcome of the body content analysis.
type BodyContentResult struct {
	Result
	WordCount      int `json:"word_count"`
	CharacterCount int `json:"character_count"`
}

// BodyContentAnalyzer scores page text: word count 30, keyword coverage 40,
// readability 10, duplication 20.
type BodyContentAnalyzer struct{}

func NewBodyContentAnalyzer() *BodyContentAnalyzer {
	return &BodyContentAnalyzer{}
}

func (a *BodyContentAnalyzer) Name() string { return "body_content" }

func (a *BodyContentAnalyzer) Analyze(in Input) BodyContentResult {
	var res BodyContentResult
	doc := in.Doc

	if !doc.HasBodyTag {
		res.addIssue("No body tag found")
		res.addSuggestion("Add a proper body tag to your HTML")
		res.finalize(0)
		return res
	}
	if !doc.HasBody() {
		res.addIssue("Body content is empty")
		res.addSuggestion("Add meaningful content to your page")
		res.finalize(0)
		return res
	}

	stats := textstats.Extract(doc.BodyText)
	res.WordCount = stats.WordCount
	res.CharacterCount = stats.CharCount
	bodyLower := strings.ToLower(doc.BodyText)

	score := 0
	switch {
	case res.WordCount >= 300 && res.WordCount <= 2000:
		score += 30
		res.addSuggestion("Content length is optimal for SEO")
	case res.WordCount > 2000:
		score += 25
		res.addSuggestion("Consider breaking long content into sections with subheadings")
	case res.WordCount >= 150:
		score += 15
		res.addIssue(fmt.Sprintf("Content could be longer (%d words)", res.WordCount))
		res.addSuggestion("Add more content - aim for at least 300 words for better SEO")
	default:
		res.addIssue(fmt.Sprintf("Content too short (%d words)", res.WordCount))
		res.addSuggestion("Add more content - aim for at least 300 words for better SEO")
	}

	if brand := in.Brand(); brand != "" {
		brandCount := strings.Count(bodyLower, strings.ToLower(brand))
		brandDensity := float64(brandCount) / float64(res.WordCount) * 100
		if brandDensity > 2 {
			res.addIssue(fmt.Sprintf("Brand name %q overused (%.1f%% density)", brand, brandDensity))
			res.addSuggestion(`Reduce brand name usage - use pronouns or "we/our" instead`)
		} else if brandDensity > 1.5 {
			res.addSuggestion(fmt.Sprintf("Brand name usage is high (%.1f%%) - consider variation", brandDensity))
		}
	}

	keywordScore := 0
	if in.Keywords.HasKeywords() {
		for i, keyword := range in.Keywords[1:] {
			rank := i + 1 // 1 = primary, 2+ = secondary
			kwLower := strings.ToLower(keyword)
			count := strings.Count(bodyLower, kwLower)
			density := float64(count) / float64(res.WordCount) * 100

			if rank == 1 {
				switch {
				case density >= 1 && density <= 2.5:
					keywordScore += 25
					res.addSuggestion(fmt.Sprintf("Primary keyword %q density is optimal (%.1f%%)", keyword, density))
				case density >= 0.5 && density < 1:
					keywordScore += 15
					res.addIssue(fmt.Sprintf("Primary keyword density could be higher (%.1f%%)", density))
					res.addSuggestion(fmt.Sprintf("Increase primary keyword %q usage to 1-2%% density", keyword))
				case density > 3:
					keywordScore += 10
					res.addIssue(fmt.Sprintf("Primary keyword density too high (%.1f%%)", density))
					res.addSuggestion(fmt.Sprintf("Reduce primary keyword %q usage to avoid keyword stuffing", keyword))
				case count == 0:
					res.addIssue(fmt.Sprintf("Primary keyword %q not found in body content", keyword))
					res.addSuggestion(fmt.Sprintf("Include primary keyword %q naturally in your content", keyword))
				default:
					keywordScore += 5
					res.addIssue(fmt.Sprintf("Primary keyword density too low (%.1f%%)", density))
					res.addSuggestion(fmt.Sprintf("Increase primary keyword %q usage to 1-2%% density", keyword))
				}
			} else if rank < 3 {
				if count > 0 {
					bonus := count * 2
					if bonus > 7 {
						bonus = 7
					}
					keywordScore += bonus
					res.addSuggestion(fmt.Sprintf("Secondary keyword %q found in content", keyword))
				} else {
					res.addSuggestion(fmt.Sprintf("Consider including secondary keyword %q in content", keyword))
				}
			}
		}
	}
	score += keywordScore

	if len(doc.Headings) == 0 {
		res.addIssue("No headings found in content")
		res.addSuggestion("Add headings (H1, H2, H3) to structure your content")
	} else if doc.HeadingCounts[1] == 0 {
		res.addIssue("No H1 tag found")
		res.addSuggestion("Add an H1 tag as the main heading")
	} else if doc.HeadingCounts[1] > 1 {
		res.addIssue(fmt.Sprintf("Multiple H1 tags found (%d)", doc.HeadingCounts[1]))
		res.addSuggestion("Use only one H1 tag per page")
	}

	if len(doc.InternalLinks) == 0 {
		res.addSuggestion("Add internal links to other pages on your site")
	}
	if len(doc.ExternalLinks) == 0 {
		res.addSuggestion("Consider adding relevant external links to authoritative sources")
	}

	readability := 10
	if stats.SentenceCount > 0 {
		if stats.AvgWordsPerSent > 25 {
			readability = 5
			res.addIssue(fmt.Sprintf("Average sentence length too long (%.1f words)", stats.AvgWordsPerSent))
			res.addSuggestion("Break up long sentences for better readability")
		} else if stats.AvgWordsPerSent < 8 {
			readability = 7
			res.addSuggestion("Consider combining very short sentences for better flow")
		}
	}
	score += readability

	duplication := 20
	if len(doc.Paragraphs) > 1 {
		seen := make(map[string]bool)
		for _, p := range doc.Paragraphs {
			if seen[p] {
				duplication = 0
				res.addIssue("Duplicate paragraphs detected")
				res.addSuggestion("Remove or rewrite duplicate content")
				break
			}
			seen[p] = true
		}
	}

	if res.WordCount > 100 && len(in.Keywords) == 0 {
		threshold := float64(res.WordCount) * 0.02
		var repeated []string
		for word, count := range stats.WordFrequencies {
			if float64(count) > threshold {
				repeated = append(repeated, word)
			}
		}
		if len(repeated) > 0 {
			sort.Strings(repeated)
			if len(repeated) > 3 {
				repeated = repeated[:3]
			}
			duplication -= 10
			res.addIssue(fmt.Sprintf("Repetitive words detected: %s", strings.Join(repeated, ", ")))
			res.addSuggestion("Vary your vocabulary to avoid repetitive content")
		}
	}
	if duplication > 0 {
		score += duplication
	}

	if !doc.HasBold && !doc.HasItalic {
		res.addSuggestion("Use bold/strong and italic/emphasis tags to highlight important content")
	}
	if !doc.HasLists && res.WordCount > 500 {
		res.addSuggestion("Consider using bullet points or numbered lists to improve readability")
	}

	res.finalize(score)
	if len(res.Issues) == 0 && res.Score >= 80 {
		res.addSuggestion("Body content looks well-optimized")
	}
	return res
}
