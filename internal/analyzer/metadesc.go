package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/seoscope/seoscope/internal/config"
)

// MetaDescriptionResult is the outcome of the meta description analysis.
type MetaDescriptionResult struct {
	Result
	Description string `json:"meta_description"`
	Length      int    `json:"length"`
}

// MetaDescriptionAnalyzer scores the meta description: presence 25, length 20,
// uniqueness 25 and keyword alignment 30. Required suggestions are emitted
// before optional ones.
type MetaDescriptionAnalyzer struct {
	lex *config.Lexicon
}

func NewMetaDescriptionAnalyzer(lex *config.Lexicon) *MetaDescriptionAnalyzer {
	return &MetaDescriptionAnalyzer{lex: lex}
}

func (a *MetaDescriptionAnalyzer) Name() string { return "meta_description" }

func (a *MetaDescriptionAnalyzer) Analyze(in Input) MetaDescriptionResult {
	var res MetaDescriptionResult
	var required, optional []string
	doc := in.Doc

	if doc.Meta.Count > 0 && doc.Meta.UsesProperty {
		res.addIssue(`Meta description using property="description" instead of name="description"`)
		required = append(required, `Change property="description" to name="description" for proper SEO`)
	}
	if doc.Meta.Count > 1 {
		res.addIssue(fmt.Sprintf("Multiple meta description tags found (%d tags)", doc.Meta.Count))
		required = append(required, "Remove duplicate meta description tags - only one should exist")
	}
	if doc.Meta.InBody {
		res.addIssue("Meta description found in body section instead of head")
		required = append(required, "Move meta description tag to the <head> section for proper SEO")
	}

	desc := strings.Join(strings.Fields(doc.Meta.Content), " ")
	if doc.Meta.Count == 0 || desc == "" {
		res.addIssue("Missing meta description")
		required = append(required, "Add a meta description tag to improve search result snippets")
		res.Description = "No meta description found"
		res.Suggestions = required
		res.finalize(0)
		return res
	}

	score := 25 // presence
	res.Description = desc
	res.Length = utf8.RuneCountInString(desc)
	descLower := strings.ToLower(desc)
	words := strings.Fields(descLower)

	switch {
	case res.Length >= 150 && res.Length <= 160:
		score += 20
		required = append(required, "Meta description length is optimal (150-160 characters)")
	case res.Length >= 120:
		score += 15
		required = append(required, "Meta description could be slightly longer for better optimization")
	case res.Length > 160:
		score += 10
		res.addIssue(fmt.Sprintf("Meta description is too long (%d characters)", res.Length))
		required = append(required, "Meta description should be between 150-160 characters to avoid truncation")
	default:
		res.addIssue(fmt.Sprintf("Meta description is too short (%d characters)", res.Length))
		required = append(required, "Meta description should be between 150-160 characters for optimal search visibility")
	}

	uniqueness := 25
	for _, generic := range a.lex.GenericMetaPhrases {
		if strings.Contains(descLower, generic) {
			uniqueness -= 15
			res.addIssue("Meta description contains generic phrases")
			required = append(required, "Write a unique, specific meta description that describes the page content")
			break
		}
	}

	var meaningful []string
	for _, w := range words {
		if !a.lex.StopWords[w] && len(w) > 2 {
			meaningful = append(meaningful, w)
		}
	}
	if duplicated := duplicatedWords(meaningful); len(duplicated) > 0 {
		uniqueness -= 10
		res.addIssue(fmt.Sprintf("Meta description contains duplicate meaningful words: %s", strings.Join(duplicated, ", ")))
		required = append(required, "Remove duplicate meaningful words to make description more concise")
	}
	if uniqueness > 0 {
		score += uniqueness
	}

	if repeated := stuffedWords(words); len(repeated) > 0 {
		res.addIssue(fmt.Sprintf("Possible keyword stuffing: %q repeated multiple times", strings.Join(repeated, ", ")))
		required = append(required, "Avoid repeating keywords excessively in meta description")
	}

	hasCTA := false
	for _, cta := range a.lex.CTAPhrases {
		if strings.Contains(descLower, cta) {
			hasCTA = true
			break
		}
	}
	if !hasCTA {
		optional = append(optional, `Consider adding a call-to-action to encourage clicks (e.g., "Learn more", "Get started")`)
	}

	keywordScore := 0
	if in.Keywords.HasKeywords() {
		primary := strings.Join(strings.Fields(in.Keywords.Primary()), " ")
		primaryLower := strings.ToLower(primary)

		if strings.Contains(descLower, primaryLower) {
			keywordScore += 20
			required = append(required, fmt.Sprintf("Primary keyword %q found in meta description", primary))
		} else {
			res.addIssue(fmt.Sprintf("Primary keyword %q not found in meta description", primary))
			required = append(required, fmt.Sprintf("Include primary keyword %q in meta description for better relevance", primary))
		}

		secondaryFound := 0
		secondary := in.Keywords.Secondary()
		if len(secondary) > 2 {
			secondary = secondary[:2]
		}
		for _, kw := range secondary {
			if strings.Contains(descLower, strings.ToLower(kw)) {
				secondaryFound++
			}
		}
		if secondaryFound > 0 {
			bonus := secondaryFound * 5
			if bonus > 10 {
				bonus = 10
			}
			keywordScore += bonus
			optional = append(optional, "Secondary keywords found in meta description")
		}

		if count := strings.Count(descLower, primaryLower); count > 2 {
			keywordScore -= 10
			res.addIssue(fmt.Sprintf("Primary keyword %q appears %d times - possible over-optimization", primary, count))
			required = append(required, "Use primary keyword naturally, ideally 1-2 times in meta description")
		}
	}
	if keywordScore > 0 {
		score += keywordScore
	}

	if found := problematicChars(desc); len(found) > 0 {
		res.addIssue(fmt.Sprintf("Special characters that may break display: %s", strings.Join(found, ", ")))
		required = append(required, "Remove or properly encode special characters like quotes, brackets, and line breaks")
	}

	if nonPrintable(desc) {
		res.addIssue("Non-printable characters detected")
		required = append(required, "Remove non-printable characters that may cause display issues")
	}

	if punctCount := countPunctuation(desc); float64(punctCount) > float64(len(words))*0.3 {
		res.addIssue(fmt.Sprintf("Excessive punctuation detected (%d punctuation marks)", punctCount))
		required = append(required, "Reduce punctuation usage for better readability and professional appearance")
	}

	if caps := allCapsWords(desc, a.lex.Acronyms); len(caps) > 0 {
		res.addIssue(fmt.Sprintf("All caps text detected: %s", strings.Join(caps, ", ")))
		required = append(required, "Avoid using all caps text as it appears unprofessional and may hurt readability")
	}

	hasCompelling := false
	for _, w := range a.lex.CompellingWords {
		if strings.Contains(descLower, w) {
			hasCompelling = true
			break
		}
	}
	if !hasCompelling {
		optional = append(optional, "Consider adding compelling adjectives to make description more attractive")
	}

	res.Suggestions = append(required, optional...)
	res.finalize(score)

	if len(res.Issues) == 0 && res.Score >= 80 {
		res.Suggestions = []string{"Meta description looks well-optimized"}
	}
	return res
}

// allCapsWords returns whitespace-separated tokens that are entirely
// uppercase, longer than one character and not a known acronym.
func allCapsWords(s string, acronyms map[string]bool) []string {
	var caps []string
	for _, w := range strings.Fields(s) {
		if len(w) > 1 && isAllCaps(w) && !acronyms[w] {
			caps = append(caps, w)
		}
	}
	return caps
}
