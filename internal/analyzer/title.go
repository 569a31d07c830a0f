package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seoscope/seoscope/internal/config"
)

// TitleResult is the outcome of the title analysis.
type TitleResult struct {
	Result
	Title  string `json:"title"`
	Length int    `json:"length"`
}

// TitleAnalyzer scores the document title against a 100-point budget:
// presence 20, optimal length 15, no duplicate meaningful words 25, primary
// keyword present 25, no truncation risk 15.
type TitleAnalyzer struct {
	lex *config.Lexicon
}

func NewTitleAnalyzer(lex *config.Lexicon) *TitleAnalyzer {
	return &TitleAnalyzer{lex: lex}
}

func (a *TitleAnalyzer) Name() string { return "title" }

func (a *TitleAnalyzer) Analyze(in Input) TitleResult {
	var res TitleResult
	doc := in.Doc

	if doc.Title.Count > 1 {
		res.addIssue(fmt.Sprintf("Multiple title tags found (%d tags)", doc.Title.Count))
		res.addSuggestion("Remove duplicate title tags - only one should exist")
	}
	if doc.Title.InBody {
		res.addIssue("Title tag found in body section instead of head")
		res.addSuggestion("Move title tag to the <head> section for proper SEO")
	}

	if doc.Title.Count == 0 {
		res.addIssue("Missing title tag")
		res.addSuggestion("Add a descriptive title tag to your HTML")
		res.Title = "No title found"
		res.finalize(0)
		return res
	}

	title := strings.Join(strings.Fields(doc.Title.Text), " ")
	if title == "" {
		res.addIssue("Title tag has no content")
		res.addSuggestion("Add descriptive text to your title tag")
		res.Title = "No title content found"
		res.finalize(0)
		return res
	}

	res.Title = title
	res.Length = utf8.RuneCountInString(title)
	titleLower := strings.ToLower(title)
	words := strings.Fields(titleLower)

	switch {
	case res.Length < 30:
		res.addIssue(fmt.Sprintf("Title is too short (%d characters)", res.Length))
		res.addSuggestion("Title should be between 50-60 characters for better SEO")
	case res.Length > 60:
		res.addIssue(fmt.Sprintf("Title is too long (%d characters)", res.Length))
		res.addSuggestion("Title should be between 50-60 characters to avoid truncation in search results")
	case res.Length >= 50:
		res.addSuggestion("Title length is optimal (50-60 characters)")
	}

	var meaningful []string
	for _, w := range words {
		if !a.lex.StopWords[w] && len(w) > 2 {
			meaningful = append(meaningful, w)
		}
	}
	duplicated := duplicatedWords(meaningful)
	if len(duplicated) > 0 {
		res.addIssue(fmt.Sprintf("Title contains duplicate meaningful words: %s", strings.Join(duplicated, ", ")))
		res.addSuggestion("Remove duplicate meaningful words to make title more concise")
	}

	if isAllCaps(title) {
		res.addIssue("Title is in all caps")
		res.addSuggestion("Use proper capitalization instead of all caps")
	}

	if strings.Count(title, "|") > 2 || strings.Count(title, "-") > 2 {
		res.addIssue("Too many separators in title")
		res.addSuggestion("Limit separators (| or -) to 1-2 for better readability")
	}

	if repeated := stuffedWords(words); len(repeated) > 0 {
		res.addIssue(fmt.Sprintf("Possible keyword stuffing: %q repeated multiple times", strings.Join(repeated, ", ")))
		res.addSuggestion("Avoid repeating keywords excessively in title")
	}

	for _, generic := range a.lex.GenericTitleWords {
		if strings.Contains(titleLower, generic) {
			res.addIssue("Title contains generic words")
			res.addSuggestion("Use specific, descriptive words instead of generic terms")
			break
		}
	}

	if found := problematicChars(title); len(found) > 0 {
		res.addIssue(fmt.Sprintf("Special characters that may break display: %s", strings.Join(found, ", ")))
		res.addSuggestion("Remove or properly encode special characters like quotes, brackets, and line breaks")
	}

	if nonPrintable(title) {
		res.addIssue("Non-printable characters detected")
		res.addSuggestion("Remove non-printable characters that may cause display issues")
	}

	if punctCount := countPunctuation(title); float64(punctCount) > float64(len(words))*0.3 {
		res.addIssue(fmt.Sprintf("Excessive punctuation detected (%d punctuation marks)", punctCount))
		res.addSuggestion("Reduce punctuation usage for better readability and professional appearance")
	}

	brand := in.Brand()
	if brand != "" && !strings.Contains(titleLower, strings.ToLower(brand)) {
		res.addIssue("Brand name not found in title")
		res.addSuggestion(fmt.Sprintf("Include brand name %q in title for brand recognition", brand))
	}

	primaryPresent := false
	if in.Keywords.HasKeywords() {
		primary := strings.Join(strings.Fields(in.Keywords.Primary()), " ")
		primaryLower := strings.ToLower(primary)

		if !strings.Contains(titleLower, primaryLower) {
			res.addIssue(fmt.Sprintf("Primary keyword %q not found in title", primary))
			res.addSuggestion(fmt.Sprintf("Include primary keyword %q in title for better SEO", primary))
		} else {
			primaryPresent = true
			a.checkPlacement(&res, in, title, titleLower, brand, primary)
		}

		var found int
		for _, kw := range in.Keywords[1:] {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				found++
			}
		}
		if found == 0 {
			res.addIssue("No target keywords found in title")
			res.addSuggestion("Include relevant keywords from your keyword list in the title")
		} else if found == 1 {
			res.addSuggestion("Consider adding secondary keywords to improve relevance")
		}
	}

	if !containsModifier(words, a.lex.ModifierWords) {
		res.addSuggestion("Consider adding modifier words (best, top, professional, etc.) to make title more compelling")
	}

	score := 20 // presence
	if res.Length >= 50 && res.Length <= 60 {
		score += 15
	}
	if len(duplicated) == 0 {
		score += 25
	}
	if primaryPresent {
		score += 25
	}
	if res.Length <= 60 {
		score += 15
	}
	res.finalize(score)

	if len(res.Issues) == 0 {
		res.addSuggestion("Title looks well-optimized")
	}
	return res
}

// checkPlacement verifies keyword and brand positioning. Homepages want
// "Brand | Primary Keyword"; other pages want the primary keyword
// front-loaded, allowing modifier words before it.
func (a *TitleAnalyzer) checkPlacement(res *TitleResult, in Input, title, titleLower, brand, primary string) {
	primaryLower := strings.ToLower(primary)

	if in.IsHomepage {
		if brand != "" && strings.Contains(title, "|") {
			parts := strings.SplitN(title, "|", 2)
			left := strings.ToLower(strings.TrimSpace(parts[0]))
			right := strings.ToLower(strings.TrimSpace(parts[1]))
			if !strings.Contains(left, strings.ToLower(brand)) {
				res.addIssue("Brand name should come before separator (|) on homepage")
				res.addSuggestion(fmt.Sprintf("Use format: %q for homepage title", brand+" | "+primary))
			} else if !strings.Contains(right, primaryLower) {
				res.addIssue("Primary keyword should come after separator (|) on homepage")
				res.addSuggestion(fmt.Sprintf("Use format: %q for homepage title", brand+" | "+primary))
			}
		} else if brand != "" {
			res.addSuggestion(fmt.Sprintf("Consider using format: %q for homepage title", brand+" | "+primary))
		}
		return
	}

	titleWords := strings.Fields(titleLower)
	primaryWords := strings.Fields(primaryLower)
	pos := -1
	for i := 0; i+len(primaryWords) <= len(titleWords); i++ {
		if equalSlices(titleWords[i:i+len(primaryWords)], primaryWords) {
			pos = i
			break
		}
	}
	if pos > 0 {
		for _, w := range titleWords[:pos] {
			if !a.lex.ModifierWords[w] {
				res.addIssue(fmt.Sprintf("Primary keyword %q should be front-loaded", primary))
				res.addSuggestion("Move primary keyword to the front of title (after modifiers) for better SEO")
				break
			}
		}
	}
}

func duplicatedWords(words []string) []string {
	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}
	var dups []string
	for w, c := range counts {
		if c > 1 {
			dups = append(dups, w)
		}
	}
	sort.Strings(dups)
	return dups
}

func stuffedWords(words []string) []string {
	freq := make(map[string]int)
	for _, w := range words {
		if len(w) > 3 {
			freq[w]++
		}
	}
	var repeated []string
	for w, c := range freq {
		if c > 2 {
			repeated = append(repeated, w)
		}
	}
	sort.Strings(repeated)
	return repeated
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func problematicChars(s string) []string {
	var found []string
	for _, c := range []string{`"`, "'", "`", "<", ">", "&", "\n", "\r", "\t"} {
		if strings.Contains(s, c) {
			found = append(found, fmt.Sprintf("%q", c))
		}
	}
	return found
}

func nonPrintable(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\n', '\r', '\t':
			continue
		}
		if !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

func countPunctuation(s string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune("!?.,;:", r) {
			n++
		}
	}
	return n
}

func containsModifier(words []string, modifiers map[string]bool) bool {
	for _, w := range words {
		if modifiers[w] {
			return true
		}
	}
	return false
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
