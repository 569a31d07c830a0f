package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/page"
)

// HeadingsResult is the outcome of the heading structure analysis.
type HeadingsResult struct {
	Result
	Counts map[string]int `json:"headings_count"`
}

// HeadingsAnalyzer scores heading structure: single H1 30, hierarchy 30,
// no duplicates 20, keyword use 20.
type HeadingsAnalyzer struct {
	lex *config.Lexicon
}

func NewHeadingsAnalyzer(lex *config.Lexicon) *HeadingsAnalyzer {
	return &HeadingsAnalyzer{lex: lex}
}

func (a *HeadingsAnalyzer) Name() string { return "headings" }

func (a *HeadingsAnalyzer) Analyze(in Input) HeadingsResult {
	var res HeadingsResult
	var required, optional []string
	doc := in.Doc

	res.Counts = make(map[string]int, 6)
	for level := 1; level <= 6; level++ {
		res.Counts[fmt.Sprintf("h%d", level)] = doc.HeadingCounts[level]
	}

	if len(doc.Headings) == 0 {
		res.addIssue("No headings found on page")
		res.Suggestions = []string{"Add heading tags (h1-h6) to structure your content for better SEO"}
		res.finalize(0)
		return res
	}

	score := 0
	h1Count := doc.HeadingCounts[1]
	h1s := doc.H1s()

	switch {
	case h1Count == 1:
		score += 30
		required = append(required, "H1 tag properly implemented")
	case h1Count == 0:
		res.addIssue("Missing H1 tag")
		required = append(required, "Add exactly one H1 tag as the main page heading")
	default:
		score += 10
		res.addIssue(fmt.Sprintf("Multiple H1 tags found (%d tags)", h1Count))
		required = append(required, "Use only one H1 tag per page - convert others to H2 or lower")
	}

	hierarchy := 30
	levels := make([]int, len(doc.Headings))
	for i, h := range doc.Headings {
		levels[i] = h.Level
	}

	if h1Count > 0 {
		h1Pos, firstH2Pos := -1, -1
		for i, level := range levels {
			if level == 1 && h1Pos == -1 {
				h1Pos = i
			} else if level == 2 && firstH2Pos == -1 {
				firstH2Pos = i
				break
			}
		}
		if h1Pos != -1 && firstH2Pos != -1 && h1Pos > firstH2Pos {
			hierarchy -= 15
			res.addIssue("H1 tag appears after H2 tags in document order")
			required = append(required, "Place H1 tag before any H2 tags for proper document structure")
		}
	}

	for i := 0; i+1 < len(levels); i++ {
		if levels[i+1] > levels[i]+1 {
			hierarchy -= 15
			res.addIssue(fmt.Sprintf("Heading hierarchy skipped from H%d to H%d", levels[i], levels[i+1]))
			required = append(required, "Maintain proper heading hierarchy - don't skip heading levels (e.g., H1 > H2 > H3)")
			break
		}
	}
	if hierarchy > 0 {
		score += hierarchy
	}

	if len(levels) > 1 {
		minLevel, maxLevel := levels[0], levels[0]
		present := make(map[int]bool)
		for _, l := range levels {
			present[l] = true
			if l < minLevel {
				minLevel = l
			}
			if l > maxLevel {
				maxLevel = l
			}
		}
		for level := minLevel + 1; level <= maxLevel; level++ {
			if !present[level] && present[level-1] {
				res.addIssue(fmt.Sprintf("Heading structure has H%d but jumps to H%d without H%d", level-1, level+1, level))
				required = append(required, "Ensure each heading level is used before jumping to deeper levels")
				break
			}
		}
		if maxLevel > 4 && doc.HeadingCounts[2] < 2 {
			res.addIssue("Deep heading levels (H5-H6) used without sufficient H2 structure")
			required = append(required, "Build proper content hierarchy with more H2 sections before using deeper heading levels")
		}
	}

	emptySet := make(map[string]bool)
	for _, h := range doc.Headings {
		if h.Text == "" {
			emptySet[fmt.Sprintf("H%d", h.Level)] = true
		}
	}
	if len(emptySet) > 0 {
		res.addIssue(fmt.Sprintf("Empty heading tags found: %s", joinSet(emptySet)))
		required = append(required, "Add descriptive text to all heading tags")
	}

	brand := in.Brand()
	if brand != "" && h1Count == 1 {
		if strings.Contains(strings.ToLower(h1s[0]), strings.ToLower(brand)) {
			res.addIssue(fmt.Sprintf("Brand name %q found in H1 tag", brand))
			required = append(required, "H1 should focus on primary keyword, not brand name")
		}
	}

	keywordScore := 0
	if in.Keywords.HasKeywords() && h1Count == 1 {
		primary := strings.Join(strings.Fields(in.Keywords.Primary()), " ")
		h1Lower := strings.ToLower(h1s[0])

		if strings.Contains(h1Lower, strings.ToLower(primary)) {
			keywordScore += 15
			required = append(required, fmt.Sprintf("Primary keyword %q found in H1 tag", primary))
		} else {
			res.addIssue(fmt.Sprintf("Primary keyword %q not found in H1 tag", primary))
			required = append(required, fmt.Sprintf("Include primary keyword %q in H1 tag for better SEO", primary))
		}

		if secondary := firstSecondary(in.Keywords); secondary != "" {
			for _, h := range doc.Headings {
				if h.Level >= 2 && strings.Contains(strings.ToLower(h.Text), strings.ToLower(secondary)) {
					keywordScore += 5
					break
				}
			}
		}
	}
	score += keywordScore

	if h1Count == 1 && len(h1s[0]) > 0 {
		h1Len := utf8.RuneCountInString(h1s[0])
		if h1Len > 70 {
			res.addIssue(fmt.Sprintf("H1 tag is too long (%d characters)", h1Len))
			required = append(required, "Keep H1 tag under 70 characters for better readability")
		} else if h1Len < 10 {
			res.addIssue(fmt.Sprintf("H1 tag is too short (%d characters)", h1Len))
			required = append(required, "Make H1 tag more descriptive (10-70 characters recommended)")
		}
	}

	if in.Keywords.HasKeywords() {
		primaryLower := strings.ToLower(strings.Join(strings.Fields(in.Keywords.Primary()), " "))
		count := 0
		for _, h := range doc.Headings {
			count += strings.Count(strings.ToLower(h.Text), primaryLower)
		}
		if count > 3 {
			res.addIssue(fmt.Sprintf("Primary keyword appears %d times in headings - possible over-optimization", count))
			required = append(required, "Use primary keyword naturally in headings - avoid excessive repetition")
		}

		if secondary := firstSecondary(in.Keywords); secondary != "" {
			found := false
			hasLower := false
			for _, h := range doc.Headings {
				if h.Level >= 2 {
					hasLower = true
					if strings.Contains(strings.ToLower(h.Text), strings.ToLower(secondary)) {
						found = true
						break
					}
				}
			}
			if hasLower && !found {
				optional = append(optional, fmt.Sprintf("Consider including secondary keyword %q in H2-H6 headings for better SEO coverage", secondary))
			}
		}
	}

	specialSet := make(map[string]bool)
	for _, h := range doc.Headings {
		if strings.ContainsAny(h.Text, "\"'`<>&\n\r\t|#@$%^*") {
			specialSet[fmt.Sprintf("H%d", h.Level)] = true
		}
	}
	if len(specialSet) > 0 {
		res.addIssue(fmt.Sprintf("Special characters found in headings: %s", joinSet(specialSet)))
		required = append(required, "Remove special characters from headings for better readability and SEO")
	}

	capsSet := make(map[string]bool)
	for _, h := range doc.Headings {
		if len(h.Text) > 3 && isAllCaps(h.Text) {
			for _, w := range strings.Fields(h.Text) {
				if !a.lex.Acronyms[w] {
					capsSet[fmt.Sprintf("H%d", h.Level)] = true
					break
				}
			}
		}
	}
	if len(capsSet) > 0 {
		res.addIssue(fmt.Sprintf("All caps headings found: %s", joinSet(capsSet)))
		required = append(required, "Use proper capitalization instead of all caps for better readability")
	}

	duplicateScore := 20
	textCounts := make(map[string]int)
	var textOrder []string
	for _, h := range doc.Headings {
		if text := strings.ToLower(h.Text); text != "" {
			if textCounts[text] == 0 {
				textOrder = append(textOrder, text)
			}
			textCounts[text]++
		}
	}
	var duplicates []string
	for _, text := range textOrder {
		if textCounts[text] > 1 {
			duplicates = append(duplicates, text)
		}
	}
	if len(duplicates) > 0 {
		duplicateScore = 0
		if len(duplicates) > 3 {
			duplicates = duplicates[:3]
		}
		res.addIssue(fmt.Sprintf("Duplicate heading text found: %s", strings.Join(duplicates, ", ")))
		required = append(required, "Make each heading unique to improve content structure and SEO")
	}
	score += duplicateScore

	genericSet := make(map[string]bool)
	for _, h := range doc.Headings {
		lower := strings.ToLower(h.Text)
		for _, generic := range a.lex.GenericHeadings {
			if lower == generic {
				genericSet[lower] = true
			}
		}
	}
	if len(genericSet) > 0 {
		res.addIssue(fmt.Sprintf("Generic heading text found: %s", joinSet(genericSet)))
		required = append(required, "Use specific, descriptive headings instead of generic terms for better SEO")
	}

	if h1Count > 0 && doc.HeadingCounts[2] == 0 {
		optional = append(optional, "Consider adding H2 tags to break up content into sections")
	}

	total := len(doc.Headings)
	if total > 20 {
		res.addIssue(fmt.Sprintf("Too many headings (%d total)", total))
		required = append(required, "Reduce number of headings - focus on main content sections")
	}

	if total > 3 {
		h2, h3 := doc.HeadingCounts[2], doc.HeadingCounts[3]
		if h2 > 0 && h3 > h2*4 {
			res.addIssue(fmt.Sprintf("Unbalanced heading distribution: %d H3 tags vs %d H2 tags", h3, h2))
			required = append(required, "Balance heading distribution - consider converting some H3 tags to H2 or restructuring content")
		}

		nonH1Total, maxCount, dominant := 0, 0, 0
		for level := 2; level <= 6; level++ {
			c := doc.HeadingCounts[level]
			nonH1Total += c
			if c > maxCount {
				maxCount = c
				dominant = level
			}
		}
		if nonH1Total > 2 && float64(maxCount) > float64(nonH1Total)*0.8 {
			res.addIssue(fmt.Sprintf("Heading distribution heavily skewed toward H%d tags (%d out of %d non-H1 headings)", dominant, maxCount, nonH1Total))
			required = append(required, "Diversify heading levels to create better content hierarchy")
		}
	}

	a.checkDensity(&res, doc, total, &required)

	res.Suggestions = append(required, optional...)
	res.finalize(score)

	if len(res.Issues) == 0 && res.Score >= 80 {
		res.Suggestions = []string{"Headings look well-optimized"}
	}
	return res
}

// checkDensity flags pages where the heading count is out of proportion to
// the amount of body content. Non-scoring.
func (a *HeadingsAnalyzer) checkDensity(res *HeadingsResult, doc *page.Document, total int, required *[]string) {
	if doc.BodyText == "" || total == 0 {
		return
	}

	var headingWords int
	for _, h := range doc.Headings {
		headingWords += len(strings.Fields(h.Text))
	}
	totalWords := len(strings.Fields(doc.BodyText))

	contentWords := totalWords - headingWords
	if contentWords > 0 {
		perHeading := float64(contentWords) / float64(total)
		if perHeading < 50 {
			res.addIssue(fmt.Sprintf("Too many headings for content length (%.0f words per heading)", perHeading))
			*required = append(*required, "Reduce number of headings or add more content between headings")
		} else if perHeading > 300 {
			res.addIssue(fmt.Sprintf("Too few headings for content length (%.0f words per heading)", perHeading))
			*required = append(*required, "Add more headings to break up long content sections")
		}
	}

	if totalWords > 0 {
		density := float64(total) / float64(totalWords) * 100
		if density > 5 {
			res.addIssue(fmt.Sprintf("Heading density too high (%.1f%% of content)", density))
			*required = append(*required, "Reduce heading frequency - headings should be 2-4% of total content")
		} else if density < 1 && totalWords > 500 {
			res.addIssue(fmt.Sprintf("Heading density too low (%.1f%% of content)", density))
			*required = append(*required, "Add more headings to improve content structure and readability")
		}
	}
}

func firstSecondary(kws []string) string {
	if len(kws) > 2 {
		return strings.Join(strings.Fields(kws[2]), " ")
	}
	return ""
}

func joinSet(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
