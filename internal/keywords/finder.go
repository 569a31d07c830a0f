package keywords

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/page"
)

// Source produces the keyword list for a site from its homepage
// document. The frequency-based Finder is the default implementation;
// alternative sources satisfy the same contract.
type Source interface {
	Keywords(ctx context.Context, doc *page.Document) (List, error)
}

// WeightedKeyword is an extracted keyword with its frequency score.
type WeightedKeyword struct {
	Text  string
	Score int
}

// Finder extracts frequency-weighted keywords from page elements,
// favoring title, meta, and heading text over body copy.
type Finder struct {
	lex   *config.Lexicon
	brand string
}

// NewFinder creates a finder that places the brand name at the head of
// the produced keyword list.
func NewFinder(lex *config.Lexicon, brandName string) *Finder {
	return &Finder{lex: lex, brand: brandName}
}

// Keywords implements Source: the brand name first, then extracted
// keywords in descending score order.
func (f *Finder) Keywords(_ context.Context, doc *page.Document) (List, error) {
	weighted := f.Extract(doc)
	list := List{f.brand}
	for _, kw := range weighted {
		list = append(list, kw.Text)
	}
	return list, nil
}

// elementWeights pairs word and phrase scores per source element.
type elementWeights struct {
	word   int
	phrase int
}

var weights = map[string]elementWeights{
	"title":  {10, 15},
	"meta":   {8, 12},
	"metakw": {7, 10},
	"h1":     {6, 9},
	"h2":     {4, 6},
	"h3":     {3, 4},
	"alt":    {2, 3},
	"body":   {1, 1},
}

// Extract scores words and 2-3 word phrases across the document and
// returns at most 50 keywords: phrases scoring above 3 first, then
// words scoring above 2 that are not already covered by a kept phrase.
func (f *Finder) Extract(doc *page.Document) []WeightedKeyword {
	wordScores := make(map[string]int)
	phraseScores := make(map[string]int)

	tally := func(text, element string) {
		w := weights[element]
		for _, word := range f.cleanWords(text) {
			wordScores[word] += w.word
		}
		for _, phrase := range f.extractPhrases(text) {
			phraseScores[phrase] += w.phrase
		}
	}

	tally(doc.Title.Text, "title")
	tally(doc.Meta.Content, "meta")
	tally(doc.MetaKeywords, "metakw")
	for _, h := range doc.Headings {
		switch h.Level {
		case 1:
			tally(h.Text, "h1")
		case 2:
			tally(h.Text, "h2")
		case 3:
			tally(h.Text, "h3")
		}
	}
	for _, img := range doc.Images {
		tally(img.Alt, "alt")
	}
	tally(doc.BodyText, "body")

	var kept []WeightedKeyword
	for _, kw := range topRanked(phraseScores, 30) {
		if kw.Score > 3 {
			kept = append(kept, kw)
		}
	}
	for _, kw := range topRanked(wordScores, 50) {
		if kw.Score <= 2 {
			continue
		}
		if covered(kept, kw.Text) {
			continue
		}
		kept = append(kept, kw)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > 50 {
		kept = kept[:50]
	}
	return kept
}

// covered reports whether the word already appears inside a kept
// keyword.
func covered(kept []WeightedKeyword, word string) bool {
	for _, kw := range kept {
		if strings.Contains(kw.Text, word) {
			return true
		}
	}
	return false
}

// topRanked returns up to n entries sorted by score descending, ties
// broken alphabetically for determinism.
func topRanked(scores map[string]int, n int) []WeightedKeyword {
	ranked := make([]WeightedKeyword, 0, len(scores))
	for text, score := range scores {
		ranked = append(ranked, WeightedKeyword{Text: text, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Text < ranked[j].Text
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

var nonLetterRe = regexp.MustCompile(`[^a-zA-Z\s]`)

func tokenize(text string) []string {
	return strings.Fields(nonLetterRe.ReplaceAllString(strings.ToLower(text), " "))
}

func (f *Finder) cleanWords(text string) []string {
	var out []string
	for _, w := range tokenize(text) {
		if len(w) > 2 && !f.lex.StopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// extractPhrases builds 2- and 3-word phrases from adjacent
// meaningful words.
func (f *Finder) extractPhrases(text string) []string {
	words := tokenize(text)
	ok := func(w string) bool {
		return len(w) > 2 && !f.lex.StopWords[w]
	}

	var phrases []string
	for i := 0; i+1 < len(words); i++ {
		if ok(words[i]) && ok(words[i+1]) {
			phrases = append(phrases, words[i]+" "+words[i+1])
		}
	}
	for i := 0; i+2 < len(words); i++ {
		if ok(words[i]) && ok(words[i+1]) && ok(words[i+2]) {
			phrases = append(phrases, words[i]+" "+words[i+1]+" "+words[i+2])
		}
	}
	return phrases
}
