package analyzer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/keywords"
)

func TestMetaDescriptionAnalyzerMissing(t *testing.T) {
	doc := parseDoc(t, `<html><head><title>x</title></head><body></body></html>`)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{Doc: doc})

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, StatusPoor, res.Status)
	assert.Equal(t, []string{"Missing meta description"}, res.Issues)
	assert.Equal(t, "No meta description found", res.Description)
}

func TestMetaDescriptionAnalyzerOptimal(t *testing.T) {
	desc := "Discover durable plastic pipes engineered with certified materials, rapid nationwide delivery and expert guidance every step. Request your custom quote today."
	html := `<html><head><meta name="description" content="` + desc + `"></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{
		Doc:      doc,
		Keywords: keywords.List{"Acme", "plastic pipes"},
	})

	assert.GreaterOrEqual(t, res.Length, 150)
	assert.LessOrEqual(t, res.Length, 160)
	// Presence 25 + length 20 + uniqueness 25 + primary keyword 20.
	assert.Equal(t, 90, res.Score)
	assert.Equal(t, StatusGood, res.Status)
}

func TestMetaDescriptionAnalyzerCountsCharactersNotBytes(t *testing.T) {
	// Build an accented description whose rune count lands in the optimal
	// band while its byte count overshoots it.
	words := []string{"crème", "brûlée", "gâteaux", "déguster", "raffinée", "pâtissier"}
	var parts []string
	for i := 0; utf8.RuneCountInString(strings.Join(parts, " ")) < 150; i++ {
		parts = append(parts, words[i%len(words)])
	}
	desc := strings.Join(parts, " ")
	require.Greater(t, len(desc), 160)
	runes := utf8.RuneCountInString(desc)
	require.True(t, runes >= 150 && runes <= 160)

	html := `<html><head><meta name="description" content="` + desc + `"></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{Doc: doc})

	assert.Equal(t, runes, res.Length)
	assert.Contains(t, res.Suggestions, "Meta description length is optimal (150-160 characters)")
	for _, issue := range res.Issues {
		assert.NotContains(t, issue, "too long")
	}
}

func TestMetaDescriptionAnalyzerGenericPhrase(t *testing.T) {
	html := `<html><head><meta name="description" content="Welcome to our website for all products."></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{Doc: doc})

	assert.Contains(t, res.Issues, "Meta description contains generic phrases")
}

func TestMetaDescriptionAnalyzerPropertyAttribute(t *testing.T) {
	html := `<html><head><meta property="description" content="Some description text."></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{Doc: doc})

	assert.Contains(t, res.Issues, `Meta description using property="description" instead of name="description"`)
}

func TestMetaDescriptionAnalyzerKeywordOveruse(t *testing.T) {
	desc := "Plastic pipes and plastic pipes plus plastic pipes delivered fast across the region with warranty included here."
	html := `<html><head><meta name="description" content="` + desc + `"></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{
		Doc:      doc,
		Keywords: keywords.List{"Acme", "plastic pipes"},
	})

	found := false
	for _, issue := range res.Issues {
		if strings.Contains(issue, "appears 3 times") {
			found = true
		}
	}
	assert.True(t, found, "expected over-optimization issue, got %v", res.Issues)
}

func TestMetaDescriptionAnalyzerSkipsKeywordsForShortList(t *testing.T) {
	html := `<html><head><meta name="description" content="A short description."></head><body></body></html>`
	doc := parseDoc(t, html)

	a := NewMetaDescriptionAnalyzer(config.DefaultLexicon())
	res := a.Analyze(Input{Doc: doc, Keywords: keywords.List{"Acme"}})

	for _, issue := range res.Issues {
		assert.NotContains(t, issue, "keyword")
	}
}
