package keywords

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/page"
)

const finderHTML = `<html><head>
<title>Plastic Pipes Supplier</title>
<meta name="description" content="Plastic pipes and pipe fittings delivered nationwide.">
</head><body>
<h1>Plastic Pipes for Industrial Projects</h1>
<h2>Pipe Fittings</h2>
<p>We manufacture plastic pipes and pipe fittings for construction sites.</p>
</body></html>`

func parseFinderDoc(t *testing.T) *page.Document {
	t.Helper()
	doc, err := page.Parse([]byte(finderHTML), "https://example.com")
	require.NoError(t, err)
	return doc
}

func TestFinderExtractRanksDominantPhraseFirst(t *testing.T) {
	f := NewFinder(config.DefaultLexicon(), "Acme")
	kws := f.Extract(parseFinderDoc(t))

	require.NotEmpty(t, kws)
	assert.Equal(t, "plastic pipes", kws[0].Text)

	texts := make([]string, 0, len(kws))
	for _, kw := range kws {
		texts = append(texts, kw.Text)
	}
	assert.Contains(t, texts, "pipe fittings")
}

func TestFinderExtractOrdering(t *testing.T) {
	f := NewFinder(config.DefaultLexicon(), "Acme")
	kws := f.Extract(parseFinderDoc(t))

	for i := 1; i < len(kws); i++ {
		assert.GreaterOrEqual(t, kws[i-1].Score, kws[i].Score)
	}
	assert.LessOrEqual(t, len(kws), 50)
}

func TestFinderDropsWordsCoveredByPhrases(t *testing.T) {
	f := NewFinder(config.DefaultLexicon(), "Acme")
	kws := f.Extract(parseFinderDoc(t))

	for _, kw := range kws {
		assert.NotEqual(t, "plastic", kw.Text)
		assert.NotEqual(t, "pipes", kw.Text)
	}
}

func TestFinderKeywordsBrandFirst(t *testing.T) {
	f := NewFinder(config.DefaultLexicon(), "Acme")
	list, err := f.Keywords(context.Background(), parseFinderDoc(t))
	require.NoError(t, err)

	require.True(t, list.HasKeywords())
	assert.Equal(t, "Acme", list.Brand())
	assert.Equal(t, "plastic pipes", list.Primary())
}

func TestFinderDeterministic(t *testing.T) {
	f := NewFinder(config.DefaultLexicon(), "Acme")
	doc := parseFinderDoc(t)

	first := f.Extract(doc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.Extract(doc))
	}
}

func TestFinderEmptyDocument(t *testing.T) {
	doc, err := page.Parse([]byte("<html><body></body></html>"), "https://example.com")
	require.NoError(t, err)

	f := NewFinder(config.DefaultLexicon(), "Acme")
	assert.Empty(t, f.Extract(doc))
}
