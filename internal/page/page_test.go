package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Pipes | Industrial HDPE Piping</title>
<meta name="description" content="Industrial HDPE piping solutions from Acme.">
<meta name="keywords" content="hdpe pipes, industrial piping">
<script type="application/ld+json">
{"@type": "Organization", "name": "Acme", "url": "https://acme.example"}
</script>
<script type="application/ld+json">
{not valid json}
</script>
</head>
<body>
<nav aria-label="Breadcrumb"><a href="/">Home</a></nav>
<h1>Industrial HDPE Piping</h1>
<h2>Our Products</h2>
<h3>Pressure Pipes</h3>
<p>We manufacture HDPE pipes for industrial use.</p>
<figure><img src="/img/pipe.webp" alt="HDPE pressure pipe" loading="lazy"></figure>
<img src="/img/factory.jpg">
<a href="/products">Products</a>
<a href="https://other.example/partner">Partner</a>
<a href="mailto:sales@acme.example">Email us</a>
<div itemscope itemtype="https://schema.org/Product"><span itemprop="name">Pipe</span></div>
<ul><li>PE100</li></ul>
<strong>Certified</strong>
</body>
</html>`

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Title.Count)
	assert.Equal(t, "Acme Pipes | Industrial HDPE Piping", doc.Title.Text)
	assert.False(t, doc.Title.InBody)

	assert.Equal(t, 1, doc.Meta.Count)
	assert.Equal(t, "Industrial HDPE piping solutions from Acme.", doc.Meta.Content)
	assert.False(t, doc.Meta.UsesProperty)
	assert.Equal(t, "hdpe pipes, industrial piping", doc.MetaKeywords)
}

func TestParseHeadings(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	require.Len(t, doc.Headings, 3)
	assert.Equal(t, Heading{Level: 1, Text: "Industrial HDPE Piping"}, doc.Headings[0])
	assert.Equal(t, 1, doc.HeadingCounts[1])
	assert.Equal(t, 1, doc.HeadingCounts[2])
	assert.Equal(t, []string{"Industrial HDPE Piping"}, doc.H1s())
}

func TestParseImages(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	require.Len(t, doc.Images, 2)
	assert.Equal(t, "HDPE pressure pipe", doc.Images[0].Alt)
	assert.True(t, doc.Images[0].HasAlt)
	assert.True(t, doc.Images[0].InFigure)
	assert.Equal(t, "lazy", doc.Images[0].Loading)
	assert.False(t, doc.Images[1].HasAlt)
	assert.False(t, doc.Images[1].InFigure)
}

func TestParseLinksPartition(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	assert.Contains(t, doc.InternalLinks, "https://acme.example/products")
	assert.Contains(t, doc.ExternalLinks, "https://other.example/partner")
	assert.Contains(t, doc.SpecialLinks, "mailto:sales@acme.example")
}

func TestParseSchemas(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	require.Len(t, doc.Schemas, 1)
	assert.Equal(t, "Organization", doc.Schemas[0].Type)
	assert.Equal(t, 1, doc.ValidJSONLDCount)
	assert.Equal(t, 1, doc.SchemaParseErrors)
	assert.Equal(t, []string{"Product"}, doc.MicrodataTypes)
	assert.True(t, doc.HasBreadcrumbNav)
	assert.True(t, doc.HasSchema())
}

func TestParseBody(t *testing.T) {
	doc, err := Parse([]byte(sampleHTML), "https://acme.example/")
	require.NoError(t, err)

	assert.True(t, doc.HasBody())
	require.Len(t, doc.Paragraphs, 1)
	assert.Contains(t, doc.BodyText, "manufacture HDPE pipes")
	assert.True(t, doc.HasLists)
	assert.True(t, doc.HasBold)
	assert.False(t, doc.HasItalic)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse([]byte("<html><head></head><body></body></html>"), "https://acme.example/")
	require.NoError(t, err)

	assert.Equal(t, 0, doc.Title.Count)
	assert.Equal(t, 0, doc.Meta.Count)
	assert.Empty(t, doc.Headings)
	assert.False(t, doc.HasBody())
	assert.False(t, doc.HasSchema())
}

func TestWwwHostIsInternal(t *testing.T) {
	html := `<body><a href="https://www.acme.example/about">About</a></body>`
	doc, err := Parse([]byte(html), "https://acme.example/")
	require.NoError(t, err)

	assert.Contains(t, doc.InternalLinks, "https://www.acme.example/about")
	assert.Empty(t, doc.ExternalLinks)
}
