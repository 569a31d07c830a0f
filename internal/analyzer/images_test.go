package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagesAnalyzerNoImages(t *testing.T) {
	doc := parseDoc(t, `<html><body><p>text only</p></body></html>`)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc})

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, StatusGood, res.Status)
	assert.Equal(t, []string{"No images found on page"}, res.Issues)
	assert.Len(t, res.Suggestions, 1)
}

func TestImagesAnalyzerAllMissingAlt(t *testing.T) {
	html := `<html><body>
	<img src="/a.jpg">
	<img src="/b.jpg">
	</body></html>`
	doc := parseDoc(t, html)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc})

	assert.Equal(t, 0, res.AltTextCount)
	assert.Equal(t, 2, res.MissingAltCount)
	// Alt tier 15, lazy 15 (3 or fewer images), no modern formats, not responsive.
	assert.Equal(t, 30, res.Score)
	assert.Contains(t, res.Issues, "2 images missing proper alt text")
	assert.Contains(t, res.Issues, "2 images missing alt attribute")
}

func TestImagesAnalyzerFullCoverage(t *testing.T) {
	html := `<html><body>
	<picture><source srcset="/a.webp"><img src="/a.webp" alt="HDPE pipe stack" width="800" height="600"></picture>
	<img src="/b.webp" srcset="/b.webp 1x" alt="Pipe fitting detail" width="400" height="300" loading="lazy">
	</body></html>`
	doc := parseDoc(t, html)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc})

	// Alt 60 + modern 15 + lazy 15 + responsive 10.
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, StatusGood, res.Status)
	assert.Equal(t, 2, res.AltTextCount)
}

func TestImagesAnalyzerPoorAltText(t *testing.T) {
	html := `<html><body>
	<img src="/a.webp" alt="image">
	<img src="/b.webp" alt="img1">
	<img src="/c.webp" alt="Photo of a pipe">
	</body></html>`
	doc := parseDoc(t, html)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc})

	assert.Contains(t, res.Issues, "3 images have poor quality alt text")
}

func TestImagesAnalyzerDiagnosticsTally(t *testing.T) {
	html := `<html><body>
	<img src="/a.jpg">
	<img src="/b.jpg">
	<img src="/c.jpg">
	<img src="/d.jpg">
	</body></html>`
	doc := parseDoc(t, html)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc})

	assert.Equal(t, 4, res.CommonIssues["No alt text"])
	assert.Equal(t, 4, res.CommonIssues["Old image format"])
	assert.Equal(t, 1, res.CommonIssues["Missing lazy loading"])
	assert.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "Most common issues found:", res.Diagnostics[0])
	// Header plus at most five ranked entries.
	assert.LessOrEqual(t, len(res.Diagnostics), 6)
}

func TestImagesAnalyzerBrandInAlt(t *testing.T) {
	html := `<html><body><img src="/a.webp" alt="Acme pipe yard"></body></html>`
	doc := parseDoc(t, html)

	a := NewImagesAnalyzer()
	res := a.Analyze(Input{Doc: doc, BrandName: "Acme"})

	assert.Contains(t, res.Issues, "1 images have brand name in alt text")
}
