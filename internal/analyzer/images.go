package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/seoscope/seoscope/internal/page"
)

// ImagesResult is the outcome of the image analysis. Diagnostics lists the
// most common per-image problems, ranked by frequency.
type ImagesResult struct {
	Result
	ImageCount      int            `json:"image_count"`
	AltTextCount    int            `json:"alt_text_count"`
	MissingAltCount int            `json:"missing_alt_count"`
	LazyCount       int            `json:"lazy_count"`
	ResponsiveCount int            `json:"responsive_count"`
	ModernFormats   int            `json:"modern_format_count"`
	Diagnostics     []string       `json:"diagnostics"`
	CommonIssues    map[string]int `json:"common_issues"`
}

// ImagesAnalyzer scores images: alt coverage 60, compression and delivery 40.
// A page without images scores a full 100 since there is nothing to optimize.
type ImagesAnalyzer struct{}

func NewImagesAnalyzer() *ImagesAnalyzer {
	return &ImagesAnalyzer{}
}

func (a *ImagesAnalyzer) Name() string { return "images" }

var poorAltRe = regexp.MustCompile(`^(img|image|pic|photo)\d*$`)

func (a *ImagesAnalyzer) Analyze(in Input) ImagesResult {
	var res ImagesResult
	images := in.Doc.Images
	res.ImageCount = len(images)
	res.CommonIssues = make(map[string]int)

	if len(images) == 0 {
		res.addIssue("No images found on page")
		res.addSuggestion("Consider adding relevant images to enhance content and user experience")
		res.finalize(100)
		return res
	}

	score := 0
	var missingAttr, emptyAlt, goodAlt int
	for _, img := range images {
		switch {
		case !img.HasAlt:
			missingAttr++
		case img.Alt == "":
			emptyAlt++
		case strings.TrimSpace(img.Alt) != "":
			goodAlt++
		}
	}
	res.AltTextCount = goodAlt
	res.MissingAltCount = missingAttr + emptyAlt

	coverage := float64(goodAlt) / float64(len(images))
	switch {
	case coverage >= 0.9:
		score += 60
		res.addSuggestion("Excellent alt text coverage")
	case coverage >= 0.7:
		score += 45
		res.addSuggestion("Good alt text coverage, room for improvement")
	case coverage >= 0.5:
		score += 30
		res.addIssue(fmt.Sprintf("%d images missing proper alt text", res.MissingAltCount))
		res.addSuggestion("Improve alt text coverage for better accessibility")
	default:
		score += 15
		res.addIssue(fmt.Sprintf("%d images missing proper alt text", res.MissingAltCount))
		res.addSuggestion("Add alt attributes to all images for accessibility and SEO")
	}

	if missingAttr > 0 {
		res.addIssue(fmt.Sprintf("%d images missing alt attribute", missingAttr))
		res.addSuggestion("Add alt attributes to all images for accessibility and SEO")
	}
	if emptyAlt > 0 {
		res.addIssue(fmt.Sprintf("%d images have empty alt text", emptyAlt))
		res.addSuggestion(`Provide descriptive alt text for images (or use alt="" for decorative images)`)
	}

	brand := strings.ToLower(in.Brand())
	if brand != "" && goodAlt > 0 {
		withBrand := 0
		for _, img := range images {
			if hasGoodAlt(img) && strings.Contains(strings.ToLower(img.Alt), brand) {
				withBrand++
			}
		}
		if withBrand > 0 {
			res.addIssue(fmt.Sprintf("%d images have brand name in alt text", withBrand))
			res.addSuggestion("Remove brand name from alt text - focus on describing the image content")
		}
	}

	primary := strings.ToLower(in.Keywords.Primary())
	if primary != "" && goodAlt > 0 {
		withKeyword := 0
		for _, img := range images {
			if hasGoodAlt(img) && strings.Contains(strings.ToLower(img.Alt), primary) {
				withKeyword++
			}
		}
		if missing := goodAlt - withKeyword; missing > 0 {
			res.addIssue(fmt.Sprintf("%d images missing keywords in alt text", missing))
			res.addSuggestion(fmt.Sprintf("Include relevant keywords like %q in alt text where appropriate", in.Keywords.Primary()))
		}
	}

	poorCount := 0
	for _, img := range images {
		if img.Alt != "" && isPoorAlt(img.Alt) {
			poorCount++
		}
	}
	if poorCount > 0 {
		res.addIssue(fmt.Sprintf("%d images have poor quality alt text", poorCount))
		res.addSuggestion("Improve alt text to be more descriptive and specific")
	}

	longAlt := 0
	for _, img := range images {
		if len(img.Alt) > 125 {
			longAlt++
		}
	}
	if longAlt > 0 {
		res.addIssue(fmt.Sprintf("%d images have alt text longer than 125 characters", longAlt))
		res.addSuggestion("Keep alt text concise (under 125 characters)")
	}

	var lazy, responsive, modern, old int
	for _, img := range images {
		if img.Loading == "lazy" {
			lazy++
		}
		if img.Srcset != "" || img.InPicture {
			responsive++
		}
		src := strings.ToLower(img.Src)
		switch {
		case src == "":
		case strings.Contains(src, ".webp") || strings.Contains(src, ".avif"):
			modern++
		case isOldFormat(src):
			old++
		}
	}
	res.LazyCount = lazy
	res.ResponsiveCount = responsive
	res.ModernFormats = modern

	if lazy == 0 && len(images) > 3 {
		res.addSuggestion(`Consider adding loading="lazy" to images below the fold for better performance`)
	}
	if responsive == 0 {
		res.addSuggestion("Consider using srcset or picture elements for responsive images")
	}

	compression := 0
	modernRatio := float64(modern) / float64(len(images))
	switch {
	case modernRatio >= 0.8:
		compression += 15
	case modernRatio >= 0.5:
		compression += 10
	case modernRatio > 0:
		compression += 5
	}

	if len(images) > 3 {
		lazyRatio := float64(lazy) / float64(len(images)-3)
		switch {
		case lazyRatio >= 0.8:
			compression += 15
		case lazyRatio >= 0.5:
			compression += 10
		case lazyRatio > 0:
			compression += 5
		}
	} else {
		compression += 15
	}

	responsiveRatio := float64(responsive) / float64(len(images))
	if responsiveRatio >= 0.5 {
		compression += 10
	} else if responsiveRatio > 0 {
		compression += 5
	}
	score += compression

	if modern == 0 && old > 0 {
		res.addSuggestion("Consider using modern image formats (WebP, AVIF) for better compression")
	}

	withoutDimensions := 0
	for _, img := range images {
		if img.Width == "" || img.Height == "" {
			withoutDimensions++
		}
	}
	if withoutDimensions == len(images) && len(images) > 1 {
		res.addSuggestion("Consider adding width/height attributes to prevent layout shift")
	}

	inFigure := 0
	for _, img := range images {
		if img.InFigure {
			inFigure++
		}
	}
	if inFigure == 0 && len(images) > 2 {
		res.addSuggestion("Consider using figure/figcaption elements for better semantic structure")
	}

	a.tallyDiagnostics(&res, images, primary)

	res.finalize(score)
	if len(res.Issues) == 0 && res.Score >= 80 {
		res.addSuggestion("Images look well-optimized")
	}
	return res
}

// tallyDiagnostics counts per-image problems and records the five most
// frequent for display.
func (a *ImagesAnalyzer) tallyDiagnostics(res *ImagesResult, images []page.Image, primary string) {
	counts := res.CommonIssues

	for i, img := range images {
		position := i + 1
		altLower := strings.ToLower(img.Alt)

		switch {
		case !img.HasAlt:
			counts["No alt text"]++
		case img.Alt == "":
			if img.Role != "presentation" {
				counts["No alt text"]++
			}
		default:
			if isPoorAlt(img.Alt) {
				counts["Poor quality alt text"]++
			}
			if primary != "" && !strings.Contains(altLower, primary) {
				counts["Missing keywords in alt text"]++
			}
		}

		if img.Loading != "lazy" && position > 3 {
			counts["Missing lazy loading"]++
		}
		if img.Srcset == "" && !img.InPicture {
			counts["Not responsive"]++
		}
		src := strings.ToLower(img.Src)
		if src != "" && !strings.Contains(src, ".webp") && !strings.Contains(src, ".avif") && isOldFormat(src) {
			counts["Old image format"]++
		}
		if img.Width == "" || img.Height == "" {
			counts["Missing dimensions"]++
		}
		if img.Title == "" {
			counts["Missing title attribute"]++
		}
		if !img.InFigure {
			counts["Not in figure element"]++
		}
	}

	type issueCount struct {
		issue string
		count int
	}
	var found []issueCount
	for issue, count := range counts {
		if count > 0 {
			found = append(found, issueCount{issue, count})
		}
	}
	if len(found) == 0 {
		return
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].count != found[j].count {
			return found[i].count > found[j].count
		}
		return found[i].issue < found[j].issue
	})

	res.Diagnostics = append(res.Diagnostics, "Most common issues found:")
	for i, fc := range found {
		if i == 5 {
			break
		}
		res.Diagnostics = append(res.Diagnostics, fmt.Sprintf("%s: %d images", fc.issue, fc.count))
	}
}

func hasGoodAlt(img page.Image) bool {
	return img.HasAlt && strings.TrimSpace(img.Alt) != ""
}

func isPoorAlt(alt string) bool {
	lower := strings.ToLower(alt)
	if len(alt) < 3 {
		return true
	}
	switch lower {
	case "image", "img", "picture", "photo":
		return true
	}
	for _, prefix := range []string{"image of", "picture of", "photo of"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return poorAltRe.MatchString(lower)
}

func isOldFormat(src string) bool {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.Contains(src, ext) {
			return true
		}
	}
	return false
}
