// Package report assembles per-page analyzer results into a weighted
// site score and exports the outcome.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/seoscope/seoscope/internal/analyzer"
	"github.com/seoscope/seoscope/internal/architecture"
	"github.com/seoscope/seoscope/internal/crawler"
	"github.com/seoscope/seoscope/internal/insights"
	"github.com/seoscope/seoscope/internal/keywords"
)

const (
	architectureWeight = 0.1

	// Critical analyzers cap a page composite at 30 when any of them
	// scores below 40.
	criticalThreshold = 40
	criticalCap       = 30

	// A weak homepage caps the whole site at 35.
	homepageThreshold = 50
	homepageCap       = 35
)

// PageReport bundles one page's analyzer results.
type PageReport struct {
	URL       string           `json:"url"`
	Type      crawler.PageType `json:"type"`
	Priority  int              `json:"priority"`
	Backlinks int              `json:"backlinks"`

	Title    *analyzer.TitleResult           `json:"title,omitempty"`
	Meta     *analyzer.MetaDescriptionResult `json:"meta_description,omitempty"`
	Headings *analyzer.HeadingsResult        `json:"headings,omitempty"`
	Body     *analyzer.BodyContentResult     `json:"body_content,omitempty"`
	Images   *analyzer.ImagesResult          `json:"images,omitempty"`
	Schema   *analyzer.SchemaResult          `json:"schema,omitempty"`
	Insights *insights.Report                `json:"page_insights,omitempty"`

	// Composite is the mean of the available scores, capped when a
	// critical analyzer fails.
	Composite      float64 `json:"composite"`
	CriticalFailed bool    `json:"critical_failed"`
}

// SiteReport is the full analysis outcome for one site.
type SiteReport struct {
	SessionID   string    `json:"session_id"`
	BaseURL     string    `json:"base_url"`
	GeneratedAt time.Time `json:"generated_at"`

	Keywords     keywords.List        `json:"keywords,omitempty"`
	Architecture *architecture.Report `json:"architecture,omitempty"`
	Pages        []*PageReport        `json:"pages"`

	// Inventory is the full ranked URL list from the crawl, analyzed
	// or not.
	Inventory []*crawler.Page `json:"inventory"`

	CrawledCount int `json:"crawled_count"`
	FailedCount  int `json:"failed_count"`

	OverallScore   float64 `json:"overall_score"`
	HomepageCapped bool    `json:"homepage_capped"`
}

// NewSiteReport creates a report shell with a fresh session ID.
func NewSiteReport(baseURL string) *SiteReport {
	return &SiteReport{
		SessionID:   uuid.NewString(),
		BaseURL:     baseURL,
		GeneratedAt: time.Now().UTC(),
	}
}

// analyzerScores lists the six core scores present on the page.
func (p *PageReport) analyzerScores() []int {
	var scores []int
	if p.Title != nil {
		scores = append(scores, p.Title.Score)
	}
	if p.Meta != nil {
		scores = append(scores, p.Meta.Score)
	}
	if p.Headings != nil {
		scores = append(scores, p.Headings.Score)
	}
	if p.Body != nil {
		scores = append(scores, p.Body.Score)
	}
	if p.Images != nil {
		scores = append(scores, p.Images.Score)
	}
	if p.Schema != nil {
		scores = append(scores, p.Schema.Score)
	}
	return scores
}

// computeComposite fills Composite and CriticalFailed. Insights
// performance scores join the mean when available.
func (p *PageReport) computeComposite() {
	p.CriticalFailed = (p.Title != nil && p.Title.Score < criticalThreshold) ||
		(p.Meta != nil && p.Meta.Score < criticalThreshold) ||
		(p.Headings != nil && p.Headings.Score < criticalThreshold)

	scores := p.analyzerScores()
	if p.Insights != nil {
		for _, dev := range []*insights.DeviceReport{p.Insights.Mobile, p.Insights.Desktop} {
			if dev != nil && dev.Err == nil {
				scores = append(scores, dev.PerformanceScore)
			}
		}
	}
	if len(scores) == 0 {
		p.Composite = 0
		return
	}

	sum := 0
	for _, s := range scores {
		sum += s
	}
	composite := float64(sum) / float64(len(scores))
	if p.CriticalFailed && composite > criticalCap {
		composite = criticalCap
	}
	p.Composite = composite
}

// pageWeight follows the rank of the page in the analyzed list: the
// homepage dominates, the next two pages matter, the tail barely
// moves the needle.
func pageWeight(rank int) float64 {
	switch {
	case rank == 0:
		return 0.5
	case rank <= 2:
		return 0.2
	case rank <= 10:
		return 0.1
	default:
		return 0.05
	}
}

// Aggregate computes page composites and the weighted site score,
// normalizing by the weights actually applied.
func Aggregate(rep *SiteReport) {
	weighted := 0.0
	totalWeight := 0.0

	if rep.Architecture != nil {
		weighted += float64(rep.Architecture.Score) * architectureWeight
		totalWeight += architectureWeight
	}

	homepageFailed := false
	for i, p := range rep.Pages {
		p.computeComposite()
		if len(p.analyzerScores()) == 0 {
			continue
		}
		if i == 0 && (p.Composite < homepageThreshold || p.CriticalFailed) {
			homepageFailed = true
		}
		w := pageWeight(i)
		weighted += p.Composite * w
		totalWeight += w
	}

	if totalWeight == 0 {
		rep.OverallScore = 0
		return
	}

	score := weighted / totalWeight
	if homepageFailed && score > homepageCap {
		score = homepageCap
	}
	rep.OverallScore = score
	rep.HomepageCapped = homepageFailed
}
