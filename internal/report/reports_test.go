package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seoscope/seoscope/internal/analyzer"
	"github.com/seoscope/seoscope/internal/architecture"
	"github.com/seoscope/seoscope/internal/insights"
)

// fullPage builds a page report where all six analyzers scored the
// same value.
func fullPage(score int) *PageReport {
	r := analyzer.Result{Score: score, Status: analyzer.StatusFor(score)}
	return &PageReport{
		URL:      "https://example.com",
		Title:    &analyzer.TitleResult{Result: r},
		Meta:     &analyzer.MetaDescriptionResult{Result: r},
		Headings: &analyzer.HeadingsResult{Result: r},
		Body:     &analyzer.BodyContentResult{Result: r},
		Images:   &analyzer.ImagesResult{Result: r},
		Schema:   &analyzer.SchemaResult{Result: r},
	}
}

func TestAggregateSinglePage(t *testing.T) {
	rep := NewSiteReport("https://example.com")
	rep.Pages = []*PageReport{fullPage(90)}

	Aggregate(rep)

	assert.InDelta(t, 90.0, rep.Pages[0].Composite, 0.001)
	assert.InDelta(t, 90.0, rep.OverallScore, 0.001)
	assert.False(t, rep.HomepageCapped)
}

func TestAggregateWithArchitecture(t *testing.T) {
	rep := NewSiteReport("https://example.com")
	rep.Architecture = &architecture.Report{Score: 60}
	rep.Pages = []*PageReport{fullPage(90)}

	Aggregate(rep)

	// (60*0.1 + 90*0.5) / 0.6 = 85.
	assert.InDelta(t, 85.0, rep.OverallScore, 0.001)
}

func TestAggregateCriticalFailureCapsComposite(t *testing.T) {
	p := fullPage(90)
	p.Title = &analyzer.TitleResult{Result: analyzer.Result{Score: 30}}

	rep := NewSiteReport("https://example.com")
	rep.Pages = []*PageReport{p}

	Aggregate(rep)

	assert.True(t, p.CriticalFailed)
	assert.InDelta(t, 30.0, p.Composite, 0.001)
	assert.True(t, rep.HomepageCapped)
	assert.LessOrEqual(t, rep.OverallScore, 35.0)
}

func TestAggregateWeakHomepageCapsSite(t *testing.T) {
	rep := NewSiteReport("https://example.com")
	rep.Pages = []*PageReport{fullPage(45), fullPage(95), fullPage(95), fullPage(95)}

	Aggregate(rep)

	assert.True(t, rep.HomepageCapped)
	assert.LessOrEqual(t, rep.OverallScore, 35.0)
}

func TestAggregatePageWeights(t *testing.T) {
	rep := NewSiteReport("https://example.com")
	rep.Pages = []*PageReport{fullPage(100), fullPage(50), fullPage(50)}

	Aggregate(rep)

	// (100*0.5 + 50*0.2 + 50*0.2) / 0.9 = 77.78.
	assert.InDelta(t, 77.78, rep.OverallScore, 0.01)
}

func TestAggregateEmptyReport(t *testing.T) {
	rep := NewSiteReport("https://example.com")
	Aggregate(rep)
	assert.Zero(t, rep.OverallScore)
}

func TestCompositeIncludesInsights(t *testing.T) {
	p := fullPage(90)
	p.Insights = &insights.Report{
		Mobile:  &insights.DeviceReport{Strategy: "MOBILE", PerformanceScore: 60},
		Desktop: &insights.DeviceReport{Strategy: "DESKTOP", PerformanceScore: 80},
	}

	rep := NewSiteReport("https://example.com")
	rep.Pages = []*PageReport{p}
	Aggregate(rep)

	// (90*6 + 60 + 80) / 8 = 85.
	assert.InDelta(t, 85.0, p.Composite, 0.001)
}

func TestPageWeightTiers(t *testing.T) {
	assert.Equal(t, 0.5, pageWeight(0))
	assert.Equal(t, 0.2, pageWeight(1))
	assert.Equal(t, 0.2, pageWeight(2))
	assert.Equal(t, 0.1, pageWeight(3))
	assert.Equal(t, 0.1, pageWeight(10))
	assert.Equal(t, 0.05, pageWeight(11))
}

func TestNewSiteReportSessionIDs(t *testing.T) {
	a := NewSiteReport("https://example.com")
	b := NewSiteReport("https://example.com")
	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}
