// Package analyzer implements the on-page scoring analyzers. Every analyzer
// scores a single parsed document against a fixed 100-point budget and is
// deterministic: the same document and keyword list always produce the same
// result.
package analyzer

import (
	"github.com/seoscope/seoscope/internal/keywords"
	"github.com/seoscope/seoscope/internal/page"
)

// Status classifies a score. The thresholds are shared by all analyzers.
type Status string

const (
	StatusGood Status = "GOOD"
	StatusFair Status = "FAIR"
	StatusPoor Status = "POOR"
)

// StatusFor maps a score to its status band.
func StatusFor(score int) Status {
	switch {
	case score >= 80:
		return StatusGood
	case score >= 60:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Result is the common portion of every analyzer's output. Issues and
// Suggestions keep insertion order; required suggestions precede optional
// ones.
type Result struct {
	Score       int      `json:"score"`
	Status      Status   `json:"status"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

func (r *Result) addIssue(issue string) {
	r.Issues = append(r.Issues, issue)
}

func (r *Result) addSuggestion(s string) {
	r.Suggestions = append(r.Suggestions, s)
}

// finalize clamps the score and derives the status.
func (r *Result) finalize(score int) {
	r.Score = clamp(score)
	r.Status = StatusFor(r.Score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Input bundles everything an analyzer needs about a page.
type Input struct {
	Doc        *page.Document
	Keywords   keywords.List
	BrandName  string
	IsHomepage bool
}

// Brand resolves the effective brand name: explicit override first, then the
// keyword list's brand slot.
func (in Input) Brand() string {
	if in.BrandName != "" {
		return in.BrandName
	}
	return in.Keywords.Brand()
}
