package verdict

import (
	"fmt"
	"strings"
)

// Verdict is the final categorical decision for one analyzed image.
type Verdict string

const (
	VerdictReal  Verdict = "REAL"
	VerdictFake  Verdict = "FAKE"
	VerdictError Verdict = "ERROR"
)

// AnalysisResult is the only artifact returned to the external boundary.
// Created once per request, never mutated, discarded after serialization.
type AnalysisResult struct {
	Verdict         Verdict  `json:"verdict"`
	ConfidenceScore string   `json:"confidence_score"`
	Analysis        []string `json:"-"`
}

// AnalysisText joins the ordered analysis lines for the wire format; the
// presentation layer splits on newlines and strips leading bullet markers.
func (r AnalysisResult) AnalysisText() string {
	return strings.Join(r.Analysis, "\n")
}

// WireResult is the JSON shape exposed at the HTTP boundary: analysis lines
// flattened to one newline-joined string.
type WireResult struct {
	Verdict         Verdict `json:"verdict"`
	ConfidenceScore string  `json:"confidence_score"`
	Analysis        string  `json:"analysis"`
}

// Wire converts the result to its boundary representation.
func (r AnalysisResult) Wire() WireResult {
	return WireResult{
		Verdict:         r.Verdict,
		ConfidenceScore: r.ConfidenceScore,
		Analysis:        r.AnalysisText(),
	}
}

// FormatConfidence renders a [0,1] score as a two-decimal percentage string.
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// FormatConfidencePercent renders an already-percentage value ([0,100]).
func FormatConfidencePercent(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// Thresholds are the explicit fusion calibration values. They are injected
// into the aggregator and the forensic modules rather than read from globals.
type Thresholds struct {
	// AgentSuspicion is the score at or above which an agent's signal
	// flips the verdict to FAKE.
	AgentSuspicion float64
	// ELACritical is the error-level analysis score at or above which the
	// compression finding becomes CRITICAL.
	ELACritical float64
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AgentSuspicion: 0.5,
		ELACritical:    15.0,
	}
}
