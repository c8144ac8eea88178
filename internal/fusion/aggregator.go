package fusion

import (
	"gosleuth/domain/signal"
	"gosleuth/domain/verdict"
)

// Decision is the aggregator's output: the verdict plus the decisive signal
// context the renderer needs for the header line.
type Decision struct {
	Verdict    verdict.Verdict
	Confidence string
	// MaxAgentScore is the decisive agent suspicion when any agent
	// succeeded; meaningful only when AgentDefined.
	MaxAgentScore float64
	AgentDefined  bool
	// CriticalForensic reports whether any finding reached CRITICAL.
	CriticalForensic bool
}

// Aggregator applies the deterministic fusion rule over a frozen bundle.
// The fusion trusts the single most suspicious signal (max, never average):
// averaging would let one confident specialist's finding be diluted by the
// others' lower scores, defeating the point of running detectors with
// non-overlapping blind spots.
type Aggregator struct {
	thresholds verdict.Thresholds
}

// New creates an aggregator with explicit thresholds.
func New(thresholds verdict.Thresholds) *Aggregator {
	return &Aggregator{thresholds: thresholds}
}

// Fuse derives the verdict from a bundle. Pure: identical bundles always
// produce identical decisions, independent of signal arrival order.
func (a *Aggregator) Fuse(bundle *signal.SignalBundle) Decision {
	d := Decision{}

	for _, r := range bundle.SuccessfulAgents() {
		if !d.AgentDefined || r.SuspicionScore > d.MaxAgentScore {
			d.MaxAgentScore = r.SuspicionScore
			d.AgentDefined = true
		}
	}

	var criticalScore float64
	var criticalScored bool
	for _, f := range bundle.Findings() {
		if f.Severity != signal.SeverityCritical {
			continue
		}
		d.CriticalForensic = true
		if f.Score != nil && (!criticalScored || *f.Score > criticalScore) {
			criticalScore = *f.Score
			criticalScored = true
		}
	}

	switch {
	case !d.AgentDefined && !d.CriticalForensic:
		// Nothing decisive was collected. INFO and WARNING findings alone
		// cannot rescue a bundle with no working classifier.
		d.Verdict = verdict.VerdictError
		d.Confidence = verdict.FormatConfidencePercent(0)
	case !d.AgentDefined && d.CriticalForensic:
		d.Verdict = verdict.VerdictFake
		if criticalScored {
			d.Confidence = verdict.FormatConfidencePercent(criticalScore)
		} else {
			// A CRITICAL finding without a numeric score is a categorical
			// override; report full confidence in it.
			d.Confidence = verdict.FormatConfidencePercent(100)
		}
	case d.MaxAgentScore >= a.thresholds.AgentSuspicion || d.CriticalForensic:
		d.Verdict = verdict.VerdictFake
		d.Confidence = verdict.FormatConfidence(d.MaxAgentScore)
	default:
		d.Verdict = verdict.VerdictReal
		d.Confidence = verdict.FormatConfidence(d.MaxAgentScore)
	}

	return d
}
