package report

import (
	"fmt"

	"gosleuth/domain/core"
	"gosleuth/domain/signal"
	"gosleuth/internal/fusion"
)

// Bullet is the marker prefixing every forensic line. The presentation layer
// splits the flattened analysis on newlines and strips this marker to recover
// structured lines, so it must be stable.
const Bullet = "• "

// ModuleRef pins one forensic module's identity and category in the fixed
// rendering order. Declaration order here is the report order forever.
type ModuleRef struct {
	ID       core.ModuleID
	Category signal.Category
}

// Renderer turns a frozen bundle and its fused decision into the ordered,
// stably-formatted analysis log. Rendering is deterministic and idempotent:
// the same bundle always yields byte-identical text.
type Renderer struct {
	modules []ModuleRef
}

// New creates a renderer with the fixed module rendering order.
func New(modules []ModuleRef) *Renderer {
	return &Renderer{modules: modules}
}

// Render produces the ordered line sequence: a header, one line per agent in
// declaration order, then forensic findings grouped in fixed module order.
// Every collected signal appears; nothing is discarded silently.
func (r *Renderer) Render(bundle *signal.SignalBundle, decision fusion.Decision) []string {
	agents := bundle.AgentResults()
	lines := make([]string, 0, len(agents)+len(r.modules)+1)

	lines = append(lines, fmt.Sprintf(
		"Ensemble analysis: verdict %s (confidence %s, %d/%d agents reporting)",
		decision.Verdict, decision.Confidence, len(bundle.SuccessfulAgents()), len(agents)))

	for _, a := range agents {
		lines = append(lines, renderAgent(a))
	}

	outcomes := make(map[core.ModuleID]signal.ModuleOutcome, len(r.modules))
	for _, o := range bundle.ModuleOutcomes() {
		outcomes[o.ModuleID] = o
	}
	for _, ref := range r.modules {
		o, ok := outcomes[ref.ID]
		if !ok {
			continue
		}
		if o.Skipped != "" {
			lines = append(lines, fmt.Sprintf("%s[%s][SKIPPED] Module %s did not complete (%s)",
				Bullet, ref.Category, ref.ID, o.Skipped))
			continue
		}
		for _, f := range o.Findings {
			lines = append(lines, fmt.Sprintf("%s[%s][%s] %s", Bullet, f.Category, f.Severity, f.Message))
		}
	}

	return lines
}

func renderAgent(a signal.AgentResult) string {
	if a.Label == signal.LabelFailed {
		return fmt.Sprintf("Agent %s [%s]: FAILED (%s)", a.AgentName, a.Specialty, a.ErrCode)
	}
	return fmt.Sprintf("Agent %s [%s]: suspicion %.3f (%s)", a.AgentName, a.Specialty, a.SuspicionScore, a.Label)
}
