package signal

import (
	"gosleuth/domain/core"
)

// SkipReason records why a forensic module contributed nothing.
type SkipReason string

const (
	SkipTimeout SkipReason = "timeout"
	SkipError   SkipReason = "error"
)

// ModuleOutcome is the bundle entry for one forensic module: either its
// findings or the reason it was skipped. Every configured module gets one.
type ModuleOutcome struct {
	ModuleID core.ModuleID     `json:"module_id"`
	Findings []ForensicFinding `json:"findings,omitempty"`
	Skipped  SkipReason        `json:"skipped,omitempty"`
}

// SignalBundle is the complete set of collected signals for one invocation.
// The collector builds it incrementally and freezes it before fusion; a frozen
// bundle rejects further appends so the verdict stays a pure function of its
// contents.
type SignalBundle struct {
	InvocationID core.InvocationID
	agents       []AgentResult
	modules      []ModuleOutcome
	frozen       bool
}

// NewBundle creates an empty bundle for one invocation.
func NewBundle(id core.InvocationID) *SignalBundle {
	return &SignalBundle{InvocationID: id}
}

// AddAgentResult appends one agent result. Returns ErrBundleFrozen after freeze.
func (b *SignalBundle) AddAgentResult(r AgentResult) error {
	if b.frozen {
		return core.ErrBundleFrozen
	}
	b.agents = append(b.agents, r)
	return nil
}

// AddModuleOutcome appends one forensic module outcome. Returns ErrBundleFrozen after freeze.
func (b *SignalBundle) AddModuleOutcome(o ModuleOutcome) error {
	if b.frozen {
		return core.ErrBundleFrozen
	}
	b.modules = append(b.modules, o)
	return nil
}

// Freeze marks the bundle complete. Idempotent.
func (b *SignalBundle) Freeze() { b.frozen = true }

// Frozen reports whether the bundle has been handed to the aggregator.
func (b *SignalBundle) Frozen() bool { return b.frozen }

// AgentResults returns all agent results in collection order.
func (b *SignalBundle) AgentResults() []AgentResult { return b.agents }

// ModuleOutcomes returns all module outcomes in collection order.
func (b *SignalBundle) ModuleOutcomes() []ModuleOutcome { return b.modules }

// Findings flattens every collected forensic finding.
func (b *SignalBundle) Findings() []ForensicFinding {
	var all []ForensicFinding
	for _, m := range b.modules {
		all = append(all, m.Findings...)
	}
	return all
}

// SuccessfulAgents returns results from agents that did not fail.
func (b *SignalBundle) SuccessfulAgents() []AgentResult {
	var ok []AgentResult
	for _, a := range b.agents {
		if a.Succeeded() {
			ok = append(ok, a)
		}
	}
	return ok
}

// MaxSeverity returns the highest severity among collected findings,
// and false when the bundle holds no findings at all.
func (b *SignalBundle) MaxSeverity() (Severity, bool) {
	found := false
	max := SeverityInfo
	for _, f := range b.Findings() {
		found = true
		if f.Severity > max {
			max = f.Severity
		}
	}
	return max, found
}
