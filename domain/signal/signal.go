package signal

import (
	"gosleuth/domain/core"
)

// AgentLabel classifies one classifier agent's outcome.
type AgentLabel string

const (
	LabelSuspicious AgentLabel = "SUSPICIOUS"
	LabelClean      AgentLabel = "CLEAN"
	LabelFailed     AgentLabel = "FAILED"
)

// AgentResult is the normalized output of one classifier agent for one
// invocation. Produced exactly once per agent; immutable after creation.
type AgentResult struct {
	AgentID        core.AgentID `json:"agent_id"`
	AgentName      string       `json:"agent_name"`
	Specialty      string       `json:"specialty"`
	SuspicionScore float64      `json:"suspicion_score"`
	Label          AgentLabel   `json:"label"`
	ErrCode        string       `json:"err_code,omitempty"`
}

// Succeeded reports whether the agent produced a usable score.
func (r AgentResult) Succeeded() bool { return r.Label != LabelFailed }

// Category groups forensic findings by the inspection they came from.
type Category string

const (
	CategoryMetadata    Category = "METADATA"
	CategoryCompression Category = "COMPRESSION"
	CategoryGeometry    Category = "GEOMETRY"
)

// Severity ranks how strongly a finding implicates manipulation.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns the log marker for a severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// ForensicFinding is a single structured observation from a forensic module.
// The presentation layer consumes Category and Severity directly rather than
// parsing free text.
type ForensicFinding struct {
	ModuleID core.ModuleID `json:"module_id"`
	Category Category      `json:"category"`
	Severity Severity      `json:"severity"`
	Message  string        `json:"message"`
	Score    *float64      `json:"score,omitempty"`
}

// NewFinding builds a finding without a numeric score.
func NewFinding(moduleID core.ModuleID, category Category, severity Severity, message string) ForensicFinding {
	return ForensicFinding{ModuleID: moduleID, Category: category, Severity: severity, Message: message}
}

// NewScoredFinding builds a finding carrying a numeric score for transparency.
func NewScoredFinding(moduleID core.ModuleID, category Category, severity Severity, message string, score float64) ForensicFinding {
	return ForensicFinding{ModuleID: moduleID, Category: category, Severity: severity, Message: message, Score: &score}
}
