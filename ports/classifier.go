package ports

import (
	"context"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
)

// LabelScore is one raw prediction from an underlying classifier. Different
// models name their classes differently ("fake", "deepfake", "label_1", ...);
// agent adapters normalize these into a single fake-probability.
type LabelScore struct {
	Label string
	Score float64
}

// Classifier is the uniform port over an underlying learned image model.
// Implementations are stateless across calls except for a shared read-only
// model handle loaded once at process start.
type Classifier interface {
	ID() core.AgentID
	Predict(ctx context.Context, img *sample.ImageSample) ([]LabelScore, error)
}

// Agent wraps a Classifier behind the suspicion-score contract. Evaluate
// never returns an error: internal failures degrade to a FAILED result so one
// agent can never abort the pipeline.
type Agent interface {
	ID() core.AgentID
	Name() string
	Specialty() string
	Evaluate(ctx context.Context, img *sample.ImageSample) signal.AgentResult
}
