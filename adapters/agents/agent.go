package agents

import (
	"context"
	"errors"
	"log"
	"time"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	apperrors "gosleuth/internal/errors"
	"gosleuth/internal/imaging"
	"gosleuth/ports"
)

// Options configure one classifier agent adapter.
type Options struct {
	// SuspicionThreshold flips the label to SUSPICIOUS when met or exceeded.
	SuspicionThreshold float64
	// Timeout bounds one Evaluate call.
	Timeout time.Duration
	// MaxImageDim downscales oversized inputs before inference.
	MaxImageDim int
}

// ClassifierAgent adapts one underlying model to the uniform suspicion-score
// contract. Evaluate never panics or returns an error; every internal failure
// degrades to a FAILED result so a broken agent cannot abort the pipeline.
type ClassifierAgent struct {
	id         core.AgentID
	name       string
	specialty  string
	classifier ports.Classifier
	opts       Options
}

// NewSwapSpecialist wraps the face-swap detection model.
// The classifier may be nil when its weight file failed to load; the agent
// then reports FAILED with MODEL_UNAVAILABLE instead of refusing to exist.
func NewSwapSpecialist(c ports.Classifier, loadErr error, opts Options) *ClassifierAgent {
	return newAgent("vigilante-v2", "Vigilante-V2", "face swap", c, loadErr, opts)
}

// NewSynthesisSpecialist wraps the synthetic-image detection model.
func NewSynthesisSpecialist(c ports.Classifier, loadErr error, opts Options) *ClassifierAgent {
	return newAgent("sentinel-x", "Sentinel-X", "synthetic generation", c, loadErr, opts)
}

func newAgent(id core.AgentID, name, specialty string, c ports.Classifier, loadErr error, opts Options) *ClassifierAgent {
	if opts.SuspicionThreshold == 0 {
		opts.SuspicionThreshold = 0.5
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxImageDim == 0 {
		opts.MaxImageDim = 1024
	}
	if c == nil && loadErr != nil {
		log.Printf("[Agent %s] classifier unavailable, agent will report FAILED: %v", id, loadErr)
	}
	return &ClassifierAgent{
		id:         id,
		name:       name,
		specialty:  specialty,
		classifier: c,
		opts:       opts,
	}
}

// ID returns the agent identifier.
func (a *ClassifierAgent) ID() core.AgentID { return a.id }

// Name returns the display name used in analysis logs.
func (a *ClassifierAgent) Name() string { return a.name }

// Specialty returns the detector's specialization tag.
func (a *ClassifierAgent) Specialty() string { return a.specialty }

// Evaluate scores one image sample within the agent's timeout.
func (a *ClassifierAgent) Evaluate(ctx context.Context, img *sample.ImageSample) signal.AgentResult {
	if a.classifier == nil {
		return a.failed(apperrors.CodeModelUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	// Oversized inputs are downscaled before inference, never rejected.
	scaled := img
	if img.Width() > a.opts.MaxImageDim || img.Height() > a.opts.MaxImageDim {
		clamped := imaging.ClampDim(img.Pixels(), a.opts.MaxImageDim)
		scaled = sample.New(clamped, img.Raw(), img.Format())
	}

	type prediction struct {
		preds []ports.LabelScore
		err   error
	}
	done := make(chan prediction, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Agent %s] recovered from inference panic: %v", a.id, r)
				done <- prediction{err: core.ErrInferenceFailed}
			}
		}()
		preds, err := a.classifier.Predict(ctx, scaled)
		done <- prediction{preds: preds, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Printf("[Agent %s] timed out after %s", a.id, a.opts.Timeout)
		return a.failed(apperrors.CodeAgentTimeout)
	case p := <-done:
		if p.err != nil {
			return a.failedFromErr(p.err)
		}
		return a.scored(fakeProbability(p.preds))
	}
}

func (a *ClassifierAgent) scored(score float64) signal.AgentResult {
	label := signal.LabelClean
	if score >= a.opts.SuspicionThreshold {
		label = signal.LabelSuspicious
	}
	return signal.AgentResult{
		AgentID:        a.id,
		AgentName:      a.name,
		Specialty:      a.specialty,
		SuspicionScore: score,
		Label:          label,
	}
}

func (a *ClassifierAgent) failed(code string) signal.AgentResult {
	return signal.AgentResult{
		AgentID:   a.id,
		AgentName: a.name,
		Specialty: a.specialty,
		Label:     signal.LabelFailed,
		ErrCode:   code,
	}
}

func (a *ClassifierAgent) failedFromErr(err error) signal.AgentResult {
	switch {
	case errors.Is(err, core.ErrModelUnavailable):
		return a.failed(apperrors.CodeModelUnavailable)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, core.ErrAgentTimeout):
		return a.failed(apperrors.CodeAgentTimeout)
	default:
		log.Printf("[Agent %s] inference failed: %v", a.id, err)
		return a.failed(apperrors.CodeAgentFailed)
	}
}
