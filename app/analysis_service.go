package app

import (
	"context"
	"log"
	"time"

	"gosleuth/domain/core"
	"gosleuth/domain/verdict"
	"gosleuth/internal/collector"
	apperrors "gosleuth/internal/errors"
	"gosleuth/internal/fusion"
	"gosleuth/internal/imaging"
	"gosleuth/internal/report"
)

// AnalysisService is the single core operation behind every transport:
// decode, fan out, fuse, render. Agent and module failures degrade inside the
// pipeline; only undecodable input surfaces as an error.
type AnalysisService struct {
	collector  *collector.Collector
	aggregator *fusion.Aggregator
	renderer   *report.Renderer
}

// NewAnalysisService wires the pipeline stages.
func NewAnalysisService(c *collector.Collector, a *fusion.Aggregator, r *report.Renderer) *AnalysisService {
	return &AnalysisService{collector: c, aggregator: a, renderer: r}
}

// Analyze classifies one image. The returned error is non-nil only for input
// failures (bytes not decodable as an image), which fail fast before fan-out;
// every decodable input yields a well-formed AnalysisResult, with total
// detector failure reported as verdict ERROR rather than an error.
func (s *AnalysisService) Analyze(ctx context.Context, raw []byte) (*verdict.AnalysisResult, error) {
	started := time.Now()
	invocation := core.NewInvocationID()

	img, err := imaging.Decode(raw)
	if err != nil {
		log.Printf("[Analysis] %s rejected undecodable input (%d bytes): %v", invocation, len(raw), err)
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	log.Printf("[Analysis] %s image %s: %s %dx%d, %d bytes",
		invocation, img.Hash().Short(), img.Format(), img.Width(), img.Height(), img.EncodedSize())

	bundle := s.collector.Collect(ctx, invocation, img)
	decision := s.aggregator.Fuse(bundle)
	lines := s.renderer.Render(bundle, decision)

	log.Printf("[Analysis] %s verdict %s confidence %s in %s",
		invocation, decision.Verdict, decision.Confidence, time.Since(started).Round(time.Millisecond))

	return &verdict.AnalysisResult{
		Verdict:         decision.Verdict,
		ConfidenceScore: decision.Confidence,
		Analysis:        lines,
	}, nil
}
