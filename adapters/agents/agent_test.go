package agents

import (
	"context"
	"image/color"
	"testing"
	"time"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	apperrors "gosleuth/internal/errors"
	"gosleuth/internal/testkit"
	"gosleuth/ports"
)

type stubClassifier struct {
	preds  []ports.LabelScore
	err    error
	delay  time.Duration
	panics bool

	gotWidth  int
	gotHeight int
}

func (c *stubClassifier) ID() core.AgentID { return "stub" }

func (c *stubClassifier) Predict(ctx context.Context, img *sample.ImageSample) ([]ports.LabelScore, error) {
	c.gotWidth, c.gotHeight = img.Width(), img.Height()
	if c.panics {
		panic("inference blew up")
	}
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return c.preds, c.err
}

func testImage(t *testing.T) *sample.ImageSample {
	t.Helper()
	img := testkit.FlatImage(32, 32, color.RGBA{R: 100, G: 110, B: 120, A: 255})
	return sample.New(img, testkit.PNGBytes(img), sample.FormatPNG)
}

func TestFakeProbability(t *testing.T) {
	cases := []struct {
		name  string
		preds []ports.LabelScore
		want  float64
	}{
		{
			name:  "fake label wins",
			preds: []ports.LabelScore{{Label: "Fake", Score: 0.87}, {Label: "Real", Score: 0.13}},
			want:  0.87,
		},
		{
			name:  "deepfake vocabulary",
			preds: []ports.LabelScore{{Label: "Deepfake", Score: 0.91}},
			want:  0.91,
		},
		{
			name:  "indexed vocabulary",
			preds: []ports.LabelScore{{Label: "LABEL_0", Score: 0.2}, {Label: "LABEL_1", Score: 0.8}},
			want:  0.8,
		},
		{
			name:  "real-only vocabulary inverted",
			preds: []ports.LabelScore{{Label: "natural", Score: 0.95}},
			want:  0.05,
		},
		{
			name:  "whitespace and casing tolerated",
			preds: []ports.LabelScore{{Label: "  ARTIFICIAL ", Score: 0.66}},
			want:  0.66,
		},
		{
			name:  "unknown vocabulary yields zero",
			preds: []ports.LabelScore{{Label: "cat", Score: 0.99}},
			want:  0,
		},
		{
			name:  "empty predictions yield zero",
			preds: nil,
			want:  0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := fakeProbability(c.preds)
			if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("fakeProbability = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEvaluate_ThresholdLabels(t *testing.T) {
	cases := []struct {
		score float64
		want  signal.AgentLabel
	}{
		{0.49, signal.LabelClean},
		{0.50, signal.LabelSuspicious},
		{0.95, signal.LabelSuspicious},
	}
	for _, c := range cases {
		agent := NewSwapSpecialist(&stubClassifier{
			preds: []ports.LabelScore{{Label: "fake", Score: c.score}},
		}, nil, Options{SuspicionThreshold: 0.5})

		r := agent.Evaluate(context.Background(), testImage(t))
		if r.Label != c.want {
			t.Errorf("Score %v: got label %s, want %s", c.score, r.Label, c.want)
		}
		if r.SuspicionScore != c.score {
			t.Errorf("Score %v: got suspicion %v", c.score, r.SuspicionScore)
		}
	}
}

// TestEvaluate_OversizedInputDownscaled verifies oversized samples are shrunk
// to the configured bound before inference rather than rejected.
func TestEvaluate_OversizedInputDownscaled(t *testing.T) {
	classifier := &stubClassifier{preds: []ports.LabelScore{{Label: "fake", Score: 0.8}}}
	agent := NewSwapSpecialist(classifier, nil, Options{MaxImageDim: 256})

	big := testkit.FlatImage(1024, 512, color.RGBA{R: 60, G: 70, B: 80, A: 255})
	r := agent.Evaluate(context.Background(), sample.New(big, testkit.PNGBytes(big), sample.FormatPNG))

	if r.Label != signal.LabelSuspicious {
		t.Fatalf("Oversized input must still be scored, got %s (%s)", r.Label, r.ErrCode)
	}
	if classifier.gotWidth != 256 || classifier.gotHeight != 128 {
		t.Errorf("Classifier received %dx%d, want 256x128", classifier.gotWidth, classifier.gotHeight)
	}
}

// TestEvaluate_SmallInputNotResized verifies in-bound samples reach the
// classifier untouched.
func TestEvaluate_SmallInputNotResized(t *testing.T) {
	classifier := &stubClassifier{preds: []ports.LabelScore{{Label: "real", Score: 0.9}}}
	agent := NewSwapSpecialist(classifier, nil, Options{MaxImageDim: 256})

	r := agent.Evaluate(context.Background(), testImage(t))
	if r.Label != signal.LabelClean {
		t.Fatalf("Expected CLEAN, got %s", r.Label)
	}
	if classifier.gotWidth != 32 || classifier.gotHeight != 32 {
		t.Errorf("Classifier received %dx%d, want the original 32x32", classifier.gotWidth, classifier.gotHeight)
	}
}

func TestEvaluate_NilClassifierFailsSoft(t *testing.T) {
	agent := NewSynthesisSpecialist(nil, core.ErrModelUnavailable, Options{})

	r := agent.Evaluate(context.Background(), testImage(t))
	if r.Label != signal.LabelFailed {
		t.Fatalf("Expected FAILED, got %s", r.Label)
	}
	if r.ErrCode != apperrors.CodeModelUnavailable {
		t.Errorf("Expected %s, got %s", apperrors.CodeModelUnavailable, r.ErrCode)
	}
	if r.AgentName != "Sentinel-X" {
		t.Errorf("Failed result must still carry identity, got %q", r.AgentName)
	}
}

func TestEvaluate_TimeoutFailsSoft(t *testing.T) {
	agent := NewSwapSpecialist(&stubClassifier{delay: time.Second}, nil, Options{Timeout: 30 * time.Millisecond})

	start := time.Now()
	r := agent.Evaluate(context.Background(), testImage(t))
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Evaluate held past its timeout: %v", elapsed)
	}
	if r.Label != signal.LabelFailed || r.ErrCode != apperrors.CodeAgentTimeout {
		t.Errorf("Expected FAILED/AGENT_TIMEOUT, got %s/%s", r.Label, r.ErrCode)
	}
}

func TestEvaluate_PanicFailsSoft(t *testing.T) {
	agent := NewSwapSpecialist(&stubClassifier{panics: true}, nil, Options{})

	r := agent.Evaluate(context.Background(), testImage(t))
	if r.Label != signal.LabelFailed || r.ErrCode != apperrors.CodeAgentFailed {
		t.Errorf("Expected FAILED/AGENT_FAILED after panic, got %s/%s", r.Label, r.ErrCode)
	}
}

func TestEvaluate_InferenceErrorFailsSoft(t *testing.T) {
	agent := NewSwapSpecialist(&stubClassifier{err: core.ErrInferenceFailed}, nil, Options{})

	r := agent.Evaluate(context.Background(), testImage(t))
	if r.Label != signal.LabelFailed || r.ErrCode != apperrors.CodeAgentFailed {
		t.Errorf("Expected FAILED/AGENT_FAILED, got %s/%s", r.Label, r.ErrCode)
	}
}
