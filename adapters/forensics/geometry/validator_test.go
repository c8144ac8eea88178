package geometry

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"testing"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	"gosleuth/internal/testkit"
	"gosleuth/ports"
)

type stubLandmarker struct {
	faces []ports.Face
	err   error
}

func (s *stubLandmarker) DetectFaces(_ context.Context, _ *sample.ImageSample) ([]ports.Face, error) {
	return s.faces, s.err
}

func portraitSample(t *testing.T) *sample.ImageSample {
	t.Helper()
	img := testkit.FlatImage(200, 200, color.RGBA{R: 180, G: 160, B: 150, A: 255})
	return sample.New(img, testkit.PNGBytes(img), sample.FormatPNG)
}

// plausibleFace is a frontal face whose landmarks sit well inside every bound:
// interocular ratio 0.40, zero tilt, eye line at 0.35 of face height.
func plausibleFace() ports.Face {
	return ports.Face{
		X: 50, Y: 40, Width: 100, Height: 120, Quality: 40,
		LeftEye:  &ports.Point{X: 80, Y: 82},
		RightEye: &ports.Point{X: 120, Y: 82},
	}
}

func inspect(t *testing.T, faces []ports.Face) []signal.ForensicFinding {
	t.Helper()
	v := NewValidator(&stubLandmarker{faces: faces}, DefaultBounds())
	findings, err := v.Inspect(context.Background(), portraitSample(t))
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	return findings
}

func TestInspect_NoFaceIsInfo(t *testing.T) {
	findings := inspect(t, nil)
	if len(findings) != 1 {
		t.Fatalf("Expected a single finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Severity != signal.SeverityInfo {
		t.Errorf("No face must be INFO, got %s", f.Severity)
	}
	if !strings.Contains(f.Message, "No face present") {
		t.Errorf("Unexpected message: %q", f.Message)
	}
}

func TestInspect_PlausibleGeometryVerified(t *testing.T) {
	findings := inspect(t, []ports.Face{plausibleFace()})
	if len(findings) != 1 || findings[0].Severity != signal.SeverityInfo {
		t.Fatalf("Expected one INFO finding, got %+v", findings)
	}
	if !strings.Contains(findings[0].Message, "verified") {
		t.Errorf("Unexpected message: %q", findings[0].Message)
	}
}

func TestInspect_SingleViolationIsWarning(t *testing.T) {
	// Eyes pushed implausibly close: ratio 0.10, everything else plausible.
	face := plausibleFace()
	face.LeftEye = &ports.Point{X: 95, Y: 82}
	face.RightEye = &ports.Point{X: 105, Y: 82}

	findings := inspect(t, []ports.Face{face})
	if len(findings) != 1 {
		t.Fatalf("Expected one finding, got %+v", findings)
	}
	if findings[0].Severity != signal.SeverityWarning {
		t.Errorf("Single violation must be WARNING, got %s", findings[0].Severity)
	}
	if !strings.Contains(findings[0].Message, "interocular") {
		t.Errorf("Unexpected message: %q", findings[0].Message)
	}
}

func TestInspect_MultipleViolationsAreCritical(t *testing.T) {
	// Narrow interocular distance and a 45 degree tilt.
	face := plausibleFace()
	face.LeftEye = &ports.Point{X: 95, Y: 75}
	face.RightEye = &ports.Point{X: 105, Y: 85}

	findings := inspect(t, []ports.Face{face})
	if len(findings) < 2 {
		t.Fatalf("Expected at least two findings, got %+v", findings)
	}
	for _, f := range findings {
		if f.Severity != signal.SeverityCritical {
			t.Errorf("Multi-violation findings must all be CRITICAL, got %s for %q", f.Severity, f.Message)
		}
	}
}

// TestInspect_MostProminentFaceWins verifies only the largest detection is
// evaluated when several faces are present.
func TestInspect_MostProminentFaceWins(t *testing.T) {
	// Small background face with broken geometry, large foreground face clean.
	distorted := ports.Face{
		X: 0, Y: 0, Width: 20, Height: 20, Quality: 10,
		LeftEye:  &ports.Point{X: 9, Y: 2},
		RightEye: &ports.Point{X: 11, Y: 18},
	}

	findings := inspect(t, []ports.Face{distorted, plausibleFace()})
	if len(findings) != 1 || findings[0].Severity != signal.SeverityInfo {
		t.Errorf("Expected the prominent clean face to decide, got %+v", findings)
	}
}

func TestInspect_MissingLandmarksInconclusive(t *testing.T) {
	face := plausibleFace()
	face.RightEye = nil

	findings := inspect(t, []ports.Face{face})
	if len(findings) != 1 || findings[0].Severity != signal.SeverityInfo {
		t.Fatalf("Expected one INFO finding, got %+v", findings)
	}
	if !strings.Contains(findings[0].Message, "inconclusive") {
		t.Errorf("Unexpected message: %q", findings[0].Message)
	}
}

func TestInspect_LandmarkerErrorPropagates(t *testing.T) {
	v := NewValidator(&stubLandmarker{err: errors.New("cascade corrupt")}, DefaultBounds())
	_, err := v.Inspect(context.Background(), portraitSample(t))
	if !errors.Is(err, core.ErrForensicFailed) {
		t.Errorf("Expected ErrForensicFailed, got %v", err)
	}
}

func TestInspect_NilLandmarkerFails(t *testing.T) {
	v := NewValidator(nil, DefaultBounds())
	_, err := v.Inspect(context.Background(), portraitSample(t))
	if !errors.Is(err, core.ErrForensicFailed) {
		t.Errorf("Expected ErrForensicFailed, got %v", err)
	}
}
