package geometry

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
	"gosleuth/ports"
)

// ModuleID identifies the face geometry validator in bundles and logs.
const ModuleID core.ModuleID = "geometry"

// Bounds are the plausible anatomical limits for facial landmark geometry.
// Values calibrated on frontal portrait photography; violations indicate
// warped or composited faces.
type Bounds struct {
	// InterocularRatio is eye distance over face width.
	InterocularRatioMin float64
	InterocularRatioMax float64
	// MaxEyeTiltDegrees bounds the eye-line angle from horizontal.
	MaxEyeTiltDegrees float64
	// Vertical placement of the eye midpoint within the face box.
	EyeLineMin float64
	EyeLineMax float64
}

// DefaultBounds returns the calibrated anatomical limits.
func DefaultBounds() Bounds {
	return Bounds{
		InterocularRatioMin: 0.22,
		InterocularRatioMax: 0.62,
		MaxEyeTiltDegrees:   22.0,
		EyeLineMin:          0.18,
		EyeLineMax:          0.60,
	}
}

// Validator checks detected facial landmarks against anatomical bounds.
// Policy for multiple faces: only the most prominent face (largest detection
// area) is evaluated, matching the upstream face-crop behavior.
type Validator struct {
	landmarker ports.FaceLandmarker
	bounds     Bounds
}

// NewValidator creates a validator over a landmark source.
func NewValidator(landmarker ports.FaceLandmarker, bounds Bounds) *Validator {
	return &Validator{landmarker: landmarker, bounds: bounds}
}

// ID returns the module identifier.
func (v *Validator) ID() core.ModuleID { return ModuleID }

// Category returns GEOMETRY.
func (v *Validator) Category() signal.Category { return signal.CategoryGeometry }

// Inspect validates the most prominent face's landmark geometry. Zero faces
// is an INFO outcome, not an error and not a signal of fakery.
func (v *Validator) Inspect(ctx context.Context, img *sample.ImageSample) ([]signal.ForensicFinding, error) {
	if v.landmarker == nil {
		return nil, fmt.Errorf("%w: geometry: no landmarker configured", core.ErrForensicFailed)
	}

	faces, err := v.landmarker.DetectFaces(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%w: geometry: %v", core.ErrForensicFailed, err)
	}

	if len(faces) == 0 {
		return []signal.ForensicFinding{signal.NewFinding(
			ModuleID, signal.CategoryGeometry, signal.SeverityInfo,
			"No face present in image, geometry checks not applicable",
		)}, nil
	}

	face := mostProminent(faces)
	if face.LeftEye == nil || face.RightEye == nil {
		return []signal.ForensicFinding{signal.NewFinding(
			ModuleID, signal.CategoryGeometry, signal.SeverityInfo,
			"Face detected but landmarks could not be localized, geometry inconclusive",
		)}, nil
	}

	violations := v.checkLandmarks(face)
	if len(violations) == 0 {
		return []signal.ForensicFinding{signal.NewFinding(
			ModuleID, signal.CategoryGeometry, signal.SeverityInfo,
			"Facial geometry verified: landmark proportions within anatomical bounds",
		)}, nil
	}

	severity := signal.SeverityWarning
	if len(violations) > 1 {
		severity = signal.SeverityCritical
	}
	findings := make([]signal.ForensicFinding, 0, len(violations))
	for _, msg := range violations {
		findings = append(findings, signal.NewFinding(ModuleID, signal.CategoryGeometry, severity, msg))
	}
	return findings, nil
}

// mostProminent picks the face with the largest detection area.
func mostProminent(faces []ports.Face) ports.Face {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Area() > best.Area() {
			best = f
		}
	}
	return best
}

func (v *Validator) checkLandmarks(face ports.Face) []string {
	var violations []string

	left, right := *face.LeftEye, *face.RightEye
	eyeDist := floats.Distance([]float64{left.X, left.Y}, []float64{right.X, right.Y}, 2)

	if face.Width > 0 {
		ratio := eyeDist / face.Width
		if ratio < v.bounds.InterocularRatioMin || ratio > v.bounds.InterocularRatioMax {
			violations = append(violations, fmt.Sprintf(
				"Implausible eye region: interocular distance ratio %.2f outside [%.2f, %.2f]",
				ratio, v.bounds.InterocularRatioMin, v.bounds.InterocularRatioMax))
		}
	}

	tilt := math.Abs(math.Atan2(right.Y-left.Y, right.X-left.X)) * 180 / math.Pi
	if tilt > 90 {
		tilt = 180 - tilt
	}
	if tilt > v.bounds.MaxEyeTiltDegrees {
		violations = append(violations, fmt.Sprintf(
			"Implausible eye alignment: eye-line tilt %.1f degrees exceeds %.1f",
			tilt, v.bounds.MaxEyeTiltDegrees))
	}

	if face.Height > 0 {
		midY := (left.Y + right.Y) / 2
		placement := (midY - face.Y) / face.Height
		if placement < v.bounds.EyeLineMin || placement > v.bounds.EyeLineMax {
			violations = append(violations, fmt.Sprintf(
				"Implausible eye placement: eye line at %.2f of face height, outside [%.2f, %.2f]",
				placement, v.bounds.EyeLineMin, v.bounds.EyeLineMax))
		}
	}

	return violations
}
