package ports

import (
	"context"

	"gosleuth/domain/sample"
)

// Point is a pixel coordinate inside the decoded image.
type Point struct {
	X float64
	Y float64
}

// Face is one detected face region with localized landmarks. Landmark
// localization is best effort: a zero Quality landmark means the localizer
// could not place it.
type Face struct {
	// Bounding box of the detection, in pixel coordinates.
	X, Y, Width, Height float64
	// Detection confidence as reported by the detector (model-specific scale).
	Quality float64
	// Eye centers. Present when the pupil localizer converged.
	LeftEye, RightEye *Point
}

// Area returns the bounding-box area, used to pick the most prominent face.
func (f Face) Area() float64 { return f.Width * f.Height }

// FaceLandmarker locates faces and their landmarks in a decoded image.
// Backed by the pigo cascades in production; stubbed in tests.
type FaceLandmarker interface {
	DetectFaces(ctx context.Context, img *sample.ImageSample) ([]Face, error)
}
