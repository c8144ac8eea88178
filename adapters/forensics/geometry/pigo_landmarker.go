package geometry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	pigo "github.com/esimov/pigo/core"

	"gosleuth/domain/sample"
	"gosleuth/internal/imaging"
	"gosleuth/ports"
)

// PigoLandmarker locates faces with the pigo pixel-intensity cascades and
// eye centers with its pupil localizer. Cascades are loaded once at
// construction and shared read-only across requests.
type PigoLandmarker struct {
	finder *pigo.Pigo
	puploc *pigo.PuplocCascade

	minQuality float32
}

// NewPigoLandmarker loads the facefinder and puploc cascade binaries from
// cascadeDir. The puploc cascade is optional: without it faces are still
// detected, only eye landmarks are unavailable.
func NewPigoLandmarker(cascadeDir string) (*PigoLandmarker, error) {
	faceBytes, err := os.ReadFile(filepath.Join(cascadeDir, "facefinder"))
	if err != nil {
		return nil, fmt.Errorf("read facefinder cascade: %w", err)
	}
	finder, err := pigo.NewPigo().Unpack(faceBytes)
	if err != nil {
		return nil, fmt.Errorf("unpack facefinder cascade: %w", err)
	}

	l := &PigoLandmarker{finder: finder, minQuality: 5.0}

	plBytes, err := os.ReadFile(filepath.Join(cascadeDir, "puploc"))
	if err == nil {
		plc, perr := pigo.NewPuplocCascade().UnpackCascade(plBytes)
		if perr != nil {
			return nil, fmt.Errorf("unpack puploc cascade: %w", perr)
		}
		l.puploc = plc
	}

	return l, nil
}

// DetectFaces runs the cascade over the grayscale sample and localizes eye
// centers for each clustered detection.
func (l *PigoLandmarker) DetectFaces(ctx context.Context, img *sample.ImageSample) ([]ports.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := img.Width(), img.Height()
	if w < 20 || h < 20 {
		return nil, nil
	}

	imgParams := pigo.ImageParams{
		Pixels: imaging.Grayscale(img.Pixels()),
		Rows:   h,
		Cols:   w,
		Dim:    w,
	}
	maxSize := w
	if h < w {
		maxSize = h
	}
	cParams := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: imgParams,
	}

	dets := l.finder.RunCascade(cParams, 0.0)
	dets = l.finder.ClusterDetections(dets, 0.2)

	var faces []ports.Face
	for _, det := range dets {
		if det.Q < l.minQuality {
			continue
		}
		face := ports.Face{
			X:       float64(det.Col) - float64(det.Scale)/2,
			Y:       float64(det.Row) - float64(det.Scale)/2,
			Width:   float64(det.Scale),
			Height:  float64(det.Scale),
			Quality: float64(det.Q),
		}
		if l.puploc != nil {
			face.LeftEye = l.locateEye(det, imgParams, -0.175)
			face.RightEye = l.locateEye(det, imgParams, 0.185)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

func (l *PigoLandmarker) locateEye(det pigo.Detection, imgParams pigo.ImageParams, colOffset float64) *ports.Point {
	probe := pigo.Puploc{
		Row:      det.Row - int(0.075*float32(det.Scale)),
		Col:      det.Col + int(colOffset*float64(det.Scale)),
		Scale:    float32(det.Scale) * 0.25,
		Perturbs: 50,
	}
	eye := l.puploc.RunDetector(probe, imgParams, 0.0, false)
	if eye.Row <= 0 || eye.Col <= 0 {
		return nil
	}
	return &ports.Point{X: float64(eye.Col), Y: float64(eye.Row)}
}
