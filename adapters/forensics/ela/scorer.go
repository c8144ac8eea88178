package ela

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/montanaflynn/stats"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
	"gosleuth/domain/signal"
)

// ModuleID identifies the compression anomaly scorer in bundles and logs.
const ModuleID core.ModuleID = "ela"

// Scorer performs error-level analysis: re-encode at a fixed lower quality,
// diff against the original, and reduce the difference-map distribution to a
// scalar anomaly score. Spliced or locally re-compressed regions show error
// magnitudes that diverge from the rest of the image.
type Scorer struct {
	requality int
	threshold float64
}

// NewScorer creates a scorer with an explicit re-encode quality and critical
// threshold (no implicit globals).
func NewScorer(requality int, criticalThreshold float64) *Scorer {
	return &Scorer{requality: requality, threshold: criticalThreshold}
}

// ID returns the module identifier.
func (s *Scorer) ID() core.ModuleID { return ModuleID }

// Category returns COMPRESSION.
func (s *Scorer) Category() signal.Category { return signal.CategoryCompression }

// Inspect computes the anomaly score for one sample. Deterministic: the JPEG
// encoder is configured identically on every call and carries no randomness.
func (s *Scorer) Inspect(ctx context.Context, img *sample.ImageSample) ([]signal.ForensicFinding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	score, err := s.Score(img.Pixels())
	if err != nil {
		return nil, fmt.Errorf("%w: ela: %v", core.ErrForensicFailed, err)
	}

	if score >= s.threshold {
		return []signal.ForensicFinding{signal.NewScoredFinding(
			ModuleID, signal.CategoryCompression, signal.SeverityCritical,
			fmt.Sprintf("Error-level analysis score %.2f exceeds threshold %.2f: non-uniform compression error", score, s.threshold),
			score,
		)}, nil
	}
	return []signal.ForensicFinding{signal.NewScoredFinding(
		ModuleID, signal.CategoryCompression, signal.SeverityInfo,
		fmt.Sprintf("Error-level analysis score %.2f within threshold %.2f, no compression anomaly", score, s.threshold),
		score,
	)}, nil
}

// Score reduces the original-vs-reencoded difference map to one scalar in
// [0,100]. The statistic is max(mean, P95/2) of per-pixel absolute RGB
// differences: the mean captures global re-processing, the 95th percentile
// catches localized splices that a mean would dilute.
func (s *Scorer) Score(src *image.RGBA) (float64, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: s.requality}); err != nil {
		return 0, err
	}

	reencoded, err := jpeg.Decode(&buf)
	if err != nil {
		return 0, err
	}
	reRGBA := asRGBA(reencoded)

	diffs := differenceMap(src, reRGBA)
	if len(diffs) == 0 {
		return 0, nil
	}

	mean, err := stats.Mean(diffs)
	if err != nil {
		return 0, err
	}
	p95, err := stats.Percentile(diffs, 95)
	if err != nil {
		return 0, err
	}

	score := math.Max(mean, p95/2)
	// Differences are 8-bit magnitudes; scale so the configured thresholds
	// live on a stable [0,100] range.
	score = score * 100 / 255
	if score > 100 {
		score = 100
	}
	return score, nil
}

func differenceMap(a, b *image.RGBA) []float64 {
	bounds := a.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bb := b.Bounds()
	if bb.Dx() < w {
		w = bb.Dx()
	}
	if bb.Dy() < h {
		h = bb.Dy()
	}

	diffs := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ai := a.PixOffset(x, y)
			bi := b.PixOffset(x, y)
			dr := absDiff(a.Pix[ai], b.Pix[bi])
			dg := absDiff(a.Pix[ai+1], b.Pix[bi+1])
			db := absDiff(a.Pix[ai+2], b.Pix[bi+2])
			diffs = append(diffs, float64(dr+dg+db)/3)
		}
	}
	return diffs
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func asRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
