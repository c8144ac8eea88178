package model

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// FeatureCount is the fixed length of the classifier feature vector.
const FeatureCount = 7

// ExtractFeatures computes the deterministic image statistics the linear
// classifiers were fit on. Input must already be resized to the model's
// input dimensions. Feature order is part of the weight-file contract:
//
//	0: mean luminance
//	1: luminance spread
//	2: noise residual energy (3x3 high-pass)
//	3: red/green channel correlation
//	4: 8x8 blockiness (JPEG grid discontinuity)
//	5: saturation spread
//	6: high-frequency ratio (horizontal gradient energy over total)
func ExtractFeatures(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	if n == 0 {
		return make([]float64, FeatureCount)
	}

	luma := make([]float64, n)
	reds := make([]float64, n)
	greens := make([]float64, n)
	sats := make([]float64, n)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			bl := float64(img.Pix[i+2])
			idx := y*w + x
			luma[idx] = 0.299*r + 0.587*g + 0.114*bl
			reds[idx] = r
			greens[idx] = g
			maxc := math.Max(r, math.Max(g, bl))
			minc := math.Min(r, math.Min(g, bl))
			if maxc > 0 {
				sats[idx] = (maxc - minc) / maxc
			}
		}
	}

	meanLuma, stdLuma := stat.MeanStdDev(luma, nil)
	if math.IsNaN(stdLuma) {
		stdLuma = 0
	}
	rgCorr := stat.Correlation(reds, greens, nil)
	if math.IsNaN(rgCorr) {
		rgCorr = 0
	}
	_, satStd := stat.MeanStdDev(sats, nil)
	if math.IsNaN(satStd) {
		satStd = 0
	}

	return []float64{
		meanLuma / 255.0,
		stdLuma / 255.0,
		noiseResidual(luma, w, h) / 255.0,
		rgCorr,
		blockiness(luma, w, h) / 255.0,
		satStd,
		highFrequencyRatio(luma, w, h),
	}
}

// noiseResidual measures mean absolute deviation from the 3x3 neighborhood
// mean. Synthetic images tend to carry unnaturally low or patterned residuals.
func noiseResidual(luma []float64, w, h int) float64 {
	if w < 3 || h < 3 {
		return 0
	}
	var sum float64
	var count int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var acc float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += luma[(y+dy)*w+(x+dx)]
				}
			}
			sum += math.Abs(luma[y*w+x] - acc/9.0)
			count++
		}
	}
	return sum / float64(count)
}

// blockiness measures luminance discontinuity across the 8-pixel JPEG grid
// relative to neighboring in-block discontinuity.
func blockiness(luma []float64, w, h int) float64 {
	if w < 17 || h < 3 {
		return 0
	}
	var grid, offGrid float64
	var n int
	for y := 0; y < h; y++ {
		for x := 8; x < w-1; x += 8 {
			grid += math.Abs(luma[y*w+x] - luma[y*w+x-1])
			offGrid += math.Abs(luma[y*w+x+1] - luma[y*w+x])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return (grid - offGrid) / float64(n)
}

// highFrequencyRatio is horizontal gradient energy over total luminance energy.
func highFrequencyRatio(luma []float64, w, h int) float64 {
	var grad, total float64
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			grad += math.Abs(luma[y*w+x] - luma[y*w+x-1])
		}
	}
	for _, v := range luma {
		total += v
	}
	if total == 0 {
		return 0
	}
	return grad / total
}
