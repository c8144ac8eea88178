package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ResizeTo scales src to exactly w x h. Uses ApproxBiLinear, which is
// deterministic for a given input, as the detection pipeline requires.
func ResizeTo(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ClampDim downscales src so its longest side is at most maxDim, preserving
// aspect ratio. Oversized inputs are shrunk, never rejected. Returns src
// unchanged when already within bounds.
func ClampDim(src *image.RGBA, maxDim int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}
	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return ResizeTo(src, w, h)
}

// Grayscale flattens an RGBA buffer into row-major 8-bit luminance, the pixel
// layout the pigo cascades consume.
func Grayscale(src *image.RGBA) []uint8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(x, y)
			r := int(src.Pix[i])
			g := int(src.Pix[i+1])
			bl := int(src.Pix[i+2])
			// ITU-R BT.601 luma
			gray[y*w+x] = uint8((299*r + 587*g + 114*bl) / 1000)
		}
	}
	return gray
}
