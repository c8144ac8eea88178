package testkit

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
)

// FlatImage builds a uniform RGBA buffer.
func FlatImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// NoisyImage builds a deterministic pseudo-random texture. The same seed
// always yields the same pixels, so tests of deterministic scoring hold.
func NoisyImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// SplicedImage simulates a local splice: a smooth base with one pasted block
// of high-frequency noise, the signature error-level analysis should catch.
func SplicedImage(w, h int, seed int64) *image.RGBA {
	img := FlatImage(w, h, color.RGBA{R: 120, G: 130, B: 140, A: 255})
	rng := rand.New(rand.NewSource(seed))
	x0, y0 := w/4, h/4
	for y := y0; y < y0+h/4 && y < h; y++ {
		for x := x0; x < x0+w/4 && x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// JPEGBytes encodes an image as baseline JPEG at the given quality.
func JPEGBytes(img image.Image, quality int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGBytes encodes an image as PNG. PNG carries no EXIF, which the metadata
// inspector must treat as data rather than an error.
func PNGBytes(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// GarbageBytes returns bytes that decode as no supported image format.
func GarbageBytes() []byte {
	return []byte("definitely not an image payload, not even close")
}
