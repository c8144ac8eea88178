package sample

import (
	"image"

	"gosleuth/domain/core"
)

// Format tags the original encoding of a submitted image.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
)

// ImageSample is the decoded pixel buffer for one analysis invocation.
// It is owned exclusively by that invocation and never mutated after decode;
// every agent and forensic module reads the same buffer.
type ImageSample struct {
	pixels      *image.RGBA
	raw         []byte
	format      Format
	encodedSize int
	hash        core.SampleHash
}

// New builds an immutable sample from a decoded buffer and its source bytes.
// The raw slice is retained for metadata inspection; callers must not modify it.
func New(pixels *image.RGBA, raw []byte, format Format) *ImageSample {
	return &ImageSample{
		pixels:      pixels,
		raw:         raw,
		format:      format,
		encodedSize: len(raw),
		hash:        core.NewSampleHash(raw),
	}
}

// Pixels returns the decoded RGBA buffer. Read-only by contract.
func (s *ImageSample) Pixels() *image.RGBA { return s.pixels }

// Raw returns the original encoded bytes. Read-only by contract.
func (s *ImageSample) Raw() []byte { return s.raw }

// Format returns the original encoding tag.
func (s *ImageSample) Format() Format { return s.format }

// EncodedSize returns the original encoded byte length.
func (s *ImageSample) EncodedSize() int { return s.encodedSize }

// Hash returns the content fingerprint used for log correlation.
func (s *ImageSample) Hash() core.SampleHash { return s.hash }

// Bounds returns the pixel bounds of the decoded buffer.
func (s *ImageSample) Bounds() image.Rectangle { return s.pixels.Bounds() }

// Width returns the decoded width in pixels.
func (s *ImageSample) Width() int { return s.pixels.Bounds().Dx() }

// Height returns the decoded height in pixels.
func (s *ImageSample) Height() int { return s.pixels.Bounds().Dy() }
