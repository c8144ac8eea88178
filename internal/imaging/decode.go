package imaging

import (
	"bytes"
	"image"
	"image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"gosleuth/domain/core"
	"gosleuth/domain/sample"
)

// Decode turns raw uploaded bytes into an immutable ImageSample. It accepts
// JPEG, PNG and WEBP and fails fast with an input error for anything else,
// before any agent or forensic module runs.
func Decode(raw []byte) (*sample.ImageSample, error) {
	if len(raw) == 0 {
		return nil, core.ErrEmptyInput
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, core.NewInputError("", err)
	}

	var tag sample.Format
	switch format {
	case "jpeg":
		tag = sample.FormatJPEG
	case "png":
		tag = sample.FormatPNG
	case "webp":
		tag = sample.FormatWEBP
	default:
		return nil, core.NewInputError(format, core.ErrUnsupportedFormat)
	}

	return sample.New(toRGBA(img), raw, tag), nil
}

// toRGBA normalizes any decoded image into an RGBA buffer anchored at (0,0).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
