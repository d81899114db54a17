package imageio

import (
	"image"

	"github.com/disintegration/imaging"
)

// Adjustments are the optional clean-up steps applied to a captured image
// before it is segmented or scanned. Zero values leave the image untouched.
type Adjustments struct {
	// Resize scales the longer side to this many pixels.
	Resize    int     `json:"resize,omitempty" yaml:"resize" toml:"resize" validate:"gte=0,lte=4096"`
	Grayscale bool    `json:"grayscale,omitempty" yaml:"grayscale" toml:"grayscale"`
	// Contrast and Brightness are percentage deltas in [-100, 100].
	Contrast   float64 `json:"contrast,omitempty" yaml:"contrast" toml:"contrast" validate:"gte=-100,lte=100"`
	Brightness float64 `json:"brightness,omitempty" yaml:"brightness" toml:"brightness" validate:"gte=-100,lte=100"`
	// Blur is the Gaussian sigma in pixels.
	Blur float64 `json:"blur,omitempty" yaml:"blur" toml:"blur" validate:"gte=0,lte=50"`
}

// IsZero reports whether a leaves images unchanged.
func (a Adjustments) IsZero() bool { return a == Adjustments{} }

// Adjust applies a to img in a fixed order: resize, grayscale, contrast,
// brightness, blur.
func Adjust(img image.Image, a Adjustments) image.Image {
	if a.IsZero() {
		return img
	}
	out := imaging.Clone(img)
	if a.Resize > 0 {
		b := out.Bounds()
		if b.Dx() >= b.Dy() {
			out = imaging.Resize(out, a.Resize, 0, imaging.Lanczos)
		} else {
			out = imaging.Resize(out, 0, a.Resize, imaging.Lanczos)
		}
	}
	if a.Grayscale {
		out = imaging.Grayscale(out)
	}
	if a.Contrast != 0 {
		out = imaging.AdjustContrast(out, a.Contrast)
	}
	if a.Brightness != 0 {
		out = imaging.AdjustBrightness(out, a.Brightness)
	}
	if a.Blur > 0 {
		out = imaging.Blur(out, a.Blur)
	}
	return out
}
