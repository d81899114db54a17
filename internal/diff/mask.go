package diff

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrtoolkit/internal/canvas"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

// Overlay kinds accepted by GenerateMask.
const (
	KindMask       = "mask"
	KindCorrection = "correction"
)

const (
	maskCanvas      = 2000
	highlightFactor = 1.8
)

// GenerateMask paints the mismatched cells of d onto a transparent
// 2000×2000 raster. A mask marks every mismatch in cfg.MaskColor. A
// correction paints black over cells that should be dark and white over
// cells that should be light, with an alpha proportional to how far the
// captured luminance is from the dark reference.
func GenerateMask(d *Diff, cfg Config, kind string) (*image.RGBA, error) {
	if d == nil || d.GridSize <= 0 {
		return nil, fmt.Errorf("%w: empty diff", ErrGridSize)
	}
	cv := canvas.New(maskCanvas, maskCanvas)
	cell := float64(maskCanvas) / float64(d.GridSize)

	switch kind {
	case KindMask:
		col, err := render.ParseColor(cfg.MaskColor)
		if err != nil {
			return nil, fmt.Errorf("%w: mask color: %v", ErrInvalidConfig, err)
		}
		for _, s := range d.MismatchLight {
			paintCell(cv, s, cell, cfg.MaskShape, col)
		}
		for _, s := range d.MismatchDark {
			paintCell(cv, s, cell, cfg.MaskShape, col)
		}
		return cv.Image(), nil

	case KindCorrection:
		alpha := func(lum float64) uint8 {
			a := min(255, math.Abs(d.DarkLuminance-lum)*highlightFactor) * cfg.CorrectionOpacity
			return uint8(a + 0.5)
		}
		for _, s := range d.MismatchLight {
			paintCell(cv, s, cell, cfg.CorrectionShape, color.NRGBA{A: alpha(s.Luminance)})
		}
		for _, s := range d.MismatchDark {
			paintCell(cv, s, cell, cfg.CorrectionShape, color.NRGBA{R: 255, G: 255, B: 255, A: alpha(s.Luminance)})
		}
		if cfg.CorrectionBlur > 0 {
			return imageio.ToRGBA(imaging.Blur(cv.Image(), cfg.CorrectionBlur)), nil
		}
		return cv.Image(), nil
	}
	return nil, fmt.Errorf("%w: unknown overlay kind %q", ErrInvalidConfig, kind)
}

func paintCell(cv *canvas.Canvas, s Segment, cell float64, shape string, col color.Color) {
	x, y := float64(s.X)*cell, float64(s.Y)*cell
	if shape == ShapeCircle {
		cv.FillCircle(x+cell/2, y+cell/2, cell/2, col)
		return
	}
	cv.FillRect(x, y, cell, cell, col)
}

// ApplyCorrection draws overlay over the centred square of img, the same
// region SegmentImage reads. img is not modified.
func ApplyCorrection(img image.Image, overlay image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	b = out.Bounds()
	side := min(b.Dx(), b.Dy())
	if side == 0 {
		return out
	}
	scaled := imaging.Resize(overlay, side, side, imaging.Linear)
	at := image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2)
	draw.Draw(out, image.Rectangle{Min: at, Max: at.Add(image.Pt(side, side))}, scaled, image.Point{}, draw.Over)
	return out
}
