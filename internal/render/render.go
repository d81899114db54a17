package render

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/cristianadrielbraun/qrtoolkit/internal/effects"
	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
)

// Renderer turns a State into an image. The zero value encodes with the
// backend named by State.Encoder and cannot load background images.
type Renderer struct {
	// Encoder overrides State.Encoder when set.
	Encoder matrix.Encoder
	Loader  imageio.Loader
}

// New returns a Renderer that loads backgrounds from data URLs, remote URLs
// and files.
func New() *Renderer {
	return &Renderer{Loader: imageio.NewDefaultLoader()}
}

// Result is the output of one render.
type Result struct {
	Image  *image.RGBA
	Matrix *matrix.Matrix
	Width  int
	Height int
}

// PNG encodes the rendered image.
func (r *Result) PNG() ([]byte, error) { return imageio.PNGBytes(r.Image) }

// DataURL encodes the rendered image as a PNG data URL.
func (r *Result) DataURL() (string, error) { return imageio.DataURL(r.Image) }

// Request maps the encoding fields of s to a matrix request.
func (s *State) Request() (matrix.Request, error) {
	level, err := matrix.ParseLevel(s.ECC)
	if err != nil {
		return matrix.Request{}, err
	}
	text := s.Text
	if text == "" {
		text = DefaultText
	}
	return matrix.Request{
		Text:       text,
		Level:      level,
		MinVersion: s.MinVersion,
		MaxVersion: s.MaxVersion,
		Mask:       s.MaskPattern,
		BoostECC:   s.BoostECC,
	}, nil
}

// Cost is the relative weight of rendering s, used to bound concurrent work.
// It grows with the smallest canvas s can produce, one unit per megapixel.
func (s *State) Cost() int64 {
	w, h := s.canvasSize(matrix.SizeForVersion(max(s.MinVersion, matrix.MinVersion)))
	cost := 1 + int64(max(w, 0))*int64(max(h, 0))>>20
	switch s.Effect {
	case EffectCrystalize:
		cost += 2
	case EffectLiquidify:
		cost += 2
		if s.EffectLiquidifyDistortRadius > 0 {
			cost += 2
		}
	}
	if s.TransformPerspectiveX != 0 || s.TransformPerspectiveY != 0 {
		cost++
	}
	return cost
}

// Render encodes s.Text and renders it.
func (r *Renderer) Render(ctx context.Context, s State) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	enc := r.Encoder
	if enc == nil {
		var err error
		if enc, err = matrix.ByName(s.Encoder); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	req, err := s.Request()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	m, err := enc.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return r.RenderMatrix(ctx, m, s)
}

// RenderMatrix renders an already encoded matrix with the styling of s.
func (r *Renderer) RenderMatrix(ctx context.Context, m *matrix.Matrix, s State) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var bg image.Image
	if s.BackgroundImage != "" {
		if r.Loader == nil {
			return nil, fmt.Errorf("%w: no loader configured", ErrBackground)
		}
		img, err := r.Loader.Load(ctx, s.BackgroundImage)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %v", ErrBackground, err)
		}
		bg = img
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if w, h := s.canvasSize(m.Size()); max(w, h) > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d px exceeds %d px per side", ErrInvalidConfig, w, h, MaxSide)
	}

	grid := Classify(m, &s)
	pt := newPainter(grid, &s, bg != nil)
	pt.paint()
	img := pt.cv.Image()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	if s.TransformPerspectiveX != 0 || s.TransformPerspectiveY != 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := geom.PerspectiveQuad(float64(w), float64(h), s.TransformPerspectiveX, s.TransformPerspectiveY)
		img = Perspective(img, q)
	}

	light, dark := mustColor(s.LightColor), mustColor(s.DarkColor)
	var base color.Color = light
	if s.Invert {
		base = dark
	}

	if s.EffectTiming == TimingAfter {
		img = compositeBackground(img, base, bg)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch s.Effect {
	case EffectCrystalize:
		img = effects.Crystalize(img, s.EffectCrystalizeRadius, s.Seed)
	case EffectLiquidify:
		if s.EffectLiquidifyDistortRadius > 0 {
			img = effects.Crystalize(img, s.EffectLiquidifyDistortRadius, s.Seed)
		}
		img = effects.Liquidify(img, s.EffectLiquidifyRadius, s.EffectLiquidifyThreshold, light, dark)
	}
	if s.EffectTiming == TimingBefore {
		img = compositeBackground(img, base, bg)
	}

	img = Finalize(img, base, s.TransformScale)
	return &Result{Image: img, Matrix: m, Width: w, Height: h}, nil
}
