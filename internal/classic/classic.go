// Package classic renders plain QR codes with the yeqown standard writer.
// It covers the quick cases: flat or gradient foreground, a few module
// shapes, an optional centre logo, padding and a decorative frame.
package classic

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"github.com/yeqown/go-qrcode/writer/standard/shapes"

	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
)

// ErrInvalidOptions is returned for options Generate cannot honour.
var ErrInvalidOptions = errors.New("invalid classic options")

// Module shapes.
const (
	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
	ShapeLiquid    = "liquid"
	ShapeChain     = "chain"
	ShapeHStripe   = "hstripe"
	ShapeVStripe   = "vstripe"
)

// Frames.
const (
	FrameNone    = "none"
	FrameSimple  = "simple"
	FrameRounded = "rounded"
)

// Options describe a classic QR image.
type Options struct {
	Text  string
	Level string
	Shape string
	// ModuleSize is the width of one module in pixels, 1 to 255.
	ModuleSize int
	Foreground color.RGBA
	// Background with zero alpha renders transparent.
	Background color.RGBA
	// Gradient holds start, middle and end colours. When set it replaces
	// Foreground with a 45 degree gradient.
	Gradient []color.RGBA
	Logo     image.Image
	// PaddingPercent and FrameWidthPercent are relative to the bare code.
	PaddingPercent    int
	Frame             string
	FrameWidthPercent int
	FrameColor        color.RGBA
	// Size scales the finished image to exactly Size×Size when positive.
	Size int
}

// DefaultOptions mirror the preview the web form starts with.
func DefaultOptions(text string) Options {
	return Options{
		Text:              text,
		Level:             "Q",
		Shape:             ShapeRectangle,
		ModuleSize:        16,
		Foreground:        color.RGBA{0, 0, 0, 255},
		Background:        color.RGBA{255, 255, 255, 255},
		PaddingPercent:    7,
		Frame:             FrameNone,
		FrameWidthPercent: 4,
		FrameColor:        color.RGBA{0, 0, 0, 255},
	}
}

var levels = map[string]qrcode.EncodeOption{
	"L": qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow),
	"M": qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	"Q": qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart),
	"H": qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
}

// customShape adapts a shapes draw function to standard.IShape, finders
// included.
type customShape struct {
	drawFunc func(ctx *standard.DrawContext)
}

func (cs *customShape) Draw(ctx *standard.DrawContext) { cs.drawFunc(ctx) }

func (cs *customShape) DrawFinder(ctx *standard.DrawContext) { cs.drawFunc(ctx) }

func shapeOption(name string) (standard.ImageOption, error) {
	switch name {
	case "", ShapeRectangle:
		return nil, nil
	case ShapeCircle:
		return standard.WithCircleShape(), nil
	case ShapeLiquid:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.LiquidBlock()}), nil
	case ShapeChain:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.ChainBlock()}), nil
	case ShapeHStripe:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.HStripeBlock(0.85)}), nil
	case ShapeVStripe:
		return standard.WithCustomShape(&customShape{drawFunc: shapes.VStripeBlock(0.85)}), nil
	}
	return nil, fmt.Errorf("%w: unknown shape %q", ErrInvalidOptions, name)
}

// bufferCloser lets the standard writer encode into memory.
type bufferCloser struct{ bytes.Buffer }

func (*bufferCloser) Close() error { return nil }

// Generate renders o and returns the finished image.
func Generate(o Options) (*image.RGBA, error) {
	if o.Text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidOptions)
	}
	if o.ModuleSize < 1 || o.ModuleSize > 255 {
		return nil, fmt.Errorf("%w: module size %d", ErrInvalidOptions, o.ModuleSize)
	}
	if len(o.Gradient) != 0 && len(o.Gradient) != 3 {
		return nil, fmt.Errorf("%w: gradient needs 3 colours, got %d", ErrInvalidOptions, len(o.Gradient))
	}
	level, ok := levels[o.Level]
	if !ok {
		return nil, fmt.Errorf("%w: level %q", ErrInvalidOptions, o.Level)
	}
	shape, err := shapeOption(o.Shape)
	if err != nil {
		return nil, err
	}

	qrc, err := qrcode.NewWith(o.Text, level)
	if err != nil {
		return nil, fmt.Errorf("create qr code: %w", err)
	}

	opts := []standard.ImageOption{
		standard.WithQRWidth(uint8(o.ModuleSize)),
		standard.WithBorderWidth(0),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	}
	transparent := o.Background.A == 0
	if transparent {
		opts = append(opts, standard.WithBgTransparent())
	} else {
		opts = append(opts, standard.WithBgColor(o.Background))
	}
	if shape != nil {
		opts = append(opts, shape)
	}
	if o.Logo != nil {
		opts = append(opts, standard.WithLogoImage(o.Logo))
	}
	if len(o.Gradient) == 3 {
		opts = append(opts, standard.WithFgGradient(standard.NewGradient(45, []standard.ColorStop{
			{T: 0, Color: o.Gradient[0]},
			{T: 0.5, Color: o.Gradient[1]},
			{T: 1, Color: o.Gradient[2]},
		}...)))
	} else {
		opts = append(opts, standard.WithFgColor(o.Foreground))
	}

	buf := &bufferCloser{}
	w := standard.NewWithWriter(buf, opts...)
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("write qr code: %w", err)
	}
	decoded, err := imageio.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	img := imageio.ToRGBA(decoded)

	if transparent && len(o.Gradient) == 0 {
		cleanupAntiAliasing(img, o.Foreground)
	}

	base := img.Bounds().Dx()
	if o.PaddingPercent > 0 {
		img = pad(img, base*o.PaddingPercent/100, o.Background)
	}
	if o.Frame != "" && o.Frame != FrameNone {
		fw := max(1, base*o.FrameWidthPercent/100)
		if img, err = addFrame(img, o.Frame, fw, o.Background, o.frameColor()); err != nil {
			return nil, err
		}
	}
	if o.Size > 0 && o.Size != img.Bounds().Dx() {
		// Nearest neighbour keeps module edges sharp.
		img = imageio.ToRGBA(imaging.Resize(img, o.Size, o.Size, imaging.NearestNeighbor))
	}
	return img, nil
}

// frameColor picks the frame colour: the explicit one, else the gradient
// start, else the foreground.
func (o Options) frameColor() func(x, y, w, h int) color.RGBA {
	if len(o.Gradient) == 3 {
		start, middle, end := o.Gradient[0], o.Gradient[1], o.Gradient[2]
		return func(x, y, w, h int) color.RGBA {
			// 45 degrees, bottom-left to top-right.
			t := (float64(x)/float64(w) + 1 - float64(y)/float64(h)) / 2
			t = min(1, max(0, t))
			if t <= 0.5 {
				return lerpColor(start, middle, t*2)
			}
			return lerpColor(middle, end, (t-0.5)*2)
		}
	}
	c := o.FrameColor
	if c.A == 0 {
		c = o.Foreground
	}
	return func(int, int, int, int) color.RGBA { return c }
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}

func pad(img *image.RGBA, n int, bg color.RGBA) *image.RGBA {
	if n <= 0 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*n, b.Dy()+2*n))
	if bg.A != 0 {
		draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	draw.Draw(out, image.Rect(n, n, n+b.Dx(), n+b.Dy()), img, b.Min, draw.Src)
	return out
}

// addFrame surrounds img with a band of width fw. The rounded frame rounds
// both the outer edge and the inner cut.
func addFrame(img *image.RGBA, frame string, fw int, bg color.RGBA, colorAt func(x, y, w, h int) color.RGBA) (*image.RGBA, error) {
	if frame != FrameSimple && frame != FrameRounded {
		return nil, fmt.Errorf("%w: unknown frame %q", ErrInvalidOptions, frame)
	}
	out := pad(img, fw, bg)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()

	outerR, innerR := 0, 0
	if frame == FrameRounded {
		outerR, innerR = fw*2, fw
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !insideRoundedRect(x, y, 0, 0, w-1, h-1, outerR) {
				out.SetRGBA(x, y, color.RGBA{})
				continue
			}
			if insideRoundedRect(x, y, fw, fw, w-1-fw, h-1-fw, innerR) {
				continue
			}
			out.SetRGBA(x, y, colorAt(x, y, w, h))
		}
	}
	return out, nil
}

func insideRoundedRect(x, y, left, top, right, bottom, r int) bool {
	if x < left || x > right || y < top || y > bottom {
		return false
	}
	if r <= 0 {
		return true
	}
	cx := min(max(x, left+r), right-r)
	cy := min(max(y, top+r), bottom-r)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// cleanupAntiAliasing clears the light fringe the writer leaves around
// modules on a transparent background.
func cleanupAntiAliasing(img *image.RGBA, fg color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isAntiAliasingArtifact(img.RGBAAt(x, y), fg) {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

func isAntiAliasingArtifact(c, fg color.RGBA) bool {
	switch {
	case c.A == 0:
		return false
	case c.A == 255 && c.R == fg.R && c.G == fg.G && c.B == fg.B:
		return false
	case c.A < 255:
		return true
	}
	return c.R > 200 && c.G > 200 && c.B > 200
}
