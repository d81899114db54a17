package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/cristianadrielbraun/qrtoolkit/internal/canvas"
	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

const (
	stripStep  = 2
	stripCover = stripStep * 5
)

// Perspective re-stamps src into the quad q as thin affine strips and clips
// the result to q. Strips run along the quad's relatively longest side.
// A quad with more than one zero-length side yields a transparent image.
func Perspective(src *image.RGBA, q geom.Quad) *image.RGBA {
	b := src.Bounds()
	ow, oh := float64(b.Dx()), float64(b.Dy())
	out := image.NewRGBA(b)

	dims := q.SideLengths()
	base, best, zeros := 0, 0.0, 0
	for i, d := range dims {
		rate := d / oh
		if i%2 == 1 {
			rate = d / ow
		}
		if rate > best {
			base, best = i, rate
		}
		if d == 0 {
			zeros++
		}
	}
	if zeros > 1 {
		return out
	}

	if base%2 == 0 {
		for y := 0; y < b.Dy(); y += stripStep {
			r := float64(y) / oh
			s := geom.Lerp(q.TopLeft, q.BottomLeft, r)
			e := geom.Lerp(q.TopRight, q.BottomRight, r)
			ag := math.Atan((e.Y - s.Y) / (e.X - s.X))
			sc := e.Sub(s).Len() / ow
			if sc == 0 || math.IsNaN(ag) {
				continue
			}
			a, bb := sc*math.Cos(ag), -sc*math.Sin(ag)
			d, ee := sc*math.Sin(ag), sc*math.Cos(ag)
			fy := float64(y)
			m := f64.Aff3{a, bb, s.X - bb*fy, d, ee, s.Y - ee*fy}
			sr := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+min(y+stripCover, b.Dy()))
			xdraw.BiLinear.Transform(out, m, src, sr, xdraw.Over, nil)
		}
	} else {
		for x := 0; x < b.Dx(); x += stripStep {
			r := float64(x) / ow
			s := geom.Lerp(q.TopLeft, q.TopRight, r)
			e := geom.Lerp(q.BottomLeft, q.BottomRight, r)
			ag := math.Atan((s.X - e.X) / (e.Y - s.Y))
			sc := e.Sub(s).Len() / oh
			if sc == 0 || math.IsNaN(ag) {
				continue
			}
			a, bb := sc*math.Cos(ag), -sc*math.Sin(ag)
			d, ee := sc*math.Sin(ag), sc*math.Cos(ag)
			fx := float64(x)
			m := f64.Aff3{a, bb, s.X - a*fx, d, ee, s.Y - d*fx}
			sr := image.Rect(b.Min.X+x, b.Min.Y, b.Min.X+min(x+stripCover, b.Dx()), b.Max.Y)
			xdraw.BiLinear.Transform(out, m, src, sr, xdraw.Over, nil)
		}
	}
	return canvas.ClipQuad(out, q)
}

// Finalize fills the canvas with bg and draws src on top, scaled by scale
// about the centre.
func Finalize(src *image.RGBA, bg color.Color, scale float64) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(bg), image.Point{}, draw.Src)
	if scale == 1 {
		draw.Draw(out, b, src, b.Min, draw.Over)
		return out
	}
	w, h := float64(b.Dx()), float64(b.Dy())
	m := f64.Aff3{scale, 0, -(scale - 1) * w / 2, 0, scale, -(scale - 1) * h / 2}
	xdraw.BiLinear.Transform(out, m, src, b, xdraw.Over, nil)
	return out
}
