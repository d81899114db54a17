// Package canvas is the drawing surface used by the renderer: filled
// rectangles, circles and paths rasterised onto an RGBA image.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/srwiley/rasterx"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

// Canvas draws anti-aliased shapes onto an *image.RGBA with source-over
// compositing.
type Canvas struct {
	img    *image.RGBA
	filler *rasterx.Filler
}

// New returns a transparent w×h canvas.
func New(w, h int) *Canvas {
	return Wrap(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// Wrap draws onto an existing image.
func Wrap(img *image.RGBA) *Canvas {
	b := img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetWinding(true)
	return &Canvas{img: img, filler: filler}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Width of the canvas in pixels.
func (c *Canvas) Width() int { return c.img.Bounds().Dx() }

// Height of the canvas in pixels.
func (c *Canvas) Height() int { return c.img.Bounds().Dy() }

// Fill replaces every pixel with col.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	c.Fill(color.Transparent)
}

func integral(v ...float64) bool {
	for _, f := range v {
		if f != math.Trunc(f) {
			return false
		}
	}
	return true
}

// FillRect fills the rectangle at (x, y) of size w×h. Pixel-aligned
// rectangles are filled exactly, without anti-aliased edges.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	if integral(x, y, w, h) {
		r := image.Rect(int(x), int(y), int(x+w), int(y+h))
		draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
		return
	}
	p := NewPath()
	p.Rect(x, y, w, h)
	c.FillPath(p, col)
}

// FillCircle fills a circle of radius r centred on (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.filler.Clear()
	c.filler.SetColor(col)
	rasterx.AddCircle(cx, cy, r, c.filler)
	c.filler.Draw()
	c.filler.Clear()
}

// FillPolygon fills the closed polygon through pts.
func (c *Canvas) FillPolygon(pts []geom.Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	p := NewPath()
	p.Polygon(pts)
	c.FillPath(p, col)
}

// FillPath fills p with the non-zero winding rule.
func (c *Canvas) FillPath(p *Path, col color.Color) {
	if p == nil || len(p.ops) == 0 {
		return
	}
	f := c.filler
	f.Clear()
	f.SetColor(col)
	open := false
	for _, o := range p.ops {
		switch o.kind {
		case opMove:
			if open {
				f.Stop(true)
			}
			f.Start(rasterx.ToFixedP(o.pts[0].X, o.pts[0].Y))
			open = true
		case opLine:
			f.Line(rasterx.ToFixedP(o.pts[0].X, o.pts[0].Y))
		case opCubic:
			f.CubeBezier(
				rasterx.ToFixedP(o.pts[0].X, o.pts[0].Y),
				rasterx.ToFixedP(o.pts[1].X, o.pts[1].Y),
				rasterx.ToFixedP(o.pts[2].X, o.pts[2].Y),
			)
		case opClose:
			if open {
				f.Stop(true)
				open = false
			}
		}
	}
	if open {
		f.Stop(true)
	}
	f.Draw()
	f.Clear()
}

// ClipQuad returns a copy of img keeping only the pixels inside q, with
// anti-aliased edges. Everything outside becomes transparent.
func ClipQuad(img *image.RGBA, q geom.Quad) *image.RGBA {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	pts := q.Points()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		dc.LineTo(pt.X, pt.Y)
	}
	dc.ClosePath()
	dc.SetRGB(1, 1, 1)
	dc.Fill()

	out := image.NewRGBA(b)
	draw.DrawMask(out, b, img, b.Min, dc.AsMask(), image.Point{}, draw.Src)
	return out
}
