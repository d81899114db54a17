package render

import (
	"image/color"

	"github.com/cristianadrielbraun/qrtoolkit/internal/canvas"
	"github.com/cristianadrielbraun/qrtoolkit/internal/rng"
)

// painter draws a classified grid onto a canvas, one cell of cell×cell pixels
// per module.
type painter struct {
	cv            *canvas.Canvas
	grid          *Grid
	s             *State
	cell          float64
	light, dark   color.NRGBA
	hasBackground bool
}

func newPainter(g *Grid, s *State, hasBackground bool) *painter {
	cell := float64(s.Scale)
	return &painter{
		cv:            canvas.New(g.Width*s.Scale, g.Height*s.Scale),
		grid:          g,
		s:             s,
		cell:          cell,
		light:         mustColor(s.LightColor),
		dark:          mustColor(s.DarkColor),
		hasBackground: hasBackground,
	}
}

// cornerOffsets are in half-cell units: top-left, bottom-left, top-right,
// bottom-right.
var cornerOffsets = [4][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

func (pt *painter) paint() {
	for i := range pt.grid.Pixels {
		pt.pixel(&pt.grid.Pixels[i])
	}
}

func (pt *painter) opacity(p *PixelInfo) float64 {
	o := pt.s.MarginNoiseOpacity
	if !o.IsRange() {
		return o.Min
	}
	return o.Min + rng.Float(pt.s.Seed, rng.BorderOpacity, p.ModuleX, p.ModuleY)*(o.Max-o.Min)
}

// colors returns the light and dark fill of p. Border cells fade their dark
// colour toward the light one by the margin noise opacity.
func (pt *painter) colors(p *PixelInfo) (light, dark color.NRGBA) {
	d := pt.dark
	if p.IsBorder {
		d = mix(pt.dark, pt.light, pt.opacity(p))
	}
	if pt.s.Invert {
		return d, pt.light
	}
	return pt.light, d
}

func (pt *painter) pixel(p *PixelInfo) {
	if p.IsIgnored {
		return
	}
	light, dark := pt.colors(p)
	style := pt.s.PixelStyle

	if mk := p.Marker; mk != nil {
		if mk.Position == Sub {
			if pt.subMarker(p, mk, light, dark) {
				return
			}
		} else {
			style = mk.Style.PixelStyle
			if pt.finder(p, mk, light, dark) {
				return
			}
		}
	}

	if !p.IsDark && pt.hasBackground && p.IsBorder {
		return
	}
	pt.drawCell(p, style, light, dark)
}

// connects reports whether p joins its neighbour at (dx, dy). Cells beyond the
// grid always connect.
func (pt *painter) connects(p *PixelInfo, dx, dy int) bool {
	q, ok := pt.grid.At(p.X+dx, p.Y+dy)
	if !ok {
		return true
	}
	if !q.IsDark || q.IsIgnored {
		return false
	}
	if pt.s.DisconnectMargin {
		return q.IsBorder == p.IsBorder
	}
	return true
}

func (pt *painter) drawCell(p *PixelInfo, style string, light, dark color.NRGBA) {
	c := pt.cell
	half := c / 2
	x0, y0 := float64(p.X)*c, float64(p.Y)*c

	fill := light
	if p.IsDark {
		fill = dark
	}
	square := func(col color.NRGBA) { pt.cv.FillRect(x0, y0, c, c, col) }
	dot := func(col color.NRGBA) { pt.cv.FillCircle(x0+half, y0+half, half, col) }
	corner := func(i int, col color.NRGBA) {
		o := cornerOffsets[i]
		pt.cv.FillRect(x0+o[0]*half, y0+o[1]*half, half, half, col)
	}

	switch style {
	case StyleDot:
		dot(fill)
	case StyleSquircle:
		dot(fill)
		for i := 0; i < 4; i++ {
			if rng.Float(pt.s.Seed, rng.Corner, p.ModuleX, p.ModuleY, i) < 0.5 {
				corner(i, fill)
			}
		}
	case StyleRounded, StyleRow, StyleColumn:
		top := pt.connects(p, 0, -1)
		bottom := pt.connects(p, 0, 1)
		left := pt.connects(p, -1, 0)
		right := pt.connects(p, 1, 0)

		if p.IsDark {
			square(light)
			if top && style != StyleRow {
				corner(0, dark)
				corner(2, dark)
			}
			if bottom && style != StyleRow {
				corner(1, dark)
				corner(3, dark)
			}
			if left && style != StyleColumn {
				corner(0, dark)
				corner(1, dark)
			}
			if right && style != StyleColumn {
				corner(2, dark)
				corner(3, dark)
			}
		} else if style == StyleRounded {
			pick := func(joined bool) color.NRGBA {
				if joined {
					return dark
				}
				return light
			}
			corner(0, pick(top && left && pt.connects(p, -1, -1)))
			corner(2, pick(top && right && pt.connects(p, 1, -1)))
			corner(1, pick(bottom && left && pt.connects(p, -1, 1)))
			corner(3, pick(bottom && right && pt.connects(p, 1, 1)))
		}
		dot(fill)
	default:
		square(fill)
	}
}
