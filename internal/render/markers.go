package render

import (
	"image/color"

	"github.com/cristianadrielbraun/qrtoolkit/internal/canvas"
	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

// finder draws the shaped parts of a finder marker. It returns true when the
// cell is fully handled and must not be drawn as a plain cell.
func (pt *painter) finder(p *PixelInfo, mk *MarkerInfo, light, dark color.NRGBA) bool {
	c := pt.cell
	cx, cy := pt.center(p)

	switch mk.Style.Shape {
	case ShapeCircle, ShapeOctagon:
		if mk.IsBorder {
			return true
		}
		if mk.IsCenter {
			pt.cv.FillRect(cx-3.5*c, cy-3.5*c, 7*c, 7*c, light)
			if mk.Style.Shape == ShapeCircle {
				pt.cv.FillCircle(cx, cy, 3.5*c, dark)
				pt.cv.FillCircle(cx, cy, 2.5*c, light)
			} else {
				rounded := mk.Style.PixelStyle == StyleRounded
				pt.cv.FillPath(octagonPath(cx, cy, c, 3.5, rounded), dark)
				pt.cv.FillPath(octagonPath(cx, cy, c, 2.5, rounded), light)
			}
		}
	}

	if !mk.IsInner {
		return false
	}
	switch mk.Style.InnerShape {
	case ShapeCircle, ShapeEye, ShapeDiamond:
		if mk.IsCenter {
			pt.cv.FillRect(cx-1.5*c, cy-1.5*c, 3*c, 3*c, light)
			pt.cv.FillPath(innerPath(mk.Style.InnerShape, cx, cy, c), dark)
		}
		return true
	}
	return false
}

// subMarker draws circle and octagon alignment markers at their centre.
func (pt *painter) subMarker(p *PixelInfo, mk *MarkerInfo, light, dark color.NRGBA) bool {
	shape := mk.Style.Shape
	if shape != ShapeCircle && shape != ShapeOctagon {
		return false
	}
	if mk.IsBorder {
		return true
	}
	if mk.IsCenter {
		c := pt.cell
		cx, cy := pt.center(p)
		pt.cv.FillRect(cx-2.5*c, cy-2.5*c, 5*c, 5*c, light)
		if shape == ShapeCircle {
			pt.cv.FillCircle(cx, cy, 2.5*c, dark)
			pt.cv.FillCircle(cx, cy, 1.5*c, light)
		} else {
			pt.cv.FillPath(octagonPath(cx, cy, c, 2.5, false), dark)
			pt.cv.FillPath(octagonPath(cx, cy, c, 1.5, false), light)
		}
	}
	return false
}

func (pt *painter) center(p *PixelInfo) (float64, float64) {
	return (float64(p.X) + 0.5) * pt.cell, (float64(p.Y) + 0.5) * pt.cell
}

func octagonPoints(dx, dy float64) [8]geom.Point {
	return [8]geom.Point{
		{X: dx, Y: dy}, {X: -dx, Y: dy}, {X: -dy, Y: dx}, {X: -dy, Y: -dx},
		{X: -dx, Y: -dy}, {X: dx, Y: -dy}, {X: dy, Y: -dx}, {X: dy, Y: dx},
	}
}

// octagonPath returns an octagon of half-extent size cells around (cx, cy).
// Rounded octagons replace each vertex with an arc of one cell radius whose
// tangent points are the projections of the next smaller octagon's vertex
// onto the adjacent edges.
func octagonPath(cx, cy, cell, size float64, rounded bool) *canvas.Path {
	pts := octagonPoints(1.5/3.5*size, size)
	at := func(p geom.Point) (float64, float64) { return cx + p.X*cell, cy + p.Y*cell }

	path := canvas.NewPath()
	if !rounded {
		for i, p := range pts {
			if i == 0 {
				path.MoveTo(at(p))
			} else {
				path.LineTo(at(p))
			}
		}
		path.Close()
		return path
	}

	inner := octagonPoints(1.5/3.5*(size-1), size-1)
	path.MoveTo(at(geom.Lerp(pts[0], pts[1], 0.5)))
	for i := 0; i <= len(pts); i++ {
		v := pts[i%8]
		prev := pts[(i+7)%8]
		next := pts[(i+1)%8]
		p1 := geom.ProjectPointToLine(inner[i%8], prev, v)
		p2 := geom.ProjectPointToLine(inner[i%8], next, v)
		vx, vy := at(v)
		x2, y2 := at(p2)
		path.LineTo(at(p1))
		path.ArcTo(vx, vy, x2, y2, cell)
		path.LineTo(x2, y2)
	}
	path.Close()
	return path
}

// innerPath builds the 3×3 inner marker shapes.
func innerPath(shape string, cx, cy, c float64) *canvas.Path {
	path := canvas.NewPath()
	r := 1.5 * c
	switch shape {
	case ShapeCircle:
		path.Circle(cx, cy, r)
	case ShapeEye:
		path.MoveTo(cx, cy-r)
		path.ArcTo(cx+r, cy, cx, cy+r, c)
		path.LineTo(cx, cy+r)
		path.ArcTo(cx-r, cy, cx, cy-r, c)
		path.Close()
	case ShapeDiamond:
		path.MoveTo(cx, cy-r)
		path.LineTo(cx+r, cy)
		path.LineTo(cx, cy+r)
		path.LineTo(cx-r, cy)
		path.Close()
	}
	return path
}
