package geom

import (
	"fmt"
	"math"
)

// Point is a position in pixel or cell space.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales p by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len is the euclidean length of p.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// ProjectPointToLine projects p onto the infinite line through a and b.
// A degenerate line returns a.
func ProjectPointToLine(p, a, b Point) Point {
	d := b.Sub(a)
	l := d.X*d.X + d.Y*d.Y
	if l == 0 {
		return a
	}
	u := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l
	return a.Add(d.Mul(u))
}

// Quad is a quadrilateral given by its four corners.
type Quad struct {
	TopLeft, TopRight, BottomRight, BottomLeft Point
}

// RectQuad returns the axis-aligned quad covering a w×h canvas.
func RectQuad(w, h float64) Quad {
	return Quad{
		TopLeft:     Point{0, 0},
		TopRight:    Point{w, 0},
		BottomRight: Point{w, h},
		BottomLeft:  Point{0, h},
	}
}

// Points returns the corners clockwise from the top-left.
func (q Quad) Points() [4]Point {
	return [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// SideLengths returns top, right, bottom and left side lengths.
func (q Quad) SideLengths() [4]float64 {
	return [4]float64{
		q.TopLeft.Sub(q.TopRight).Len(),
		q.TopRight.Sub(q.BottomRight).Len(),
		q.BottomRight.Sub(q.BottomLeft).Len(),
		q.BottomLeft.Sub(q.TopLeft).Len(),
	}
}

// PerspectiveQuad displaces the corners of a w×h canvas for the given
// horizontal and vertical perspective amounts. The sign of each amount picks
// which side leans away.
func PerspectiveQuad(w, h, px, py float64) Quad {
	q := RectQuad(w, h)
	if px != 0 {
		ox := math.Abs(w * px / 2)
		oy := math.Abs(h * px / 3)
		q.TopLeft.X += ox
		q.TopRight.X -= ox
		q.BottomLeft.X += ox
		q.BottomRight.X -= ox
		if px > 0 {
			q.TopRight.Y += oy
			q.BottomRight.Y -= oy
		} else {
			q.TopLeft.Y += oy
			q.BottomLeft.Y -= oy
		}
	}
	if py != 0 {
		ox := math.Abs(w * py / 3)
		oy := math.Abs(h * py / 2)
		q.TopLeft.Y += oy
		q.TopRight.Y += oy
		q.BottomLeft.Y -= oy
		q.BottomRight.Y -= oy
		if py > 0 {
			q.BottomLeft.X += ox
			q.BottomRight.X -= ox
		} else {
			q.TopLeft.X += ox
			q.TopRight.X -= ox
		}
	}
	return q
}

// AspectRatio formats w:h, reduced by the gcd when the gcd is larger than 3.
func AspectRatio(w, h int) string {
	g := gcd(w, h)
	if g > 3 {
		return fmt.Sprintf("%d:%d", w/g, h/g)
	}
	return fmt.Sprintf("%d:%d", w, h)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Lerp interpolates between a and b.
func Lerp(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}
