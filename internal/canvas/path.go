package canvas

import (
	"math"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opCubic
	opClose
)

type op struct {
	kind opKind
	pts  [3]geom.Point
}

// Path is a list of closed or open subpaths, filled with the non-zero rule.
type Path struct {
	ops     []op
	cur     geom.Point
	start   geom.Point
	started bool
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.cur = geom.Point{X: x, Y: y}
	p.start = p.cur
	p.started = true
	p.ops = append(p.ops, op{kind: opMove, pts: [3]geom.Point{p.cur}})
}

// LineTo adds a straight segment. Without a current point it behaves as MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.started {
		p.MoveTo(x, y)
		return
	}
	p.cur = geom.Point{X: x, Y: y}
	p.ops = append(p.ops, op{kind: opLine, pts: [3]geom.Point{p.cur}})
}

// CubeTo adds a cubic Bézier segment.
func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.started {
		p.MoveTo(c1x, c1y)
	}
	p.cur = geom.Point{X: x, Y: y}
	p.ops = append(p.ops, op{kind: opCubic, pts: [3]geom.Point{{X: c1x, Y: c1y}, {X: c2x, Y: c2y}, p.cur}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	if !p.started {
		return
	}
	p.ops = append(p.ops, op{kind: opClose})
	p.cur = p.start
}

// Current returns the current point.
func (p *Path) Current() geom.Point { return p.cur }

// ArcTo follows the HTML canvas arcTo contract: a line from the current point
// to the first tangent point of a circle of radius r touching the lines
// cur→(x1,y1) and (x1,y1)→(x2,y2), then the arc to the second tangent point.
// Collinear points or a zero radius add a line to (x1, y1).
func (p *Path) ArcTo(x1, y1, x2, y2, r float64) {
	if !p.started {
		p.MoveTo(x1, y1)
		return
	}
	p0 := p.cur
	p1 := geom.Point{X: x1, Y: y1}
	p2 := geom.Point{X: x2, Y: y2}

	v0 := p0.Sub(p1)
	v2 := p2.Sub(p1)
	l0, l2 := v0.Len(), v2.Len()
	cross := v0.X*v2.Y - v0.Y*v2.X
	if r <= 0 || l0 == 0 || l2 == 0 || math.Abs(cross) < 1e-9*l0*l2 {
		p.LineTo(x1, y1)
		return
	}

	u0 := v0.Mul(1 / l0)
	u2 := v2.Mul(1 / l2)
	cosTheta := u0.X*u2.X + u0.Y*u2.Y
	theta := math.Acos(math.Max(-1, math.Min(1, cosTheta)))
	dist := r / math.Tan(theta/2)

	t0 := p1.Add(u0.Mul(dist))
	t2 := p1.Add(u2.Mul(dist))

	bis := u0.Add(u2)
	bis = bis.Mul(1 / bis.Len())
	center := p1.Add(bis.Mul(r / math.Sin(theta/2)))

	p.LineTo(t0.X, t0.Y)
	a0 := math.Atan2(t0.Y-center.Y, t0.X-center.X)
	a1 := math.Atan2(t2.Y-center.Y, t2.X-center.X)
	sweep := a1 - a0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep < -math.Pi {
		sweep += 2 * math.Pi
	}
	p.arc(center, r, a0, sweep)
}

// Arc adds a circular arc around (cx, cy) from angle a0 sweeping by sweep
// radians, joined to the current point by a line.
func (p *Path) Arc(cx, cy, r, a0, sweep float64) {
	c := geom.Point{X: cx, Y: cy}
	start := c.Add(geom.Point{X: math.Cos(a0), Y: math.Sin(a0)}.Mul(r))
	if !p.started {
		p.MoveTo(start.X, start.Y)
	} else {
		p.LineTo(start.X, start.Y)
	}
	p.arc(c, r, a0, sweep)
}

// Circle adds a closed circular subpath.
func (p *Path) Circle(cx, cy, r float64) {
	p.MoveTo(cx+r, cy)
	p.arc(geom.Point{X: cx, Y: cy}, r, 0, 2*math.Pi)
	p.Close()
}

// Rect adds a closed rectangular subpath.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Polygon adds a closed polygon through pts.
func (p *Path) Polygon(pts []geom.Point) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
	}
	if len(pts) > 0 {
		p.Close()
	}
}

// arc appends cubic segments approximating the arc, at most a quarter turn each.
func (p *Path) arc(c geom.Point, r, a0, sweep float64) {
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	a := a0
	for i := 0; i < n; i++ {
		b := a + step
		ca, sa := math.Cos(a), math.Sin(a)
		cb, sb := math.Cos(b), math.Sin(b)
		p.CubeTo(
			c.X+r*(ca-k*sa), c.Y+r*(sa+k*ca),
			c.X+r*(cb+k*sb), c.Y+r*(sb-k*cb),
			c.X+r*cb, c.Y+r*sb,
		)
		a = b
	}
}
