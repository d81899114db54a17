package effects

import (
	"github.com/fogleman/delaunay"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

func orient(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle a, b, c.
func inCircle(a, b, c, d geom.Point) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	return adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
}

// Triangulate returns the Delaunay triangulation of pts as index triples in
// counter-clockwise order. Duplicate points are ignored. Fewer than three
// distinct points, or all points collinear, yield no triangles.
func Triangulate(pts []geom.Point) [][3]int {
	in := make([]delaunay.Point, 0, len(pts))
	index := make([]int, 0, len(pts))
	seen := make(map[geom.Point]bool, len(pts))
	for i, p := range pts {
		if seen[p] {
			continue
		}
		seen[p] = true
		in = append(in, delaunay.Point{X: p.X, Y: p.Y})
		index = append(index, i)
	}
	if len(in) < 3 {
		return nil
	}
	t, err := delaunay.Triangulate(in)
	if err != nil {
		return nil
	}

	tris := make([][3]int, 0, len(t.Triangles)/3)
	for i := 0; i+2 < len(t.Triangles); i += 3 {
		a, b, c := index[t.Triangles[i]], index[t.Triangles[i+1]], index[t.Triangles[i+2]]
		o := orient(pts[a], pts[b], pts[c])
		if o == 0 {
			continue
		}
		if o < 0 {
			b, c = c, b
		}
		tris = append(tris, [3]int{a, b, c})
	}
	if len(tris) == 0 {
		return nil
	}
	return tris
}
