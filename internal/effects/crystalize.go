// Package effects holds the raster post-processing passes applied to a
// rendered QR code.
package effects

import (
	"image"
	"math"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/rng"
)

const distortion = 1.2

// Lattice returns the jittered hexagonal point set used by Crystalize for a
// w×h image. It extends one radius beyond every edge so the triangulation
// covers the whole image.
func Lattice(w, h int, radius float64, seed int64) []geom.Point {
	th := radius * math.Sqrt(3) / 2
	xCount := int(math.Ceil(float64(w)/radius)) + 1
	yCount := int(math.Ceil(float64(h)/th)) + 1

	pts := make([]geom.Point, 0, (xCount+2)*(yCount+2))
	for xi := -1; xi <= xCount; xi++ {
		for yi := -1; yi <= yCount; yi++ {
			x := float64(xi) * radius
			if yi&1 == 1 {
				x += radius / 2
			}
			y := float64(yi) * th
			x += (rng.Float(seed, rng.Crystalize, xi, yi, 0) - 0.5) * radius * distortion
			y += (rng.Float(seed, rng.Crystalize, xi, yi, 1) - 0.5) * th * distortion
			pts = append(pts, geom.Point{X: x, Y: y})
		}
	}
	return pts
}

// inTriangle is the inclusive barycentric test.
func inTriangle(x, y float64, p1, p2, p3 geom.Point) bool {
	den := (p2.Y-p3.Y)*(p1.X-p3.X) + (p3.X-p2.X)*(p1.Y-p3.Y)
	if den == 0 {
		return false
	}
	a := ((p2.Y-p3.Y)*(x-p3.X) + (p3.X-p2.X)*(y-p3.Y)) / den
	b := ((p3.Y-p1.Y)*(x-p3.X) + (p1.X-p3.X)*(y-p3.Y)) / den
	c := 1 - a - b
	return a >= 0 && a <= 1 && b >= 0 && b <= 1 && c >= 0 && c <= 1
}

// Partition assigns every pixel of a w×h image to exactly one triangle.
// The first triangle whose closed area contains a pixel owns it; pixels
// missed by every triangle go to the triangle with the nearest centroid.
func Partition(w, h int, pts []geom.Point, tris [][3]int) []int32 {
	owner := make([]int32, w*h)
	for i := range owner {
		owner[i] = -1
	}
	if len(tris) == 0 {
		return owner
	}
	for ti, t := range tris {
		p1, p2, p3 := pts[t[0]], pts[t[1]], pts[t[2]]
		x0 := max(0, int(math.Floor(min(p1.X, p2.X, p3.X))))
		y0 := max(0, int(math.Floor(min(p1.Y, p2.Y, p3.Y))))
		x1 := min(w-1, int(math.Ceil(max(p1.X, p2.X, p3.X))))
		y1 := min(h-1, int(math.Ceil(max(p1.Y, p2.Y, p3.Y))))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				k := y*w + x
				if owner[k] >= 0 {
					continue
				}
				if inTriangle(float64(x), float64(y), p1, p2, p3) {
					owner[k] = int32(ti)
				}
			}
		}
	}

	var centroids []geom.Point
	for k, o := range owner {
		if o >= 0 {
			continue
		}
		if centroids == nil {
			centroids = make([]geom.Point, len(tris))
			for i, t := range tris {
				c := pts[t[0]].Add(pts[t[1]]).Add(pts[t[2]])
				centroids[i] = c.Mul(1.0 / 3)
			}
		}
		p := geom.Point{X: float64(k % w), Y: float64(k / w)}
		best, bestD := 0, math.Inf(1)
		for i, c := range centroids {
			if d := c.Sub(p).Len(); d < bestD {
				best, bestD = i, d
			}
		}
		owner[k] = int32(best)
	}
	return owner
}

// Crystalize replaces each Delaunay triangle of a jittered hexagonal lattice
// with the average colour of the pixels it owns.
func Crystalize(img *image.RGBA, radius float64, seed int64) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 || radius <= 0 {
		return out
	}

	pts := Lattice(w, h, radius, seed)
	tris := Triangulate(pts)
	owner := Partition(w, h, pts, tris)

	sums := make([][5]uint64, len(tris))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			o := owner[y*w+x]
			if o < 0 {
				continue
			}
			px := row[x*4 : x*4+4]
			s := &sums[o]
			s[0] += uint64(px[0])
			s[1] += uint64(px[1])
			s[2] += uint64(px[2])
			s[3] += uint64(px[3])
			s[4]++
		}
	}
	avg := make([][4]uint8, len(tris))
	for i, s := range sums {
		if s[4] == 0 {
			continue
		}
		for c := 0; c < 4; c++ {
			avg[i][c] = uint8((s[c] + s[4]/2) / s[4])
		}
	}
	for k, o := range owner {
		if o < 0 {
			continue
		}
		copy(out.Pix[(k/w)*out.Stride+(k%w)*4:], avg[o][:])
	}
	return out
}
