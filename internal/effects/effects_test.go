package effects

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/rng"
)

func TestTriangulateSquare(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	tris := Triangulate(pts)
	if len(tris) != 2 {
		t.Fatalf("triangles = %d, want 2", len(tris))
	}
	for _, tr := range tris {
		if orient(pts[tr[0]], pts[tr[1]], pts[tr[2]]) <= 0 {
			t.Fatalf("triangle %v is not counter-clockwise", tr)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	if got := Triangulate([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}); got != nil {
		t.Fatalf("two points gave %v", got)
	}
	dup := []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 0}}
	if got := Triangulate(dup); len(got) != 1 {
		t.Fatalf("duplicate point gave %d triangles", len(got))
	}
}

func TestTriangulateIsDelaunay(t *testing.T) {
	r := rng.Stream(7, "test")
	pts := make([]geom.Point, 200)
	for i := range pts {
		pts[i] = geom.Point{X: r.Float64() * 100, Y: r.Float64() * 100}
	}
	tris := Triangulate(pts)
	if len(tris) < len(pts) {
		t.Fatalf("only %d triangles for %d points", len(tris), len(pts))
	}
	for _, tr := range tris {
		a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
		for i, p := range pts {
			if i == tr[0] || i == tr[1] || i == tr[2] {
				continue
			}
			if inCircle(a, b, c, p) > 1e-6 {
				t.Fatalf("point %d lies inside the circumcircle of %v", i, tr)
			}
		}
	}
}

func TestPartitionCoversEveryPixel(t *testing.T) {
	const w, h = 64, 48
	pts := Lattice(w, h, 8, 3)
	tris := Triangulate(pts)
	owner := Partition(w, h, pts, tris)
	if len(owner) != w*h {
		t.Fatalf("len = %d", len(owner))
	}
	for k, o := range owner {
		if o < 0 || int(o) >= len(tris) {
			t.Fatalf("pixel %d has owner %d", k, o)
		}
	}
}

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func checker(w, h, cell int) *image.RGBA {
	img := fill(w, h, color.RGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestCrystalizeUniformStaysUniform(t *testing.T) {
	c := color.RGBA{10, 120, 200, 255}
	out := Crystalize(fill(40, 30, c), 6, 1)
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if got := out.RGBAAt(x, y); got != c {
				t.Fatalf("(%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestCrystalizeDeterministic(t *testing.T) {
	src := checker(48, 48, 4)
	a := Crystalize(src, 8, 42)
	b := Crystalize(src, 8, 42)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("same seed produced different output")
	}
	c := Crystalize(src, 8, 43)
	if bytes.Equal(a.Pix, c.Pix) {
		t.Fatal("different seeds produced identical output")
	}
}

func TestLiquidifyThreshold(t *testing.T) {
	img := fill(4, 2, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{100, 100, 100, 255})
	img.SetRGBA(3, 1, color.RGBA{})

	light := color.NRGBA{250, 240, 230, 255}
	dark := color.NRGBA{5, 6, 7, 255}
	out := Liquidify(img, 0, 128, light, dark)

	want := map[image.Point]color.RGBA{
		{0, 0}: {5, 6, 7, 255},
		{1, 0}: {5, 6, 7, 255},
		{2, 0}: {250, 240, 230, 255},
		{3, 1}: {0, 0, 0, 0},
	}
	for p, c := range want {
		if got := out.RGBAAt(p.X, p.Y); got != c {
			t.Errorf("%v = %v, want %v", p, got, c)
		}
	}
}

func TestLiquidifyThresholdsStraightColour(t *testing.T) {
	// light grey at half opacity: premultiplied 100, straight about 199
	img := fill(2, 1, color.RGBA{100, 100, 100, 128})
	img.SetRGBA(1, 0, color.RGBA{40, 40, 40, 128})
	out := Liquidify(img, 0, 150, color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 255})
	if got := out.RGBAAt(0, 0); got != (color.RGBA{128, 128, 128, 128}) {
		t.Fatalf("half-transparent light pixel = %v", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{0, 0, 0, 128}) {
		t.Fatalf("half-transparent dark pixel = %v", got)
	}
}

func TestLiquidifyBlurKeepsLargeAreas(t *testing.T) {
	img := fill(60, 60, color.RGBA{255, 255, 255, 255})
	for y := 0; y < 60; y++ {
		for x := 0; x < 30; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}
	out := Liquidify(img, 6, 128, white, black)
	if out.RGBAAt(5, 30) != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("dark side = %v", out.RGBAAt(5, 30))
	}
	if out.RGBAAt(55, 30) != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("light side = %v", out.RGBAAt(55, 30))
	}
}
