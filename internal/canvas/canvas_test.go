package canvas

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

var red = color.RGBA{255, 0, 0, 255}

func TestFillRectAligned(t *testing.T) {
	c := New(10, 10)
	c.FillRect(2, 3, 4, 5, red)
	img := c.Image()
	if img.RGBAAt(2, 3) != red || img.RGBAAt(5, 7) != red {
		t.Fatal("inside pixels not filled")
	}
	if img.RGBAAt(6, 3) != (color.RGBA{}) || img.RGBAAt(2, 8) != (color.RGBA{}) {
		t.Fatal("rectangle bled outside its bounds")
	}
}

func TestFillRectFractional(t *testing.T) {
	c := New(20, 20)
	c.FillRect(2.5, 2.5, 10, 10, red)
	if got := c.Image().RGBAAt(7, 7); got.A < 250 || got.R < 250 {
		t.Fatalf("centre pixel = %v", got)
	}
	if got := c.Image().RGBAAt(15, 15); got.A != 0 {
		t.Fatalf("outside pixel = %v", got)
	}
}

func TestFillCircle(t *testing.T) {
	c := New(40, 40)
	c.FillCircle(20, 20, 10, red)
	img := c.Image()
	if got := img.RGBAAt(20, 20); got.A < 250 {
		t.Fatalf("centre pixel = %v", got)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("corner pixel = %v", got)
	}
	if img.RGBAAt(26, 26).A == 0 || img.RGBAAt(29, 29).A != 0 {
		t.Fatal("circle radius looks wrong")
	}
}

func TestFillPathPolygon(t *testing.T) {
	c := New(30, 30)
	c.FillPolygon([]geom.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}, red)
	img := c.Image()
	if img.RGBAAt(3, 3).A < 250 {
		t.Fatal("triangle interior not filled")
	}
	if img.RGBAAt(27, 27).A != 0 {
		t.Fatal("triangle exterior filled")
	}
}

func TestArcToEndsOnSecondTangent(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.ArcTo(10, 0, 10, 10, 5)
	cur := p.Current()
	if math.Abs(cur.X-10) > 1e-9 || math.Abs(cur.Y-5) > 1e-9 {
		t.Fatalf("current point = %+v, want (10,5)", cur)
	}
}

func TestArcToDegenerate(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.ArcTo(5, 0, 10, 0, 3)
	if p.Current() != (geom.Point{X: 5, Y: 0}) {
		t.Fatalf("collinear arcTo current = %+v", p.Current())
	}
	p.ArcTo(5, 5, 0, 5, 0)
	if p.Current() != (geom.Point{X: 5, Y: 5}) {
		t.Fatalf("zero radius arcTo current = %+v", p.Current())
	}
}

func TestCircleClosesAtStart(t *testing.T) {
	p := NewPath()
	p.Circle(5, 5, 2)
	if p.Current() != (geom.Point{X: 7, Y: 5}) {
		t.Fatalf("current = %+v", p.Current())
	}
}

func TestClipQuad(t *testing.T) {
	c := New(20, 20)
	c.Fill(red)
	q := geom.Quad{
		TopLeft:     geom.Point{X: 5, Y: 5},
		TopRight:    geom.Point{X: 15, Y: 5},
		BottomRight: geom.Point{X: 15, Y: 15},
		BottomLeft:  geom.Point{X: 5, Y: 15},
	}
	out := ClipQuad(c.Image(), q)
	if out.RGBAAt(10, 10) != red {
		t.Fatalf("inside = %v", out.RGBAAt(10, 10))
	}
	if out.RGBAAt(1, 1).A != 0 || out.RGBAAt(18, 10).A != 0 {
		t.Fatal("outside pixels survived the clip")
	}
	if out.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
}
