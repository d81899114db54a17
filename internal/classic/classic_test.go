package classic

import (
	"errors"
	"image/color"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/internal/scan"
)

func TestGenerateScans(t *testing.T) {
	o := DefaultOptions("https://qrcreator.link")
	o.PaddingPercent = 20
	img, err := Generate(o)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != b.Dy() {
		t.Fatalf("not square: %v", b)
	}
	r := scan.Decode(img, scan.DefaultOptions())
	if !r.OK() || r.Result.Text != "https://qrcreator.link" {
		t.Fatalf("scan = %+v, %v", r.Result, r.Err)
	}
}

func TestGenerateFrameAndSize(t *testing.T) {
	o := DefaultOptions("hello")
	o.Frame = FrameSimple
	o.FrameColor = color.RGBA{200, 0, 0, 255}
	o.Size = 400
	img, err := Generate(o)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 400 {
		t.Fatalf("size = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != o.FrameColor {
		t.Fatalf("frame corner = %v", got)
	}

	o.Frame = FrameRounded
	o.Size = 0
	img, err = Generate(o)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Fatalf("rounded corner = %v", got)
	}
}

func TestGenerateTransparent(t *testing.T) {
	o := DefaultOptions("hello")
	o.Background = color.RGBA{}
	o.PaddingPercent = 0
	img, err := Generate(o)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.A != 0 && c.A != 255 {
				t.Fatalf("partial alpha at (%d,%d): %v", x, y, c)
			}
		}
	}
}

func TestGenerateShapes(t *testing.T) {
	for _, s := range []string{ShapeRectangle, ShapeCircle, ShapeLiquid, ShapeChain, ShapeHStripe, ShapeVStripe} {
		o := DefaultOptions("shape")
		o.Shape = s
		o.Gradient = []color.RGBA{{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 0, 0, 255}}
		if _, err := Generate(o); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
}

func TestGenerateInvalid(t *testing.T) {
	cases := map[string]func(*Options){
		"empty text": func(o *Options) { o.Text = "" },
		"level":      func(o *Options) { o.Level = "X" },
		"shape":      func(o *Options) { o.Shape = "star" },
		"module":     func(o *Options) { o.ModuleSize = 0 },
		"gradient":   func(o *Options) { o.Gradient = []color.RGBA{{}} },
		"frame":      func(o *Options) { o.Frame = "dotted" },
	}
	for name, mutate := range cases {
		o := DefaultOptions("x")
		mutate(&o)
		if _, err := Generate(o); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestInsideRoundedRect(t *testing.T) {
	if insideRoundedRect(0, 0, 0, 0, 99, 99, 10) {
		t.Fatal("corner inside rounded rect")
	}
	if !insideRoundedRect(50, 0, 0, 0, 99, 99, 10) || !insideRoundedRect(0, 0, 0, 0, 99, 99, 0) {
		t.Fatal("edge outside rect")
	}
}
