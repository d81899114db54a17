package scan

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

func renderCode(t *testing.T, text string) image.Image {
	t.Helper()
	s := render.DefaultState()
	s.Text = text
	s.Margin = geom.Uniform(4)
	s.Scale = 8
	res, err := render.New().Render(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	return res.Image
}

func TestDecodeRenderedCode(t *testing.T) {
	img := renderCode(t, "qrcode.antfu.me")
	r := Decode(img, DefaultOptions())
	if !r.OK() {
		t.Fatalf("decode: %v", r.Err)
	}
	if r.Result.Text != "qrcode.antfu.me" {
		t.Fatalf("text = %q", r.Result.Text)
	}
	if len(r.Result.Points) < 3 {
		t.Fatalf("points = %v", r.Result.Points)
	}
}

func TestDecodeWithPreprocessing(t *testing.T) {
	img := imaging.Rotate90(renderCode(t, "https://example.com/a"))
	opts := DefaultOptions()
	opts.Grayscale = true
	opts.Contrast = 20
	r := Decode(img, opts)
	if !r.OK() || r.Result.Text != "https://example.com/a" {
		t.Fatalf("decode = %+v, %v", r.Result, r.Err)
	}
}

func TestDecodeDataURL(t *testing.T) {
	url, err := imageio.DataURL(renderCode(t, "hello"))
	if err != nil {
		t.Fatal(err)
	}
	if r := DecodeDataURL(url, DefaultOptions()); !r.OK() || r.Result.Text != "hello" {
		t.Fatalf("decode = %+v, %v", r.Result, r.Err)
	}
	if r := DecodeDataURL("data:image/png;base64,!!", DefaultOptions()); !errors.Is(r.Err, imageio.ErrDecode) {
		t.Fatalf("bad url: %v", r.Err)
	}
}

func TestDecodeNothing(t *testing.T) {
	blank := image.NewRGBA(image.Rect(0, 0, 120, 120))
	draw.Draw(blank, blank.Bounds(), image.White, image.Point{}, draw.Src)
	r := Decode(blank, Options{})
	if r.OK() || !errors.Is(r.Err, ErrNotFound) {
		t.Fatalf("blank image = %+v, %v", r.Result, r.Err)
	}
	if r := Decode(image.NewRGBA(image.Rect(0, 0, 0, 0)), Options{}); !errors.Is(r.Err, imageio.ErrDecode) {
		t.Fatalf("empty image: %v", r.Err)
	}
}
