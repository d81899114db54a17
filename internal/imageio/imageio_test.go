package imageio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func checker(n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func TestDataURLDecodes(t *testing.T) {
	src := checker(8)
	url, err := DataURL(src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("prefix: %.30s", url)
	}
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("width = %d", img.Bounds().Dx())
	}
	r, _, _, _ := img.At(1, 0).RGBA()
	if r != 0xffff {
		t.Fatalf("pixel (1,0) red = %#x", r)
	}
}

func TestDecodeDataURLErrors(t *testing.T) {
	for _, in := range []string{"", "hello", "data:image/png;base64", "data:image/png;base64,@@@"} {
		if _, err := DecodeDataURL(in); !errors.Is(err, ErrDecode) {
			t.Errorf("DecodeDataURL(%q) = %v, want ErrDecode", in, err)
		}
	}
}

func TestDecodeSVG(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#ff0000"/></svg>`
	img, err := Decode(strings.NewReader(svg))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	r, g, _, a := img.At(5, 5).RGBA()
	if r < 0xf000 || g > 0x1000 || a < 0xf000 {
		t.Fatalf("centre = %v", img.At(5, 5))
	}
}

func TestAPNGRoundTripFrameCount(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeAPNG(&buf, []image.Image{checker(4), checker(4), checker(4)}, 500); err != nil {
		t.Fatal(err)
	}
	frames, err := DecodeAPNG(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) < 3 {
		t.Fatalf("frames = %d", len(frames))
	}
	if err := EncodeAPNG(&buf, nil, 100); err == nil {
		t.Fatal("expected error for zero frames")
	}
}

func TestLoaderSources(t *testing.T) {
	b, err := PNGBytes(checker(6))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "bg.png")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bg.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	defer srv.Close()

	url, _ := DataURL(checker(6))
	l := NewDefaultLoader()
	ctx := context.Background()
	for _, ref := range []string{url, path, srv.URL + "/bg.png"} {
		img, err := l.Load(ctx, ref)
		if err != nil {
			t.Fatalf("Load(%.40s): %v", ref, err)
		}
		if img.Bounds().Dx() != 6 {
			t.Fatalf("Load(%.40s) width = %d", ref, img.Bounds().Dx())
		}
	}

	if _, err := l.Load(ctx, srv.URL+"/missing.png"); !errors.Is(err, ErrDecode) {
		t.Fatalf("missing remote = %v", err)
	}
	if _, err := l.Load(ctx, filepath.Join(dir, "nope.png")); !errors.Is(err, ErrDecode) {
		t.Fatalf("missing file = %v", err)
	}

	strict := &DefaultLoader{}
	if _, err := strict.Load(ctx, path); !errors.Is(err, ErrDecode) {
		t.Fatalf("file loading should be disabled, got %v", err)
	}
	if _, err := strict.Load(ctx, url); err != nil {
		t.Fatalf("data URLs are always allowed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := l.Load(cancelled, url); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled load = %v", err)
	}
}

func TestToRGBAOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(3, 3, 7, 7))
	src.SetRGBA(3, 3, color.RGBA{1, 2, 3, 255})
	out := ToRGBA(src)
	if out.Bounds().Min != (image.Point{}) || out.RGBAAt(0, 0) != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("ToRGBA = %v %v", out.Bounds(), out.RGBAAt(0, 0))
	}
}
