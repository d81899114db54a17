package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

func TestFromEnv(t *testing.T) {
	s, err := FromEnv([]string{
		"PORT=9090",
		"QRTOOLKIT_MAX_RENDERS=8",
		"QRTOOLKIT_PRESETS=/etc/qr",
		"QRTOOLKIT_REMOTE_BACKGROUNDS=true",
		"GIN_MODE=debug",
		"HOME=/root",
		"MALFORMED",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Server{Port: "9090", MaxRenders: 8, PresetDir: "/etc/qr", GinMode: "debug", RemoteBackgrounds: true}
	if s != want {
		t.Fatalf("FromEnv = %+v", s)
	}
	if s.Addr() != ":9090" {
		t.Fatalf("addr = %s", s.Addr())
	}

	if s, err := FromEnv(nil); err != nil || s != Defaults() {
		t.Fatalf("empty env = %+v, %v", s, err)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	for _, kv := range []string{
		"PORT=http",
		"QRTOOLKIT_MAX_RENDERS=0",
		"QRTOOLKIT_MAX_RENDERS=lots",
		"QRTOOLKIT_REMOTE_BACKGROUNDS=maybe",
	} {
		if _, err := FromEnv([]string{kv}); err == nil {
			t.Errorf("%s accepted", kv)
		}
	}
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadPresetFormats(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "dots.yaml", `
pixelStyle: dot
markerShape: circle
margin:
  top: 1
  right: 2
  bottom: 3
  left: 4
marginNoiseOpacity: [0.2, 0.6]
`)
	write(t, dir, "crystal.toml", `
effect = "crystalize"
effectCrystalizeRadius = 12
seed = 7
margin = 3
`)
	write(t, dir, "inverted.json", `{"invert": true, "darkColor": "#112233"}`)
	write(t, dir, "notes.txt", "ignored")

	p, err := LoadPresets(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := p.Names()
	want := []string{"crystal", "default", "dots", "inverted"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v", names)
		}
	}

	dots, _ := p.Get("dots")
	if dots.PixelStyle != render.StyleDot || dots.MarkerShape != render.ShapeCircle || dots.Scale != 20 {
		t.Fatalf("dots = %+v", dots)
	}
	if geom.ResolveMargin(dots.Margin) != (geom.Sides{Top: 1, Right: 2, Bottom: 3, Left: 4}) {
		t.Fatalf("dots margin = %+v", dots.Margin)
	}
	if !dots.MarginNoiseOpacity.IsRange() {
		t.Fatalf("dots opacity = %+v", dots.MarginNoiseOpacity)
	}

	crystal, _ := p.Get("crystal")
	if crystal.Effect != render.EffectCrystalize || crystal.EffectCrystalizeRadius != 12 || crystal.Seed != 7 {
		t.Fatalf("crystal = %+v", crystal)
	}
	if geom.ResolveMargin(crystal.Margin).Min() != 3 {
		t.Fatalf("crystal margin = %+v", crystal.Margin)
	}

	inv, ok := p.Get("inverted")
	if !ok || !inv.Invert || inv.DarkColor != "#112233" {
		t.Fatalf("inverted = %+v", inv)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatal("missing preset found")
	}
}

func TestLoadPresetInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := write(t, dir, "bad.yaml", "scale: -3\n")
	if _, err := LoadPreset(bad); !errors.Is(err, ErrPreset) {
		t.Fatalf("invalid scale: %v", err)
	}
	broken := write(t, dir, "broken.json", "{")
	if _, err := LoadPreset(broken); !errors.Is(err, ErrPreset) {
		t.Fatalf("broken json: %v", err)
	}
	if _, err := LoadPresets(dir); !errors.Is(err, ErrPreset) {
		t.Fatalf("directory with bad files: %v", err)
	}
	if _, err := LoadPresets(filepath.Join(dir, "nope")); err == nil {
		t.Fatal("missing directory accepted")
	}
}

func TestDefaultPresetsOnly(t *testing.T) {
	p, err := LoadPresets("")
	if err != nil {
		t.Fatal(err)
	}
	s, ok := p.Get(DefaultPreset)
	if !ok || s.Scale != render.DefaultState().Scale {
		t.Fatalf("default = %+v", s)
	}
}
