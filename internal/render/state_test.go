package render

import (
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
)

func TestDefaultStateValidates(t *testing.T) {
	s := DefaultState()
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestStateJSONOverDefaults(t *testing.T) {
	s := DefaultState()
	in := `{"text":"hello","margin":{"top":1,"right":2,"bottom":3,"left":4},"marginNoiseOpacity":[0.2,0.8],"markers":[{"markerShape":"circle"}]}`
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatal(err)
	}
	if s.Text != "hello" || s.Scale != 20 || s.ECC != "M" {
		t.Fatalf("decoded state = %+v", s)
	}
	if got := geom.ResolveMargin(s.Margin); got != (geom.Sides{Top: 1, Right: 2, Bottom: 3, Left: 4}) {
		t.Fatalf("margin = %+v", got)
	}
	if !s.MarginNoiseOpacity.IsRange() || s.MarginNoiseOpacity.Min != 0.2 {
		t.Fatalf("opacity = %+v", s.MarginNoiseOpacity)
	}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	out, err := json.Marshal(FixedOpacity(0.5))
	if err != nil || string(out) != "0.5" {
		t.Fatalf("fixed opacity = %s, %v", out, err)
	}
}

func TestStateValidateOpacity(t *testing.T) {
	s := DefaultState()
	s.MarginNoiseOpacity = Opacity{Min: 0.8, Max: 0.2}
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("inverted range: %v", err)
	}
	s.MarginNoiseOpacity = FixedOpacity(1.5)
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("opacity > 1: %v", err)
	}
}

func TestMarkerForResolvesAuto(t *testing.T) {
	cases := []struct {
		shape, inner string
	}{
		{ShapeCircle, ShapeCircle},
		{ShapeTinyPlus, ShapePlus},
		{ShapeOctagon, ShapeDiamond},
		{ShapeBox, ShapeSquare},
	}
	for _, c := range cases {
		s := DefaultState()
		s.PixelStyle = StyleDot
		s.MarkerShape = c.shape
		got := s.markerFor(0)
		if got.InnerShape != c.inner || got.PixelStyle != StyleDot || got.Shape != c.shape {
			t.Errorf("%s: %+v", c.shape, got)
		}
	}

	s := DefaultState()
	s.Markers = []MarkerState{{}, {}, {MarkerStyle: StyleRounded, MarkerInnerShape: ShapeEye}}
	if got := s.markerFor(2); got.PixelStyle != StyleRounded || got.InnerShape != ShapeEye || got.Shape != ShapeSquare {
		t.Fatalf("override = %+v", got)
	}
	if got := s.markerFor(1); got.PixelStyle != StyleSquare {
		t.Fatalf("empty override = %+v", got)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#fff":      {255, 255, 255, 255},
		"#0008":     {0, 0, 0, 0x88},
		"#336699":   {0x33, 0x66, 0x99, 255},
		"#33669980": {0x33, 0x66, 0x99, 0x80},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Errorf("ParseColor(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "#12", "#gggggg", "red"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded", in)
		}
	}
}

func TestMix(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	if got := mix(black, white, 1); got != black {
		t.Fatalf("full opacity = %v", got)
	}
	if got := mix(black, white, 0); got != white {
		t.Fatalf("zero opacity = %v", got)
	}
	if got := mix(black, white, 0.5); got.R != 128 {
		t.Fatalf("half opacity = %v", got)
	}
}

func TestCost(t *testing.T) {
	s := DefaultState()
	if s.Cost() != 1 {
		t.Fatalf("plain cost = %d", s.Cost())
	}
	s.Effect = EffectLiquidify
	s.EffectLiquidifyDistortRadius = 4
	s.TransformPerspectiveY = 0.2
	if s.Cost() != 6 {
		t.Fatalf("heavy cost = %d", s.Cost())
	}
}

func TestCostGrowsWithArea(t *testing.T) {
	s := DefaultState()
	s.Scale = 200
	s.MinVersion = 10
	// (57+4)*200 = 12200 px per side, about 142 megapixels
	if got := s.Cost(); got != 1+12200*12200>>20 {
		t.Fatalf("cost = %d", got)
	}
}

func TestStateValidateCanvasBudget(t *testing.T) {
	s := DefaultState()
	s.Scale = 200
	s.Margin = geom.Uniform(100)
	s.MinVersion = 40
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("75400 px canvas accepted: %v", err)
	}

	s = DefaultState()
	s.Scale = 200
	s.MinVersion = 20
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("(97+4)*200 px canvas accepted: %v", err)
	}

	s = DefaultState()
	s.Scale = 80
	s.Margin = geom.Uniform(4)
	if err := s.Validate(); err != nil {
		t.Fatalf("(21+8)*80 px canvas rejected: %v", err)
	}
}
