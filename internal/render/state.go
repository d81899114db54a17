// Package render turns a QR module matrix into a styled raster: marker shapes,
// pixel styles, margin noise, rotation, perspective, raster effects and
// background compositing.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
)

var (
	// ErrInvalidConfig is returned before any drawing when a State fails validation.
	ErrInvalidConfig = errors.New("invalid render config")
	// ErrBackground is returned when the background image cannot be loaded or decoded.
	ErrBackground = errors.New("background image unavailable")
)

// DefaultText is encoded when State.Text is empty.
const DefaultText = "qrcode.antfu.me"

// Pixel styles.
const (
	StyleSquare   = "square"
	StyleRounded  = "rounded"
	StyleDot      = "dot"
	StyleSquircle = "squircle"
	StyleRow      = "row"
	StyleColumn   = "column"
	StyleAuto     = "auto"
)

// Marker shapes. ShapeDiamond and ShapeEye are inner shapes only.
const (
	ShapeSquare   = "square"
	ShapeCircle   = "circle"
	ShapePlus     = "plus"
	ShapeBox      = "box"
	ShapeOctagon  = "octagon"
	ShapeRandom   = "random"
	ShapeTinyPlus = "tiny-plus"
	ShapeDiamond  = "diamond"
	ShapeEye      = "eye"
	ShapeAuto     = "auto"
)

// Margin noise spaces.
const (
	SpaceNone    = "none"
	SpaceMarker  = "marker"
	SpaceFull    = "full"
	SpaceMinimal = "minimal"
	SpaceExtreme = "extreme"
)

// Render subsets.
const (
	PointsAll      = "all"
	PointsData     = "data"
	PointsFunction = "function"
	PointsGuide    = "guide"
	PointsMarker   = "marker"
)

// Effects and their timing relative to background compositing.
const (
	EffectNone       = "none"
	EffectCrystalize = "crystalize"
	EffectLiquidify  = "liquidify"

	TimingBefore = "before"
	TimingAfter  = "after"
)

// MarkerState styles one finder marker. Empty fields inherit the State-wide
// values.
type MarkerState struct {
	MarkerStyle      string `json:"markerStyle,omitempty" validate:"omitempty,oneof=auto square rounded dot squircle row column"`
	MarkerShape      string `json:"markerShape,omitempty" validate:"omitempty,oneof=square circle plus box octagon random tiny-plus"`
	MarkerInnerShape string `json:"markerInnerShape,omitempty" validate:"omitempty,oneof=auto square circle plus diamond eye"`
}

// Opacity is either a constant or a [min, max] range sampled per margin pixel.
type Opacity struct {
	Min, Max float64
}

// FixedOpacity returns a constant opacity.
func FixedOpacity(v float64) Opacity { return Opacity{Min: v, Max: v} }

// IsRange reports whether o varies per pixel.
func (o Opacity) IsRange() bool { return o.Min != o.Max }

// MarshalJSON writes a number or a two-element array.
func (o Opacity) MarshalJSON() ([]byte, error) {
	if !o.IsRange() {
		return json.Marshal(o.Min)
	}
	return json.Marshal([2]float64{o.Min, o.Max})
}

// UnmarshalJSON accepts a number or a [min, max] array.
func (o *Opacity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var r [2]float64
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("marginNoiseOpacity: %w", err)
		}
		*o = Opacity{Min: r[0], Max: r[1]}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("marginNoiseOpacity: %w", err)
	}
	*o = FixedOpacity(v)
	return nil
}

// State is the full styling configuration of one render.
type State struct {
	Text       string      `json:"text"`
	ECC        string      `json:"ecc" validate:"oneof=L M Q H"`
	Encoder    string      `json:"encoder,omitempty" validate:"omitempty,oneof=coding yeqown skip2"`
	Margin     geom.Margin `json:"margin"`
	Scale      int         `json:"scale" validate:"gt=0,lte=200"`
	Seed       int64       `json:"seed"`
	LightColor string      `json:"lightColor" validate:"hexcolor"`
	DarkColor  string      `json:"darkColor" validate:"hexcolor"`

	MaskPattern int  `json:"maskPattern" validate:"gte=-1,lte=7"`
	BoostECC    bool `json:"boostECC"`
	MinVersion  int  `json:"minVersion" validate:"gte=1,lte=40"`
	MaxVersion  int  `json:"maxVersion" validate:"gte=1,lte=40,gtefield=MinVersion"`

	PixelStyle       string        `json:"pixelStyle" validate:"oneof=square rounded dot squircle row column"`
	MarkerStyle      string        `json:"markerStyle" validate:"oneof=auto square rounded dot squircle row column"`
	MarkerShape      string        `json:"markerShape" validate:"oneof=square circle plus box octagon random tiny-plus"`
	MarkerInnerShape string        `json:"markerInnerShape" validate:"oneof=auto square circle plus diamond eye"`
	Markers          []MarkerState `json:"markers,omitempty" validate:"max=3,dive"`
	MarkerSub        string        `json:"markerSub" validate:"oneof=square circle plus box octagon random tiny-plus"`

	MarginNoise        bool    `json:"marginNoise"`
	MarginNoiseRate    float64 `json:"marginNoiseRate" validate:"gte=0,lte=1"`
	MarginNoiseSpace   string  `json:"marginNoiseSpace" validate:"oneof=none marker full minimal extreme"`
	MarginNoiseOpacity Opacity `json:"marginNoiseOpacity"`
	DisconnectMargin   bool    `json:"disconnectMargin"`

	RenderPointsType string `json:"renderPointsType" validate:"oneof=all data function guide marker"`
	Invert           bool   `json:"invert"`
	Rotate           int    `json:"rotate" validate:"oneof=0 90 180 270"`

	Effect                       string  `json:"effect" validate:"oneof=none crystalize liquidify"`
	EffectTiming                 string  `json:"effectTiming" validate:"oneof=before after"`
	EffectCrystalizeRadius       float64 `json:"effectCrystalizeRadius" validate:"gte=1,lte=200"`
	EffectLiquidifyDistortRadius float64 `json:"effectLiquidifyDistortRadius" validate:"gte=0,lte=200"`
	EffectLiquidifyRadius        int     `json:"effectLiquidifyRadius" validate:"gte=0,lte=200"`
	EffectLiquidifyThreshold     float64 `json:"effectLiquidifyThreshold" validate:"gte=0,lte=255"`

	BackgroundImage string `json:"backgroundImage,omitempty"`

	TransformPerspectiveX float64 `json:"transformPerspectiveX" validate:"gte=-1,lte=1"`
	TransformPerspectiveY float64 `json:"transformPerspectiveY" validate:"gte=-1,lte=1"`
	TransformScale        float64 `json:"transformScale" validate:"gt=0,lte=10"`
}

// DefaultState returns the configuration used when a field is not given.
func DefaultState() State {
	return State{
		ECC:                      "M",
		Margin:                   geom.Uniform(2),
		Scale:                    20,
		LightColor:               "#ffffff",
		DarkColor:                "#000000",
		MaskPattern:              -1,
		MinVersion:               1,
		MaxVersion:               40,
		PixelStyle:               StyleSquare,
		MarkerStyle:              StyleAuto,
		MarkerShape:              ShapeSquare,
		MarkerInnerShape:         ShapeAuto,
		MarkerSub:                ShapeSquare,
		MarginNoiseRate:          0.5,
		MarginNoiseSpace:         SpaceMarker,
		MarginNoiseOpacity:       FixedOpacity(1),
		RenderPointsType:         PointsAll,
		Effect:                   EffectNone,
		EffectTiming:             TimingAfter,
		EffectCrystalizeRadius:   8,
		EffectLiquidifyRadius:    8,
		EffectLiquidifyThreshold: 128,
		TransformScale:           1,
	}
}

// MaxSide bounds the width and height of the drawing canvas in pixels.
const MaxSide = 8192

var validate = validator.New()

// canvasSize is the pixel size of a matrix of the given module count with
// s's margin and scale.
func (s *State) canvasSize(modules int) (w, h int) {
	sides := geom.ResolveMargin(s.Margin)
	return (modules + sides.Left + sides.Right) * s.Scale, (modules + sides.Top + sides.Bottom) * s.Scale
}

// Validate checks every field range and enum. The error wraps ErrInvalidConfig.
func (s *State) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	sides := geom.ResolveMargin(s.Margin)
	if sides.Min() < 0 {
		return fmt.Errorf("%w: negative margin %s", ErrInvalidConfig, s.Margin)
	}
	if max(sides.Top, sides.Right, sides.Bottom, sides.Left) > 100 {
		return fmt.Errorf("%w: margin %s too large", ErrInvalidConfig, s.Margin)
	}
	if w, h := s.canvasSize(matrix.SizeForVersion(s.MinVersion)); max(w, h) > MaxSide {
		return fmt.Errorf("%w: %dx%d px exceeds %d px per side", ErrInvalidConfig, w, h, MaxSide)
	}
	o := s.MarginNoiseOpacity
	if o.Min < 0 || o.Max > 1 || o.Min > o.Max {
		return fmt.Errorf("%w: marginNoiseOpacity [%g, %g]", ErrInvalidConfig, o.Min, o.Max)
	}
	for _, c := range []string{s.LightColor, s.DarkColor} {
		if _, err := ParseColor(c); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ResolvedMarker is the effective style of one marker after overrides and
// "auto" values are applied.
type ResolvedMarker struct {
	PixelStyle string
	Shape      string
	InnerShape string
}

// markerFor resolves the style of finder marker i (0 top-left, 1 top-right,
// 2 bottom-left).
func (s *State) markerFor(i int) ResolvedMarker {
	ms := MarkerState{
		MarkerStyle:      s.MarkerStyle,
		MarkerShape:      s.MarkerShape,
		MarkerInnerShape: s.MarkerInnerShape,
	}
	if i >= 0 && i < len(s.Markers) {
		o := s.Markers[i]
		if o.MarkerStyle != "" {
			ms.MarkerStyle = o.MarkerStyle
		}
		if o.MarkerShape != "" {
			ms.MarkerShape = o.MarkerShape
		}
		if o.MarkerInnerShape != "" {
			ms.MarkerInnerShape = o.MarkerInnerShape
		}
	}
	r := ResolvedMarker{
		PixelStyle: ms.MarkerStyle,
		Shape:      ms.MarkerShape,
		InnerShape: ms.MarkerInnerShape,
	}
	if r.PixelStyle == StyleAuto || r.PixelStyle == "" {
		r.PixelStyle = s.PixelStyle
	}
	if r.InnerShape == ShapeAuto || r.InnerShape == "" {
		switch r.Shape {
		case ShapeCircle:
			r.InnerShape = ShapeCircle
		case ShapeTinyPlus:
			r.InnerShape = ShapePlus
		case ShapeOctagon:
			r.InnerShape = ShapeDiamond
		default:
			r.InnerShape = ShapeSquare
		}
	}
	return r
}

// ParseColor parses #rgb, #rgba, #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("color %q: want #rgb, #rgba, #rrggbb or #rrggbbaa", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// mustColor is for values already checked by Validate.
func mustColor(s string) color.NRGBA {
	c, _ := ParseColor(s)
	return c
}

// mix moves c toward bg by 1-opacity.
func mix(c, bg color.NRGBA, opacity float64) color.NRGBA {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(b) + (float64(a)-float64(b))*opacity + 0.5)
	}
	return color.NRGBA{R: lerp(c.R, bg.R), G: lerp(c.G, bg.G), B: lerp(c.B, bg.B), A: lerp(c.A, bg.A)}
}
