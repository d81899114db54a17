package diff

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
)

// Mask shapes.
const (
	ShapeSquare = "square"
	ShapeCircle = "circle"
)

// Config controls comparison and the overlays generated from a Diff.
type Config struct {
	// GridSize is the number of cells per side; -1 derives it from the
	// reference.
	GridSize       int         `json:"gridSize" validate:"gte=-1,lte=1024,ne=0"`
	GridMarginSize geom.Margin `json:"gridMarginSize"`
	DiffThreshold  float64     `json:"diffThreshold" validate:"gte=0,lte=255"`

	GridColor   string  `json:"gridColor" validate:"hexcolor"`
	GridOpacity float64 `json:"gridOpacity" validate:"gte=0,lte=1"`

	MaskColor         string  `json:"maskColor" validate:"hexcolor"`
	MaskShape         string  `json:"maskShape" validate:"oneof=square circle"`
	CorrectionShape   string  `json:"correctionShape" validate:"oneof=square circle"`
	CorrectionOpacity float64 `json:"correctionOpacity" validate:"gte=0,lte=1"`
	CorrectionBlur    float64 `json:"correctionBlur" validate:"gte=0,lte=100"`

	imageio.Adjustments
}

// DefaultConfig returns the comparison settings used when none are given.
func DefaultConfig() Config {
	return Config{
		GridSize:          -1,
		GridMarginSize:    geom.Uniform(2),
		DiffThreshold:     20,
		GridColor:         "#888888",
		GridOpacity:       0.5,
		MaskColor:         "#ffffff",
		MaskShape:         ShapeSquare,
		CorrectionShape:   ShapeSquare,
		CorrectionOpacity: 1,
	}
}

var validate = validator.New()

// Validate checks field ranges. The error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if geom.ResolveMargin(c.GridMarginSize).Min() < 0 {
		return fmt.Errorf("%w: negative grid margin %s", ErrInvalidConfig, c.GridMarginSize)
	}
	return nil
}

// Diff is the result of comparing a captured segment grid with a reference.
type Diff struct {
	GridSize     int       `json:"gridSize"`
	Segments     []Segment `json:"segments"`
	MainSegments []Segment `json:"-"`
	// MismatchDark holds cells expected light that did not read light,
	// darkest first.
	MismatchDark []Segment `json:"mismatchDark"`
	// MismatchLight holds cells expected dark that did not read dark,
	// brightest first.
	MismatchLight    []Segment `json:"mismatchLight"`
	MismatchCount    int       `json:"mismatchCount"`
	AverageLuminance float64   `json:"averageLuminance"`
	LightLuminance   float64   `json:"lightLuminance"`
	DarkLuminance    float64   `json:"darkLuminance"`
}

// CompareSegments classifies every captured segment against luminances
// learned from the non-margin cells and collects the mismatches. The input
// slices are not modified.
func CompareSegments(captured, reference []Segment, cfg Config) (*Diff, error) {
	if len(captured) != len(reference) || len(captured) == 0 {
		return nil, fmt.Errorf("%w: %d captured vs %d reference segments", ErrGridSize, len(captured), len(reference))
	}
	grid := int(math.Sqrt(float64(len(captured))))
	if grid*grid != len(captured) {
		return nil, fmt.Errorf("%w: %d segments do not form a square", ErrGridSize, len(captured))
	}

	sides := geom.ResolveMargin(cfg.GridMarginSize)
	m := sides.Min()

	segs := make([]Segment, len(captured))
	copy(segs, captured)
	var lightSum, darkSum, mainSum float64
	var lightN, darkN, mainN int
	for i := range segs {
		s := &segs[i]
		if s.Index < 0 || s.Index >= len(reference) {
			return nil, fmt.Errorf("%w: segment index %d", ErrGridSize, s.Index)
		}
		s.Expected = reference[s.Index].Value
		s.IsMargin = s.X < m || s.Y < m || s.X >= grid-m || s.Y >= grid-m
		if s.IsMargin {
			continue
		}
		mainSum += s.Luminance
		mainN++
		switch s.Expected {
		case Light:
			lightSum += s.Luminance
			lightN++
		case Dark:
			darkSum += s.Luminance
			darkN++
		}
	}

	d := &Diff{GridSize: grid, LightLuminance: 255}
	if mainN > 0 {
		d.AverageLuminance = mainSum / float64(mainN)
	}
	if lightN > 0 {
		d.LightLuminance = lightSum / float64(lightN)
	}
	if darkN > 0 {
		d.DarkLuminance = darkSum / float64(darkN)
	}

	for i := range segs {
		s := &segs[i]
		dl := math.Abs(s.Luminance - d.LightLuminance)
		dd := math.Abs(s.Luminance - d.DarkLuminance)
		switch {
		case math.Abs(dl-dd) < cfg.DiffThreshold:
			s.Value = Ambiguous
		case dl < dd:
			s.Value = Light
		default:
			s.Value = Dark
		}
	}

	d.Segments = segs
	for _, s := range segs {
		if s.IsMargin {
			continue
		}
		d.MainSegments = append(d.MainSegments, s)
		switch {
		case s.Expected == Light && s.Value != Light:
			d.MismatchDark = append(d.MismatchDark, s)
		case s.Expected == Dark && s.Value != Dark:
			d.MismatchLight = append(d.MismatchLight, s)
		}
	}
	sort.SliceStable(d.MismatchDark, func(i, j int) bool {
		return d.MismatchDark[i].Luminance < d.MismatchDark[j].Luminance
	})
	sort.SliceStable(d.MismatchLight, func(i, j int) bool {
		return d.MismatchLight[i].Luminance > d.MismatchLight[j].Luminance
	})
	d.MismatchCount = len(d.MismatchDark) + len(d.MismatchLight)
	return d, nil
}

// Compare preprocesses captured with cfg's adjustments, segments it on the
// reference grid and compares the two. A positive cfg.GridSize must agree
// with the reference.
func Compare(captured image.Image, reference []Segment, cfg Config) (*Diff, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid := int(math.Sqrt(float64(len(reference))))
	if grid == 0 || grid*grid != len(reference) {
		return nil, fmt.Errorf("%w: %d reference segments", ErrGridSize, len(reference))
	}
	if cfg.GridSize > 0 && cfg.GridSize != grid {
		return nil, fmt.Errorf("%w: grid %d, reference %d", ErrGridSize, cfg.GridSize, grid)
	}
	segs, err := SegmentImage(imageio.Adjust(captured, cfg.Adjustments), grid)
	if err != nil {
		return nil, err
	}
	return CompareSegments(segs, reference, cfg)
}
