// Package diff checks a captured QR image against the module values it is
// expected to carry. The image is split into a grid of segments, each
// segment is classified light, dark or ambiguous against luminances learned
// from the image itself, and the mismatches drive mask and correction
// overlays.
package diff

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
)

var (
	// ErrGridSize is returned for a non-positive grid size or when captured
	// and reference segment lists disagree.
	ErrGridSize = errors.New("grid size mismatch")
	// ErrInvalidConfig wraps validation failures of Config.
	ErrInvalidConfig = errors.New("invalid compare config")
)

// Working canvas side used for segmentation.
const segmentCanvas = 1024

// Segment values.
const (
	Ambiguous = -1
	Dark      = 0
	Light     = 1
)

// Segment is one grid cell of a captured or reference image.
type Segment struct {
	Index     int         `json:"index"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Color     color.NRGBA `json:"-"`
	Hex       string      `json:"hex"`
	Luminance float64     `json:"luminance"`
	// Expected is the reference value: 1 light, 0 dark.
	Expected int `json:"expected"`
	// Value is 1 light, 0 dark or -1 ambiguous.
	Value    int  `json:"value"`
	IsMargin bool `json:"isMargin"`
}

// Luminance weights an RGBA colour by perceived brightness and opacity.
func Luminance(c color.NRGBA) float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000 * (float64(c.A) / 255)
}

func hexOf(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func newSegment(i, grid int, c color.NRGBA) Segment {
	lum := Luminance(c)
	v := Dark
	if lum >= 128 {
		v = Light
	}
	return Segment{
		Index:     i,
		X:         i % grid,
		Y:         i / grid,
		Color:     c,
		Hex:       hexOf(c),
		Luminance: lum,
		Value:     v,
	}
}

// squareCanvas centre-crops img to a square and resamples it to side×side.
func squareCanvas(img image.Image, side int) *image.NRGBA {
	b := img.Bounds()
	short := min(b.Dx(), b.Dy())
	sq := imaging.CropCenter(img, short, short)
	return imaging.Resize(sq, side, side, imaging.Linear)
}

// SegmentImage splits the centred square of img into grid×grid cells and
// returns their rounded average colours in row-major order.
func SegmentImage(img image.Image, grid int) ([]Segment, error) {
	if grid <= 0 || grid > segmentCanvas {
		return nil, fmt.Errorf("%w: grid %d", ErrGridSize, grid)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", imageio.ErrDecode)
	}
	cv := squareCanvas(img, segmentCanvas)
	cell := float64(segmentCanvas) / float64(grid)

	segs := make([]Segment, 0, grid*grid)
	for i := 0; i < grid*grid; i++ {
		x, y := i%grid, i/grid
		x0, x1 := int(float64(x)*cell), int(float64(x+1)*cell)
		y0, y1 := int(float64(y)*cell), int(float64(y+1)*cell)
		var sum [4]uint64
		for py := y0; py < y1; py++ {
			row := cv.Pix[py*cv.Stride:]
			for px := x0; px < x1; px++ {
				p := row[px*4 : px*4+4]
				sum[0] += uint64(p[0])
				sum[1] += uint64(p[1])
				sum[2] += uint64(p[2])
				sum[3] += uint64(p[3])
			}
		}
		n := uint64((x1 - x0) * (y1 - y0))
		avg := func(s uint64) uint8 { return uint8((s + n/2) / n) }
		c := color.NRGBA{R: avg(sum[0]), G: avg(sum[1]), B: avg(sum[2]), A: avg(sum[3])}
		segs = append(segs, newSegment(i, grid, c))
	}
	return segs, nil
}

// SegmentDataURL decodes a data URL and segments it.
func SegmentDataURL(url string, grid int) ([]Segment, error) {
	img, err := imageio.DecodeDataURL(url)
	if err != nil {
		return nil, err
	}
	return SegmentImage(img, grid)
}

// ReferenceSegments builds the expected segment grid straight from a module
// matrix surrounded by margin. The grid must come out square.
func ReferenceSegments(m *matrix.Matrix, margin geom.Sides) ([]Segment, error) {
	w := m.Size() + margin.Left + margin.Right
	h := m.Size() + margin.Top + margin.Bottom
	if w != h {
		return nil, fmt.Errorf("%w: margin %+v makes a %dx%d grid", ErrGridSize, margin, w, h)
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	segs := make([]Segment, 0, w*h)
	for i := 0; i < w*h; i++ {
		x, y := i%w-margin.Left, i/w-margin.Top
		c := white
		if m.Dark(x, y) {
			c = black
		}
		segs = append(segs, newSegment(i, w, c))
	}
	return segs, nil
}

// GridSizeFor returns the grid side a matrix produces with margin.
func GridSizeFor(m *matrix.Matrix, margin geom.Sides) int {
	return m.Size() + margin.Left + margin.Right
}
