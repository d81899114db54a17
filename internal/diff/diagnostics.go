package diff

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cristianadrielbraun/qrtoolkit/internal/canvas"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
	"github.com/cristianadrielbraun/qrtoolkit/internal/render"
)

var (
	shouldBeDark  = color.NRGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
	shouldBeLight = color.NRGBA{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
)

// GridOverlay draws the segment grid, outlines every mismatch and numbers
// them in sorted order over the centred square of img. Cells that should be
// dark are outlined red, cells that should be light blue.
func GridOverlay(img image.Image, d *Diff, cfg Config) (*image.RGBA, error) {
	if d == nil || d.GridSize <= 0 {
		return nil, fmt.Errorf("%w: empty diff", ErrGridSize)
	}
	gc, err := render.ParseColor(cfg.GridColor)
	if err != nil {
		return nil, fmt.Errorf("%w: grid color: %v", ErrInvalidConfig, err)
	}
	gc.A = uint8(float64(gc.A)*cfg.GridOpacity + 0.5)

	out := imageio.ToRGBA(squareCanvas(img, segmentCanvas))
	cv := canvas.Wrap(out)
	cell := float64(segmentCanvas) / float64(d.GridSize)

	for i := 0; i <= d.GridSize; i++ {
		p := math.Min(math.Round(float64(i)*cell), segmentCanvas-1)
		cv.FillRect(p, 0, 1, segmentCanvas, gc)
		cv.FillRect(0, p, segmentCanvas, 1, gc)
	}

	outline := func(s Segment, col color.NRGBA) {
		x, y := math.Round(float64(s.X)*cell), math.Round(float64(s.Y)*cell)
		w := math.Round(float64(s.X+1)*cell) - x
		h := math.Round(float64(s.Y+1)*cell) - y
		cv.FillRect(x, y, w, 2, col)
		cv.FillRect(x, y+h-2, w, 2, col)
		cv.FillRect(x, y, 2, h, col)
		cv.FillRect(x+w-2, y, 2, h, col)
	}
	label := func(s Segment, n int, col color.NRGBA) {
		dr := &font.Drawer{
			Dst:  out,
			Src:  image.NewUniform(col),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(int(float64(s.X)*cell)+3, int(float64(s.Y)*cell)+13),
		}
		dr.DrawString(strconv.Itoa(n))
	}
	for i, s := range d.MismatchLight {
		outline(s, shouldBeDark)
		if cell >= 16 {
			label(s, i+1, shouldBeDark)
		}
	}
	for i, s := range d.MismatchDark {
		outline(s, shouldBeLight)
		if cell >= 16 {
			label(s, i+1, shouldBeLight)
		}
	}
	return out, nil
}

// EncodeBlink writes an APNG alternating between the captured image and its
// corrected version, for spotting which cells the correction touches.
func EncodeBlink(w io.Writer, captured, corrected image.Image, delayMs int) error {
	if captured.Bounds().Size() != corrected.Bounds().Size() {
		return fmt.Errorf("%w: blink frames differ in size", ErrGridSize)
	}
	return imageio.EncodeAPNG(w, []image.Image{captured, corrected}, delayMs)
}
