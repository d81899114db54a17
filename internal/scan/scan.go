// Package scan decodes QR codes from images with gozxing. It is the check
// that a styled render still reads.
package scan

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/imageio"
)

// ErrNotFound is reported when no binarizer or rotation yields a code.
var ErrNotFound = errors.New("no QR code found")

// Options tune a scan. The embedded adjustments run before decoding.
type Options struct {
	imageio.Adjustments
	// TryHarder spends more time looking for finder patterns.
	TryHarder bool `json:"tryHarder,omitempty"`
	// Rotate retries the image turned by 90, 180 and 270 degrees.
	Rotate bool `json:"rotate,omitempty"`
}

// DefaultOptions try hard and retry rotations, without preprocessing.
func DefaultOptions() Options {
	return Options{TryHarder: true, Rotate: true}
}

// Result is a decoded code.
type Result struct {
	Text string `json:"text"`
	// Points are the finder pattern centres in the preprocessed image.
	Points    []geom.Point `json:"points"`
	Rotation  int          `json:"rotation"`
	Binarizer string       `json:"binarizer"`
}

// ScanResult carries either a Result or the reason there is none. Not
// finding a code is an outcome, not a failure of the call.
type ScanResult struct {
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// OK reports whether a code was decoded.
func (r ScanResult) OK() bool { return r.Err == nil && r.Result != nil }

type binarizer struct {
	name string
	make func(gozxing.LuminanceSource) gozxing.Binarizer
}

var binarizers = []binarizer{
	{"hybrid", gozxing.NewHybridBinarizer},
	{"global-histogram", gozxing.NewGlobalHistgramBinarizer},
}

// Decode looks for a QR code in img. Each rotation is tried with the hybrid
// binarizer first, then the global histogram one.
func Decode(img image.Image, opts Options) ScanResult {
	if img == nil || img.Bounds().Empty() {
		return ScanResult{Err: fmt.Errorf("%w: empty image", imageio.ErrDecode)}
	}
	img = imageio.Adjust(img, opts.Adjustments)

	hints := map[gozxing.DecodeHintType]interface{}{}
	if opts.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	type variant struct {
		img      image.Image
		rotation int
	}
	variants := []variant{{img, 0}}
	if opts.Rotate {
		variants = append(variants,
			variant{imaging.Rotate90(img), 90},
			variant{imaging.Rotate180(img), 180},
			variant{imaging.Rotate270(img), 270},
		)
	}

	reader := qrcode.NewQRCodeReader()
	var last error
	for _, v := range variants {
		src := gozxing.NewLuminanceSourceFromImage(v.img)
		for _, b := range binarizers {
			bmp, err := gozxing.NewBinaryBitmap(b.make(src))
			if err != nil {
				last = err
				continue
			}
			res, err := reader.Decode(bmp, hints)
			if err != nil {
				last = err
				continue
			}
			out := &Result{Text: res.GetText(), Rotation: v.rotation, Binarizer: b.name}
			for _, p := range res.GetResultPoints() {
				out.Points = append(out.Points, geom.Point{X: p.GetX(), Y: p.GetY()})
			}
			return ScanResult{Result: out}
		}
	}
	if last != nil {
		return ScanResult{Err: fmt.Errorf("%w: %v", ErrNotFound, last)}
	}
	return ScanResult{Err: ErrNotFound}
}

// DecodeDataURL decodes the image in a data URL and scans it.
func DecodeDataURL(url string, opts Options) ScanResult {
	img, err := imageio.DecodeDataURL(url)
	if err != nil {
		return ScanResult{Err: err}
	}
	return Decode(img, opts)
}
