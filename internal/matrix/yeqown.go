package matrix

import (
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
)

// YeqownEncoder encodes with github.com/yeqown/go-qrcode/v2. The library
// always picks its own version and mask, so a request is rejected with
// ErrUnsupported when the chosen version falls outside the bounds, and the
// resulting matrix reports mask -1. BoostECC is ignored.
type YeqownEncoder struct{}

var yeqownLevels = [...]qrcode.EncodeOption{
	LevelL: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow),
	LevelM: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	LevelQ: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart),
	LevelH: qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
}

// matrixCapture is a qrcode.Writer that keeps the bitmap instead of drawing it.
type matrixCapture struct {
	size int
	dark []bool
}

var _ qrcode.Writer = (*matrixCapture)(nil)

func (w *matrixCapture) Write(mat qrcode.Matrix) error {
	w.size = mat.Width()
	w.dark = make([]bool, w.size*w.size)
	mat.Iterate(qrcode.IterDirection_ROW, func(x int, y int, v qrcode.QRValue) {
		if x < w.size && y < w.size {
			w.dark[y*w.size+x] = v.IsSet()
		}
	})
	return nil
}

func (w *matrixCapture) Close() error { return nil }

// Encode implements Encoder.
func (YeqownEncoder) Encode(r Request) (*Matrix, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Mask >= 0 {
		return nil, fmt.Errorf("%w: yeqown cannot fix the mask", ErrUnsupported)
	}
	qrc, err := qrcode.NewWith(r.Text, yeqownLevels[r.Level])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataTooLong, err)
	}
	capture := &matrixCapture{}
	if err := qrc.Save(capture); err != nil {
		return nil, fmt.Errorf("yeqown save: %w", err)
	}
	version := VersionForSize(capture.size)
	if version < r.MinVersion || version > r.MaxVersion {
		return nil, fmt.Errorf("%w: yeqown chose version %d outside %d-%d", ErrUnsupported, version, r.MinVersion, r.MaxVersion)
	}
	return New(version, r.Level, -1, capture.size, capture.dark, Layout(version)), nil
}
