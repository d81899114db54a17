package matrix

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Skip2Encoder encodes with github.com/skip2/go-qrcode. Version bounds are
// honoured by forcing each permitted version in turn. BoostECC is ignored and
// the mask is always the library's choice.
type Skip2Encoder struct{}

var skip2Levels = [...]qrcode.RecoveryLevel{
	LevelL: qrcode.Low,
	LevelM: qrcode.Medium,
	LevelQ: qrcode.High,
	LevelH: qrcode.Highest,
}

// Encode implements Encoder.
func (Skip2Encoder) Encode(r Request) (*Matrix, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Mask >= 0 {
		return nil, fmt.Errorf("%w: skip2 cannot fix the mask", ErrUnsupported)
	}
	var (
		q   *qrcode.QRCode
		err error
	)
	for v := r.MinVersion; v <= r.MaxVersion; v++ {
		q, err = qrcode.NewWithForcedVersion(r.Text, v, skip2Levels[r.Level])
		if err == nil {
			break
		}
	}
	if q == nil {
		return nil, fmt.Errorf("%w: %v", ErrDataTooLong, err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	size := len(bitmap)
	dark := make([]bool, size*size)
	for y, row := range bitmap {
		for x, set := range row {
			if x < size {
				dark[y*size+x] = set
			}
		}
	}
	version := VersionForSize(size)
	return New(version, r.Level, -1, size, dark, Layout(version)), nil
}
