package matrix

import (
	"fmt"

	"rsc.io/qr/coding"
)

// CodingEncoder is the default backend, built on rsc.io/qr/coding. It honours
// every Request field: version bounds, fixed or penalty-selected masks and
// error correction boosting.
type CodingEncoder struct{}

var codingLevels = [...]coding.Level{LevelL: coding.L, LevelM: coding.M, LevelQ: coding.Q, LevelH: coding.H}

func segmentFor(text string) coding.Encoding {
	switch chooseMode(text) {
	case modeNumeric:
		return coding.Num(text)
	case modeAlphanumeric:
		return coding.Alpha(text)
	}
	return coding.String(text)
}

// Encode implements Encoder.
func (CodingEncoder) Encode(r Request) (*Matrix, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	seg := segmentFor(r.Text)
	if err := seg.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	fits := func(v int, l Level) bool {
		plan, err := coding.NewPlan(coding.Version(v), codingLevels[l], 0)
		if err != nil {
			return false
		}
		var b coding.Bits
		seg.Encode(&b, plan.Version)
		return b.Bits() <= plan.DataBytes*8
	}

	version := 0
	for v := r.MinVersion; v <= r.MaxVersion; v++ {
		if fits(v, r.Level) {
			version = v
			break
		}
	}
	if version == 0 {
		return nil, fmt.Errorf("%w: %d bytes at level %s", ErrDataTooLong, len(r.Text), r.Level)
	}

	level := r.Level
	if r.BoostECC {
		for l := level + 1; l <= LevelH; l++ {
			if fits(version, l) {
				level = l
			}
		}
	}

	masks := []int{r.Mask}
	if r.Mask < 0 {
		masks = []int{0, 1, 2, 3, 4, 5, 6, 7}
	}

	size := SizeForVersion(version)
	var (
		best      []bool
		bestMask  = -1
		bestScore int
	)
	for _, mask := range masks {
		plan, err := coding.NewPlan(coding.Version(version), codingLevels[level], coding.Mask(mask))
		if err != nil {
			return nil, fmt.Errorf("plan version %d mask %d: %w", version, mask, err)
		}
		code, err := plan.Encode(seg)
		if err != nil {
			return nil, fmt.Errorf("encode version %d mask %d: %w", version, mask, err)
		}
		dark := make([]bool, size*size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				dark[y*size+x] = code.Black(x, y)
			}
		}
		if len(masks) == 1 {
			best, bestMask = dark, mask
			break
		}
		score := Penalty(dark, size)
		if bestMask < 0 || score < bestScore {
			best, bestMask, bestScore = dark, mask, score
		}
	}

	return New(version, level, bestMask, size, best, Layout(version)), nil
}
