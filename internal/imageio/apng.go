package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/kettek/apng"
)

// EncodeAPNG writes frames as an animated PNG that shows each frame for
// delayMs milliseconds and loops forever.
func EncodeAPNG(w io.Writer, frames []image.Image, delayMs int) error {
	if len(frames) == 0 {
		return errors.New("encode apng: no frames")
	}
	a := apng.APNG{Frames: make([]apng.Frame, 0, len(frames))}
	for _, img := range frames {
		a.Frames = append(a.Frames, apng.Frame{
			Image:            img,
			DelayNumerator:   uint16(delayMs),
			DelayDenominator: 1000,
		})
	}
	if err := apng.Encode(w, a); err != nil {
		return fmt.Errorf("encode apng: %w", err)
	}
	return nil
}

// DecodeAPNG returns the frames of an animated PNG.
func DecodeAPNG(r io.Reader) ([]image.Image, error) {
	a, err := apng.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: apng: %v", ErrDecode, err)
	}
	frames := make([]image.Image, 0, len(a.Frames))
	for _, f := range a.Frames {
		frames = append(frames, f.Image)
	}
	return frames, nil
}
