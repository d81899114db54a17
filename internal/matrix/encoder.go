package matrix

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataTooLong is returned when the text does not fit any permitted version.
	ErrDataTooLong = errors.New("data too long for the permitted versions")
	// ErrInvalidRequest is returned for out-of-range versions, masks or levels.
	ErrInvalidRequest = errors.New("invalid encode request")
	// ErrUnsupported is returned when a backend cannot honour a request field.
	ErrUnsupported = errors.New("request not supported by encoder backend")
)

const (
	MinVersion = 1
	MaxVersion = 40
)

// Request describes what to encode.
type Request struct {
	Text       string
	Level      Level
	MinVersion int
	MaxVersion int
	// Mask is 0–7, or -1 to pick the mask with the lowest penalty.
	Mask int
	// BoostECC raises the level as long as the data still fits the version.
	BoostECC bool
}

// DefaultRequest returns a request for text with level M, versions 1–40,
// automatic mask and boosted error correction.
func DefaultRequest(text string) Request {
	return Request{
		Text:       text,
		Level:      LevelM,
		MinVersion: MinVersion,
		MaxVersion: MaxVersion,
		Mask:       -1,
		BoostECC:   true,
	}
}

// Validate checks the numeric ranges of r.
func (r Request) Validate() error {
	if r.MinVersion < MinVersion || r.MaxVersion > MaxVersion || r.MinVersion > r.MaxVersion {
		return fmt.Errorf("%w: versions %d-%d", ErrInvalidRequest, r.MinVersion, r.MaxVersion)
	}
	if r.Mask < -1 || r.Mask > 7 {
		return fmt.Errorf("%w: mask %d", ErrInvalidRequest, r.Mask)
	}
	if r.Level < LevelL || r.Level > LevelH {
		return fmt.Errorf("%w: level %d", ErrInvalidRequest, r.Level)
	}
	return nil
}

// Encoder turns a Request into a Matrix.
type Encoder interface {
	Encode(r Request) (*Matrix, error)
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(r Request) (*Matrix, error)

// Encode calls f.
func (f EncoderFunc) Encode(r Request) (*Matrix, error) { return f(r) }

// Backend names accepted by ByName.
const (
	BackendCoding = "coding"
	BackendYeqown = "yeqown"
	BackendSkip2  = "skip2"
)

// Backends lists the registered backend names.
func Backends() []string {
	return []string{BackendCoding, BackendYeqown, BackendSkip2}
}

// ByName returns the encoder backend with the given name. The empty name is
// the default coding backend.
func ByName(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendCoding:
		return CodingEncoder{}, nil
	case BackendYeqown:
		return YeqownEncoder{}, nil
	case BackendSkip2:
		return Skip2Encoder{}, nil
	}
	return nil, fmt.Errorf("%w: unknown encoder %q", ErrInvalidRequest, name)
}

// Encode runs r through the default backend.
func Encode(r Request) (*Matrix, error) {
	return CodingEncoder{}.Encode(r)
}

type segmentMode int

const (
	modeNumeric segmentMode = iota
	modeAlphanumeric
	modeByte
)

const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// chooseMode picks the most compact single-segment mode for text.
func chooseMode(text string) segmentMode {
	numeric, alpha := true, true
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			numeric = false
		}
		if strings.IndexByte(alphanumericCharset, c) < 0 {
			alpha = false
		}
	}
	switch {
	case numeric && text != "":
		return modeNumeric
	case alpha && text != "":
		return modeAlphanumeric
	}
	return modeByte
}
