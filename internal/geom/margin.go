// Package geom holds the small pieces of geometry shared by the renderer and
// the diff engine: margin specs, point projection and quadrilaterals.
package geom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMargin is returned when a margin value cannot be parsed.
var ErrMargin = errors.New("invalid margin")

// Sides is a resolved four-sided margin, in modules.
type Sides struct {
	Top    int `json:"top" validate:"gte=0"`
	Right  int `json:"right" validate:"gte=0"`
	Bottom int `json:"bottom" validate:"gte=0"`
	Left   int `json:"left" validate:"gte=0"`
}

// Min returns the smallest side.
func (s Sides) Min() int {
	return min(s.Top, s.Right, s.Bottom, s.Left)
}

// Margin is either one value for every side or four independent sides.
// The zero value is a uniform margin of 0.
type Margin struct {
	Value   int    `validate:"gte=0"`
	PerSide *Sides `validate:"omitempty"`
}

// Uniform returns a margin with n modules on every side.
func Uniform(n int) Margin { return Margin{Value: n} }

// PerSide returns a margin with independent sides.
func PerSide(top, right, bottom, left int) Margin {
	return Margin{PerSide: &Sides{Top: top, Right: right, Bottom: bottom, Left: left}}
}

// ResolveMargin expands a scalar margin to four equal sides and passes a
// per-side margin through unchanged.
func ResolveMargin(m Margin) Sides {
	if m.PerSide != nil {
		return *m.PerSide
	}
	return Sides{Top: m.Value, Right: m.Value, Bottom: m.Value, Left: m.Value}
}

// ParseMargin accepts "n" or "top,right,bottom,left".
func ParseMargin(s string) (Margin, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Margin{}, fmt.Errorf("%w: empty", ErrMargin)
	}
	parts := strings.Split(s, ",")
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q", ErrMargin, s)
		}
		return Uniform(n), nil
	case 4:
		var v [4]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return Margin{}, fmt.Errorf("%w: %q", ErrMargin, s)
			}
			v[i] = n
		}
		return PerSide(v[0], v[1], v[2], v[3]), nil
	default:
		return Margin{}, fmt.Errorf("%w: want 1 or 4 values, got %d", ErrMargin, len(parts))
	}
}

// String renders the margin in the form ParseMargin accepts.
func (m Margin) String() string {
	if m.PerSide == nil {
		return strconv.Itoa(m.Value)
	}
	s := m.PerSide
	return fmt.Sprintf("%d,%d,%d,%d", s.Top, s.Right, s.Bottom, s.Left)
}

// MarshalJSON writes a number for uniform margins and an object otherwise.
func (m Margin) MarshalJSON() ([]byte, error) {
	if m.PerSide == nil {
		return json.Marshal(m.Value)
	}
	return json.Marshal(m.PerSide)
}

// UnmarshalJSON accepts a number or a {top,right,bottom,left} object.
func (m *Margin) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var s Sides
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrMargin, err)
		}
		*m = Margin{PerSide: &s}
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrMargin, err)
	}
	*m = Uniform(n)
	return nil
}
