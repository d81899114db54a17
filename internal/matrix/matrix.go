// Package matrix is the read-only QR module grid consumed by the renderer and
// the diff engine, together with the encoder backends that produce it.
package matrix

import (
	"fmt"
	"strings"
)

// ModuleType is the structural role of a module.
type ModuleType uint8

const (
	TypeNone ModuleType = iota
	TypeFinder
	TypeSeparator
	TypeAlignment
	TypeTiming
	TypeFormat
	TypeVersion
	TypeDarkModule
	TypeData
)

var typeNames = [...]string{"none", "finder", "separator", "alignment", "timing", "format", "version", "dark", "data"}

func (t ModuleType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ModuleType(%d)", t)
}

// IsFunction reports whether t is a function pattern (anything but data).
func (t ModuleType) IsFunction() bool {
	return t != TypeNone && t != TypeData
}

// Level is an error correction level.
type Level int

const (
	LevelL Level = iota
	LevelM
	LevelQ
	LevelH
)

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel maps "L", "M", "Q" or "H" (any case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return LevelL, nil
	case "M":
		return LevelM, nil
	case "Q":
		return LevelQ, nil
	case "H":
		return LevelH, nil
	}
	return 0, fmt.Errorf("%w: ecc level %q", ErrInvalidRequest, s)
}

// Matrix is an immutable size×size module grid. Reads outside the grid are
// light and typed TypeNone.
type Matrix struct {
	size    int
	version int
	level   Level
	mask    int
	dark    []bool
	types   []ModuleType
}

// New builds a Matrix from row-major dark bits and types. It panics when the
// slices do not hold size*size entries.
func New(version int, level Level, mask int, size int, dark []bool, types []ModuleType) *Matrix {
	if len(dark) != size*size || len(types) != size*size {
		panic(fmt.Sprintf("matrix: want %d modules, got %d bits and %d types", size*size, len(dark), len(types)))
	}
	return &Matrix{
		size:    size,
		version: version,
		level:   level,
		mask:    mask,
		dark:    append([]bool(nil), dark...),
		types:   append([]ModuleType(nil), types...),
	}
}

// Size is the number of modules per side.
func (m *Matrix) Size() int { return m.size }

// Version is the QR version (1–40).
func (m *Matrix) Version() int { return m.version }

// Level is the error correction level actually used.
func (m *Matrix) Level() Level { return m.level }

// Mask is the mask pattern used, or -1 when the backend does not report it.
func (m *Matrix) Mask() int { return m.mask }

func (m *Matrix) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.size && y < m.size
}

// Dark reports whether the module at (x, y) is dark.
func (m *Matrix) Dark(x, y int) bool {
	if !m.in(x, y) {
		return false
	}
	return m.dark[y*m.size+x]
}

// Type returns the structural type of the module at (x, y).
func (m *Matrix) Type(x, y int) ModuleType {
	if !m.in(x, y) {
		return TypeNone
	}
	return m.types[y*m.size+x]
}

// IsAlignment reports whether (x, y) belongs to an alignment pattern.
func (m *Matrix) IsAlignment(x, y int) bool {
	return m.Type(x, y) == TypeAlignment
}

// String draws the matrix with '#' for dark modules, for debugging.
func (m *Matrix) String() string {
	var b strings.Builder
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if m.Dark(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
