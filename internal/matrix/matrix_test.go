package matrix

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"rsc.io/qr/coding"
)

const sampleText = "qrcode.antfu.me"

func TestCodingEncoderSample(t *testing.T) {
	m, err := Encode(DefaultRequest(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	if m.Version() != 2 || m.Size() != 25 {
		t.Fatalf("version %d size %d, want 2 and 25", m.Version(), m.Size())
	}
	if m.Level() != LevelQ {
		t.Fatalf("boosted level = %s, want Q", m.Level())
	}
	for y := 16; y <= 20; y++ {
		for x := 16; x <= 20; x++ {
			if !m.IsAlignment(x, y) {
				t.Fatalf("(%d,%d) should be alignment", x, y)
			}
		}
	}
	if m.IsAlignment(15, 18) || m.IsAlignment(21, 18) {
		t.Fatal("alignment pattern too wide")
	}
	if !m.Dark(8, m.Size()-8) {
		t.Fatal("dark module is light")
	}
	if !m.Dark(0, 0) || m.Dark(1, 1) || !m.Dark(3, 3) || m.Dark(7, 7) {
		t.Fatal("top-left finder pattern is wrong")
	}
	if m.Dark(-1, 0) || m.Type(-1, 0) != TypeNone {
		t.Fatal("out of range reads should be light and untyped")
	}
}

func TestCodingEncoderNoBoost(t *testing.T) {
	r := DefaultRequest(sampleText)
	r.BoostECC = false
	m, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	if m.Level() != LevelM {
		t.Fatalf("level = %s, want M", m.Level())
	}
}

func TestCodingEncoderFixedMask(t *testing.T) {
	r := DefaultRequest(sampleText)
	r.Mask = 3
	m, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	if m.Mask() != 3 {
		t.Fatalf("mask = %d", m.Mask())
	}
}

func TestCodingEncoderAutoMaskIsLowestPenalty(t *testing.T) {
	auto, err := Encode(DefaultRequest(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	score := func(m *Matrix) int {
		dark := make([]bool, m.Size()*m.Size())
		for y := 0; y < m.Size(); y++ {
			for x := 0; x < m.Size(); x++ {
				dark[y*m.Size()+x] = m.Dark(x, y)
			}
		}
		return Penalty(dark, m.Size())
	}
	best := score(auto)
	for mask := 0; mask < 8; mask++ {
		r := DefaultRequest(sampleText)
		r.Mask = mask
		m, err := Encode(r)
		if err != nil {
			t.Fatal(err)
		}
		if s := score(m); s < best {
			t.Fatalf("mask %d scores %d, below the chosen mask %d (%d)", mask, s, auto.Mask(), best)
		}
	}
}

func TestCodingEncoderVersionBounds(t *testing.T) {
	r := DefaultRequest(sampleText)
	r.MinVersion = 5
	m, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	if m.Version() != 5 {
		t.Fatalf("version = %d, want 5", m.Version())
	}

	r = DefaultRequest(strings.Repeat("a", 40))
	r.MaxVersion = 1
	if _, err := Encode(r); !errors.Is(err, ErrDataTooLong) {
		t.Fatalf("err = %v, want ErrDataTooLong", err)
	}

	r = DefaultRequest(strings.Repeat("a", 3000))
	r.Level = LevelH
	if _, err := Encode(r); !errors.Is(err, ErrDataTooLong) {
		t.Fatalf("err = %v, want ErrDataTooLong", err)
	}
}

func TestRequestValidate(t *testing.T) {
	bad := []func(*Request){
		func(r *Request) { r.Mask = 8 },
		func(r *Request) { r.Mask = -2 },
		func(r *Request) { r.MinVersion = 0 },
		func(r *Request) { r.MaxVersion = 41 },
		func(r *Request) { r.MinVersion, r.MaxVersion = 10, 9 },
		func(r *Request) { r.Level = 7 },
	}
	for i, mutate := range bad {
		r := DefaultRequest(sampleText)
		mutate(&r)
		if _, err := Encode(r); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
}

func TestChooseMode(t *testing.T) {
	cases := map[string]segmentMode{
		"0123456789":  modeNumeric,
		"HELLO WORLD": modeAlphanumeric,
		"HTTP://A.B":  modeAlphanumeric,
		"hello":       modeByte,
		"":            modeByte,
		"héllo":       modeByte,
	}
	for in, want := range cases {
		if got := chooseMode(in); got != want {
			t.Errorf("chooseMode(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAlignmentCenters(t *testing.T) {
	cases := map[int][]int{
		1:  nil,
		2:  {6, 18},
		7:  {6, 22, 38},
		32: {6, 34, 60, 86, 112, 138},
		40: {6, 30, 58, 86, 114, 142, 170},
	}
	for v, want := range cases {
		if got := AlignmentCenters(v); !reflect.DeepEqual(got, want) {
			t.Errorf("AlignmentCenters(%d) = %v, want %v", v, got, want)
		}
	}
}

func TestLayoutTypes(t *testing.T) {
	size := SizeForVersion(7)
	types := Layout(7)
	at := func(x, y int) ModuleType { return types[y*size+x] }

	checks := []struct {
		x, y int
		want ModuleType
	}{
		{0, 0, TypeFinder},
		{3, 3, TypeFinder},
		{7, 7, TypeSeparator},
		{size - 8, 0, TypeSeparator},
		{10, 6, TypeTiming},
		{6, 10, TypeTiming},
		{8, 2, TypeFormat},
		{size - 1, 8, TypeFormat},
		{8, size - 8, TypeDarkModule},
		{size - 11, 0, TypeVersion},
		{5, size - 9, TypeVersion},
		{22, 22, TypeAlignment},
		{size - 1, size - 1, TypeData},
	}
	for _, c := range checks {
		if got := at(c.x, c.y); got != c.want {
			t.Errorf("type at (%d,%d) = %s, want %s", c.x, c.y, got, c.want)
		}
	}
}

// Layout must agree with the plan that rsc.io/qr/coding places bits into.
func TestLayoutMatchesPlanRoles(t *testing.T) {
	for _, v := range []int{1, 2, 7, 14} {
		plan, err := coding.NewPlan(coding.Version(v), coding.M, 0)
		if err != nil {
			t.Fatal(err)
		}
		size := SizeForVersion(v)
		types := Layout(v)
		for y, row := range plan.Pixel {
			for x, p := range row {
				typ := types[y*size+x]
				switch p.Role() {
				case coding.Data, coding.Check:
					if typ != TypeData {
						t.Fatalf("v%d (%d,%d): data bit typed %s", v, x, y, typ)
					}
				case coding.Position, coding.Alignment, coding.Timing, coding.Format, coding.PVersion:
					if !typ.IsFunction() {
						t.Fatalf("v%d (%d,%d): function module typed %s", v, x, y, typ)
					}
				}
			}
		}
	}
}

func TestAlternateBackends(t *testing.T) {
	for _, name := range []string{BackendYeqown, BackendSkip2} {
		enc, err := ByName(name)
		if err != nil {
			t.Fatal(err)
		}
		m, err := enc.Encode(DefaultRequest(sampleText))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m.Size() != 25 {
			t.Fatalf("%s: size %d", name, m.Size())
		}
		if !m.Dark(0, 0) || m.Dark(1, 1) || !m.Dark(m.Size()-1, 0) || m.Dark(7, 7) {
			t.Fatalf("%s: finder patterns wrong\n%s", name, m)
		}
		if m.Mask() != -1 {
			t.Fatalf("%s: mask = %d", name, m.Mask())
		}

		r := DefaultRequest(sampleText)
		r.Mask = 2
		if _, err := enc.Encode(r); !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%s: fixed mask err = %v", name, err)
		}
	}
	if _, err := ByName("nope"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("unknown backend err = %v", err)
	}
}

func TestPenaltyBlank(t *testing.T) {
	if got := Penalty(make([]bool, 21*21), 21); got != 2088 {
		t.Fatalf("Penalty(blank 21) = %d, want 2088", got)
	}
}

func TestNewPanicsOnShortInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(1, LevelL, 0, 21, make([]bool, 10), make([]ModuleType, 10))
}
