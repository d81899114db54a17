package matrix

import "math"

// SizeForVersion is the module count per side for a version.
func SizeForVersion(version int) int { return 17 + 4*version }

// VersionForSize is the inverse of SizeForVersion.
func VersionForSize(size int) int { return (size - 17) / 4 }

// AlignmentCenters returns the row/column coordinates of alignment pattern
// centres for a version, in ascending order.
func AlignmentCenters(version int) []int {
	if version < 2 {
		return nil
	}
	n := version/7 + 2
	step := 26
	if version != 32 {
		step = int(math.Ceil(float64(version*4+4)/float64(n*2-2))) * 2
	}
	out := make([]int, n)
	out[0] = 6
	pos := SizeForVersion(version) - 7
	for i := n - 1; i >= 1; i-- {
		out[i] = pos
		pos -= step
	}
	return out
}

// Layout returns the row-major structural type grid of a version. Modules not
// claimed by a function pattern are TypeData. The yeqown and skip2 backends
// expose no module roles, so every backend shares this grid instead of the
// rsc.io/qr plan.
func Layout(version int) []ModuleType {
	size := SizeForVersion(version)
	t := make([]ModuleType, size*size)
	set := func(x, y int, v ModuleType) {
		if x >= 0 && y >= 0 && x < size && y < size {
			t[y*size+x] = v
		}
	}

	// finders with their separators
	for _, c := range [][2]int{{0, 0}, {size - 7, 0}, {0, size - 7}} {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				if dx >= 0 && dx < 7 && dy >= 0 && dy < 7 {
					set(c[0]+dx, c[1]+dy, TypeFinder)
				} else {
					set(c[0]+dx, c[1]+dy, TypeSeparator)
				}
			}
		}
	}

	for i := 8; i < size-8; i++ {
		set(i, 6, TypeTiming)
		set(6, i, TypeTiming)
	}

	centers := AlignmentCenters(version)
	last := len(centers) - 1
	for i, cy := range centers {
		for j, cx := range centers {
			if (i == 0 && j == 0) || (i == 0 && j == last) || (i == last && j == 0) {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					set(cx+dx, cy+dy, TypeAlignment)
				}
			}
		}
	}

	for i := 0; i <= 8; i++ {
		if i != 6 {
			set(8, i, TypeFormat)
			set(i, 8, TypeFormat)
		}
	}
	for i := 0; i < 8; i++ {
		set(size-1-i, 8, TypeFormat)
	}
	for i := 0; i < 7; i++ {
		set(8, size-1-i, TypeFormat)
	}
	set(8, size-8, TypeDarkModule)

	if version >= 7 {
		for a := 0; a < 6; a++ {
			for b := 0; b < 3; b++ {
				set(size-11+b, a, TypeVersion)
				set(a, size-11+b, TypeVersion)
			}
		}
	}

	for i := range t {
		if t[i] == TypeNone {
			t[i] = TypeData
		}
	}
	return t
}
