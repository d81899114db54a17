package render

import (
	"sort"

	"github.com/cristianadrielbraun/qrtoolkit/internal/geom"
	"github.com/cristianadrielbraun/qrtoolkit/internal/matrix"
	"github.com/cristianadrielbraun/qrtoolkit/internal/rng"
)

// MarkerPosition tags the marker block a cell belongs to.
type MarkerPosition string

const (
	TopLeft    MarkerPosition = "top-left"
	TopRight   MarkerPosition = "top-right"
	BottomLeft MarkerPosition = "bottom-left"
	Sub        MarkerPosition = "sub"
)

// MarkerInfo locates a cell inside a finder (7×7) or alignment (5×5) block.
type MarkerInfo struct {
	X, Y     int
	Position MarkerPosition
	// Index is 0, 1 or 2 for the finders and -1 for alignment blocks.
	Index    int
	IsCenter bool
	IsBorder bool
	IsInner  bool
	Style    ResolvedMarker
}

// PixelInfo is the classification of one cell of the expanded grid.
type PixelInfo struct {
	// X and Y are target cell coordinates, after rotation and margin offset.
	X, Y int
	// ModuleX and ModuleY are symbol coordinates before rotation. Margin
	// cells are negative or ≥ size.
	ModuleX, ModuleY int
	IsDark           bool
	IsBorder         bool
	IsIgnored        bool
	Marker           *MarkerInfo
}

func (p *PixelInfo) order() int {
	switch {
	case p.Marker == nil:
		return 4
	case p.Marker.IsBorder:
		return 0
	case p.Marker.IsCenter:
		return 1
	case p.Marker.IsInner:
		return 2
	}
	return 4
}

// Grid holds the classified cells in draw order and indexes them by target
// coordinates.
type Grid struct {
	Width, Height int
	Pixels        []PixelInfo
	index         []int32
}

// At returns the cell at target coordinates (x, y).
func (g *Grid) At(x, y int) (*PixelInfo, bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return nil, false
	}
	i := g.index[y*g.Width+x]
	if i < 0 {
		return nil, false
	}
	return &g.Pixels[i], true
}

type classifier struct {
	s     *State
	m     *matrix.Matrix
	size  int
	sides geom.Sides
}

// Classify computes the PixelInfo of every cell in
// [-left, size+right) × [-top, size+bottom) and returns them sorted so marker
// borders draw first, then marker centres, then marker inner cells, then the
// rest.
func Classify(m *matrix.Matrix, s *State) *Grid {
	c := &classifier{s: s, m: m, size: m.Size(), sides: geom.ResolveMargin(s.Margin)}
	w := c.size + c.sides.Left + c.sides.Right
	h := c.size + c.sides.Top + c.sides.Bottom

	pixels := make([]PixelInfo, 0, w*h)
	for y := -c.sides.Top; y < c.size+c.sides.Bottom; y++ {
		for x := -c.sides.Left; x < c.size+c.sides.Right; x++ {
			pixels = append(pixels, c.info(x, y))
		}
	}
	sort.SliceStable(pixels, func(i, j int) bool {
		return pixels[i].order() < pixels[j].order()
	})

	g := &Grid{Width: w, Height: h, Pixels: pixels, index: make([]int32, w*h)}
	for i := range g.index {
		g.index[i] = -1
	}
	for i := range pixels {
		p := &pixels[i]
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			continue
		}
		if k := p.Y*w + p.X; g.index[k] < 0 {
			g.index[k] = int32(i)
		}
	}
	return g
}

func (c *classifier) isBorder(x, y int) bool {
	size := c.size
	var border bool
	if c.s.MarginNoiseSpace == SpaceFull {
		border = x < -1 || y < -1 || x > size || y > size
	} else {
		border = x < 0 || y < 0 || x >= size || y >= size
	}

	switch c.s.MarginNoiseSpace {
	case SpaceMarker:
		if x >= -1 && x <= 7 && y >= -1 && y <= 7 {
			border = false
		}
		if x >= -1 && x <= 7 && y >= size-8 && y <= size {
			border = false
		}
		if x >= size-8 && x <= size && y >= -1 && y <= 7 {
			border = false
		}
	case SpaceMinimal, SpaceExtreme:
		if y >= 2 && y <= 4 && x >= -1 && x <= size {
			border = false
		}
		if x >= 2 && x <= 4 && y >= -1 && y <= size {
			border = false
		}
		if y >= size-5 && y <= size-3 && x >= -1 && x <= 7 {
			border = false
		}
		if x >= size-5 && x <= size-3 && y >= -1 && y <= 7 {
			border = false
		}
	}
	return border
}

// keeps reports whether a module type is drawn under the render subset.
func keeps(points string, t matrix.ModuleType) bool {
	switch points {
	case PointsData:
		return t == matrix.TypeData
	case PointsFunction:
		return t.IsFunction()
	case PointsGuide:
		return t == matrix.TypeFinder || t == matrix.TypeSeparator || t == matrix.TypeAlignment || t == matrix.TypeTiming
	case PointsMarker:
		return t == matrix.TypeFinder || t == matrix.TypeAlignment
	}
	return true
}

func newMarker(x, y int, pos MarkerPosition, index int, style ResolvedMarker) *MarkerInfo {
	mi := &MarkerInfo{X: x, Y: y, Position: pos, Index: index, Style: style}
	if pos == Sub {
		mi.IsInner = x == 2 && y == 2
		mi.IsCenter = mi.IsInner
	} else {
		mi.IsInner = x >= 2 && x <= 4 && y >= 2 && y <= 4
		mi.IsCenter = x == 3 && y == 3
	}
	mi.IsBorder = !mi.IsInner
	return mi
}

func (c *classifier) marker(x, y int) *MarkerInfo {
	size := c.size
	switch {
	case x >= 0 && x < 7 && y >= 0 && y < 7:
		return newMarker(x, y, TopLeft, 0, c.s.markerFor(0))
	case x >= size-7 && x < size && y >= 0 && y < 7:
		return newMarker(x-size+7, y, TopRight, 1, c.s.markerFor(1))
	case x >= 0 && x < 7 && y >= size-7 && y < size:
		return newMarker(x, y-size+7, BottomLeft, 2, c.s.markerFor(2))
	case c.m.IsAlignment(x, y):
		dx, dy := x, y
		for c.m.IsAlignment(dx, dy) {
			dx--
		}
		dx++
		for c.m.IsAlignment(dx, dy) {
			dy--
		}
		dy++
		sub := ResolvedMarker{PixelStyle: c.s.PixelStyle, Shape: c.s.MarkerSub, InnerShape: ShapeSquare}
		return newMarker(x-dx, y-dy, Sub, -1, sub)
	}
	return nil
}

func (c *classifier) info(x, y int) PixelInfo {
	s := c.s
	size := c.size
	p := PixelInfo{ModuleX: x, ModuleY: y}

	p.IsBorder = c.isBorder(x, y)
	if p.IsBorder && s.MarginNoise {
		p.IsDark = rng.Float(s.Seed, rng.Border, x, y) < s.MarginNoiseRate
	} else {
		p.IsDark = c.m.Dark(x, y)
	}
	if s.RenderPointsType != PointsAll && s.RenderPointsType != "" && !keeps(s.RenderPointsType, c.m.Type(x, y)) {
		p.IsDark = false
		p.IsIgnored = true
	}

	if mk := c.marker(x, y); mk != nil {
		p.Marker = mk
		p.IsDark = carve(mk, p.IsDark, s.Seed, x, y)
	}

	if s.MarginNoiseSpace == SpaceExtreme {
		for _, z := range [][2]int{
			{-1, -1}, {-1, 5}, {-1, size - 2}, {-1, size - 8},
			{5, -1}, {5, 5}, {5, size - 2}, {5, size - 8},
			{size - 2, -1}, {size - 2, 5}, {size - 8, -1}, {size - 8, 5},
		} {
			if x >= z[0] && x < z[0]+3 && y >= z[1] && y < z[1]+3 {
				p.IsDark = false
				p.IsBorder = true
			}
		}
	}

	tx, ty := x, y
	if x >= -1 && y >= -1 && x < size+1 && y < size+1 {
		switch s.Rotate {
		case 90:
			tx, ty = y, size-x-1
		case 180:
			tx, ty = size-x-1, size-y-1
		case 270:
			tx, ty = size-y-1, x
		}
	}
	p.X = tx + c.sides.Left
	p.Y = ty + c.sides.Top
	return p
}

// carve applies the marker shape silhouette to a cell's darkness.
func carve(mk *MarkerInfo, dark bool, seed int64, x, y int) bool {
	shape := mk.Style.Shape
	if mk.Position != Sub {
		if mk.IsBorder {
			switch shape {
			case ShapeCircle, ShapeOctagon:
				dark = false
			case ShapePlus:
				if !((mk.X >= 2 && mk.X <= 4) || (mk.Y >= 2 && mk.Y <= 4)) {
					dark = false
				}
			case ShapeBox:
				if !((mk.X >= 1 && mk.X <= 5) || (mk.Y >= 1 && mk.Y <= 5)) {
					dark = false
				}
			case ShapeRandom:
				if mk.X != 3 && mk.Y != 3 && dark {
					dark = rng.Float(seed, rng.Marker, x, y) < 0.5
				}
			case ShapeTinyPlus:
				if mk.X != 3 && mk.Y != 3 {
					dark = false
				}
			}
		}
		if mk.IsInner && mk.Style.InnerShape == ShapePlus && mk.X != 3 && mk.Y != 3 {
			dark = false
		}
		return dark
	}

	if mk.IsBorder && (shape == ShapeCircle || shape == ShapeOctagon) {
		dark = false
	}
	switch shape {
	case ShapePlus, ShapeTinyPlus:
		if mk.X != 2 && mk.Y != 2 {
			dark = false
		}
	case ShapeBox:
		if !((mk.X >= 1 && mk.X <= 3) || (mk.Y >= 1 && mk.Y <= 3)) {
			dark = false
		}
	case ShapeRandom:
		if mk.X != 2 && mk.Y != 2 && dark {
			dark = rng.Float(seed, rng.Marker, x, y) < 0.5
		}
	}
	return dark
}
