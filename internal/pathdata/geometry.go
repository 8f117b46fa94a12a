package pathdata

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Inflate grows the box by d on every side.
func (b Box) Inflate(d float64) Box {
	return Box{b.MinX - d, b.MinY - d, b.MaxX + d, b.MaxY + d}
}

func (b Box) extend(p Pt, ok bool) (Box, bool) {
	if !ok {
		return Box{p.X, p.Y, p.X, p.Y}, true
	}
	return b.Union(Box{p.X, p.Y, p.X, p.Y}), true
}
