// Package grid maps continuous board coordinates to discrete cell addresses
// and back to cell rectangles.
//
// Two addressing modes exist. Monospaced boards use one cell per document
// unit. Proportional boards split every unit 3:1 on each axis into a large
// (0.75) and a small (0.25) sub-cell, which gives square Kufic its thick and
// thin strokes. A proportional address is odd for the large sub-cell and even
// for the small one:
//
//	address = floor(c)*2 + 1   when frac(c) <  0.75
//	address = floor(c)*2 + 2   when frac(c) >= 0.75
package grid

import (
	"fmt"
	"math"
)

const (
	// Extent is the side of the board in document units.
	Extent = 100

	// LargeCell and SmallCell are the proportional sub-cell sizes.
	LargeCell = 0.75
	SmallCell = 0.25

	// split is the fractional offset where the small sub-cell begins.
	split = 0.75
)

// Point addresses a cell. Points are only ever produced by an Addresser.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Equal reports whether p and q address the same cell.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// IsSamePoint reports whether a and b address the same cell.
func IsSamePoint(a, b Point) bool {
	return a.Equal(b)
}

// Rect is the geometry of a cell in document units.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the middle of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Addresser is the contract of a grid geometry provider. The square grid is
// built in; other grids (circular) plug in through the same methods.
type Addresser interface {
	Point(x, y float64) Point
	RectFromPoint(p Point) Rect
	IsMainRect(p Point) bool
	Monospaced() bool
}

// Square is the square grid provider.
type Square struct {
	Mono bool
}

var _ Addresser = Square{}

// NewSquare returns a square grid in the given addressing mode.
func NewSquare(mono bool) Square {
	return Square{Mono: mono}
}

// Monospaced reports whether cells are uniform 1x1 units.
func (s Square) Monospaced() bool {
	return s.Mono
}

// Point returns the address of the cell containing (x, y).
func (s Square) Point(x, y float64) Point {
	if s.Mono {
		return Point{X: int(math.Ceil(x)), Y: int(math.Ceil(y))}
	}
	return Point{X: proportional(x), Y: proportional(y)}
}

func proportional(c float64) int {
	whole := math.Floor(c)
	if c-whole < split {
		return int(whole)*2 + 1
	}
	return int(whole)*2 + 2
}

// RectFromPoint decodes a cell address into its rectangle.
func (s Square) RectFromPoint(p Point) Rect {
	if s.Mono {
		return Rect{X: float64(p.X - 1), Y: float64(p.Y - 1), Width: 1, Height: 1}
	}
	x, w := decode(p.X)
	y, h := decode(p.Y)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// decode returns position and size of one proportional axis. Parity uses the
// low bit so negative addresses decode the same way as positive ones.
func decode(c int) (float64, float64) {
	if c&1 == 1 {
		return float64((c-1)/2), LargeCell
	}
	return float64((c-2)/2) + split, SmallCell
}

// IsMainRect reports whether p is a full square cell, the only valid anchor
// for line and arch tools.
func (s Square) IsMainRect(p Point) bool {
	r := s.RectFromPoint(p)
	return r.Width == r.Height && r.Width != SmallCell
}
