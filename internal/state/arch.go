package state

import (
	"fmt"
	"math"

	"KufiCraft/internal/grid"
)

// Arch builds an arch item between two cells using the current direction
// and color.
func (b *Board) Arch(start, end grid.Point) Arch {
	return Arch{Start: start, End: end, Dir: b.archDir, Stroke: b.color}
}

// Radius returns the arc radius joining two cells, or 0 when the cells are
// not on a shared row, column or diagonal.
func (b *Board) Radius(p1, p2 grid.Point) float64 {
	r1 := b.grid.RectFromPoint(p1)
	r2 := b.grid.RectFromPoint(p2)
	dx := math.Abs(r2.X - r1.X)
	dy := math.Abs(r2.Y - r1.Y)
	switch {
	case dx == dy && dx != 0:
		if b.grid.Monospaced() {
			return dx + 0.5
		}
		return dx + 0.375
	case dx == 0 || dy == 0:
		return (dx + dy) / 2
	}
	return 0
}

// ArchPath returns the path data of an arch. The anchor points on both
// cells depend on where the end cell lies relative to the start cell and on
// the direction flag.
func (b *Board) ArchPath(a Arch) (string, error) {
	r := b.Radius(a.Start, a.End)
	if r == 0 {
		return "", fmt.Errorf("arch %s-%s: %w", a.Start, a.End, ErrNoGeometry)
	}
	s := b.grid.RectFromPoint(a.Start)
	e := b.grid.RectFromPoint(a.End)
	x1, y1, x2, y2 := s.X, s.Y, e.X, e.Y
	w, h := s.Width, s.Height
	dir := a.Dir != 0
	pick := func(cond bool, yes, no float64) float64 {
		if cond {
			return yes
		}
		return no
	}

	var sx, sy, ex, ey float64
	switch {
	case x2 > x1 && y1 == y2:
		sx, sy = x1+0.5*w, y1+pick(dir, h, 0)
		ex, ey = x2+0.5*w, y2+pick(dir, h, 0)
	case x2 < x1 && y1 == y2:
		sx, sy = x1+0.5*w, y1+pick(dir, 0, h)
		ex, ey = x2+0.5*w, y2+pick(dir, 0, h)
	case x1 == x2 && y2 > y1:
		sx, sy = x1+pick(dir, 0, w), y1+0.5*h
		ex, ey = x2+pick(dir, 0, w), y2+0.5*h
	case x1 == x2 && y2 < y1:
		sx, sy = x1+pick(dir, w, 0), y1+0.5*h
		ex, ey = x2+pick(dir, w, 0), y2+0.5*h
	case x2 > x1 && y2 > y1:
		sx, sy = x1+pick(dir, 0, 0.5*w), y1+pick(dir, 0.5*h, 0)
		ex, ey = x2+pick(dir, 0.5*w, w), y2+pick(dir, h, 0.5*h)
	case x2 > x1 && y2 < y1:
		sx, sy = x1+pick(dir, 0.5*w, 0), y1+pick(dir, h, 0.5*h)
		ex, ey = x2+pick(dir, w, 0.5*w), y2+pick(dir, 0.5*h, 0)
	case x2 < x1 && y2 > y1:
		sx, sy = x1+pick(dir, 0.5*w, w), y1+pick(dir, 0, 0.5*h)
		ex, ey = x2+pick(dir, 0, 0.5*w), y2+pick(dir, 0.5*h, h)
	default:
		sx, sy = x1+pick(dir, w, 0.5*w), y1+pick(dir, 0.5*h, h)
		ex, ey = x2+pick(dir, 0.5*w, 0), y2+pick(dir, 0, 0.5*h)
	}
	sweep := 0
	if dir {
		sweep = 1
	}
	return fmt.Sprintf("M %s A %s,%s 0 0 %d %s", pair(sx, sy), num(r), num(r), sweep, pair(ex, ey)), nil
}
