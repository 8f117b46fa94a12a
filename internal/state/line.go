package state

import (
	"fmt"
	"strings"

	"KufiCraft/internal/grid"
)

// Line turns an ordered point list into items. A single point becomes a
// square cell, two points on a row or column become the run of cells between
// them, anything else becomes one polyline.
func (b *Board) Line(points []grid.Point) []Item {
	switch {
	case len(points) == 0:
		return nil
	case len(points) == 1:
		return []Item{b.Shape(points[0], true)}
	}
	if len(points) == 2 {
		p0, p1 := points[0], points[1]
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		if dx == 0 || dy == 0 {
			return b.run(p0, p1, dx, dy)
		}
	}
	pts := make([]grid.Point, len(points))
	copy(pts, points)
	return []Item{Line{Points: pts, Stroke: b.color}}
}

func (b *Board) run(p0, p1 grid.Point, dx, dy int) []Item {
	start := p0
	if (dx != 0 && dx < 0) || (dx == 0 && dy < 0) {
		start = p1
	}
	n := abs(dx) + abs(dy) + 1
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		p := start
		if dx != 0 {
			p.X += i
		} else {
			p.Y += i
		}
		items = append(items, b.Shape(p, true))
	}
	return items
}

// LinePath returns the path data of a polyline through cell centers.
func (b *Board) LinePath(l Line) (string, error) {
	if len(l.Points) < 2 {
		return "", fmt.Errorf("line of %d points: %w", len(l.Points), ErrNoGeometry)
	}
	last := len(l.Points) - 1
	closed := IsSamePoint(l.Points[0], l.Points[last])
	tokens := make([]string, 0, len(l.Points))
	for i, p := range l.Points {
		if closed && i == last {
			tokens = append(tokens, "Z")
			break
		}
		r := b.grid.RectFromPoint(p)
		x, y := r.Center()
		if !closed {
			switch i {
			case 0:
				x, y = extend(x, y, r, l.Points[0], l.Points[1])
			case last:
				x, y = extend(x, y, r, l.Points[last], l.Points[last-1])
			}
		}
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		tokens = append(tokens, cmd+" "+pair(x, y))
	}
	return strings.Join(tokens, " "), nil
}

// extend pushes an endpoint half a cell away from its neighbour when the
// terminal segment is horizontal or vertical, so the stroke reaches the edge
// of the cell.
func extend(x, y float64, r grid.Rect, end, next grid.Point) (float64, float64) {
	dx, dy := next.X-end.X, next.Y-end.Y
	switch {
	case dy == 0 && dx > 0:
		x -= r.Width / 2
	case dy == 0 && dx < 0:
		x += r.Width / 2
	case dx == 0 && dy > 0:
		y -= r.Height / 2
	case dx == 0 && dy < 0:
		y += r.Height / 2
	}
	return x, y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
