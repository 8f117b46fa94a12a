package state

import (
	"fmt"
	"strings"

	"KufiCraft/internal/grid"
)

// Shape builds a cell item in the current color. forceSquare ignores the
// active shape setting.
func (b *Board) Shape(p grid.Point, forceSquare bool) Shape {
	kind := b.shape
	if forceSquare {
		kind = ShapeSquare
	}
	return Shape{Point: p, Fill: b.color, Shape: kind}
}

// PathForShape returns the path data of a cell item.
func (b *Board) PathForShape(s Shape) (string, error) {
	switch s.Shape {
	case ShapeCircle:
		return "", fmt.Errorf("shape %q at %s: %w: %w", s.Shape, s.Point, ErrNoGeometry, ErrUnsupportedShape)
	default:
		return squarePath(b.grid.RectFromPoint(s.Point)), nil
	}
}

func squarePath(r grid.Rect) string {
	var sb strings.Builder
	sb.WriteString("M ")
	sb.WriteString(pair(r.X, r.Y))
	sb.WriteString(" L ")
	sb.WriteString(pair(r.X+r.Width, r.Y))
	sb.WriteString(" L ")
	sb.WriteString(pair(r.X+r.Width, r.Y+r.Height))
	sb.WriteString(" L ")
	sb.WriteString(pair(r.X, r.Y+r.Height))
	sb.WriteString(" Z")
	return sb.String()
}

func pair(x, y float64) string {
	return num(x) + "," + num(y)
}
