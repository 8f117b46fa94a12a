package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointProportional(t *testing.T) {
	g := NewSquare(false)
	tests := []struct {
		name string
		x, y float64
		want Point
	}{
		{"origin", 0, 0, Point{1, 1}},
		{"large sub-cell", 10.2, 10.6, Point{21, 21}},
		{"small sub-cell at threshold", 3.75, 0.5, Point{8, 1}},
		{"just below threshold", 3.7499, 2.8, Point{7, 6}},
		{"whole number", 4, 7, Point{9, 15}},
		{"negative", -0.5, -0.1, Point{-1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Point(tt.x, tt.y))
		})
	}
}

func TestPointMonospaced(t *testing.T) {
	g := NewSquare(true)
	assert.Equal(t, Point{11, 11}, g.Point(10.2, 10.6))
	assert.Equal(t, Point{3, 0}, g.Point(3, 0))
	assert.Equal(t, Point{1, 1}, g.Point(0.01, 0.99))
}

func TestRectFromPoint(t *testing.T) {
	tests := []struct {
		name string
		mono bool
		p    Point
		want Rect
	}{
		{"mono", true, Point{11, 4}, Rect{10, 3, 1, 1}},
		{"large x large y", false, Point{21, 21}, Rect{10, 10, 0.75, 0.75}},
		{"small x large y", false, Point{8, 1}, Rect{3.75, 0, 0.25, 0.75}},
		{"small both", false, Point{2, 4}, Rect{0.75, 1.75, 0.25, 0.25}},
		{"zero address", false, Point{0, 0}, Rect{-0.25, -0.25, 0.25, 0.25}},
		{"negative odd", false, Point{-1, -3}, Rect{-1, -2, 0.75, 0.75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSquare(tt.mono).RectFromPoint(tt.p))
		})
	}
}

func TestRoundTripThroughCenter(t *testing.T) {
	for _, mono := range []bool{true, false} {
		g := NewSquare(mono)
		for x := -6; x <= 12; x++ {
			for y := -6; y <= 12; y++ {
				// Only addresses the mapping can produce.
				p := g.Point(float64(x)/2+0.1, float64(y)/3+0.2)
				cx, cy := g.RectFromPoint(p).Center()
				assert.Equal(t, p, g.Point(cx, cy), "mono=%v p=%v", mono, p)
			}
		}
	}
}

func TestRectContainsItsSource(t *testing.T) {
	g := NewSquare(false)
	for _, c := range [][2]float64{{0.1, 0.1}, {0.8, 0.3}, {5.76, 9.99}, {42.74, 42.75}} {
		r := g.RectFromPoint(g.Point(c[0], c[1]))
		x, y := c[0], c[1]
		in := x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
		assert.True(t, in, "%v not in %+v", c, r)
	}
}

func TestIsMainRect(t *testing.T) {
	g := NewSquare(false)
	assert.True(t, g.IsMainRect(Point{1, 1}))
	assert.False(t, g.IsMainRect(Point{2, 2}), "small corner cell")
	assert.False(t, g.IsMainRect(Point{1, 2}), "thin strip")
	assert.False(t, g.IsMainRect(Point{2, 1}), "thin strip")
	assert.True(t, NewSquare(true).IsMainRect(Point{2, 2}))
}

func TestIsSamePoint(t *testing.T) {
	a, b, c := Point{1, 2}, Point{1, 2}, Point{2, 1}
	assert.True(t, IsSamePoint(a, a))
	assert.True(t, IsSamePoint(a, b))
	assert.Equal(t, IsSamePoint(a, c), IsSamePoint(c, a))
	assert.False(t, IsSamePoint(a, c))
	assert.Equal(t, a == b, IsSamePoint(a, b))
}
