// Package pathdata answers geometric questions about the SVG path data the
// board renders: bounds, fill containment and stroke proximity. Path data is
// compiled by oksvg and flattened into polylines.
package pathdata

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// ErrSyntax is returned for malformed path data.
var ErrSyntax = errors.New("pathdata: syntax error")

// curveSteps is the number of chords per bezier segment.
const curveSteps = 16

// Pt is a point in document units.
type Pt struct {
	X, Y float64
}

// Subpath is one flattened run of the path. Closed is set when the data
// ended the run with Z.
type Subpath struct {
	Points []Pt
	Closed bool
}

// Path is parsed path data.
type Path struct {
	Subpaths []Subpath
}

// Parse compiles path data into flattened subpaths. Arcs and curves become
// chains of short chords.
func Parse(d string) (Path, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return Path{}, nil
	}
	if r := rune(d[0]); !unicode.IsLetter(r) || r == 'e' {
		return Path{}, fmt.Errorf("%w: number before command", ErrSyntax)
	}
	c := oksvg.PathCursor{ErrorMode: oksvg.StrictErrorMode}
	if err := c.CompilePath(d); err != nil {
		return Path{}, fmt.Errorf("%w: %q: %v", ErrSyntax, d, err)
	}
	return flatten(c.Path), nil
}

func toPt(x, y fixed.Int26_6) Pt {
	return Pt{float64(x) / 64, float64(y) / 64}
}

func flatten(rp rasterx.Path) Path {
	var p Path
	for i := 0; i < len(rp); {
		switch rasterx.PathCommand(rp[i]) {
		case rasterx.PathMoveTo:
			p.Subpaths = append(p.Subpaths, Subpath{Points: []Pt{toPt(rp[i+1], rp[i+2])}})
			i += 3
		case rasterx.PathLineTo:
			p.add(toPt(rp[i+1], rp[i+2]))
			i += 3
		case rasterx.PathQuadTo:
			from := p.last()
			c, to := toPt(rp[i+1], rp[i+2]), toPt(rp[i+3], rp[i+4])
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				u := 1 - t
				p.add(Pt{
					u*u*from.X + 2*u*t*c.X + t*t*to.X,
					u*u*from.Y + 2*u*t*c.Y + t*t*to.Y,
				})
			}
			i += 5
		case rasterx.PathCubicTo:
			from := p.last()
			c1, c2, to := toPt(rp[i+1], rp[i+2]), toPt(rp[i+3], rp[i+4]), toPt(rp[i+5], rp[i+6])
			for k := 1; k <= curveSteps; k++ {
				t := float64(k) / curveSteps
				u := 1 - t
				p.add(Pt{
					u*u*u*from.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*to.X,
					u*u*u*from.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*to.Y,
				})
			}
			i += 7
		case rasterx.PathClose:
			if n := len(p.Subpaths); n > 0 {
				p.Subpaths[n-1].Closed = true
			}
			i++
		default:
			return p
		}
	}
	return p
}

func (p *Path) add(q Pt) {
	n := len(p.Subpaths)
	if n == 0 {
		p.Subpaths = append(p.Subpaths, Subpath{Points: []Pt{q}})
		return
	}
	p.Subpaths[n-1].Points = append(p.Subpaths[n-1].Points, q)
}

func (p *Path) last() Pt {
	n := len(p.Subpaths)
	if n == 0 {
		return Pt{}
	}
	pts := p.Subpaths[n-1].Points
	return pts[len(pts)-1]
}

// Bounds returns the geometric bounding box of the path, ignoring stroke
// width. ok is false for an empty path.
func (p Path) Bounds() (b Box, ok bool) {
	for _, s := range p.Subpaths {
		for _, q := range s.Points {
			b, ok = b.extend(q, ok)
		}
	}
	return b, ok
}

// edges calls fn for every drawn segment. With fill set, open subpaths get
// their closing edge as well.
func (s Subpath) edges(fill bool, fn func(a, b Pt) bool) bool {
	for i := 1; i < len(s.Points); i++ {
		if fn(s.Points[i-1], s.Points[i]) {
			return true
		}
	}
	if n := len(s.Points); n > 1 && (fill || s.Closed) {
		return fn(s.Points[n-1], s.Points[0])
	}
	return false
}

// Contains reports whether (x, y) is inside the filled area of the path using
// the even-odd rule. Unclosed subpaths fill as if closed.
func (p Path) Contains(x, y float64) bool {
	in := false
	for _, s := range p.Subpaths {
		s.edges(true, func(a, b Pt) bool {
			if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
				in = !in
			}
			return false
		})
	}
	return in
}

// NearStroke reports whether (x, y) lies within tolerance of any drawn segment.
func (p Path) NearStroke(x, y, tolerance float64) bool {
	q := Pt{x, y}
	for _, s := range p.Subpaths {
		if len(s.Points) == 1 && math.Hypot(x-s.Points[0].X, y-s.Points[0].Y) <= tolerance {
			return true
		}
		if s.edges(false, func(a, b Pt) bool { return distToSegment(q, a, b) <= tolerance }) {
			return true
		}
	}
	return false
}

func distToSegment(p, a, b Pt) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
