package state

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"KufiCraft/internal/pathdata"
)

// Node is one rendered path in the workspace.
type Node struct {
	// Index is the position of the backing data entry, -1 when the node has
	// none (previews, restored boards).
	Index       int
	D           string
	Fill        string
	Stroke      string
	StrokeWidth string
	Shape       string
	Style       string
	Dummy       bool

	parsedD  string
	parsed   pathdata.Path
	parseErr error
	cached   bool
}

// geometry returns the parsed path data, cached until D changes.
func (n *Node) geometry() (pathdata.Path, error) {
	if !n.cached || n.parsedD != n.D {
		n.parsed, n.parseErr = pathdata.Parse(n.D)
		n.parsedD = n.D
		n.cached = true
	}
	return n.parsed, n.parseErr
}

func (n *Node) filled() bool {
	switch n.Fill {
	case "", "none", "transparent":
		return false
	}
	return true
}

func (n *Node) stroked() bool {
	return n.Stroke != "" && n.Stroke != "none"
}

func (n *Node) strokeWidth() float64 {
	w, err := strconv.ParseFloat(n.StrokeWidth, 64)
	if err != nil {
		return 1
	}
	return w
}

func (n *Node) attrs() []string {
	var out []string
	add := func(name, value string) {
		if value == "" {
			return
		}
		var b strings.Builder
		b.WriteString(name)
		b.WriteString(`="`)
		_ = xml.EscapeText(&b, []byte(value))
		b.WriteByte('"')
		out = append(out, b.String())
	}
	if n.Index >= 0 {
		add("data-index", strconv.Itoa(n.Index))
	}
	add("data-shape", n.Shape)
	add("fill", n.Fill)
	add("stroke", n.Stroke)
	add("stroke-width", n.StrokeWidth)
	add("style", n.Style)
	if n.Dummy {
		add("class", "dummy")
	}
	return out
}

// Workspace is the ordered list of rendered nodes, the source of truth for
// what is visible. Later nodes paint over earlier ones.
type Workspace struct {
	nodes   []*Node
	byIndex map[int]*Node
}

func newWorkspace() *Workspace {
	return &Workspace{byIndex: map[int]*Node{}}
}

// Nodes returns the rendered nodes in paint order.
func (w *Workspace) Nodes() []*Node {
	return w.nodes
}

// Len returns the number of rendered nodes, previews included.
func (w *Workspace) Len() int {
	return len(w.nodes)
}

func (w *Workspace) append(n *Node) {
	w.nodes = append(w.nodes, n)
	if n.Index >= 0 {
		w.byIndex[n.Index] = n
	}
}

func (w *Workspace) stamp(n *Node, index int) {
	n.Index = index
	w.byIndex[index] = n
}

// ByIndex returns the node backing data entry i.
func (w *Workspace) ByIndex(i int) *Node {
	return w.byIndex[i]
}

func (w *Workspace) remove(n *Node) {
	for i, m := range w.nodes {
		if m == n {
			w.nodes = append(w.nodes[:i], w.nodes[i+1:]...)
			break
		}
	}
	if n.Index >= 0 && w.byIndex[n.Index] == n {
		delete(w.byIndex, n.Index)
	}
}

// removeWhere drops every node matching and returns the removed ones.
func (w *Workspace) removeWhere(match func(*Node) bool) []*Node {
	var removed []*Node
	kept := w.nodes[:0]
	for _, n := range w.nodes {
		if match(n) {
			removed = append(removed, n)
			if n.Index >= 0 && w.byIndex[n.Index] == n {
				delete(w.byIndex, n.Index)
			}
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(w.nodes); i++ {
		w.nodes[i] = nil
	}
	w.nodes = kept
	return removed
}

func (w *Workspace) removeDummies() {
	w.removeWhere(func(n *Node) bool { return n.Dummy })
}

func (w *Workspace) replace(nodes []*Node) {
	w.nodes = nodes
	w.byIndex = map[int]*Node{}
	for _, n := range nodes {
		if n.Index >= 0 {
			w.byIndex[n.Index] = n
		}
	}
}

func (w *Workspace) clear() {
	w.replace(nil)
}

// Hit returns the topmost committed node whose painted area covers (x, y).
func (w *Workspace) Hit(x, y float64) *Node {
	for i := len(w.nodes) - 1; i >= 0; i-- {
		n := w.nodes[i]
		if n.Dummy {
			continue
		}
		p, err := n.geometry()
		if err != nil {
			continue
		}
		if box, ok := p.Bounds(); !ok || !box.Inflate(n.strokeWidth()/2).Contains(x, y) {
			continue
		}
		if n.filled() && p.Contains(x, y) {
			return n
		}
		if n.stroked() && p.NearStroke(x, y, n.strokeWidth()/2) {
			return n
		}
	}
	return nil
}

// Markup serializes the workspace as an SVG group fragment.
func (w *Workspace) Markup(withDummies bool) string {
	if withDummies {
		return Markup(w.nodes)
	}
	var nodes []*Node
	for _, n := range w.nodes {
		if !n.Dummy {
			nodes = append(nodes, n)
		}
	}
	return Markup(nodes)
}

// Markup serializes nodes as an SVG group fragment.
func Markup(nodes []*Node) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Group(`class="workspace"`)
	for _, n := range nodes {
		canvas.Path(n.D, n.attrs()...)
	}
	canvas.Gend()
	return buf.String()
}

// ParseMarkup reads the path nodes of a serialized fragment. Elements other
// than path are skipped.
func ParseMarkup(markup string) ([]*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(markup))
	var nodes []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "path" {
			continue
		}
		n := &Node{Index: -1}
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "d":
				n.D = a.Value
			case "data-index":
				if i, err := strconv.Atoi(a.Value); err == nil && i >= 0 {
					n.Index = i
				}
			case "data-shape":
				n.Shape = a.Value
			case "fill":
				n.Fill = a.Value
			case "stroke":
				n.Stroke = a.Value
			case "stroke-width":
				n.StrokeWidth = a.Value
			case "style":
				n.Style = a.Value
			case "class":
				for _, c := range strings.Fields(a.Value) {
					if c == "dummy" {
						n.Dummy = true
					}
				}
			}
		}
		nodes = append(nodes, n)
	}
}

// Bounds returns the painted extent of the committed nodes, stroke widths
// included.
func Bounds(nodes []*Node) (pathdata.Box, bool) {
	var box pathdata.Box
	found := false
	for _, n := range nodes {
		if n.Dummy {
			continue
		}
		p, err := n.geometry()
		if err != nil {
			continue
		}
		b, ok := p.Bounds()
		if !ok {
			continue
		}
		if n.stroked() {
			b = b.Inflate(n.strokeWidth() / 2)
		}
		if !found {
			box, found = b, true
			continue
		}
		box = box.Union(b)
	}
	return box, found
}
