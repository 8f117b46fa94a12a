// Package state holds the Kufic board document: the ordered item list, its
// rendered projection and the transient tool state driving both.
package state

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"KufiCraft/internal/grid"
	"KufiCraft/internal/logger"
)

const (
	DefaultSize = 3200
	MinSize     = 800
	MaxSize     = 4000
	SizeStep    = 400

	DefaultColor = "black"
)

// entry is one slot of the logical item list. Erased entries stay as
// tombstones so indices remain unique.
type entry struct {
	item Item
	live bool
}

// Options configures a new board.
type Options struct {
	Name       string
	Monospaced bool
	Size       int
	Color      string
	Shape      ShapeKind
	// Grid overrides the square grid.
	Grid grid.Addresser
}

// Board is a single Kufic document. It is not safe for concurrent use; all
// calls are expected from one goroutine.
type Board struct {
	ID    string
	clock Clock

	name string
	size int
	grid grid.Addresser

	ws   *Workspace
	data []entry

	tool    Tool
	color   string
	shape   ShapeKind
	archDir int

	linePoints []grid.Point
	dummy      Item
	painting   bool
	pending    []*Node
	snap       snapshot

	// OnChange receives a value snapshot after every change to the
	// rendered fragment.
	OnChange func(Change)
	// OnNotice receives user-facing messages.
	OnNotice func(Notice)

	log *slog.Logger
}

// New creates an empty board.
func New(opts Options) *Board {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.Color == "" {
		opts.Color = DefaultColor
	}
	if opts.Shape == "" {
		opts.Shape = ShapeSquare
	}
	g := opts.Grid
	if g == nil {
		g = grid.NewSquare(opts.Monospaced)
	}
	b := &Board{
		ID:      newBoardID(),
		name:    SanitizeName(opts.Name),
		size:    opts.Size,
		grid:    g,
		ws:      newWorkspace(),
		tool:    ToolPen,
		color:   opts.Color,
		shape:   opts.Shape,
		archDir: 1,
	}
	b.log = logger.For("state").With("board", b.ID)
	return b
}

// Restore re-hydrates a board from its saved fragment. The logical item
// list is not rebuilt, so restored nodes carry no index: they can be erased
// but not updated in place.
func Restore(s Saved, opts Options) (*Board, error) {
	nodes, err := ParseMarkup(s.Markup)
	if err != nil {
		return nil, fmt.Errorf("restore %q: %w", s.Name, err)
	}
	opts.Monospaced = s.Monospaced
	opts.Size = s.Size
	opts.Grid = nil
	b := New(opts)
	b.name = SanitizeName(s.Name)
	kept := nodes[:0]
	for _, n := range nodes {
		if n.Dummy {
			continue
		}
		n.Index = -1
		kept = append(kept, n)
	}
	b.ws.replace(kept)
	b.log.Info("board restored", "name", s.Name, "nodes", len(kept))
	return b, nil
}

// Name returns the document name.
func (b *Board) Name() string { return b.name }

// SetName sanitizes and stores the document name.
func (b *Board) SetName(name string) {
	name = SanitizeName(name)
	if name == b.name {
		return
	}
	b.name = name
	b.touch()
}

// Size is the canvas size in pixels.
func (b *Board) Size() int { return b.size }

// Monospaced reports the addressing mode.
func (b *Board) Monospaced() bool { return b.grid.Monospaced() }

// Grid returns the addressing provider.
func (b *Board) Grid() grid.Addresser { return b.grid }

// Revision returns the number of changes applied so far.
func (b *Board) Revision() uint64 { return b.clock.Now() }

// Workspace exposes the rendered projection.
func (b *Board) Workspace() *Workspace { return b.ws }

// Point addresses the cell under document coordinates (x, y).
func (b *Board) Point(x, y float64) grid.Point { return b.grid.Point(x, y) }

// Items returns the live entries in insertion order.
func (b *Board) Items() []Item {
	var out []Item
	for _, e := range b.data {
		if e.live {
			out = append(out, e.item)
		}
	}
	return out
}

// Len returns the number of entries ever committed, tombstones included.
func (b *Board) Len() int { return len(b.data) }

type drawResult int

const (
	drawAppended drawResult = iota
	drawUpdated
	drawUnchanged
)

// Push draws and commits items. It returns the newly appended items; an
// overlapping Shape updates the existing entry instead and is not returned.
// Items without geometry are skipped.
func (b *Board) Push(items ...Item) []Item {
	var committed []Item
	changed := false
	for _, it := range items {
		b.ws.removeDummies()
		n, res, err := b.render(it, false)
		if err != nil {
			b.log.Debug("push skipped", "kind", it.Kind(), "err", err)
			continue
		}
		switch res {
		case drawAppended:
			b.ws.stamp(n, len(b.data))
			b.data = append(b.data, entry{item: it, live: true})
			committed = append(committed, it)
			changed = true
		case drawUpdated:
			changed = true
		}
	}
	if changed {
		b.touch()
	}
	return committed
}

// Draw renders items without committing new entries. Every existing preview
// node is removed first. With dummy set the nodes are previews; otherwise an
// overlapping Shape updates its entry in place.
func (b *Board) Draw(items []Item, dummy bool) ([]*Node, error) {
	b.ws.removeDummies()
	var nodes []*Node
	for _, it := range items {
		n, _, err := b.render(it, dummy)
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (b *Board) render(it Item, dummy bool) (*Node, drawResult, error) {
	var n *Node
	switch it := it.(type) {
	case Shape:
		d, err := b.PathForShape(it)
		if err != nil {
			return nil, 0, err
		}
		if !dummy {
			if i, ok := b.liveShapeAt(it.Point); ok {
				return b.updateShape(i, it, d)
			}
		}
		n = &Node{Index: -1, D: d, Fill: it.Fill, Shape: string(it.Shape)}
	case Arch:
		d, err := b.ArchPath(it)
		if err != nil {
			return nil, 0, err
		}
		w := b.grid.RectFromPoint(it.Start).Width
		n = &Node{Index: -1, D: d, Fill: "none", Stroke: it.Stroke, StrokeWidth: num(w)}
	case Line:
		d, err := b.LinePath(it)
		if err != nil {
			return nil, 0, err
		}
		n = &Node{Index: -1, D: d, Fill: "none", Stroke: it.Stroke, StrokeWidth: num(b.lineWidth())}
	default:
		return nil, 0, fmt.Errorf("draw %T: %w", it, ErrNoGeometry)
	}
	n.Dummy = dummy
	b.ws.append(n)
	return n, drawAppended, nil
}

func (b *Board) updateShape(i int, s Shape, d string) (*Node, drawResult, error) {
	n := b.ws.ByIndex(i)
	if n == nil {
		return nil, 0, fmt.Errorf("shape at %s, entry %d: %w", s.Point, i, ErrMissingAnchor)
	}
	if n.D == d && n.Fill == s.Fill && n.Shape == string(s.Shape) {
		return n, drawUnchanged, nil
	}
	n.D = d
	n.Fill = s.Fill
	n.Shape = string(s.Shape)
	b.data[i].item = s
	return n, drawUpdated, nil
}

func (b *Board) liveShapeAt(p grid.Point) (int, bool) {
	for i, e := range b.data {
		if !e.live {
			continue
		}
		if s, ok := e.item.(Shape); ok && IsSamePoint(s.Point, p) {
			return i, true
		}
	}
	return 0, false
}

// reconcile recomputes entry liveness from the indices present in the
// workspace. Live shapes take their fill and kind back from the node, since
// a repaint updates the entry in place.
func (b *Board) reconcile() {
	for i := range b.data {
		n := b.ws.ByIndex(i)
		b.data[i].live = n != nil
		if s, ok := b.data[i].item.(Shape); ok && n != nil {
			s.Fill = n.Fill
			s.Shape = ShapeKind(n.Shape)
			b.data[i].item = s
		}
	}
}

func (b *Board) tombstone(n *Node) {
	if n.Index >= 0 && n.Index < len(b.data) {
		b.data[n.Index].live = false
	}
}

// Empty clears the board. The undo slot is dropped with it.
func (b *Board) Empty() {
	b.ws.clear()
	b.data = nil
	b.pending = nil
	b.linePoints = nil
	b.dummy = nil
	b.painting = false
	b.snap = snapshot{}
	b.log.Info("board emptied")
	b.notify(LevelInfo, "Board cleared")
	b.touch()
}

// Save returns the persisted form of the board. Previews are excluded.
func (b *Board) Save() Saved {
	return Saved{
		Name:       b.name,
		Monospaced: b.grid.Monospaced(),
		Size:       b.size,
		Markup:     b.ws.Markup(false),
	}
}

// Markup returns the rendered fragment, previews included.
func (b *Board) Markup() string {
	return b.ws.Markup(true)
}

// Zoom grows or shrinks the canvas by one step.
func (b *Board) Zoom(in bool) error {
	next := b.size - SizeStep
	if in {
		next = b.size + SizeStep
	}
	if next < MinSize || next > MaxSize {
		b.notify(LevelWarn, "Zoom is limited")
		return fmt.Errorf("size %d: %w", next, ErrZoomLimit)
	}
	b.size = next
	b.touch()
	return nil
}

func (b *Board) touch() {
	rev := b.clock.Tick()
	if b.OnChange != nil {
		b.OnChange(Change{Revision: rev, Saved: b.Save()})
	}
}

func (b *Board) refresh() {
	if b.OnChange != nil {
		b.OnChange(Change{Revision: b.clock.Now(), Saved: b.Save(), Transient: true})
	}
}

func (b *Board) notify(level Level, text string) {
	if b.OnNotice != nil {
		b.OnNotice(Notice{Level: level, Text: text})
	}
}

func (b *Board) clearNotice() {
	b.notify(LevelNone, "")
}

func (b *Board) lineWidth() float64 {
	if b.grid.Monospaced() {
		return 1
	}
	return grid.LargeCell
}

// IsSamePoint reports whether a and b address the same cell.
func IsSamePoint(a, b grid.Point) bool {
	return grid.IsSamePoint(a, b)
}

var (
	unsafeName = regexp.MustCompile(`[/\\?%*:|"<>،]`)
	spaces     = regexp.MustCompile(`\s+`)
)

// SanitizeName makes a document name safe for file names.
func SanitizeName(name string) string {
	name = unsafeName.ReplaceAllString(name, " ")
	name = spaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
