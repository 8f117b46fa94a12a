package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"KufiCraft/internal/export"
	"KufiCraft/internal/grid"
	"KufiCraft/internal/logger"
	"KufiCraft/internal/state"
)

// displayDivisor maps the board size to on-screen pixels.
const displayDivisor = 4

var (
	paperColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	guideColor = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	minorColor = color.NRGBA{R: 238, G: 238, B: 238, A: 255}
)

// BoardWidget draws a board and turns pointer events into board gestures.
type BoardWidget struct {
	widget.BaseWidget
	board  *state.Board
	scroll *container.Scroll
	frame  int
	log    *slog.Logger
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Cursorable = (*BoardWidget)(nil)

// NewBoardWidget wraps b. Board changes refresh the widget before any
// OnChange handler already installed on b runs.
func NewBoardWidget(b *state.Board) *BoardWidget {
	w := &BoardWidget{board: b, log: logger.For("ui")}
	w.ExtendBaseWidget(w)
	next := b.OnChange
	b.OnChange = func(c state.Change) {
		w.Refresh()
		if next != nil {
			next(c)
		}
	}
	return w
}

// Side is the on-screen edge length of the board.
func (w *BoardWidget) Side() float32 {
	return float32(w.board.Size()) / displayDivisor
}

// toDocument converts a widget coordinate to document units.
func toDocument(pos, side float32) float64 {
	if side <= 0 {
		return 0
	}
	return float64(pos) * grid.Extent / float64(side)
}

func (w *BoardWidget) point(p fyne.Position) (float64, float64) {
	side := w.Side()
	return toDocument(p.X, side), toDocument(p.Y, side)
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	x, y := w.point(e.Position)
	switch e.Button {
	case desktop.MouseButtonPrimary:
		if w.board.Tool() != state.ToolHand {
			w.board.PointerDown(x, y)
		}
	case desktop.MouseButtonSecondary:
		w.board.Erase(x, y)
	}
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || w.board.Tool() == state.ToolHand {
		return
	}
	x, y := w.point(e.Position)
	w.board.PointerUp(x, y)
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (w *BoardWidget) MouseOut()                   {}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	x, y := w.point(e.Position)
	w.board.PointerMove(x, y)
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	if w.board.Tool() == state.ToolHand {
		w.pan(e.Dragged.DX, e.Dragged.DY)
		return
	}
	x, y := w.point(e.Position)
	w.board.PointerMove(x, y)
}

func (w *BoardWidget) DragEnd() {}

func (w *BoardWidget) Cursor() desktop.Cursor {
	if w.board.Tool() == state.ToolHand {
		return desktop.PointerCursor
	}
	return desktop.CrosshairCursor
}

// pan moves the enclosing scroll container against the drag.
func (w *BoardWidget) pan(dx, dy float32) {
	if w.scroll == nil {
		return
	}
	side := w.Side()
	view := w.scroll.Size()
	off := w.scroll.Offset
	off.X = clamp(off.X-dx, 0, side-view.Width)
	off.Y = clamp(off.Y-dy, 0, side-view.Height)
	w.scroll.Offset = off
	w.scroll.Refresh()
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}

// render returns the board as an SVG resource. Every render gets a fresh
// name so the image is never served from a stale cache.
func (w *BoardWidget) render() fyne.Resource {
	var buf bytes.Buffer
	if err := export.Canvas(&buf, w.board.Markup(), int(w.Side())); err != nil {
		w.log.Error("render board", "err", err)
		return nil
	}
	w.frame++
	return fyne.NewStaticResource(fmt.Sprintf("board-%d.svg", w.frame), buf.Bytes())
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{
		board:      w,
		background: canvas.NewRectangle(paperColor),
		image:      canvas.NewImageFromResource(w.render()),
	}
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScaleSmooth
	r.buildGuides()
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	guides     []*canvas.Line
	image      *canvas.Image
	side       float32
	mono       bool
}

// buildGuides lays one line on every cell edge. Proportional boards get a
// lighter line at the large/small split of each unit.
func (r *boardRenderer) buildGuides() {
	r.side = r.board.Side()
	r.mono = r.board.board.Monospaced()
	unit := r.side / grid.Extent
	r.guides = r.guides[:0]
	add := func(at float32, c color.Color) {
		v := canvas.NewLine(c)
		v.Position1 = fyne.NewPos(at, 0)
		v.Position2 = fyne.NewPos(at, r.side)
		h := canvas.NewLine(c)
		h.Position1 = fyne.NewPos(0, at)
		h.Position2 = fyne.NewPos(r.side, at)
		r.guides = append(r.guides, v, h)
	}
	for i := 0; i <= grid.Extent; i++ {
		at := float32(i) * unit
		add(at, guideColor)
		if !r.mono && i < grid.Extent {
			add(at+grid.LargeCell*unit, minorColor)
		}
	}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(fyne.NewSize(r.side, r.side))
	r.image.Resize(fyne.NewSize(r.side, r.side))
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.side, r.side)
}

func (r *boardRenderer) Refresh() {
	if r.side != r.board.Side() || r.mono != r.board.board.Monospaced() {
		r.buildGuides()
		r.Layout(r.board.Size())
	}
	r.image.Resource = r.board.render()
	r.image.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(r.guides)+2)
	objects = append(objects, r.background)
	for _, g := range r.guides {
		objects = append(objects, g)
	}
	return append(objects, r.image)
}

func (r *boardRenderer) Destroy() {}
