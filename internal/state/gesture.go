package state

import "KufiCraft/internal/grid"

// PointerDown starts a gesture at document coordinates (x, y).
func (b *Board) PointerDown(x, y float64) {
	b.pending = nil
	if b.painting {
		return
	}
	p := b.grid.Point(x, y)
	switch b.tool {
	case ToolPen:
		b.Backup()
		b.Push(b.Shape(p, false))
	case ToolEraser:
		b.Hide(b.ws.Hit(x, y))
	case ToolLine:
		b.lineDown(p)
	case ToolArch:
		if b.dummy == nil && b.grid.IsMainRect(p) {
			anchor := b.Shape(p, true)
			b.dummy = anchor
			b.preview(anchor)
		}
	}
	b.painting = true
}

func (b *Board) lineDown(p grid.Point) {
	if !b.grid.IsMainRect(p) {
		return
	}
	pts := b.linePoints
	if len(pts) > 1 && (IsSamePoint(pts[0], p) || IsSamePoint(pts[len(pts)-1], p)) {
		if IsSamePoint(pts[0], p) {
			pts = append(pts, p)
		}
		b.ws.removeDummies()
		b.Backup()
		b.Push(b.Line(pts)...)
		b.linePoints = nil
		b.clearNotice()
		return
	}
	b.linePoints = append(pts, p)
	b.preview(b.Line(b.linePoints)...)
}

// PointerMove continues a gesture. Arch and line previews track the pointer
// even when no button is held.
func (b *Board) PointerMove(x, y float64) {
	p := b.grid.Point(x, y)
	if b.painting {
		switch b.tool {
		case ToolPen:
			b.Push(b.Shape(p, false))
		case ToolEraser:
			b.Hide(b.ws.Hit(x, y))
		}
	}
	switch b.tool {
	case ToolArch:
		b.trackArch(p)
	case ToolLine:
		b.trackLine(p)
	}
}

// PointerUp ends a gesture. The eraser removes what it marked and a pending
// arch is committed.
func (b *Board) PointerUp(x, y float64) {
	b.painting = false
	switch b.tool {
	case ToolEraser:
		b.RemoveHidden()
	case ToolArch:
		if a, ok := b.dummy.(Arch); ok {
			b.ws.removeDummies()
			b.dummy = nil
			if b.Radius(a.Start, a.End) == 0 {
				b.refresh()
				return
			}
			b.Backup()
			b.Push(a)
			b.clearNotice()
			return
		}
		b.trackArch(b.grid.Point(x, y))
	}
}

// Erase removes the topmost item under (x, y) right away.
func (b *Board) Erase(x, y float64) bool {
	n := b.ws.Hit(x, y)
	if n == nil {
		return false
	}
	b.pending = nil
	b.Hide(n)
	return b.RemoveHidden() > 0
}

// Painting reports whether a gesture is in progress.
func (b *Board) Painting() bool { return b.painting }

func (b *Board) trackArch(p grid.Point) {
	if b.dummy == nil || !b.grid.IsMainRect(p) {
		return
	}
	var anchor grid.Point
	switch d := b.dummy.(type) {
	case Shape:
		anchor = d.Point
	case Arch:
		anchor = d.End
	default:
		return
	}
	if IsSamePoint(p, anchor) {
		return
	}
	switch b.dummy.(type) {
	case Shape:
		b.dummy = b.Arch(p, anchor)
	case Arch:
		if b.Radius(p, anchor) != 0 {
			b.dummy = b.Arch(p, anchor)
		}
	}
	if a, ok := b.dummy.(Arch); ok && b.Radius(a.Start, a.End) != 0 {
		b.preview(a)
	}
}

func (b *Board) trackLine(p grid.Point) {
	n := len(b.linePoints)
	if n == 0 || !b.grid.IsMainRect(p) {
		return
	}
	if IsSamePoint(b.linePoints[n-1], p) {
		b.preview(b.Line(b.linePoints)...)
		return
	}
	pts := append(append([]grid.Point(nil), b.linePoints...), p)
	b.preview(b.Line(pts)...)
}

// preview draws items as transient nodes. Items without geometry draw
// nothing.
func (b *Board) preview(items ...Item) {
	if _, err := b.Draw(items, true); err != nil {
		b.log.Debug("preview skipped", "err", err)
	}
	b.refresh()
}
