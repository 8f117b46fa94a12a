package state

import (
	"fmt"
	"math/rand/v2"

	"KufiCraft/internal/grid"
)

// Effect names a side effect applied by a settings command.
type Effect string

const (
	EffectStylesReset       Effect = "styles-reset"
	EffectHandCursor        Effect = "hand-cursor"
	EffectPreviewCleared    Effect = "preview-cleared"
	EffectLinePointsCleared Effect = "line-points-cleared"
	EffectToolSwitched      Effect = "tool-switched"
)

var hints = []string{
	"Shortcuts: P pen, E eraser, H hand, L line, C arch, Ctrl+S save, Ctrl+Z undo",
	"Right-click a cell to erase it right away",
	"Clearing the board cannot be undone, save first",
	"Switch the arch direction to flip which side the curve bulges",
	"Pick a new color to go back to the pen",
	"Zoom in for the small cells of proportional boards",
}

var toolHints = map[Tool]string{
	ToolHand:   "Drag to move around the board",
	ToolLine:   "Pick two different cells to join them. Lines erase as one block, so prefer the pen for straight runs",
	ToolEraser: "Press and drag to erase several items",
	ToolArch:   "Pick two cells to draw an arch between them",
}

// Tool returns the active tool.
func (b *Board) Tool() Tool { return b.tool }

// Color returns the active color.
func (b *Board) Color() string { return b.color }

// ShapeKind returns the active cell shape.
func (b *Board) ShapeKind() ShapeKind { return b.shape }

// ArchDir returns the active arch direction, 0 or 1.
func (b *Board) ArchDir() int { return b.archDir }

// Pending returns the pending preview item, nil when none.
func (b *Board) Pending() Item { return b.dummy }

// LinePoints returns the points collected by the line tool.
func (b *Board) LinePoints() []grid.Point { return b.linePoints }

// SetTool switches the active tool and returns the side effects applied.
func (b *Board) SetTool(t Tool) []Effect {
	var effects []Effect
	b.tool = t
	if t == ToolHand {
		effects = append(effects, EffectHandCursor)
	} else {
		b.Resets(false)
		effects = append(effects, EffectStylesReset)
	}
	if _, archPending := b.dummy.(Arch); t != ToolArch || !archPending {
		b.ws.removeDummies()
		b.dummy = nil
		effects = append(effects, EffectPreviewCleared)
	}
	if t != ToolLine {
		b.linePoints = nil
		effects = append(effects, EffectLinePointsCleared)
	}
	if text, ok := toolHints[t]; ok {
		b.notify(LevelInfo, text)
	} else if t == ToolPen {
		b.notify(LevelHint, hints[rand.IntN(len(hints))])
	}
	b.log.Debug("tool", "tool", t, "effects", effects)
	b.refresh()
	return effects
}

// SetColor changes the active color. Outside the arch tool it also switches
// to the pen.
func (b *Board) SetColor(c string) []Effect {
	b.color = c
	if b.tool == ToolArch {
		b.notify(LevelInfo, "Color changed")
		return nil
	}
	effects := append([]Effect{EffectToolSwitched}, b.SetTool(ToolPen)...)
	b.notify(LevelInfo, "Color changed")
	return effects
}

// SetShape changes the cell shape used by the pen.
func (b *Board) SetShape(k ShapeKind) { b.shape = k }

// SetArchDir sets the arch direction. Any non-zero value selects 1.
func (b *Board) SetArchDir(dir int) {
	if dir != 0 {
		dir = 1
	}
	b.archDir = dir
}

// ParseTool maps a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", s)
}
