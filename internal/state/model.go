package state

import (
	"KufiCraft/internal/grid"
)

// Kind tags a board item.
type Kind string

const (
	KindShape Kind = "shape"
	KindArch  Kind = "arch"
	KindLine  Kind = "line"
)

// ShapeKind selects the geometry of a painted cell.
type ShapeKind string

const (
	ShapeSquare ShapeKind = "square"
	// ShapeCircle is accepted as a setting but has no geometry yet.
	ShapeCircle ShapeKind = "circle"
)

// Item is a placed board item: Shape, Arch or Line.
type Item interface {
	Kind() Kind
	isItem()
}

// Shape is a single filled cell.
type Shape struct {
	Point grid.Point `json:"point"`
	Fill  string     `json:"fill"`
	Shape ShapeKind  `json:"shape"`
}

// Arch is a circular stroke bridging two cells. Dir selects which of the two
// possible arcs is drawn.
type Arch struct {
	Start  grid.Point `json:"start"`
	End    grid.Point `json:"end"`
	Dir    int        `json:"dir"`
	Stroke string     `json:"stroke"`
}

// Line is a polyline through cell centers, closed when the first and last
// points coincide.
type Line struct {
	Points []grid.Point `json:"points"`
	Stroke string       `json:"stroke"`
}

func (Shape) Kind() Kind { return KindShape }
func (Arch) Kind() Kind  { return KindArch }
func (Line) Kind() Kind  { return KindLine }

func (Shape) isItem() {}
func (Arch) isItem()  {}
func (Line) isItem()  {}

// Tool is the active drawing tool.
type Tool string

const (
	ToolHand   Tool = "hand"
	ToolEraser Tool = "eraser"
	ToolPen    Tool = "pen"
	ToolLine   Tool = "line"
	ToolArch   Tool = "arch"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolEraser, ToolLine, ToolArch, ToolHand}

// Level classifies a notice.
type Level string

const (
	LevelNone Level = ""
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
	LevelHint Level = "hint"
)

// Notice is a user-facing message. A notice with LevelNone clears the status line.
type Notice struct {
	Level Level
	Text  string
}

// Saved is the persisted form of a board. The logical item list is not part
// of it: a restored board only has its rendered fragment.
type Saved struct {
	Name       string
	Monospaced bool
	Size       int
	Markup     string
}

// Change is delivered to Board.OnChange after every mutation that reaches
// the rendered fragment. Transient changes only touched previews; Saved is
// the same as for the previous revision.
type Change struct {
	Revision  uint64
	Saved     Saved
	Transient bool
}
