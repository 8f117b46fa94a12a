package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/colornames"

	"KufiCraft/internal/state"
)

// palette lists the swatch colors by their SVG color names.
var palette = []string{"black", "darkred", "darkgreen", "navy", "goldenrod", "teal", "saddlebrown", "dimgray"}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Name     string
	OnTapped func(string)
}

func newColorSwatch(name string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func swatchColor(name string) color.Color {
	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c
	}
	return color.Black
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(swatchColor(s.Name))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

// toolbar holds the controls that mirror board settings.
type toolbar struct {
	tools   *widget.RadioGroup
	archDir *widget.Check
	name    *widget.Entry
}

// sync shows the board's current tool without re-applying it.
func (t *toolbar) sync(b *state.Board) {
	selected := string(b.Tool())
	if t.tools.Selected != selected {
		t.tools.SetSelected(selected)
	}
}

// newToolbar builds the toolbar for the app's board.
func (a *App) newToolbar() (*toolbar, fyne.CanvasObject) {
	b := a.board
	t := &toolbar{}

	names := make([]string, len(state.Tools))
	for i, tool := range state.Tools {
		names[i] = string(tool)
	}
	t.tools = widget.NewRadioGroup(names, func(s string) {
		tool, err := state.ParseTool(s)
		if err != nil || tool == b.Tool() {
			return
		}
		a.setTool(tool)
	})
	t.tools.Horizontal = true
	t.tools.Required = true
	t.tools.SetSelected(string(b.Tool()))

	colorBox := container.NewHBox()
	for _, name := range palette {
		colorBox.Add(newColorSwatch(name, func(c string) {
			b.SetColor(c)
			t.sync(b)
		}))
	}

	t.archDir = widget.NewCheck("Flip arch", func(on bool) {
		dir := 1
		if on {
			dir = 0
		}
		b.SetArchDir(dir)
	})
	t.archDir.SetChecked(b.ArchDir() == 0)

	t.name = widget.NewEntry()
	t.name.SetText(b.Name())
	t.name.SetPlaceHolder("Board name")
	t.name.OnChanged = b.SetName

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { a.zoom(true) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { a.zoom(false) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), a.undo),
		widget.NewToolbarAction(theme.DeleteIcon(), a.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.save),
		widget.NewToolbarAction(theme.DownloadIcon(), a.showExport),
	)

	nameBox := container.NewGridWrap(fyne.NewSize(180, t.name.MinSize().Height), t.name)
	return t, container.NewHBox(
		nameBox,
		widget.NewSeparator(),
		t.tools,
		widget.NewSeparator(),
		colorBox,
		t.archDir,
		widget.NewSeparator(),
		actions,
	)
}
