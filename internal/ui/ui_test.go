package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KufiCraft/internal/grid"
	"KufiCraft/internal/state"
)

func TestToDocument(t *testing.T) {
	assert.Equal(t, 0.0, toDocument(0, 800))
	assert.Equal(t, 50.0, toDocument(400, 800))
	assert.Equal(t, 100.0, toDocument(800, 800))
	assert.Equal(t, 0.0, toDocument(10, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), clamp(-5, 0, 100))
	assert.Equal(t, float32(100), clamp(150, 0, 100))
	assert.Equal(t, float32(0), clamp(30, 0, -20), "view larger than board")
}

func press(w *BoardWidget, b desktop.MouseButton, x, y float32) {
	e := &desktop.MouseEvent{Button: b}
	e.Position = fyne.NewPos(x, y)
	w.MouseDown(e)
	w.MouseUp(e)
}

func TestBoardWidgetGestures(t *testing.T) {
	test.NewTempApp(t)
	b := state.New(state.Options{Monospaced: true})
	w := NewBoardWidget(b)
	require.Equal(t, float32(800), w.Side())

	// 8px per unit: (84, 84) is document (10.5, 10.5), cell (11, 11).
	press(w, desktop.MouseButtonPrimary, 84, 84)
	require.Len(t, b.Items(), 1)
	assert.Equal(t, grid.Point{X: 11, Y: 11}, b.Items()[0].(state.Shape).Point)

	press(w, desktop.MouseButtonSecondary, 84, 84)
	assert.Empty(t, b.Items())

	b.SetTool(state.ToolHand)
	press(w, desktop.MouseButtonPrimary, 84, 84)
	assert.Empty(t, b.Items(), "hand tool never paints")
	assert.Equal(t, desktop.PointerCursor, w.Cursor())
}

func TestAppShortcutsAndNotices(t *testing.T) {
	fa := test.NewTempApp(t)
	b := state.New(state.Options{Name: "basmala", Monospaced: true})
	a := New(fa, b, Options{})

	assert.Equal(t, "basmala - KufiCraft", a.window.Title())

	test.TypeOnCanvas(a.window.Canvas(), "l")
	assert.Equal(t, state.ToolLine, b.Tool())
	assert.Equal(t, string(state.ToolLine), a.toolbar.tools.Selected)

	b.SetArchDir(0)
	test.TypeOnCanvas(a.window.Canvas(), "c")
	assert.Equal(t, state.ToolArch, b.Tool())
	assert.Equal(t, 1, b.ArchDir(), "keyboard arch resets the direction")

	a.undo()
	assert.Eventually(t, func() bool { return a.status.Text == "Nothing to undo yet" }, time.Second, 10*time.Millisecond)

	a.save()
	assert.Eventually(t, func() bool { return a.status.Text == "Saving is not configured" }, time.Second, 10*time.Millisecond)
}
