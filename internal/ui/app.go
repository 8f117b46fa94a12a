// Package ui is the fyne desktop front end of the board.
package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"KufiCraft/internal/logger"
	"KufiCraft/internal/state"
	"KufiCraft/internal/storage"
)

// Options wires the app to the rest of the program.
type Options struct {
	// Store persists the board on save. Saving is disabled when nil.
	Store storage.Store
	// ExportScale is the pixels per unit used for PNG and PDF exports.
	ExportScale float64
	// ShareURL is shown in the status bar when the live preview runs.
	ShareURL string
}

// App is one board window.
type App struct {
	board   *state.Board
	opts    Options
	window  fyne.Window
	widget  *BoardWidget
	scroll  *container.Scroll
	status  *widget.Label
	toolbar *toolbar
	log     *slog.Logger
}

// toolKeys maps single-key shortcuts to tools.
var toolKeys = map[rune]state.Tool{
	'h': state.ToolHand,
	'p': state.ToolPen,
	'e': state.ToolEraser,
	'l': state.ToolLine,
	'c': state.ToolArch,
}

// New builds the window for b inside fa.
func New(fa fyne.App, b *state.Board, opts Options) *App {
	a := &App{
		board:  b,
		opts:   opts,
		window: fa.NewWindow(title(b)),
		status: widget.NewLabel("Ready"),
		log:    logger.For("ui"),
	}
	a.status.Truncation = fyne.TextTruncateEllipsis
	a.widget = NewBoardWidget(b)
	a.scroll = container.NewScroll(a.widget)
	a.widget.scroll = a.scroll

	b.OnNotice = a.notice
	next := b.OnChange
	b.OnChange = func(c state.Change) {
		if next != nil {
			next(c)
		}
		a.window.SetTitle(title(b))
	}

	tb, bar := a.newToolbar()
	a.toolbar = tb

	a.window.SetContent(container.NewBorder(bar, a.status, nil, nil, a.scroll))
	a.window.Resize(fyne.NewSize(1024, 768))
	a.addShortcuts()

	if opts.ShareURL != "" {
		a.setStatus("Live preview at " + opts.ShareURL)
	}
	return a
}

// RunApp opens a window for b and blocks until it is closed.
func RunApp(b *state.Board, opts Options) {
	a := New(app.NewWithID("io.kuficraft.board"), b, opts)
	a.window.ShowAndRun()
}

func title(b *state.Board) string {
	if b.Name() == "" {
		return "KufiCraft"
	}
	return b.Name() + " - KufiCraft"
}

func (a *App) addShortcuts() {
	c := a.window.Canvas()
	c.SetOnTypedRune(func(r rune) {
		tool, ok := toolKeys[r]
		if !ok {
			return
		}
		if tool == state.ToolArch {
			a.board.SetArchDir(1)
			a.toolbar.archDir.SetChecked(false)
		}
		a.setTool(tool)
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { a.save() })
}

func (a *App) setTool(t state.Tool) {
	effects := a.board.SetTool(t)
	a.log.Debug("tool switched", "tool", t, "effects", effects)
	a.toolbar.sync(a.board)
}

func (a *App) zoom(in bool) {
	if err := a.board.Zoom(in); err != nil {
		a.log.Debug("zoom refused", "err", err)
		return
	}
	a.scroll.Refresh()
}

func (a *App) undo() {
	a.board.Undo()
}

func (a *App) confirmClear() {
	dialog.ShowConfirm("Clear board", "Clearing the board cannot be undone. Continue?", func(ok bool) {
		if ok {
			a.board.Empty()
		}
	}, a.window)
}

func (a *App) save() {
	if a.opts.Store == nil {
		a.setStatus("Saving is not configured")
		return
	}
	if err := a.opts.Store.Save(a.board.ID, a.board.Save()); err != nil {
		a.log.Error("save failed", "err", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.setStatus("Saved " + a.board.Name())
}

func (a *App) notice(n state.Notice) {
	switch n.Level {
	case state.LevelNone:
		a.setStatus("")
	case state.LevelHint:
		a.setStatus("Tip: " + n.Text)
	default:
		a.setStatus(n.Text)
	}
}

// setStatus is safe to call from any goroutine.
func (a *App) setStatus(text string) {
	fyne.Do(func() {
		a.status.SetText(text)
	})
}
