package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"KufiCraft/internal/export"
)

const defaultExportScale = 20

// showExport asks for a format, then a destination, and writes the export.
func (a *App) showExport() {
	doc, err := export.FromSaved(a.board.Save())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	options := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		options[i] = string(f)
	}
	formats := widget.NewRadioGroup(options, nil)
	formats.Required = true
	formats.SetSelected(string(export.FormatPNG))

	dialog.ShowForm("Export board", "Next", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Format", formats)},
		func(ok bool) {
			if !ok {
				return
			}
			f, err := export.ParseFormat(formats.Selected)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.saveExport(doc, f)
		}, a.window)
}

func (a *App) saveExport(doc export.Document, f export.Format) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		a.writeExport(w, doc, f)
	}, a.window)
	d.SetFileName(export.FileName(doc.Name, f))
	d.Show()
}

func (a *App) writeExport(w fyne.URIWriteCloser, doc export.Document, f export.Format) {
	defer func() {
		if err := w.Close(); err != nil {
			a.log.Error("closing export", "err", err)
		}
	}()

	scale := a.opts.ExportScale
	if scale <= 0 {
		scale = defaultExportScale
	}
	if err := export.Encode(w, f, doc, scale); err != nil {
		a.log.Error("export failed", "format", f, "err", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.log.Info("board exported", "uri", w.URI().String(), "format", f)
	a.setStatus("Exported " + w.URI().Name())
}
