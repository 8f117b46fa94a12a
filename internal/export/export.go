// Package export renders a saved board to SVG, PNG and PDF files.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"KufiCraft/internal/logger"
	"KufiCraft/internal/pathdata"
	"KufiCraft/internal/state"
)

var (
	// ErrEmpty is returned for a board with nothing drawn.
	ErrEmpty = errors.New("board is empty")
	// ErrUnknownFormat is returned by ParseFormat.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrTooLarge is returned when the raster would exceed MaxPixels per side.
	ErrTooLarge = errors.New("export too large")
)

const (
	// Margin pads the drawing on every side, in document units.
	Margin = 1.0
	// MaxPixels bounds each side of a raster export.
	MaxPixels = 12000
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

var Formats = []Format{FormatSVG, FormatPNG, FormatPDF}

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Document is a board prepared for export.
type Document struct {
	Name   string
	Markup string
	Bounds pathdata.Box
}

// FromSaved prepares a saved board for export. Preview nodes are dropped and
// the view box is the painted extent plus Margin.
func FromSaved(s state.Saved) (Document, error) {
	nodes, err := state.ParseMarkup(s.Markup)
	if err != nil {
		return Document{}, fmt.Errorf("export %q: %w", s.Name, err)
	}
	kept := nodes[:0]
	for _, n := range nodes {
		if !n.Dummy {
			n.Style = ""
			kept = append(kept, n)
		}
	}
	box, ok := state.Bounds(kept)
	if !ok {
		return Document{}, fmt.Errorf("export %q: %w", s.Name, ErrEmpty)
	}
	return Document{
		Name:   s.Name,
		Markup: state.Markup(kept),
		Bounds: box.Inflate(Margin),
	}, nil
}

// PixelSize returns the raster size at scale pixels per document unit.
func (d Document) PixelSize(scale float64) (int, int) {
	w := int(math.Ceil(d.Bounds.Width() * scale))
	h := int(math.Ceil(d.Bounds.Height() * scale))
	return max(w, 1), max(h, 1)
}

// Encode writes doc in the given format.
func Encode(w io.Writer, f Format, doc Document, scale float64) error {
	switch f {
	case FormatSVG:
		return SVG(w, doc, scale)
	case FormatPNG:
		return PNG(w, doc, scale)
	case FormatPDF:
		return PDF(w, doc, scale)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// FileName builds a file name for a board name.
func FileName(name string, f Format) string {
	name = strings.Join(strings.Fields(state.SanitizeName(name)), "-")
	if name == "" {
		name = "kufi"
	}
	return name + "." + string(f)
}

// WriteFile encodes doc into path.
func WriteFile(path string, f Format, doc Document, scale float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := Encode(file, f, doc, scale); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	w, h := doc.PixelSize(scale)
	logger.For("export").Info("board exported", "path", path, "format", f, "width", w, "height", h)
	return nil
}
