package export

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"KufiCraft/internal/grid"
)

// SVG writes a standalone SVG document sized at scale pixels per unit.
func SVG(w io.Writer, doc Document, scale float64) error {
	width, height := doc.PixelSize(scale)
	b := doc.Bounds
	viewBox := fmt.Sprintf(`viewBox="%s %s %s %s"`, num(b.MinX), num(b.MinY), num(b.Width()), num(b.Height()))
	return envelope(w, width, height, viewBox, doc.Markup)
}

// Canvas writes the whole board at size pixels, as shown while editing.
func Canvas(w io.Writer, markup string, size int) error {
	viewBox := fmt.Sprintf(`viewBox="0 0 %d %d"`, grid.Extent, grid.Extent)
	return envelope(w, size, size, viewBox, markup)
}

func envelope(w io.Writer, width, height int, viewBox, markup string) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height, viewBox)
	io.WriteString(canvas.Writer, markup)
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
