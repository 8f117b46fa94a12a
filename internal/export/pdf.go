package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes doc as a single page sized to the raster, one point per pixel.
func PDF(w io.Writer, doc Document, scale float64) error {
	var img bytes.Buffer
	if err := PNG(&img, doc, scale); err != nil {
		return err
	}
	width, height := doc.PixelSize(scale)
	pw, ph := float64(width), float64(height)

	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetTitle(doc.Name, true)
	p.SetCreator("KufiCraft", true)
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("board", opts, &img)
	p.ImageOptions("board", 0, 0, pw, ph, false, opts, 0, "")
	if err := p.Output(w); err != nil {
		return fmt.Errorf("encode pdf: %w", err)
	}
	return nil
}
