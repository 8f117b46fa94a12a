package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// Rasterize draws doc onto a white RGBA image.
func Rasterize(doc Document, scale float64) (*image.RGBA, error) {
	width, height := doc.PixelSize(scale)
	if width > MaxPixels || height > MaxPixels {
		return nil, fmt.Errorf("%dx%d px: %w", width, height, ErrTooLarge)
	}
	var src bytes.Buffer
	if err := SVG(&src, doc, scale); err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(&src, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// PNG writes doc as a PNG image.
func PNG(w io.Writer, doc Document, scale float64) error {
	img, err := Rasterize(doc, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
