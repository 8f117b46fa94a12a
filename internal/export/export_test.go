package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KufiCraft/internal/grid"
	"KufiCraft/internal/pathdata"
	"KufiCraft/internal/state"
)

func sample(t *testing.T) Document {
	t.Helper()
	b := state.New(state.Options{Name: "sample board", Monospaced: true})
	b.Push(b.Shape(grid.Point{X: 2, Y: 2}, false))
	_, err := b.Draw(b.Line([]grid.Point{{X: 10, Y: 10}, {X: 12, Y: 14}}), true)
	require.NoError(t, err)
	doc, err := FromSaved(b.Save())
	require.NoError(t, err)
	return doc
}

func TestFromSaved(t *testing.T) {
	doc := sample(t)
	assert.Equal(t, "sample board", doc.Name)
	assert.Equal(t, pathdata.Box{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3}, doc.Bounds)
	assert.NotContains(t, doc.Markup, "dummy")

	w, h := doc.PixelSize(10)
	assert.Equal(t, 30, w)
	assert.Equal(t, 30, h)
}

func TestFromSavedDropsPreviewOnlyBoards(t *testing.T) {
	b := state.New(state.Options{Monospaced: true})
	_, err := b.Draw(b.Line([]grid.Point{{X: 1, Y: 1}, {X: 3, Y: 3}}), true)
	require.NoError(t, err)
	_, err = FromSaved(state.Saved{Name: "x", Markup: b.Markup()})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, ".PNG": FormatPNG, " pdf ": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "my-kufi-board.png", FileName("  my kufi / board ", FormatPNG))
	assert.Equal(t, "kufi.svg", FileName("", FormatSVG))
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, sample(t), 10))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="30"`)
	assert.Contains(t, out, `viewBox="0 0 3 3"`)
	assert.Contains(t, out, `d="M 1,1 L 2,1 L 2,2 L 1,2 Z"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestCanvas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Canvas(&buf, "<g></g>", 800))
	assert.Contains(t, buf.String(), `viewBox="0 0 100 100"`)
	assert.Contains(t, buf.String(), `width="800"`)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sample(t), 10))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())

	r, g, b, _ := img.At(15, 15).RGBA()
	assert.Less(t, r+g+b, uint32(3*0x2000), "cell is painted")
	r, g, b, _ = img.At(3, 3).RGBA()
	assert.Greater(t, r+g+b, uint32(3*0xe000), "margin stays white")
}

func TestRasterizeTooLarge(t *testing.T) {
	_, err := Rasterize(sample(t), MaxPixels)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, sample(t), 10))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName("sample", FormatSVG))
	require.NoError(t, WriteFile(path, FormatSVG, sample(t), 4))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	err = WriteFile(filepath.Join(t.TempDir(), "x.gif"), Format("gif"), sample(t), 4)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
