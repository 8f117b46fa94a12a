package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KufiCraft/internal/grid"
)

func TestSetToolEffects(t *testing.T) {
	tests := []struct {
		tool Tool
		want []Effect
	}{
		{ToolHand, []Effect{EffectHandCursor, EffectPreviewCleared, EffectLinePointsCleared}},
		{ToolPen, []Effect{EffectStylesReset, EffectPreviewCleared, EffectLinePointsCleared}},
		{ToolLine, []Effect{EffectStylesReset, EffectPreviewCleared}},
		{ToolArch, []Effect{EffectStylesReset, EffectPreviewCleared, EffectLinePointsCleared}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			b := mono()
			assert.Equal(t, tt.want, b.SetTool(tt.tool))
			assert.Equal(t, tt.tool, b.Tool())
		})
	}
}

func TestSetToolKeepsPendingArch(t *testing.T) {
	b := mono()
	b.SetTool(ToolArch)
	b.PointerDown(0.5, 0.5)
	b.PointerMove(2.5, 0.5)
	require.IsType(t, Arch{}, b.Pending())

	effects := b.SetTool(ToolArch)
	assert.NotContains(t, effects, EffectPreviewCleared)
	assert.IsType(t, Arch{}, b.Pending())
	assert.Equal(t, 1, dummies(b))

	effects = b.SetTool(ToolPen)
	assert.Contains(t, effects, EffectPreviewCleared)
	assert.Nil(t, b.Pending())
	assert.Zero(t, dummies(b))
}

func TestSetToolClearsLinePoints(t *testing.T) {
	b := mono()
	b.SetTool(ToolLine)
	click(b, 0.5, 0.5)
	require.Len(t, b.LinePoints(), 1)
	b.SetTool(ToolEraser)
	assert.Empty(t, b.LinePoints())
}

func TestSetToolNotices(t *testing.T) {
	b := mono()
	var got []Notice
	b.OnNotice = func(n Notice) { got = append(got, n) }
	b.SetTool(ToolArch)
	b.SetTool(ToolPen)
	require.Len(t, got, 2)
	assert.Equal(t, LevelInfo, got[0].Level)
	assert.Equal(t, LevelHint, got[1].Level)
	assert.Contains(t, hints, got[1].Text)
}

func TestSetColor(t *testing.T) {
	b := mono()
	var notices []Notice
	b.OnNotice = func(n Notice) { notices = append(notices, n) }
	b.SetTool(ToolEraser)
	effects := b.SetColor("teal")
	assert.Equal(t, EffectToolSwitched, effects[0])
	assert.Equal(t, ToolPen, b.Tool())
	assert.Equal(t, "teal", b.Color())
	require.NotEmpty(t, notices)
	assert.Equal(t, Notice{Level: LevelInfo, Text: "Color changed"}, notices[len(notices)-1])

	notices = nil
	b.SetTool(ToolArch)
	assert.Nil(t, b.SetColor("navy"))
	assert.Equal(t, ToolArch, b.Tool())
	assert.Equal(t, "navy", b.Arch(grid.Point{X: 1, Y: 1}, grid.Point{X: 3, Y: 1}).Stroke)
	require.NotEmpty(t, notices)
	assert.Equal(t, "Color changed", notices[len(notices)-1].Text)
}

func TestSetArchDir(t *testing.T) {
	b := mono()
	assert.Equal(t, 1, b.ArchDir())
	b.SetArchDir(0)
	assert.Equal(t, 0, b.ArchDir())
	b.SetArchDir(7)
	assert.Equal(t, 1, b.ArchDir())
}

func TestParseTool(t *testing.T) {
	tool, err := ParseTool("eraser")
	require.NoError(t, err)
	assert.Equal(t, ToolEraser, tool)
	_, err = ParseTool("brush")
	assert.Error(t, err)
}
