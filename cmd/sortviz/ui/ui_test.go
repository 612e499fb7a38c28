package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortviz/internal/element"
	"sortviz/internal/metadata"
	"sortviz/internal/sorting"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("SORTVIZ_DARK_MODE", "1")
	assert.True(t, DetectTheme().IsDark, "expected dark theme when SORTVIZ_DARK_MODE=1")

	t.Setenv("SORTVIZ_DARK_MODE", "")
	assert.False(t, DetectTheme().IsDark, "expected light theme by default")

	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark, "background 0 is dark")

	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme().IsDark, "background 15 is light")
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("SORTVIZ_DARK_MODE", "")

	assert.True(t, ThemeFor("dark").IsDark)
	assert.False(t, ThemeFor("LIGHT").IsDark)
	assert.False(t, ThemeFor("auto").IsDark)
}

func TestBarStyle(t *testing.T) {
	s := NewStyles(LightTheme())
	assert.Equal(t, s.BarTentative.GetForeground(), s.BarStyle(element.Tentative).GetForeground())
	assert.Equal(t, s.BarActive.GetForeground(), s.BarStyle(element.Active).GetForeground())
	assert.Equal(t, s.Bar.GetForeground(), s.BarStyle(element.None).GetForeground())
}

func TestLayout(t *testing.T) {
	l := NewLayoutConfig(40, 16, false)
	assert.Equal(t, 36, l.ContentWidth())
	assert.Equal(t, 9, l.ChartHeight())
	assert.True(t, l.IsCompact)

	w, gap := l.BarGeometry(2)
	assert.Equal(t, MaxBarWidth, w)
	assert.Equal(t, BarGap, gap)

	w, gap = l.BarGeometry(200)
	assert.Equal(t, 1, w)
	assert.Equal(t, 0, gap)

	w, gap = l.BarGeometry(0)
	assert.Zero(t, w)
	assert.Zero(t, gap)

	small := NewLayoutConfig(10, 5, true)
	assert.Equal(t, MinimumTerminalWidth, small.TerminalWidth)
	assert.Equal(t, MinChartHeight, small.ChartHeight())
}

func TestRenderBars(t *testing.T) {
	s := NewStyles(LightTheme())
	l := NewLayoutConfig(40, 16, false)
	states := []element.BarState{
		{Value: 10, Position: 0},
		{Value: 5, Position: 1, Highlight: element.Tentative, Label: "pivot 5 #1"},
	}

	out := RenderBars(states, l, s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, l.ChartHeight()+2)

	full := strings.Repeat(blockRune, MaxBarWidth)
	assert.Equal(t, 9+4, strings.Count(out, full))
	assert.Contains(t, lines[len(lines)-2], labelMarker)
	assert.Contains(t, lines[len(lines)-1], "10")
	assert.Contains(t, lines[len(lines)-1], "5")
}

func TestRenderBars_Empty(t *testing.T) {
	out := RenderBars(nil, NewLayoutConfig(80, 24, true), NewStyles(LightTheme()))
	assert.Contains(t, out, "randomize")
}

func TestRenderLabels(t *testing.T) {
	s := NewStyles(LightTheme())
	assert.Empty(t, RenderLabels([]element.BarState{{Value: 1}}, s))

	out := RenderLabels([]element.BarState{{Label: "pivot 9 #1"}, {}, {Label: "pivot 3 #2"}}, s)
	assert.Contains(t, out, "pivot 9 #1")
	assert.Contains(t, out, "pivot 3 #2")
}

func TestRenderMetadata(t *testing.T) {
	s := NewStyles(DarkTheme())

	out := RenderMetadata(metadata.Snapshot{}, false, s)
	assert.Contains(t, out, "i: -")
	assert.Contains(t, out, "current pass: -")

	out = RenderMetadata(metadata.Snapshot{Algorithm: "shell", I: 3, J: 1, Gap: 2, Pass: 1}, true, s)
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, "i: 3")
	assert.Contains(t, out, "j: 1")
	assert.Contains(t, out, "gap: 2")
	assert.Contains(t, out, "current pass: 1")
}

func TestAxisCell(t *testing.T) {
	assert.Equal(t, " 10 ", axisCell(10, 4))
	assert.Equal(t, "·", axisCell(100, 1))
	assert.Equal(t, "7", axisCell(7, 1))
}

func TestFrameCache(t *testing.T) {
	c := NewFrameCache()
	l := NewLayoutConfig(80, 24, true)
	states := []element.BarState{{Value: 3}, {Value: 1, Position: 1}}

	calls := 0
	render := func() string { calls++; return "frame" }

	k := FrameKey(states, l, false)
	assert.Equal(t, "frame", c.Render(k, render))
	assert.Equal(t, "frame", c.Render(k, render))
	assert.Equal(t, 1, calls)

	states[1].Highlight = element.Active
	assert.NotEqual(t, k, FrameKey(states, l, false))
	c.Render(FrameKey(states, l, false), render)
	assert.Equal(t, 2, calls)

	c.Invalidate()
	c.Render(FrameKey(states, l, false), render)
	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, misses)
}

func TestAboutRenderer(t *testing.T) {
	r, err := NewAboutRenderer(60, "notty")
	require.NoError(t, err)
	assert.Equal(t, 60, r.Width())

	out, err := r.Render(sorting.KindQuick)
	require.NoError(t, err)
	assert.Contains(t, out, "Hoare")

	for _, kind := range sorting.Kinds() {
		assert.Contains(t, Notes(kind), "#")
	}
	assert.Contains(t, Notes(sorting.Kind("odd")), "No notes")
	assert.Equal(t, "dark", StyleFor(DarkTheme()))
}
