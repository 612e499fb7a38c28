package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sortviz/internal/element"
	"sortviz/internal/metadata"
)

const (
	blockRune   = "█"
	labelMarker = "▲"
)

// RenderBars draws states as vertical bars, tallest value at full chart
// height, followed by a pivot marker row and a value axis.
// states must already be ordered by position.
func RenderBars(states []element.BarState, layout LayoutConfig, s Styles) string {
	if len(states) == 0 {
		return s.Muted.Render("no bars, press r to randomize")
	}

	width, gap := layout.BarGeometry(len(states))
	height := layout.ChartHeight()

	maxValue := 1
	for _, st := range states {
		if st.Value > maxValue {
			maxValue = st.Value
		}
	}
	heights := make([]int, len(states))
	for i, st := range states {
		h := st.Value * height / maxValue
		if h < 1 && st.Value > 0 {
			h = 1
		}
		heights[i] = h
	}

	spacer := strings.Repeat(" ", gap)
	block := strings.Repeat(blockRune, width)
	blank := strings.Repeat(" ", width)

	rows := make([]string, 0, height+2)
	var b strings.Builder
	for row := height; row >= 1; row-- {
		b.Reset()
		for i, st := range states {
			if i > 0 {
				b.WriteString(spacer)
			}
			if heights[i] >= row {
				b.WriteString(s.BarStyle(st.Highlight).Render(block))
			} else {
				b.WriteString(blank)
			}
		}
		rows = append(rows, b.String())
	}

	// Pivot marker row
	b.Reset()
	for i, st := range states {
		if i > 0 {
			b.WriteString(spacer)
		}
		if st.Label != "" {
			b.WriteString(s.BarLabel.Render(center(labelMarker, width)))
		} else {
			b.WriteString(blank)
		}
	}
	rows = append(rows, b.String())

	// Value axis
	b.Reset()
	for i, st := range states {
		if i > 0 {
			b.WriteString(spacer)
		}
		b.WriteString(s.Axis.Render(axisCell(st.Value, width)))
	}
	rows = append(rows, b.String())

	return strings.Join(rows, "\n")
}

// RenderLabels lists the pivot labels currently shown, left to right.
func RenderLabels(states []element.BarState, s Styles) string {
	var labels []string
	for _, st := range states {
		if st.Label != "" {
			labels = append(labels, st.Label)
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return s.BarLabel.Render(labelMarker + " " + strings.Join(labels, "  "))
}

// RenderMetadata draws the metadata panel. ok=false means nothing was published yet.
func RenderMetadata(snap metadata.Snapshot, ok bool, s Styles) string {
	title := "metadata"
	lines := []string{"i: -", "j: -", "gap: -", "current pass: -"}
	if ok {
		if snap.Algorithm != "" {
			title = snap.Algorithm
		}
		lines = snap.Lines()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		s.Body.Render(strings.Join(lines, "\n")),
	)
	return s.Panel.Render(body)
}

// RenderLegend explains the bar colors.
func RenderLegend(s Styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.Bar.Render(blockRune), s.Muted.Render(" idle  "),
		s.BarTentative.Render(blockRune), s.Muted.Render(" held  "),
		s.BarActive.Render(blockRune), s.Muted.Render(" moving"),
	)
}

// axisCell shows the value when it fits the bar width, a tick otherwise.
func axisCell(value, width int) string {
	text := strconv.Itoa(value)
	if len(text) > width {
		text = "·"
	}
	return center(text, width)
}

func center(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}
