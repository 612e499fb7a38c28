package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"sortviz/internal/sorting"
)

var notes = map[sorting.Kind]string{
	sorting.KindShell: `# Shell sort

Insertion sort over a shrinking **gap**: n/2, n/4, ... 1.

- The held bar is yellow while it waits for its slot.
- Bars shifting by one gap flash red.
- The panel shows ` + "`i`, `j`, `gap`" + ` and the pass number.
`,
	sorting.KindInsertion: `# Insertion sort

Each bar is held (yellow) while larger predecessors shift right one slot
at a time (red). A bar already in place is released without a write.
`,
	sorting.KindBubble: `# Bubble sort

Adjacent pairs are compared left to right and swapped when out of order.
Every pass runs to the end; there is no early exit on a clean pass.
`,
	sorting.KindQuick: `# Quick sort

Hoare partitioning around the **first** bar of each range.

- The pivot stays yellow and is marked ` + "`pivot <value> #<n>`" + `, where *n*
  counts partitions in progress.
- Bars are swapped by position: the bars move, values stay on them.
- Both halves of a split are sorted at the same time.
`,
}

// Notes returns the markdown notes for kind.
func Notes(kind sorting.Kind) string {
	if md, ok := notes[kind]; ok {
		return md
	}
	return fmt.Sprintf("# %s\n\nNo notes.\n", kind.Title())
}

// AboutRenderer renders algorithm notes for the about panel.
type AboutRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewAboutRenderer creates a renderer. style is a glamour standard style
// name: dark, light or notty.
func NewAboutRenderer(width int, style string) (*AboutRenderer, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &AboutRenderer{renderer: r, width: width}, nil
}

// StyleFor picks the glamour style for a theme.
func StyleFor(t Theme) string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Width returns the wrap width.
func (a *AboutRenderer) Width() int {
	return a.width
}

// Render renders the notes for kind.
func (a *AboutRenderer) Render(kind sorting.Kind) (string, error) {
	out, err := a.renderer.Render(Notes(kind))
	if err != nil {
		return "", fmt.Errorf("render %s notes: %w", kind, err)
	}
	return out, nil
}
