// Package element provides the visual bar handle the sorting drivers operate on.
// A Bar carries a numeric value, its current slot in the displayed row, a
// highlight state and an optional label. Renderers read it through Snapshot.
package element

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInvalidHighlightState is returned when a highlight outside the closed set is applied.
var ErrInvalidHighlightState = errors.New("invalid highlight state")

// Highlight is the visual state of a bar.
type Highlight int

const (
	None      Highlight = iota // default / reset
	Tentative                  // held out as candidate or pivot
	Active                     // engaged in a comparison or swap
)

func (h Highlight) String() string {
	switch h {
	case None:
		return "none"
	case Tentative:
		return "tentative"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("highlight(%d)", int(h))
	}
}

// Valid reports whether h is one of the known states.
func (h Highlight) Valid() bool {
	return h == None || h == Tentative || h == Active
}

// ParseHighlight maps a state name to a Highlight.
// The short names used by the browser version (reset, tmp, swap) are accepted too.
func ParseHighlight(name string) (Highlight, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "reset":
		return None, nil
	case "tentative", "tmp":
		return Tentative, nil
	case "active", "swap":
		return Active, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrInvalidHighlightState, name)
	}
}

// BarState is a consistent copy of a bar taken under its lock.
type BarState struct {
	Value     int
	Position  int
	Highlight Highlight
	Label     string
}

// Bar is one visual element of the row. Safe for concurrent use.
type Bar struct {
	mu        sync.RWMutex
	value     int
	position  int
	highlight Highlight
	label     string
}

// NewBar creates a bar at the given slot.
func NewBar(value, position int) *Bar {
	return &Bar{value: value, position: position}
}

// NewBars creates one bar per value, positioned 0..n-1.
func NewBars(values []int) []*Bar {
	bars := make([]*Bar, len(values))
	for i, v := range values {
		bars[i] = NewBar(v, i)
	}
	return bars
}

func (b *Bar) Value() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

func (b *Bar) SetValue(v int) {
	b.mu.Lock()
	b.value = v
	b.mu.Unlock()
}

func (b *Bar) Position() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.position
}

func (b *Bar) SetPosition(p int) {
	b.mu.Lock()
	b.position = p
	b.mu.Unlock()
}

// Highlight returns the current highlight state.
func (b *Bar) Highlight() Highlight {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.highlight
}

// SetHighlight applies h. Tentative and Active replace each other, None clears both.
// Value and position are never touched.
func (b *Bar) SetHighlight(h Highlight) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidHighlightState, h)
	}
	b.mu.Lock()
	b.highlight = h
	b.mu.Unlock()
	return nil
}

func (b *Bar) Label() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

func (b *Bar) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	b.mu.Unlock()
}

// Reset clears highlight and label.
func (b *Bar) Reset() {
	b.mu.Lock()
	b.highlight = None
	b.label = ""
	b.mu.Unlock()
}

// Snapshot returns a consistent copy of the bar.
func (b *Bar) Snapshot() BarState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BarState{
		Value:     b.value,
		Position:  b.position,
		Highlight: b.highlight,
		Label:     b.label,
	}
}
