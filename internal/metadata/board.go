// Package metadata publishes algorithm-internal variables (index pointers, gap,
// pass number) so the rendering surface can show them next to the bars.
package metadata

import (
	"fmt"
	"sync/atomic"
)

// Snapshot is one published record. I and J are -1 outside the inner loop.
type Snapshot struct {
	Algorithm string
	I         int
	J         int
	Gap       int
	Pass      int
}

// Lines renders the snapshot the way the metadata panel shows it.
func (s Snapshot) Lines() []string {
	return []string{
		fmt.Sprintf("i: %d", s.I),
		fmt.Sprintf("j: %d", s.J),
		fmt.Sprintf("gap: %d", s.Gap),
		fmt.Sprintf("current pass: %d", s.Pass),
	}
}

// Reporter receives metadata updates from a driver.
type Reporter interface {
	Publish(Snapshot)
}

// Board keeps the latest snapshot. Publish replaces it atomically, so a reader
// never sees fields from two different publishes.
type Board struct {
	latest atomic.Pointer[Snapshot]
	count  atomic.Int64
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Publish replaces the displayed snapshot.
func (b *Board) Publish(s Snapshot) {
	b.latest.Store(&s)
	b.count.Add(1)
}

// Latest returns the most recent snapshot, if any.
func (b *Board) Latest() (Snapshot, bool) {
	p := b.latest.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}

// Count returns how many snapshots were published since the last Reset.
func (b *Board) Count() int64 {
	return b.count.Load()
}

// Reset clears the board.
func (b *Board) Reset() {
	b.latest.Store(nil)
	b.count.Store(0)
}

// Discard drops every snapshot.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Publish(Snapshot) {}

// Recorder keeps every snapshot in order. Not safe for concurrent publishers.
type Recorder struct {
	Snapshots []Snapshot
}

func (r *Recorder) Publish(s Snapshot) {
	r.Snapshots = append(r.Snapshots, s)
}

// Gaps returns the distinct gap values seen, in first-seen order.
func (r *Recorder) Gaps() []int {
	seen := make(map[int]bool)
	var gaps []int
	for _, s := range r.Snapshots {
		if !seen[s.Gap] {
			seen[s.Gap] = true
			gaps = append(gaps, s.Gap)
		}
	}
	return gaps
}

// Tee fans one publish out to several reporters.
func Tee(reporters ...Reporter) Reporter {
	return tee(reporters)
}

type tee []Reporter

func (t tee) Publish(s Snapshot) {
	for _, r := range t {
		r.Publish(s)
	}
}
