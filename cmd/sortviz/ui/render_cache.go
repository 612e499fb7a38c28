package ui

import (
	"hash/fnv"
	"sync"

	"sortviz/internal/element"
)

// FrameCache skips re-rendering the chart when nothing visible changed
// since the last frame. Repaints tick far more often than drivers step.
type FrameCache struct {
	mu      sync.Mutex
	lastKey uint64
	last    string
	valid   bool
	hits    int
	misses  int
}

// NewFrameCache creates an empty cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{}
}

// FrameKey hashes everything RenderBars output depends on.
func FrameKey(states []element.BarState, layout LayoutConfig, dark bool) uint64 {
	h := fnv.New64a()
	var b [8]byte

	writeInt := func(v int) {
		u := uint64(v)
		for i := range b {
			b[i] = byte(u >> (8 * i))
		}
		h.Write(b[:])
	}

	writeInt(layout.TerminalWidth)
	writeInt(layout.TerminalHeight)
	if layout.ShowMetadata {
		writeInt(1)
	} else {
		writeInt(0)
	}
	if dark {
		writeInt(1)
	} else {
		writeInt(0)
	}
	writeInt(len(states))
	for _, st := range states {
		writeInt(st.Value)
		writeInt(st.Position)
		writeInt(int(st.Highlight))
		h.Write([]byte(st.Label))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Render returns the cached frame for key or computes and stores it.
func (c *FrameCache) Render(key uint64, render func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && key == c.lastKey {
		c.hits++
		return c.last
	}
	c.misses++
	c.last = render()
	c.lastKey = key
	c.valid = true
	return c.last
}

// Invalidate forces the next Render to compute.
func (c *FrameCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.last = ""
	c.mu.Unlock()
}

// Stats returns hit and miss counts.
func (c *FrameCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
