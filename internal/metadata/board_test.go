package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_PublishReplaces(t *testing.T) {
	b := NewBoard()
	_, ok := b.Latest()
	assert.False(t, ok)

	b.Publish(Snapshot{Algorithm: "shell", I: -1, J: -1, Gap: 4, Pass: 1})
	b.Publish(Snapshot{Algorithm: "shell", I: 5, J: 3, Gap: 2, Pass: 2})

	got, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, Snapshot{Algorithm: "shell", I: 5, J: 3, Gap: 2, Pass: 2}, got)
	assert.EqualValues(t, 2, b.Count())

	b.Reset()
	_, ok = b.Latest()
	assert.False(t, ok)
	assert.Zero(t, b.Count())
}

// Concurrent publishers of self-consistent snapshots must never produce a mixed read.
func TestBoard_NoPartialUpdate(t *testing.T) {
	b := NewBoard()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := n*1000 + i
				b.Publish(Snapshot{I: v, J: v, Gap: v, Pass: v})
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			if s, ok := b.Latest(); ok {
				if s.I != s.J || s.J != s.Gap || s.Gap != s.Pass {
					t.Errorf("partial update observed: %+v", s)
					return
				}
			}
		}
	}()

	wg.Wait()
	<-done
}

func TestSnapshot_Lines(t *testing.T) {
	lines := Snapshot{I: -1, J: -1, Gap: 12, Pass: 1}.Lines()
	assert.Equal(t, []string{"i: -1", "j: -1", "gap: 12", "current pass: 1"}, lines)
}

func TestRecorderAndTee(t *testing.T) {
	rec := &Recorder{}
	board := NewBoard()
	r := Tee(rec, board, Discard)

	r.Publish(Snapshot{Gap: 2})
	r.Publish(Snapshot{Gap: 2, I: 3})
	r.Publish(Snapshot{Gap: 1})

	assert.Len(t, rec.Snapshots, 3)
	assert.Equal(t, []int{2, 1}, rec.Gaps())
	latest, _ := board.Latest()
	assert.Equal(t, 1, latest.Gap)
}
