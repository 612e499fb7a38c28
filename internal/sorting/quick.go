package sorting

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sortviz/internal/element"
	"sortviz/internal/logging"
)

// QuickSort is recursive quick sort over Hoare partitioning with arr[low] as
// the pivot. Elements are swapped by position: the two handles trade slots in
// the sequence and trade their position index, values never move.
//
// Both halves of a split are sorted concurrently. They cover disjoint index
// ranges, so they never touch the same slot or element.
type QuickSort struct {
	opts   Options
	pivots atomic.Int64 // partitions currently in progress
}

// NewQuickSort creates a quick sort driver.
func NewQuickSort(opts Options) *QuickSort {
	return &QuickSort{opts: opts.withDefaults()}
}

func (q *QuickSort) Kind() Kind { return KindQuick }

func (q *QuickSort) Sort(ctx context.Context, seq Sequence) error {
	if len(seq) <= 1 {
		return nil
	}
	if err := validate(seq); err != nil {
		return err
	}
	q.pivots.Store(0)
	return q.SortRange(ctx, seq, 0, len(seq)-1)
}

// SortRange sorts seq[low..high] inclusive.
func (q *QuickSort) SortRange(ctx context.Context, seq Sequence, low, high int) error {
	if low < 0 || high >= len(seq) || low >= high {
		return nil
	}

	split, err := q.Partition(ctx, seq, low, high)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return q.SortRange(gctx, seq, low, split) })
	g.Go(func() error { return q.SortRange(gctx, seq, split+1, high) })
	return g.Wait()
}

// Active returns the number of partitions currently in progress.
func (q *QuickSort) Active() int64 {
	return q.pivots.Load()
}

// Partition splits seq[low..high] around the value of seq[low] and returns the
// split index s: every value in [low, s] is <= every value in [s+1, high].
func (q *QuickSort) Partition(ctx context.Context, seq Sequence, low, high int) (split int, err error) {
	st := stepper{opts: q.opts}

	pivot := seq[low]
	pivotValue := pivot.Value()
	n := q.pivots.Add(1)
	label := fmt.Sprintf("pivot %d #%d", pivotValue, n)
	logging.SortDebug("quicksort: partition [%d,%d] %s", low, high, label)

	defer func() {
		q.pivots.Add(-1)
		setLabel(pivot, "")
		if herr := pivot.SetHighlight(element.None); herr != nil && err == nil {
			err = fmt.Errorf("highlight %v: %w", element.None, herr)
		}
	}()

	mark := func() error {
		setLabel(pivot, label)
		return st.highlight(element.Tentative, pivot)
	}
	if err := mark(); err != nil {
		return 0, err
	}
	if err := st.wait(ctx); err != nil {
		return 0, err
	}

	i, j := low-1, high+1
	for {
		for {
			i++
			if err := q.flash(ctx, st, seq[i], pivot); err != nil {
				return 0, err
			}
			if seq[i].Value() >= pivotValue {
				break
			}
		}
		for {
			j--
			if err := q.flash(ctx, st, seq[j], pivot); err != nil {
				return 0, err
			}
			if seq[j].Value() <= pivotValue {
				break
			}
		}

		if i >= j {
			return j, nil
		}

		if err := q.swap(ctx, st, seq, i, j); err != nil {
			return 0, err
		}
		// The pivot may have been one of the swapped elements and lost its marks.
		if err := mark(); err != nil {
			return 0, err
		}
	}
}

// flash highlights a scan candidate for one step.
func (q *QuickSort) flash(ctx context.Context, st stepper, el, pivot Element) error {
	if err := st.highlight(element.Active, el); err != nil {
		return err
	}
	if err := st.wait(ctx); err != nil {
		return err
	}
	rest := element.None
	if el == pivot {
		rest = element.Tentative
	}
	return st.highlight(rest, el)
}

// swap exchanges seq[i] and seq[j] by position.
func (q *QuickSort) swap(ctx context.Context, st stepper, seq Sequence, i, j int) error {
	a, b := seq[i], seq[j]

	if err := st.highlight(element.Active, a, b); err != nil {
		return err
	}
	if err := st.waitSwap(ctx); err != nil {
		return err
	}

	pa, pb := a.Position(), b.Position()
	a.SetPosition(pb)
	b.SetPosition(pa)
	seq[i], seq[j] = b, a

	if err := st.waitSwap(ctx); err != nil {
		return err
	}
	return st.highlight(element.None, a, b)
}

func setLabel(el Element, label string) {
	if l, ok := el.(Labeler); ok {
		l.SetLabel(label)
	}
}
