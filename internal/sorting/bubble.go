package sorting

import (
	"context"

	"sortviz/internal/element"
)

// BubbleSort runs the full double loop with no early exit. Every comparison is
// bracketed by three suspensions: after highlighting, after the compare/write,
// and after the reset.
type BubbleSort struct {
	opts Options
}

// NewBubbleSort creates a bubble sort driver.
func NewBubbleSort(opts Options) *BubbleSort {
	return &BubbleSort{opts: opts.withDefaults()}
}

func (s *BubbleSort) Kind() Kind { return KindBubble }

func (s *BubbleSort) Sort(ctx context.Context, seq Sequence) error {
	n := len(seq)
	if n <= 1 {
		return nil
	}
	if err := validate(seq); err != nil {
		return err
	}

	st := stepper{opts: s.opts}

	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1-i; j++ {
			a, b := seq[j], seq[j+1]

			if err := st.highlight(element.Active, a, b); err != nil {
				return err
			}
			if err := st.wait(ctx); err != nil {
				return err
			}

			if av, bv := a.Value(), b.Value(); av > bv {
				a.SetValue(bv)
				b.SetValue(av)
			}
			if err := st.wait(ctx); err != nil {
				return err
			}

			if err := st.highlight(element.None, a, b); err != nil {
				return err
			}
			if err := st.wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
