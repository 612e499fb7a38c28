package sorting

import (
	"context"

	"sortviz/internal/element"
)

// InsertionSort is the single-gap case of ShellSort with its own choreography:
// only the predecessor is highlighted on each shift.
type InsertionSort struct {
	opts Options
}

// NewInsertionSort creates an insertion sort driver.
func NewInsertionSort(opts Options) *InsertionSort {
	return &InsertionSort{opts: opts.withDefaults()}
}

func (s *InsertionSort) Kind() Kind { return KindInsertion }

func (s *InsertionSort) Sort(ctx context.Context, seq Sequence) error {
	if len(seq) <= 1 {
		return nil
	}
	if err := validate(seq); err != nil {
		return err
	}

	st := stepper{opts: s.opts}

	for i := 1; i < len(seq); i++ {
		tmp := seq[i]
		tmpValue := tmp.Value()

		if err := st.highlight(element.Tentative, tmp); err != nil {
			return err
		}
		if err := st.wait(ctx); err != nil {
			return err
		}

		j := i
		for j > 0 {
			prev := seq[j-1]
			prevValue := prev.Value()
			if prevValue <= tmpValue {
				break
			}

			if err := st.highlight(element.Active, prev); err != nil {
				return err
			}
			if err := st.wait(ctx); err != nil {
				return err
			}

			seq[j].SetValue(prevValue)
			if err := st.wait(ctx); err != nil {
				return err
			}

			if err := st.highlight(element.None, prev); err != nil {
				return err
			}
			if err := st.wait(ctx); err != nil {
				return err
			}
			j--
		}

		if err := place(ctx, st, seq[j], tmp, tmpValue, j == i); err != nil {
			return err
		}
	}
	return nil
}
