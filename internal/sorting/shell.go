package sorting

import (
	"context"

	"sortviz/internal/element"
	"sortviz/internal/logging"
	"sortviz/internal/metadata"
)

// ShellSort is gapped insertion sort over halving gaps. It is the only driver
// that reports metadata.
type ShellSort struct {
	opts Options
}

// NewShellSort creates a shell sort driver.
func NewShellSort(opts Options) *ShellSort {
	return &ShellSort{opts: opts.withDefaults()}
}

func (s *ShellSort) Kind() Kind { return KindShell }

// Gaps returns the gap sequence used for n elements: n/2, n/4, ..., 1.
func Gaps(n int) []int {
	var gaps []int
	for gap := n / 2; gap > 0; gap /= 2 {
		gaps = append(gaps, gap)
	}
	return gaps
}

func (s *ShellSort) Sort(ctx context.Context, seq Sequence) error {
	if len(seq) <= 1 {
		return nil
	}
	if err := validate(seq); err != nil {
		return err
	}

	st := stepper{opts: s.opts}
	n := len(seq)
	pass := 1
	snap := func(i, j, gap int) metadata.Snapshot {
		return metadata.Snapshot{Algorithm: string(KindShell), I: i, J: j, Gap: gap, Pass: pass}
	}

	for _, gap := range Gaps(n) {
		logging.SortDebug("shell: pass %d gap %d", pass, gap)
		st.publish(snap(-1, -1, gap))

		for i := gap; i < n; i++ {
			tmp := seq[i]
			tmpValue := tmp.Value()

			if err := st.highlight(element.Tentative, tmp); err != nil {
				return err
			}
			if err := st.wait(ctx); err != nil {
				return err
			}

			j := i
			st.publish(snap(i, j, gap))

			for ; j >= gap; j -= gap {
				cur, prev := seq[j], seq[j-gap]
				prevValue := prev.Value()
				if prevValue <= tmpValue {
					break
				}

				// cur is tmp itself on the first shift; keep it tentative.
				engaged := []Element{prev}
				if i != j {
					engaged = append(engaged, cur)
				}
				if err := st.highlight(element.Active, engaged...); err != nil {
					return err
				}
				if err := st.wait(ctx); err != nil {
					return err
				}

				cur.SetValue(prevValue)
				if err := st.wait(ctx); err != nil {
					return err
				}

				if err := st.highlight(element.None, engaged...); err != nil {
					return err
				}
				if err := st.wait(ctx); err != nil {
					return err
				}

				st.publish(snap(i, j, gap))
			}

			if err := place(ctx, st, seq[j], tmp, tmpValue, j == i); err != nil {
				return err
			}
		}

		pass++
		st.publish(snap(-1, -1, gap))
	}
	return nil
}

// place finishes one insertion. If the held element never moved it is only
// un-highlighted; otherwise the final slot receives the held value.
func place(ctx context.Context, st stepper, slot, held Element, value int, unmoved bool) error {
	if unmoved {
		if err := st.highlight(element.None, held); err != nil {
			return err
		}
		return st.wait(ctx)
	}

	if err := st.highlight(element.Active, slot, held); err != nil {
		return err
	}
	if err := st.wait(ctx); err != nil {
		return err
	}

	slot.SetValue(value)

	if err := st.highlight(element.None, slot, held); err != nil {
		return err
	}
	return st.wait(ctx)
}
