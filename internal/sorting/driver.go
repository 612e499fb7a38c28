// Package sorting implements the animated sorting drivers.
//
// Each driver sorts a Sequence in place while animating every comparison and
// write: it highlights the elements involved, suspends through a pacing.Pacer so
// the renderer can repaint, and resets the highlight afterwards. Drivers know
// nothing about rendering; they only use the Element capability interface.
package sorting

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"sortviz/internal/element"
	"sortviz/internal/metadata"
	"sortviz/internal/pacing"
)

var (
	// ErrCapabilityMissing is returned when a sequence contains an element that
	// cannot be read, written or highlighted.
	ErrCapabilityMissing = errors.New("element capability missing")

	// ErrUnknownKind is returned for an algorithm name no driver implements.
	ErrUnknownKind = errors.New("unknown sort kind")
)

// Default step timings.
const (
	DefaultStepDelay = 250 * time.Millisecond
	DefaultSwapDelay = 500 * time.Millisecond
)

// Element is the capability set a driver needs from a visual element.
type Element interface {
	Value() int
	SetValue(int)
	Position() int
	SetPosition(int)
	SetHighlight(element.Highlight) error
}

// Labeler is implemented by elements that can show a short text label.
type Labeler interface {
	SetLabel(string)
}

// Sequence is the ordered row of elements a driver sorts in place.
type Sequence []Element

// Values returns the element values in sequence order.
func (s Sequence) Values() []int {
	out := make([]int, len(s))
	for i, el := range s {
		out[i] = el.Value()
	}
	return out
}

// IsSorted reports whether the sequence is non-decreasing by value.
func (s Sequence) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1].Value() > s[i].Value() {
			return false
		}
	}
	return true
}

// FromBars adapts bars to a Sequence.
func FromBars(bars []*element.Bar) Sequence {
	seq := make(Sequence, len(bars))
	for i, b := range bars {
		seq[i] = b
	}
	return seq
}

// Driver sorts a sequence step by step.
type Driver interface {
	Kind() Kind
	Sort(ctx context.Context, seq Sequence) error
}

// Kind names an algorithm.
type Kind string

const (
	KindShell     Kind = "shell"
	KindInsertion Kind = "insertion"
	KindBubble    Kind = "bubble"
	KindQuick     Kind = "quicksort"
)

// Kinds returns every algorithm in display order.
func Kinds() []Kind {
	return []Kind{KindShell, KindInsertion, KindBubble, KindQuick}
}

// ParseKind resolves an algorithm name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shell":
		return KindShell, nil
	case "insertion":
		return KindInsertion, nil
	case "bubble":
		return KindBubble, nil
	case "quicksort", "quick":
		return KindQuick, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Title is the human-readable algorithm name.
func (k Kind) Title() string {
	switch k {
	case KindShell:
		return "Shell sort"
	case KindInsertion:
		return "Insertion sort"
	case KindBubble:
		return "Bubble sort"
	case KindQuick:
		return "Quick sort"
	default:
		return string(k)
	}
}

// Options configures a driver.
type Options struct {
	Pacer     pacing.Pacer
	Reporter  metadata.Reporter
	StepDelay time.Duration // after each highlight / write
	SwapDelay time.Duration // positional swaps during partitioning
}

// DefaultOptions returns options with the standard delays and a real-time pacer.
func DefaultOptions() Options {
	return Options{
		Pacer:     pacing.NewSleeper(1),
		Reporter:  metadata.Discard,
		StepDelay: DefaultStepDelay,
		SwapDelay: DefaultSwapDelay,
	}
}

func (o Options) withDefaults() Options {
	if o.Pacer == nil {
		o.Pacer = &pacing.Instant{}
	}
	if o.Reporter == nil {
		o.Reporter = metadata.Discard
	}
	return o
}

// New returns the driver for kind.
func New(kind Kind, opts Options) (Driver, error) {
	opts = opts.withDefaults()
	switch kind {
	case KindShell:
		return &ShellSort{opts: opts}, nil
	case KindInsertion:
		return &InsertionSort{opts: opts}, nil
	case KindBubble:
		return &BubbleSort{opts: opts}, nil
	case KindQuick:
		return &QuickSort{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

// validate rejects nil elements, including typed nil pointers.
func validate(seq Sequence) error {
	for i, el := range seq {
		if el == nil {
			return fmt.Errorf("%w: element %d is nil", ErrCapabilityMissing, i)
		}
		if v := reflect.ValueOf(el); v.Kind() == reflect.Ptr && v.IsNil() {
			return fmt.Errorf("%w: element %d is a nil %T", ErrCapabilityMissing, i, el)
		}
	}
	return nil
}

// stepper holds the choreography helpers shared by all drivers.
type stepper struct {
	opts Options
}

func (s stepper) wait(ctx context.Context) error {
	if err := s.opts.Pacer.Wait(ctx, s.opts.StepDelay); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	return nil
}

func (s stepper) waitSwap(ctx context.Context) error {
	if err := s.opts.Pacer.Wait(ctx, s.opts.SwapDelay); err != nil {
		return fmt.Errorf("suspend: %w", err)
	}
	return nil
}

func (s stepper) highlight(h element.Highlight, els ...Element) error {
	for _, el := range els {
		if err := el.SetHighlight(h); err != nil {
			return fmt.Errorf("highlight %v: %w", h, err)
		}
	}
	return nil
}

func (s stepper) publish(snap metadata.Snapshot) {
	s.opts.Reporter.Publish(snap)
}
