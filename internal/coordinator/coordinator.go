// Package coordinator owns the live bar sequence and makes sure only one sort
// animates it at a time.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"sortviz/internal/element"
	"sortviz/internal/logging"
	"sortviz/internal/metadata"
	"sortviz/internal/pacing"
	"sortviz/internal/random"
	"sortviz/internal/sorting"
)

var (
	// ErrAlreadyRunning is returned by StartSort while another run holds the guard.
	ErrAlreadyRunning = errors.New("sort already running")

	// ErrBusy is returned by Randomize while a sort is running.
	ErrBusy = errors.New("sequence is being sorted")

	// ErrInvalidCount is returned by Randomize for a count outside [1, MaxBars].
	ErrInvalidCount = errors.New("invalid bar count")

	// ErrDriverPanic wraps a panic recovered from a driver.
	ErrDriverPanic = errors.New("sort driver panicked")
)

// MaxBars bounds Randomize.
const MaxBars = 200

// DefaultCount is the number of bars a fresh coordinator starts with.
const DefaultCount = 25

// Timing holds the delays applied to the next run.
type Timing struct {
	StepDelay time.Duration
	SwapDelay time.Duration
	Speed     float64
}

// DefaultTiming returns the standard delays at normal speed.
func DefaultTiming() Timing {
	return Timing{
		StepDelay: sorting.DefaultStepDelay,
		SwapDelay: sorting.DefaultSwapDelay,
		Speed:     1,
	}
}

// Options configures a Coordinator.
type Options struct {
	Timing Timing

	// Pacer defaults to a Sleeper running at Timing.Speed.
	Pacer pacing.Pacer

	// Generator defaults to values in [1, 100].
	Generator *random.Generator

	// InitialCount bars are drawn at construction. Zero means DefaultCount,
	// negative means start empty.
	InitialCount int
}

// Stats describes the last finished run.
type Stats struct {
	RunID       string
	Kind        sorting.Kind
	Started     time.Time
	Duration    time.Duration
	Suspensions int64
	Publishes   int64
	Err         error
}

// Coordinator serializes sort runs over one bar sequence.
type Coordinator struct {
	running atomic.Bool

	mu     sync.RWMutex
	bars   []*element.Bar
	timing Timing
	last   *Stats

	board *metadata.Board
	pacer pacing.Pacer
	gen   *random.Generator
}

// New creates a coordinator.
func New(opts Options) (*Coordinator, error) {
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Timing.Speed <= 0 {
		opts.Timing.Speed = 1
	}
	if opts.Pacer == nil {
		opts.Pacer = pacing.NewSleeper(opts.Timing.Speed)
	}
	if opts.Generator == nil {
		gen, err := random.New(random.DefaultMin, random.DefaultMax)
		if err != nil {
			return nil, err
		}
		opts.Generator = gen
	}

	c := &Coordinator{
		timing: opts.Timing,
		board:  metadata.NewBoard(),
		pacer:  opts.Pacer,
		gen:    opts.Generator,
	}

	count := opts.InitialCount
	if count == 0 {
		count = DefaultCount
	}
	if count > 0 {
		if err := c.Randomize(count); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// acquire takes the run guard. The returned release must be called exactly once.
func (c *Coordinator) acquire() (release func(), ok bool) {
	if !c.running.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() { once.Do(func() { c.running.Store(false) }) }, true
}

// Sorting reports whether a run currently holds the guard.
func (c *Coordinator) Sorting() bool {
	return c.running.Load()
}

// StartSort animates the current sequence with the driver for kind and
// blocks until it finishes. The guard is released on every exit path.
func (c *Coordinator) StartSort(ctx context.Context, kind sorting.Kind) (err error) {
	release, ok := c.acquire()
	if !ok {
		logging.CoordinatorWarn("start %s rejected: %v", kind, ErrAlreadyRunning)
		return ErrAlreadyRunning
	}
	defer release()

	c.mu.RLock()
	timing := c.timing
	handles := slices.Clone(c.bars)
	c.mu.RUnlock()

	driver, err := sorting.New(kind, sorting.Options{
		Pacer:     c.pacer,
		Reporter:  c.board,
		StepDelay: timing.StepDelay,
		SwapDelay: timing.SwapDelay,
	})
	if err != nil {
		return err
	}

	stats := Stats{RunID: uuid.NewString(), Kind: kind, Started: time.Now()}
	log := logging.WithRunID(logging.CategoryCoordinator, stats.RunID).WithField("kind", string(kind))
	timer := logging.StartTimer(logging.CategoryCoordinator, kind.Title())

	c.board.Reset()
	for _, b := range handles {
		b.Reset()
	}

	var before int64
	counter, counts := c.pacer.(pacing.Counter)
	if counts {
		before = counter.Count()
	}

	log.Info("starting %s over %d bars", kind.Title(), len(handles))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrDriverPanic, r)
		}
		c.adopt(handles)

		stats.Duration = timer.Stop()
		stats.Publishes = c.board.Count()
		if counts {
			stats.Suspensions = counter.Count() - before
		}
		stats.Err = err

		c.mu.Lock()
		c.last = &stats
		c.mu.Unlock()

		if err != nil {
			log.Warn("run failed after %v: %v", stats.Duration, err)
		} else {
			log.Info("run finished in %v (%d suspensions)", stats.Duration, stats.Suspensions)
		}
	}()

	return driver.Sort(ctx, sorting.FromBars(handles))
}

// adopt stores the post-run ordering: handles sorted by their position index.
func (c *Coordinator) adopt(handles []*element.Bar) {
	ordered := slices.Clone(handles)
	slices.SortStableFunc(ordered, func(a, b *element.Bar) int {
		return a.Position() - b.Position()
	})
	for i, b := range ordered {
		b.SetPosition(i)
	}

	c.mu.Lock()
	c.bars = ordered
	c.mu.Unlock()
}

// Randomize replaces the sequence with count fresh bars.
func (c *Coordinator) Randomize(count int) error {
	if count < 1 || count > MaxBars {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidCount, count, MaxBars)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Checked under mu: StartSort takes the guard before it copies the handles.
	if c.running.Load() {
		logging.CoordinatorWarn("randomize rejected: %v", ErrBusy)
		return ErrBusy
	}

	c.bars = element.NewBars(c.gen.Values(count))
	c.board.Reset()
	logging.CoordinatorDebug("randomized %d bars", count)
	return nil
}

// SetRange changes the value range used by the next Randomize. The current
// bars are left alone.
func (c *Coordinator) SetRange(lo, hi int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gen.SetRange(lo, hi); err != nil {
		return err
	}
	logging.Coordinator("value range set to [%d, %d]", lo, hi)
	return nil
}

// Bars returns a snapshot of every bar ordered by position. Safe during a run.
func (c *Coordinator) Bars() []element.BarState {
	c.mu.RLock()
	handles := slices.Clone(c.bars)
	c.mu.RUnlock()

	states := make([]element.BarState, len(handles))
	for i, b := range handles {
		states[i] = b.Snapshot()
	}
	slices.SortStableFunc(states, func(a, b element.BarState) int {
		return a.Position - b.Position
	})
	return states
}

// Values returns the bar values ordered by position.
func (c *Coordinator) Values() []int {
	states := c.Bars()
	out := make([]int, len(states))
	for i, s := range states {
		out[i] = s.Value
	}
	return out
}

// Metadata returns the latest published snapshot.
func (c *Coordinator) Metadata() (metadata.Snapshot, bool) {
	return c.board.Latest()
}

// SetTiming applies new delays to subsequent runs. The speed takes effect
// immediately when the pacer supports it.
func (c *Coordinator) SetTiming(t Timing) {
	if t.Speed <= 0 {
		t.Speed = 1
	}
	c.mu.Lock()
	c.timing = t
	c.mu.Unlock()

	if s, ok := c.pacer.(*pacing.Sleeper); ok {
		s.SetSpeed(t.Speed)
	}
	logging.CoordinatorDebug("timing set: step=%v swap=%v speed=%v", t.StepDelay, t.SwapDelay, t.Speed)
}

// Timing returns the delays the next run will use.
func (c *Coordinator) Timing() Timing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timing
}

// LastRun returns stats for the most recent run, if any.
func (c *Coordinator) LastRun() (Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return Stats{}, false
	}
	return *c.last, true
}
