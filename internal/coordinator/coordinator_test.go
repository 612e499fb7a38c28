package coordinator

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sortviz/internal/element"
	"sortviz/internal/pacing"
	"sortviz/internal/random"
	"sortviz/internal/sorting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gatePacer blocks every Wait until the gate is closed.
type gatePacer struct {
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatePacer() *gatePacer {
	return &gatePacer{entered: make(chan struct{}), gate: make(chan struct{})}
}

func (p *gatePacer) Wait(ctx context.Context, _ time.Duration) error {
	p.once.Do(func() { close(p.entered) })
	select {
	case <-p.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failOncePacer fails its first Wait and succeeds afterwards.
type failOncePacer struct {
	failed atomic.Bool
}

var errPacer = errors.New("pacer failed")

func (p *failOncePacer) Wait(ctx context.Context, _ time.Duration) error {
	if p.failed.CompareAndSwap(false, true) {
		return errPacer
	}
	return ctx.Err()
}

func newCoordinator(t *testing.T, pacer pacing.Pacer, count int) *Coordinator {
	t.Helper()
	gen, err := random.NewSeeded(random.DefaultMin, random.DefaultMax, 7)
	require.NoError(t, err)
	c, err := New(Options{Pacer: pacer, Generator: gen, InitialCount: count})
	require.NoError(t, err)
	return c
}

func sortedCopy(v []int) []int {
	out := append([]int(nil), v...)
	sort.Ints(out)
	return out
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)

	assert.Len(t, c.Bars(), DefaultCount)
	assert.Equal(t, DefaultTiming(), c.Timing())
	assert.False(t, c.Sorting())
	_, ok := c.LastRun()
	assert.False(t, ok)
}

func TestNew_EmptyStart(t *testing.T) {
	c := newCoordinator(t, &pacing.Instant{}, -1)
	assert.Empty(t, c.Bars())
	require.NoError(t, c.StartSort(context.Background(), sorting.KindBubble))
}

func TestStartSort_EveryKind(t *testing.T) {
	for _, kind := range sorting.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			pacer := &pacing.Instant{}
			c := newCoordinator(t, pacer, 30)
			want := sortedCopy(c.Values())

			require.NoError(t, c.StartSort(context.Background(), kind))

			if diff := cmp.Diff(want, c.Values()); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
			for i, s := range c.Bars() {
				assert.Equal(t, i, s.Position)
				assert.Equal(t, element.None, s.Highlight)
				assert.Empty(t, s.Label)
			}

			stats, ok := c.LastRun()
			require.True(t, ok)
			assert.Equal(t, kind, stats.Kind)
			assert.NotEmpty(t, stats.RunID)
			assert.NoError(t, stats.Err)
			assert.Equal(t, pacer.Count(), stats.Suspensions)
			assert.False(t, c.Sorting())
		})
	}
}

func TestStartSort_ShellPublishesMetadata(t *testing.T) {
	c := newCoordinator(t, &pacing.Instant{}, 10)
	_, ok := c.Metadata()
	assert.False(t, ok)

	require.NoError(t, c.StartSort(context.Background(), sorting.KindShell))

	snap, ok := c.Metadata()
	require.True(t, ok)
	assert.Equal(t, -1, snap.I)
	assert.Equal(t, 1, snap.Gap)

	stats, _ := c.LastRun()
	assert.Positive(t, stats.Publishes)
}

func TestStartSort_AlreadyRunningAndBusy(t *testing.T) {
	pacer := newGatePacer()
	c := newCoordinator(t, pacer, 8)
	before := c.Values()

	done := make(chan error, 1)
	go func() { done <- c.StartSort(context.Background(), sorting.KindBubble) }()
	<-pacer.entered

	assert.True(t, c.Sorting())
	assert.ErrorIs(t, c.StartSort(context.Background(), sorting.KindShell), ErrAlreadyRunning)
	assert.ErrorIs(t, c.Randomize(5), ErrBusy)
	assert.Len(t, c.Bars(), 8)
	assert.Equal(t, before, c.Values(), "rejected calls must not touch the sequence")

	close(pacer.gate)
	require.NoError(t, <-done)

	assert.False(t, c.Sorting())
	assert.Equal(t, sortedCopy(before), c.Values())
	require.NoError(t, c.Randomize(5))
	assert.Len(t, c.Bars(), 5)
}

func TestStartSort_GuardReleasedOnDriverError(t *testing.T) {
	c := newCoordinator(t, &failOncePacer{}, 12)

	err := c.StartSort(context.Background(), sorting.KindInsertion)
	require.ErrorIs(t, err, errPacer)
	assert.False(t, c.Sorting())

	stats, ok := c.LastRun()
	require.True(t, ok)
	assert.ErrorIs(t, stats.Err, errPacer)

	require.NoError(t, c.StartSort(context.Background(), sorting.KindInsertion))
	assert.True(t, sort.IntsAreSorted(c.Values()))
}

func TestStartSort_UnknownKind(t *testing.T) {
	c := newCoordinator(t, &pacing.Instant{}, 4)

	err := c.StartSort(context.Background(), sorting.Kind("bogo"))
	assert.ErrorIs(t, err, sorting.ErrUnknownKind)
	assert.False(t, c.Sorting())
}

func TestStartSort_ShutdownCancelsRun(t *testing.T) {
	pacer := newGatePacer()
	c := newCoordinator(t, pacer, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.StartSort(ctx, sorting.KindQuick) }()
	<-pacer.entered

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Sorting())

	// Positions stay a permutation of 0..n-1 after an interrupted quick sort.
	for i, s := range c.Bars() {
		assert.Equal(t, i, s.Position)
	}
}

func TestBars_ConcurrentWithQuickSort(t *testing.T) {
	c := newCoordinator(t, pacing.NewSleeper(1000), 40)
	c.SetTiming(Timing{StepDelay: time.Millisecond, SwapDelay: time.Millisecond, Speed: 1000})

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				assert.Len(t, c.Bars(), 40)
			}
		}
	}()

	err := c.StartSort(context.Background(), sorting.KindQuick)
	close(stop)
	wg.Wait()

	require.NoError(t, err)
	assert.True(t, sort.IntsAreSorted(c.Values()))
}

func TestRandomize(t *testing.T) {
	c := newCoordinator(t, &pacing.Instant{}, 3)

	assert.ErrorIs(t, c.Randomize(0), ErrInvalidCount)
	assert.ErrorIs(t, c.Randomize(MaxBars+1), ErrInvalidCount)
	assert.Len(t, c.Bars(), 3)

	require.NoError(t, c.Randomize(MaxBars))
	states := c.Bars()
	require.Len(t, states, MaxBars)
	for i, s := range states {
		assert.Equal(t, i, s.Position)
		assert.GreaterOrEqual(t, s.Value, random.DefaultMin)
		assert.LessOrEqual(t, s.Value, random.DefaultMax)
	}
}

func TestSetRange(t *testing.T) {
	c := newCoordinator(t, &pacing.Instant{}, 6)
	before := c.Values()

	require.NoError(t, c.SetRange(500, 600))
	assert.Equal(t, before, c.Values(), "existing bars keep their values")

	require.NoError(t, c.Randomize(20))
	for _, v := range c.Values() {
		assert.GreaterOrEqual(t, v, 500)
		assert.LessOrEqual(t, v, 600)
	}

	assert.Error(t, c.SetRange(10, 1))
}

func TestSetTiming(t *testing.T) {
	sleeper := pacing.NewSleeper(1)
	c := newCoordinator(t, sleeper, 2)

	c.SetTiming(Timing{StepDelay: time.Millisecond, SwapDelay: 2 * time.Millisecond, Speed: 4})
	assert.Equal(t, 4.0, sleeper.Speed())
	assert.Equal(t, time.Millisecond, c.Timing().StepDelay)

	c.SetTiming(Timing{Speed: -1})
	assert.Equal(t, 1.0, c.Timing().Speed)
}
