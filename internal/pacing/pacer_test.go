package pacing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleeper_Waits(t *testing.T) {
	s := NewSleeper(1)
	start := time.Now()
	require.NoError(t, s.Wait(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.EqualValues(t, 1, s.Count())
	assert.Equal(t, 20*time.Millisecond, s.Elapsed())
}

func TestSleeper_Scale(t *testing.T) {
	s := NewSleeper(2)
	assert.Equal(t, 125*time.Millisecond, s.Scale(250*time.Millisecond))

	s.SetSpeed(0.5)
	assert.Equal(t, 500*time.Millisecond, s.Scale(250*time.Millisecond))
	assert.InDelta(t, 0.5, s.Speed(), 0.001)

	s.SetSpeed(-3)
	assert.Equal(t, 250*time.Millisecond, s.Scale(250*time.Millisecond), "non-positive speed falls back to 1")
}

func TestSleeper_TinySpeed(t *testing.T) {
	s := NewSleeper(0.0005)
	assert.Equal(t, 0.0005, s.Speed())
	assert.Equal(t, 500*time.Second, s.Scale(250*time.Millisecond))

	s.SetSpeed(3)
	assert.Equal(t, 83333333*time.Nanosecond, s.Scale(250*time.Millisecond))
}

func TestSleeper_ContextCancelled(t *testing.T) {
	s := NewSleeper(1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := s.Wait(ctx, 5*time.Second)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleeper_ZeroDuration(t *testing.T) {
	s := NewSleeper(1)
	require.NoError(t, s.Wait(context.Background(), 0))
	assert.EqualValues(t, 1, s.Count())
	assert.Zero(t, s.Elapsed())
}

func TestInstant(t *testing.T) {
	var p Instant
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background(), 250*time.Millisecond))
	}
	require.NoError(t, p.Wait(context.Background(), -time.Second))

	assert.EqualValues(t, 4, p.Count())
	assert.Equal(t, 750*time.Millisecond, p.Requested())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx, time.Millisecond), context.Canceled)
}
