// Package pacing suspends an algorithm step long enough for a human to see it.
package pacing

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"sortviz/internal/logging"
)

// Pacer suspends the calling step for d. Implementations must not block other goroutines.
type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Sleeper is the real-time pacer. Delays are divided by Speed.
type Sleeper struct {
	speed  atomic.Uint64 // float64 bits of the multiplier
	waits  atomic.Int64
	waited atomic.Int64
}

// NewSleeper creates a sleeper running at the given speed multiplier (<= 0 means 1).
func NewSleeper(speed float64) *Sleeper {
	s := &Sleeper{}
	s.SetSpeed(speed)
	return s
}

// SetSpeed changes the multiplier for subsequent waits.
func (s *Sleeper) SetSpeed(speed float64) {
	if speed <= 0 {
		speed = 1
	}
	s.speed.Store(math.Float64bits(speed))
}

// Speed returns the current multiplier.
func (s *Sleeper) Speed() float64 {
	return math.Float64frombits(s.speed.Load())
}

// Scale returns the effective delay for d at the current speed, capped at
// math.MaxInt64 nanoseconds.
func (s *Sleeper) Scale(d time.Duration) time.Duration {
	speed := s.Speed()
	if speed <= 0 {
		return d
	}
	scaled := float64(d) / speed
	if scaled >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(math.Round(scaled))
}

// Wait blocks for the scaled duration or until ctx ends.
func (s *Sleeper) Wait(ctx context.Context, d time.Duration) error {
	s.waits.Add(1)
	d = s.Scale(d)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	start := time.Now()
	select {
	case <-ctx.Done():
		logging.PacingDebug("wait aborted after %v of %v: %v", time.Since(start).Round(time.Millisecond), d, ctx.Err())
		return ctx.Err()
	case <-timer.C:
		s.waited.Add(int64(d))
		return nil
	}
}

// Count returns the number of Wait calls so far.
func (s *Sleeper) Count() int64 {
	return s.waits.Load()
}

// Elapsed returns the total time spent suspended.
func (s *Sleeper) Elapsed() time.Duration {
	return time.Duration(s.waited.Load())
}

// Instant never sleeps. It counts suspensions and the delay they asked for,
// which is what headless runs and tests need.
type Instant struct {
	waits     atomic.Int64
	requested atomic.Int64
}

// Wait records the call and returns immediately.
func (p *Instant) Wait(ctx context.Context, d time.Duration) error {
	p.waits.Add(1)
	if d > 0 {
		p.requested.Add(int64(d))
	}
	return ctx.Err()
}

// Count returns the number of Wait calls so far.
func (p *Instant) Count() int64 {
	return p.waits.Load()
}

// Requested returns the sum of all requested delays.
func (p *Instant) Requested() time.Duration {
	return time.Duration(p.requested.Load())
}

// Counter is implemented by pacers that count their suspensions.
type Counter interface {
	Count() int64
}
