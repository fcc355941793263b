// Package transition ramps a device state linearly between two endpoints
// over a wall-clock interval.
package transition

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// State is an immutable snapshot of a device's continuous state.
// Equality is structural over the semantic fields only, never over the
// bound device.
type State[S any] interface {
	Equal(other S) bool
	Apply(ctx context.Context) error
}

// BlendFunc produces the weighted blend of two states; weightFrom is the
// weight of from and shifts from 1 to 0 as the transition progresses.
type BlendFunc[S any] func(from, to S, weightFrom float64) S

// ErrClockSkew reports that the wall clock is behind the declared start
// of a running transition.
var ErrClockSkew = errors.New("transition progress is negative, clock skew")

const (
	// DefaultInterval is the polling cadence between progress recomputes.
	DefaultInterval = time.Second
	// DefaultReassert is the minimum interval between re-pushes of an
	// already-applied state.
	DefaultReassert = 30 * time.Second
)

// Transition drives a state from one endpoint to the other over time.
type Transition[S State[S]] struct {
	from, to         S
	fromTime, toTime time.Time
	blend            BlendFunc[S]

	interval time.Duration
	reassert *rate.Limiter
	now      func() time.Time

	applied *S
}

// Option configures a Transition.
type Option[S State[S]] func(*Transition[S])

// WithInterval overrides the polling cadence.
func WithInterval[S State[S]](d time.Duration) Option[S] {
	return func(t *Transition[S]) { t.interval = d }
}

// WithReassert overrides the minimum re-assertion interval.
func WithReassert[S State[S]](d time.Duration) Option[S] {
	return func(t *Transition[S]) { t.reassert = rate.NewLimiter(rate.Every(d), 1) }
}

// withClock overrides the wall clock, for tests.
func withClock[S State[S]](now func() time.Time) Option[S] {
	return func(t *Transition[S]) { t.now = now }
}

// New creates a transition between two states of the same target.
func New[S State[S]](from S, fromTime time.Time, to S, toTime time.Time, blend BlendFunc[S], opts ...Option[S]) *Transition[S] {
	t := &Transition[S]{
		from:     from,
		to:       to,
		fromTime: fromTime,
		toTime:   toTime,
		blend:    blend,
		interval: DefaultInterval,
		reassert: rate.NewLimiter(rate.Every(DefaultReassert), 1),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run polls until the destination state has been applied or the context
// is cancelled. An inconsistent interval (destination before start) is
// not an error: the start state is applied once and the transition ends.
func (t *Transition[S]) Run(ctx context.Context) error {
	interval := t.toTime.Sub(t.fromTime)
	if interval < 0 {
		log.Warn().
			Time("from", t.fromTime).
			Time("to", t.toTime).
			Msg("Transition interval is inverted, applying start state once")
		t.tick(ctx, 0)
		return nil
	}
	if interval == 0 {
		t.tick(ctx, 1)
		return nil
	}

	// The initial apply should not count as a re-assertion.
	t.reassert.Allow()

	for {
		progress := float64(t.now().Sub(t.fromTime)) / float64(interval)
		switch {
		case progress < 0:
			return ErrClockSkew
		case progress >= 1:
			t.tick(ctx, 1)
			return nil
		default:
			t.tick(ctx, progress)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.interval):
		}
	}
}

// tick applies the blended state for the given progress. Apply failures
// are logged and the last-applied marker is left untouched, so the same
// state is retried on the next tick.
func (t *Transition[S]) tick(ctx context.Context, progress float64) {
	state := t.blend(t.from, t.to, 1-progress)

	if t.applied != nil && (*t.applied).Equal(state) {
		if !t.reassert.Allow() {
			return
		}
		// Re-push the same state in case the device silently reverted.
	}

	if err := state.Apply(ctx); err != nil {
		log.Warn().Err(err).Float64("progress", progress).Msg("Transition apply failed, will retry")
		return
	}
	t.applied = &state
}

// BlendValue computes a*weightA + b*(1-weightA) for integer endpoints,
// rounding down for ascending pairs and up for descending ones so that
// successive evaluations trend toward the destination and land exactly
// on it at full progress.
func BlendValue(a, b int, weightA float64) int {
	v := float64(a)*weightA + float64(b)*(1-weightA)
	if a < b {
		return int(math.Floor(v))
	}
	return int(math.Ceil(v))
}
