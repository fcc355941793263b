package transition

import (
	"context"
	"errors"
	"testing"
	"time"

	"lightctl/internal/device"
)

func TestBlendValue_Endpoints(t *testing.T) {
	pairs := [][2]int{{0, 100}, {100, 0}, {1700, 2700}, {2700, 1700}, {5, 5}, {-10, 10}}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		if got := BlendValue(a, b, 1); got != a {
			t.Errorf("BlendValue(%d, %d, 1) = %d, want %d", a, b, got, a)
		}
		if got := BlendValue(a, b, 0); got != b {
			t.Errorf("BlendValue(%d, %d, 0) = %d, want %d", a, b, got, b)
		}
	}
}

func TestBlendValue_MonotonicAndBounded(t *testing.T) {
	pairs := [][2]int{{0, 100}, {100, 0}, {1700, 2700}, {30, 31}}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}

		prev := BlendValue(a, b, 1)
		for step := 100; step >= 0; step-- {
			w := float64(step) / 100
			v := BlendValue(a, b, w)
			if v < lo || v > hi {
				t.Fatalf("BlendValue(%d, %d, %f) = %d, outside [%d, %d]", a, b, w, v, lo, hi)
			}
			// Weight of a decreases, so values must move toward b.
			if a < b && v < prev {
				t.Fatalf("BlendValue(%d, %d, %f) = %d went backwards from %d", a, b, w, v, prev)
			}
			if a > b && v > prev {
				t.Fatalf("BlendValue(%d, %d, %f) = %d went backwards from %d", a, b, w, v, prev)
			}
			prev = v
		}
	}
}

type recordingBulb struct {
	whites [][2]int // temperature, brightness per call
	errs   int      // number of leading White calls to fail
}

func (b *recordingBulb) TurnOn(context.Context) error             { return nil }
func (b *recordingBulb) TurnOff(context.Context) error            { return nil }
func (b *recordingBulb) Toggle(context.Context) error             { return nil }
func (b *recordingBulb) Describe(context.Context) (string, error) { return "recording", nil }
func (b *recordingBulb) Brightness(context.Context) (int, error)  { return 0, nil }

func (b *recordingBulb) White(_ context.Context, temperature, brightness int) error {
	if b.errs > 0 {
		b.errs--
		return device.NewCommError("recording", errors.New("offline"))
	}
	b.whites = append(b.whites, [2]int{temperature, brightness})
	return nil
}

func TestBlendWhite_ReachesDestinationExactly(t *testing.T) {
	bulb := &recordingBulb{}
	from := NewWhiteState(2700, 100, bulb)
	to := NewWhiteState(1700, 1, bulb)

	var last WhiteState
	for step := 100; step >= 0; step-- {
		last = BlendWhite(from, to, float64(step)/100)
		if last.Temperature() < 1700 || last.Temperature() > 2700 {
			t.Fatalf("temperature %d outside [1700, 2700]", last.Temperature())
		}
		if last.Brightness() < 1 || last.Brightness() > 100 {
			t.Fatalf("brightness %d outside [1, 100]", last.Brightness())
		}
	}
	if !last.Equal(to) {
		t.Errorf("final blend = (%d, %d), want the exact destination (1700, 1)",
			last.Temperature(), last.Brightness())
	}
}

// fakeClock returns times advancing by a fixed step per call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func TestTransition_InvertedIntervalAppliesStartOnce(t *testing.T) {
	bulb := &recordingBulb{}
	from := NewWhiteState(2700, 100, bulb)
	to := NewWhiteState(1700, 1, bulb)
	start := time.Now()

	tr := New(from, start, to, start.Add(-time.Hour), BlendWhite)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(bulb.whites) != 1 {
		t.Fatalf("White called %d times, want 1", len(bulb.whites))
	}
	if bulb.whites[0] != [2]int{2700, 100} {
		t.Errorf("applied %v, want the exact start state (2700, 100)", bulb.whites[0])
	}
}

func TestTransition_ClockSkewAborts(t *testing.T) {
	bulb := &recordingBulb{}
	start := time.Now()
	clock := &fakeClock{now: start.Add(-time.Minute), step: 0}

	tr := New(
		NewWhiteState(2700, 100, bulb), start,
		NewWhiteState(1700, 1, bulb), start.Add(time.Hour),
		BlendWhite,
		withClock[WhiteState](clock.Now),
	)

	if err := tr.Run(context.Background()); !errors.Is(err, ErrClockSkew) {
		t.Errorf("Run = %v, want ErrClockSkew", err)
	}
	if len(bulb.whites) != 0 {
		t.Errorf("White called %d times, want 0", len(bulb.whites))
	}
}

func TestTransition_ConvergesOnDestination(t *testing.T) {
	bulb := &recordingBulb{}
	start := time.Now()
	clock := &fakeClock{now: start, step: 300 * time.Millisecond}

	tr := New(
		NewWhiteState(2700, 100, bulb), start,
		NewWhiteState(1700, 1, bulb), start.Add(time.Second),
		BlendWhite,
		WithInterval[WhiteState](time.Millisecond),
		withClock[WhiteState](clock.Now),
	)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(bulb.whites) == 0 {
		t.Fatal("no states applied")
	}
	final := bulb.whites[len(bulb.whites)-1]
	if final != [2]int{1700, 1} {
		t.Errorf("final applied state %v, want the exact destination (1700, 1)", final)
	}
	for i := 1; i < len(bulb.whites); i++ {
		if bulb.whites[i][0] > bulb.whites[i-1][0] || bulb.whites[i][1] > bulb.whites[i-1][1] {
			t.Errorf("applied states went backwards: %v then %v", bulb.whites[i-1], bulb.whites[i])
		}
	}
}

func TestTransition_SkipsEqualStates(t *testing.T) {
	bulb := &recordingBulb{}
	start := time.Now()
	clock := &fakeClock{now: start, step: 100 * time.Millisecond}

	// Identical endpoints: every tick blends to the same state.
	tr := New(
		NewWhiteState(2700, 60, bulb), start,
		NewWhiteState(2700, 60, bulb), start.Add(time.Second),
		BlendWhite,
		WithInterval[WhiteState](time.Millisecond),
		withClock[WhiteState](clock.Now),
	)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(bulb.whites) != 1 {
		t.Errorf("White called %d times, want 1 (equal states suppressed)", len(bulb.whites))
	}
}

func TestTransition_ReassertsThrottled(t *testing.T) {
	bulb := &recordingBulb{}
	start := time.Now()
	clock := &fakeClock{now: start, step: 100 * time.Millisecond}

	tr := New(
		NewWhiteState(2700, 60, bulb), start,
		NewWhiteState(2700, 60, bulb), start.Add(time.Second),
		BlendWhite,
		WithInterval[WhiteState](time.Millisecond),
		WithReassert[WhiteState](time.Nanosecond),
		withClock[WhiteState](clock.Now),
	)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(bulb.whites) < 2 {
		t.Errorf("White called %d times, want re-pushes with a permissive reassert interval", len(bulb.whites))
	}
}

func TestTransition_RetriesFailedApply(t *testing.T) {
	bulb := &recordingBulb{errs: 2}
	start := time.Now()
	clock := &fakeClock{now: start, step: 400 * time.Millisecond}

	tr := New(
		NewWhiteState(2700, 100, bulb), start,
		NewWhiteState(1700, 1, bulb), start.Add(time.Second),
		BlendWhite,
		WithInterval[WhiteState](time.Millisecond),
		withClock[WhiteState](clock.Now),
	)
	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run should tolerate transient apply failures, got %v", err)
	}

	final := bulb.whites[len(bulb.whites)-1]
	if final != [2]int{1700, 1} {
		t.Errorf("final applied state %v, want (1700, 1) despite transient failures", final)
	}
}
