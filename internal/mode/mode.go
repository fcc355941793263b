// Package mode defines immutable, reusable action descriptions applied
// to a device at run time. Each mode is typed by the weakest capability
// it needs, so applying a mode to a device that lacks the capability is
// a compile error.
package mode

import (
	"context"
	"fmt"
	"time"

	"lightctl/internal/device"
	"lightctl/internal/transition"
)

// Mode is an applyable action description. It owns no device reference;
// one is supplied at apply time.
type Mode[B device.Switchable] interface {
	Apply(ctx context.Context, bulb B) error
}

// White sets a white temperature and brightness.
type White struct {
	Temperature int
	Brightness  int
}

func (m White) Apply(ctx context.Context, bulb device.BrightWarmBulb) error {
	return bulb.White(ctx, m.Temperature, m.Brightness)
}

// State binds the mode to a concrete bulb as an interpolable snapshot.
func (m White) State(bulb device.BrightWarmBulb) transition.WhiteState {
	return transition.NewWhiteState(m.Temperature, m.Brightness, bulb)
}

// Color sets an RGB color with brightness.
type Color struct {
	Red        int
	Green      int
	Blue       int
	Brightness int
}

func (m Color) Apply(ctx context.Context, bulb device.ColorBulb) error {
	if err := bulb.TurnOn(ctx); err != nil {
		return err
	}
	return bulb.Color(ctx, m.Red, m.Green, m.Blue, m.Brightness)
}

// Power turns the bulb on or off.
type Power[B device.Switchable] struct {
	On bool
}

func (m Power[B]) Apply(ctx context.Context, bulb B) error {
	if m.On {
		return bulb.TurnOn(ctx)
	}
	return bulb.TurnOff(ctx)
}

// Toggle flips the bulb's power state.
type Toggle[B device.Switchable] struct{}

func (Toggle[B]) Apply(ctx context.Context, bulb B) error {
	return bulb.Toggle(ctx)
}

// Info prints the bulb's self-description.
type Info[B device.Switchable] struct{}

func (Info[B]) Apply(ctx context.Context, bulb B) error {
	info, err := bulb.Describe(ctx)
	if err != nil {
		return err
	}
	fmt.Println(info)
	return nil
}

// BrightnessInfo prints the bulb's current brightness percentage.
type BrightnessInfo[B device.Dimmer] struct{}

func (BrightnessInfo[B]) Apply(ctx context.Context, bulb B) error {
	brightness, err := bulb.Brightness(ctx)
	if err != nil {
		return err
	}
	fmt.Println(brightness)
	return nil
}

// WhiteBetween applies the fixed blend between two white modes at the
// given progress percentage.
type WhiteBetween struct {
	From    White
	To      White
	Percent int
}

func (m WhiteBetween) Apply(ctx context.Context, bulb device.BrightWarmBulb) error {
	state := transition.BlendWhite(m.From.State(bulb), m.To.State(bulb), 1-float64(m.Percent)/100)
	return state.Apply(ctx)
}

// Transition ramps the bulb between two white modes over a wall-clock
// interval.
type Transition struct {
	From     White
	FromTime time.Time
	To       White
	ToTime   time.Time

	// Interval and Reassert override the scheduler defaults when nonzero.
	Interval time.Duration
	Reassert time.Duration
}

func (m Transition) Apply(ctx context.Context, bulb device.BrightWarmBulb) error {
	var opts []transition.Option[transition.WhiteState]
	if m.Interval > 0 {
		opts = append(opts, transition.WithInterval[transition.WhiteState](m.Interval))
	}
	if m.Reassert > 0 {
		opts = append(opts, transition.WithReassert[transition.WhiteState](m.Reassert))
	}
	t := transition.New(m.From.State(bulb), m.FromTime, m.To.State(bulb), m.ToTime, transition.BlendWhite, opts...)
	return t.Run(ctx)
}
