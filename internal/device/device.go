package device

import (
	"context"
	"fmt"
)

// Switchable is the minimal capability every controllable bulb satisfies.
type Switchable interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	Toggle(ctx context.Context) error
	Describe(ctx context.Context) (string, error)
}

// Dimmer is the read side of brightness-capable bulbs, shared by the
// brightness-only and temperature-capable variants.
type Dimmer interface {
	Switchable
	Brightness(ctx context.Context) (int, error)
}

// BrightBulb controls brightness only. Brightness is always an abstract
// 0..100 percentage at this boundary; any device-specific rescaling
// belongs to the driver.
type BrightBulb interface {
	Switchable
	White(ctx context.Context, brightness int) error
	Brightness(ctx context.Context) (int, error)
}

// BrightWarmBulb controls white temperature (kelvin) and brightness.
type BrightWarmBulb interface {
	Switchable
	White(ctx context.Context, temperature, brightness int) error
	Brightness(ctx context.Context) (int, error)
}

// ColorBulb additionally supports RGB color.
type ColorBulb interface {
	BrightWarmBulb
	Color(ctx context.Context, red, green, blue, brightness int) error
}

// DecomposeRGB splits a packed 24-bit color value into its red, green and
// blue components by base-256 digit extraction.
func DecomposeRGB(rgb int) (red, green, blue int) {
	red = rgb / 65536
	rgb -= red * 65536
	green = rgb / 256
	blue = rgb - green*256
	return red, green, blue
}

// CommError reports an I/O failure while talking to a physical device.
type CommError struct {
	Device string
	Err    error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Device, e.Err)
}

func (e *CommError) Unwrap() error { return e.Err }

// NewCommError wraps err as a communication failure for the named device.
func NewCommError(device string, err error) error {
	return &CommError{Device: device, Err: err}
}
