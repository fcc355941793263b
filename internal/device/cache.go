package device

import "context"

// CachedBrightBulb wraps a BrightBulb and suppresses redundant writes:
// turn_on/turn_off and white calls that match the last commanded state
// are skipped, and the first brightness read is memoized.
type CachedBrightBulb struct {
	bulb       BrightBulb
	power      *bool
	brightness *int
}

// NewCachedBrightBulb wraps bulb with a write-suppressing cache.
func NewCachedBrightBulb(bulb BrightBulb) *CachedBrightBulb {
	return &CachedBrightBulb{bulb: bulb}
}

func (c *CachedBrightBulb) TurnOn(ctx context.Context) error {
	if c.power != nil && *c.power {
		return nil
	}
	if err := c.bulb.TurnOn(ctx); err != nil {
		return err
	}
	on := true
	c.power = &on
	return nil
}

func (c *CachedBrightBulb) TurnOff(ctx context.Context) error {
	if c.power != nil && !*c.power {
		return nil
	}
	if err := c.bulb.TurnOff(ctx); err != nil {
		return err
	}
	off := false
	c.power = &off
	return nil
}

// Toggle always hits the device; the resulting power state is unknown
// to the cache, so it is invalidated.
func (c *CachedBrightBulb) Toggle(ctx context.Context) error {
	c.power = nil
	return c.bulb.Toggle(ctx)
}

func (c *CachedBrightBulb) Describe(ctx context.Context) (string, error) {
	return c.bulb.Describe(ctx)
}

func (c *CachedBrightBulb) White(ctx context.Context, brightness int) error {
	if c.brightness != nil && *c.brightness == brightness {
		return nil
	}
	if err := c.bulb.White(ctx, brightness); err != nil {
		return err
	}
	b := brightness
	c.brightness = &b
	return nil
}

func (c *CachedBrightBulb) Brightness(ctx context.Context) (int, error) {
	if c.brightness != nil {
		return *c.brightness, nil
	}
	b, err := c.bulb.Brightness(ctx)
	if err != nil {
		return 0, err
	}
	c.brightness = &b
	return b, nil
}
