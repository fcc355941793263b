package driver

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"go.yhsif.com/lifxlan"
	"go.yhsif.com/lifxlan/light"

	"lightctl/internal/device"
)

// LIFX drives a LIFX bulb over the LAN protocol. It satisfies the color
// capability.
type LIFX struct {
	name string
	dev  light.Device
}

// DiscoverLIFX broadcasts on the local network and binds to the device
// whose hardware target matches cfg target, or the first color-capable
// bulb found when no target is configured.
func DiscoverLIFX(ctx context.Context, name, target string) (*LIFX, error) {
	ch := make(chan lifxlan.Device)
	go func() {
		if err := lifxlan.Discover(ctx, ch, ""); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("LIFX discovery stopped")
		}
	}()

	for raw := range ch {
		if target != "" && raw.Target().String() != target {
			continue
		}
		ld, err := light.Wrap(ctx, raw, false)
		if err != nil {
			log.Debug().Err(err).Str("target", raw.Target().String()).Msg("Skipping non-light device")
			continue
		}
		log.Debug().Str("device", name).Str("target", raw.Target().String()).Msg("LIFX bulb discovered")
		return &LIFX{name: name, dev: ld}, nil
	}
	return nil, device.NewCommError(name, fmt.Errorf("lifx bulb %q not found", target))
}

func (b *LIFX) TurnOn(ctx context.Context) error {
	return b.setPower(ctx, lifxlan.PowerOn)
}

func (b *LIFX) TurnOff(ctx context.Context) error {
	return b.setPower(ctx, lifxlan.PowerOff)
}

func (b *LIFX) Toggle(ctx context.Context) error {
	conn, err := b.dev.Dial()
	if err != nil {
		return device.NewCommError(b.name, err)
	}
	defer conn.Close()

	power, err := b.dev.GetPower(ctx, conn)
	if err != nil {
		return device.NewCommError(b.name, err)
	}
	next := lifxlan.PowerOn
	if power.On() {
		next = lifxlan.PowerOff
	}
	if err := b.dev.SetLightPower(ctx, conn, next, fadeDuration, false); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

func (b *LIFX) Describe(ctx context.Context) (string, error) {
	conn, err := b.dev.Dial()
	if err != nil {
		return "", device.NewCommError(b.name, err)
	}
	defer conn.Close()

	power, err := b.dev.GetPower(ctx, conn)
	if err != nil {
		return "", device.NewCommError(b.name, err)
	}
	color, err := b.dev.GetColor(ctx, conn)
	if err != nil {
		return "", device.NewCommError(b.name, err)
	}
	return fmt.Sprintf("%s (lifx %s): on=%v brightness=%d%% kelvin=%d",
		b.name, b.dev.Target(), power.On(), scaleFrom16(color.Brightness), color.Kelvin), nil
}

func (b *LIFX) White(ctx context.Context, temperature, brightness int) error {
	color := lifxlan.Color{
		Saturation: 0,
		Brightness: scaleTo16(brightness),
		Kelvin:     uint16(temperature),
	}
	return b.apply(ctx, &color)
}

func (b *LIFX) Brightness(ctx context.Context) (int, error) {
	conn, err := b.dev.Dial()
	if err != nil {
		return 0, device.NewCommError(b.name, err)
	}
	defer conn.Close()

	color, err := b.dev.GetColor(ctx, conn)
	if err != nil {
		return 0, device.NewCommError(b.name, err)
	}
	return scaleFrom16(color.Brightness), nil
}

func (b *LIFX) Color(ctx context.Context, red, green, blue, brightness int) error {
	h, s, _ := rgbToHSB(red, green, blue)
	color := lifxlan.Color{
		Hue:        uint16(math.Round(h / 360 * 65535)),
		Saturation: uint16(math.Round(s * 65535)),
		Brightness: scaleTo16(brightness),
		Kelvin:     3500,
	}
	return b.apply(ctx, &color)
}

func (b *LIFX) setPower(ctx context.Context, power lifxlan.Power) error {
	conn, err := b.dev.Dial()
	if err != nil {
		return device.NewCommError(b.name, err)
	}
	defer conn.Close()

	if err := b.dev.SetLightPower(ctx, conn, power, fadeDuration, false); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

func (b *LIFX) apply(ctx context.Context, color *lifxlan.Color) error {
	conn, err := b.dev.Dial()
	if err != nil {
		return device.NewCommError(b.name, err)
	}
	defer conn.Close()

	if err := b.dev.SetLightPower(ctx, conn, lifxlan.PowerOn, fadeDuration, false); err != nil {
		return device.NewCommError(b.name, err)
	}
	if err := b.dev.SetColor(ctx, conn, color, fadeDuration, false); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

// scaleTo16 maps a 0..100 percentage to the protocol's 16-bit range.
func scaleTo16(percent int) uint16 {
	return uint16(math.Round(float64(percent) / 100 * 65535))
}

// scaleFrom16 maps a 16-bit value back to a 0..100 percentage.
func scaleFrom16(value uint16) int {
	return int(math.Round(float64(value) / 65535 * 100))
}
