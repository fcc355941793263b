package driver

import (
	"context"
	"fmt"
	"math"

	"github.com/amimof/huego"

	"lightctl/internal/device"
)

// Hue drives one light on a Hue bridge via its REST API.
type Hue struct {
	name   string
	bridge *huego.Bridge
	light  *huego.Light
}

// DiscoverHue connects to the configured bridge and binds to the light
// whose bridge-side name matches lightName.
func DiscoverHue(ctx context.Context, name, bridgeHost, token, lightName string) (*Hue, error) {
	bridge := huego.New(bridgeHost, token)
	lights, err := bridge.GetLightsContext(ctx)
	if err != nil {
		return nil, device.NewCommError(name, err)
	}
	for i := range lights {
		if lights[i].Name == lightName {
			return &Hue{name: name, bridge: bridge, light: &lights[i]}, nil
		}
	}
	return nil, device.NewCommError(name, fmt.Errorf("light %q not found on bridge %s", lightName, bridgeHost))
}

func (b *Hue) TurnOn(ctx context.Context) error {
	if err := b.light.OnContext(ctx); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

func (b *Hue) TurnOff(ctx context.Context) error {
	if err := b.light.OffContext(ctx); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

// Toggle refreshes the bridge-side state first; the light may have been
// switched by another client since discovery.
func (b *Hue) Toggle(ctx context.Context) error {
	light, err := b.refresh(ctx)
	if err != nil {
		return err
	}
	if light.IsOn() {
		return b.TurnOff(ctx)
	}
	return b.TurnOn(ctx)
}

func (b *Hue) Describe(ctx context.Context) (string, error) {
	light, err := b.refresh(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (hue %q, %s): on=%v brightness=%d%% kelvin=%d",
		b.name, light.Name, light.ModelID,
		light.State.On, briToPercent(light.State.Bri), mirekToKelvin(light.State.Ct)), nil
}

func (b *Hue) White(ctx context.Context, temperature, brightness int) error {
	if err := b.TurnOn(ctx); err != nil {
		return err
	}
	if err := b.light.BriContext(ctx, percentToBri(brightness)); err != nil {
		return device.NewCommError(b.name, err)
	}
	if err := b.light.CtContext(ctx, kelvinToMirek(temperature)); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

func (b *Hue) Brightness(ctx context.Context) (int, error) {
	light, err := b.refresh(ctx)
	if err != nil {
		return 0, err
	}
	return briToPercent(light.State.Bri), nil
}

func (b *Hue) Color(ctx context.Context, red, green, blue, brightness int) error {
	x, y := rgbToXY(red, green, blue)
	if err := b.light.XyContext(ctx, []float32{float32(x), float32(y)}); err != nil {
		return device.NewCommError(b.name, err)
	}
	if err := b.light.BriContext(ctx, percentToBri(brightness)); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

func (b *Hue) refresh(ctx context.Context) (*huego.Light, error) {
	light, err := b.bridge.GetLightContext(ctx, b.light.ID)
	if err != nil {
		return nil, device.NewCommError(b.name, err)
	}
	b.light = light
	return light, nil
}

// Bridge brightness is 1..254; the capability boundary is 0..100.
func percentToBri(percent int) uint8 {
	bri := int(math.Round(float64(percent) / 100 * 254))
	if bri < 1 {
		bri = 1
	}
	return uint8(bri)
}

func briToPercent(bri uint8) int {
	return int(math.Round(float64(bri) / 254 * 100))
}

// Bridge temperature is in mirek, clamped to the 153..500 range.
func kelvinToMirek(kelvin int) uint16 {
	if kelvin <= 0 {
		return 500
	}
	mirek := int(math.Round(1e6 / float64(kelvin)))
	if mirek < 153 {
		mirek = 153
	}
	if mirek > 500 {
		mirek = 500
	}
	return uint16(mirek)
}

func mirekToKelvin(mirek uint16) int {
	if mirek == 0 {
		return 0
	}
	return int(math.Round(1e6 / float64(mirek)))
}
