package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/mdlayher/keylight"
	"github.com/rs/zerolog/log"

	"lightctl/internal/device"
	"lightctl/internal/parallel"
)

// KeyLight drives an Elgato Key Light over its HTTP API.
type KeyLight struct {
	name   string
	addr   string
	client *keylight.Client
}

// DiscoverKeyLight probes every candidate host concurrently and binds to
// the first one that answers. A sleep-then-yield-nothing task races the
// probes so a hung host cannot stall discovery past the timeout.
func DiscoverKeyLight(ctx context.Context, name string, hosts []string, timeout time.Duration) (*KeyLight, error) {
	tasks := make([]parallel.Task[*KeyLight], 0, len(hosts)+1)
	for _, host := range hosts {
		addr := fmt.Sprintf("http://%s:9123", host)
		tasks = append(tasks, func(ctx context.Context) (*KeyLight, error) {
			client, err := keylight.NewClient(addr, nil)
			if err != nil {
				return nil, err
			}
			info, err := client.AccessoryInfo(ctx)
			if err != nil {
				return nil, err
			}
			log.Debug().Str("device", name).Str("addr", addr).Str("product", info.ProductName).Msg("Key light answered")
			return &KeyLight{name: name, addr: addr, client: client}, nil
		})
	}
	tasks = append(tasks, parallel.Timeout[*KeyLight](timeout))

	bulb, ok := parallel.First(ctx, tasks)
	if !ok || bulb == nil {
		return nil, device.NewCommError(name, fmt.Errorf("no key light answered on %v", hosts))
	}
	return bulb, nil
}

func (b *KeyLight) TurnOn(ctx context.Context) error {
	return b.setPower(ctx, true)
}

func (b *KeyLight) TurnOff(ctx context.Context) error {
	return b.setPower(ctx, false)
}

func (b *KeyLight) Toggle(ctx context.Context) error {
	light, err := b.first(ctx)
	if err != nil {
		return err
	}
	return b.setPower(ctx, !light.On)
}

func (b *KeyLight) Describe(ctx context.Context) (string, error) {
	light, err := b.first(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (keylight %s): on=%v brightness=%d%% kelvin=%d",
		b.name, b.addr, light.On, light.Brightness, light.Temperature), nil
}

func (b *KeyLight) White(ctx context.Context, temperature, brightness int) error {
	light, err := b.first(ctx)
	if err != nil {
		return err
	}
	light.On = true
	light.Brightness = clampBrightness(brightness)
	light.Temperature = clampTemperature(temperature)
	return b.set(ctx, light)
}

func (b *KeyLight) Brightness(ctx context.Context) (int, error) {
	light, err := b.first(ctx)
	if err != nil {
		return 0, err
	}
	return light.Brightness, nil
}

func (b *KeyLight) setPower(ctx context.Context, on bool) error {
	light, err := b.first(ctx)
	if err != nil {
		return err
	}
	light.On = on
	return b.set(ctx, light)
}

func (b *KeyLight) first(ctx context.Context) (*keylight.Light, error) {
	lights, err := b.client.Lights(ctx)
	if err != nil {
		return nil, device.NewCommError(b.name, err)
	}
	if len(lights) == 0 {
		return nil, device.NewCommError(b.name, fmt.Errorf("device at %s reports no lights", b.addr))
	}
	return lights[0], nil
}

func (b *KeyLight) set(ctx context.Context, light *keylight.Light) error {
	if err := b.client.SetLights(ctx, []*keylight.Light{light}); err != nil {
		return device.NewCommError(b.name, err)
	}
	return nil
}

// The device accepts brightness in 3..100 and temperature in 2900..7000.
func clampBrightness(brightness int) int {
	if brightness < 3 {
		return 3
	}
	if brightness > 100 {
		return 100
	}
	return brightness
}

func clampTemperature(kelvin int) int {
	if kelvin < 2900 {
		return 2900
	}
	if kelvin > 7000 {
		return 7000
	}
	return kelvin
}
