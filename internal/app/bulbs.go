package app

import (
	"context"
	"fmt"

	"lightctl/internal/config"
	"lightctl/internal/device"
	"lightctl/internal/driver"
)

// bulb is a configured device with its capability-typed handles. Every
// device carries a white-capable view; color is present only for
// devices whose driver claims it.
type bulb struct {
	name  string
	warm  *device.Handle[device.BrightWarmBulb]
	color *device.Handle[device.ColorBulb]
}

func buildBulbs(cfg *config.Config) ([]*bulb, error) {
	bulbs := make([]*bulb, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		b, err := buildBulb(cfg, d)
		if err != nil {
			return nil, err
		}
		bulbs = append(bulbs, b)
	}
	return bulbs, nil
}

func buildBulb(cfg *config.Config, d config.DeviceConfig) (*bulb, error) {
	timeout := cfg.Discovery.Timeout.Duration()

	switch d.Driver {
	case "lifx":
		h := device.NewHandle(d.Name, func(ctx context.Context) (device.ColorBulb, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			bulb, err := driver.DiscoverLIFX(ctx, d.Name, d.Target)
			if err != nil {
				return nil, err
			}
			return bulb, nil
		})
		return &bulb{name: d.Name, warm: device.AsBrightWarm(h), color: h}, nil

	case "hue":
		lightName := d.Light
		if lightName == "" {
			lightName = d.Name
		}
		discover := func(ctx context.Context) (*driver.Hue, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return driver.DiscoverHue(ctx, d.Name, d.Bridge, d.Token, lightName)
		}
		if d.Color {
			h := device.NewHandle(d.Name, func(ctx context.Context) (device.ColorBulb, error) {
				bulb, err := discover(ctx)
				if err != nil {
					return nil, err
				}
				return bulb, nil
			})
			return &bulb{name: d.Name, warm: device.AsBrightWarm(h), color: h}, nil
		}
		h := device.NewHandle(d.Name, func(ctx context.Context) (device.BrightWarmBulb, error) {
			bulb, err := discover(ctx)
			if err != nil {
				return nil, err
			}
			return bulb, nil
		})
		return &bulb{name: d.Name, warm: h}, nil

	case "keylight":
		h := device.NewHandle(d.Name, func(ctx context.Context) (device.BrightWarmBulb, error) {
			bulb, err := driver.DiscoverKeyLight(ctx, d.Name, d.Hosts, timeout)
			if err != nil {
				return nil, err
			}
			return bulb, nil
		})
		return &bulb{name: d.Name, warm: h}, nil

	default:
		return nil, fmt.Errorf("device %q: unknown driver %q", d.Name, d.Driver)
	}
}
