package transition

import (
	"context"

	"lightctl/internal/device"
)

// WhiteState is a white temperature + brightness snapshot bound to one
// bulb. The bulb takes no part in equality.
type WhiteState struct {
	temperature int
	brightness  int
	bulb        device.BrightWarmBulb
}

// NewWhiteState creates a snapshot bound to bulb.
func NewWhiteState(temperature, brightness int, bulb device.BrightWarmBulb) WhiteState {
	return WhiteState{temperature: temperature, brightness: brightness, bulb: bulb}
}

// Temperature returns the white temperature in kelvin.
func (s WhiteState) Temperature() int { return s.temperature }

// Brightness returns the brightness percentage.
func (s WhiteState) Brightness() int { return s.brightness }

func (s WhiteState) Equal(other WhiteState) bool {
	return s.temperature == other.temperature && s.brightness == other.brightness
}

func (s WhiteState) Apply(ctx context.Context) error {
	return s.bulb.White(ctx, s.temperature, s.brightness)
}

// BlendWhite blends two snapshots of the same bulb; the result stays
// bound to from's bulb.
func BlendWhite(from, to WhiteState, weightFrom float64) WhiteState {
	return WhiteState{
		temperature: BlendValue(from.temperature, to.temperature, weightFrom),
		brightness:  BlendValue(from.brightness, to.brightness, weightFrom),
		bulb:        from.bulb,
	}
}
