// Package driver contains the vendor adapters that satisfy the device
// capability contract. Brightness is an abstract 0..100 percentage at
// the capability boundary; each driver owns its device-specific
// rescaling.
package driver

import (
	"math"
	"time"
)

// fadeDuration is the hardware-side fade applied to writes, short enough
// that the transition scheduler's own cadence stays in charge.
const fadeDuration = 200 * time.Millisecond

// rgbToHSB converts 0..255 RGB components to hue (0..360) and
// saturation/brightness (0..1).
func rgbToHSB(red, green, blue int) (h, s, v float64) {
	r := float64(red) / 255
	g := float64(green) / 255
	b := float64(blue) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v = max
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// rgbToXY converts 0..255 RGB components to CIE xy chromaticity using
// the Wide RGB D65 conversion the Hue bridge expects.
func rgbToXY(red, green, blue int) (x, y float64) {
	r := gammaCorrect(float64(red) / 255)
	g := gammaCorrect(float64(green) / 255)
	b := gammaCorrect(float64(blue) / 255)

	cx := r*0.664511 + g*0.154324 + b*0.162028
	cy := r*0.283881 + g*0.668433 + b*0.047685
	cz := r*0.000088 + g*0.072310 + b*0.986039

	sum := cx + cy + cz
	if sum == 0 {
		return 0, 0
	}
	return cx / sum, cy / sum
}

func gammaCorrect(value float64) float64 {
	if value > 0.04045 {
		return math.Pow((value+0.055)/1.055, 2.4)
	}
	return value / 12.92
}
