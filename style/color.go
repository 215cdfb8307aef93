package style

import (
	"image/color"
	"math"
)

// lightThreshold is the perceived brightness above which a color counts as light.
const lightThreshold = 128

// PerceivedBrightness returns the weighted luminance estimate
// 0.299·R + 0.587·G + 0.114·B in [0, 255].
func PerceivedBrightness(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// IsLightColor reports whether c is visually light. Alpha is ignored.
func IsLightColor(c color.NRGBA) bool {
	return PerceivedBrightness(c) > lightThreshold
}

// Darken scales every channel toward 0 by pct percent:
// channel' = channel·(1 - pct/100). pct is clamped to [0, 100].
func Darken(c color.NRGBA, pct float64) color.NRGBA {
	f := 1 - clampPercent(pct)/100
	return color.NRGBA{
		R: roundByte(float64(c.R) * f),
		G: roundByte(float64(c.G) * f),
		B: roundByte(float64(c.B) * f),
		A: c.A,
	}
}

// Lighten moves every channel toward 255 by pct percent:
// channel' = channel + (255-channel)·(pct/100). pct is clamped to [0, 100].
func Lighten(c color.NRGBA, pct float64) color.NRGBA {
	f := clampPercent(pct) / 100
	return color.NRGBA{
		R: roundByte(float64(c.R) + (255-float64(c.R))*f),
		G: roundByte(float64(c.G) + (255-float64(c.G))*f),
		B: roundByte(float64(c.B) + (255-float64(c.B))*f),
		A: c.A,
	}
}

func clampPercent(p float64) float64 {
	if p < 0 || math.IsNaN(p) {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func roundByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math.Round(x))
}
