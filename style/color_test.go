package style

import (
	"image/color"
	"math"
	"testing"
)

func TestPerceivedBrightness(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want float64
	}{
		{"black", color.NRGBA{A: 255}, 0},
		{"white", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 255},
		{"red", color.NRGBA{R: 255, A: 255}, 76.245},
		{"green", color.NRGBA{G: 255, A: 255}, 149.685},
		{"blue", color.NRGBA{B: 255, A: 255}, 29.07},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PerceivedBrightness(tt.c); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PerceivedBrightness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsLightColor(t *testing.T) {
	tests := []struct {
		c    color.NRGBA
		want bool
	}{
		{color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{color.NRGBA{A: 255}, false},
		{color.NRGBA{R: 129, G: 129, B: 129, A: 255}, true},
		{color.NRGBA{R: 127, G: 127, B: 127, A: 255}, false},
		{color.NRGBA{G: 255, A: 255}, true},
		{color.NRGBA{R: 255, A: 255}, false},
		{color.NRGBA{R: 255, G: 255, B: 255}, true}, // alpha is ignored
	}
	for _, tt := range tests {
		first := IsLightColor(tt.c)
		if first != tt.want {
			t.Errorf("IsLightColor(%v) = %v, want %v", tt.c, first, tt.want)
		}
		if second := IsLightColor(tt.c); second != first {
			t.Errorf("IsLightColor(%v) is not stable: %v then %v", tt.c, first, second)
		}
	}
}

func TestDarken(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	if got := Darken(white, 40); got != (color.NRGBA{R: 153, G: 153, B: 153, A: 200}) {
		t.Errorf("Darken(white, 40) = %v", got)
	}
	if got := Darken(white, 0); got != white {
		t.Errorf("Darken(white, 0) = %v", got)
	}
	if got := Darken(white, 150); got != (color.NRGBA{A: 200}) {
		t.Errorf("Darken(white, 150) = %v, want black (clamped)", got)
	}
}

func TestLighten(t *testing.T) {
	black := color.NRGBA{A: 255}
	if got := Lighten(black, 20); got != (color.NRGBA{R: 51, G: 51, B: 51, A: 255}) {
		t.Errorf("Lighten(black, 20) = %v", got)
	}
	if got := Lighten(black, 100); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Lighten(black, 100) = %v", got)
	}
	if got := Lighten(black, -10); got != black {
		t.Errorf("Lighten(black, -10) = %v", got)
	}
	c := color.NRGBA{R: 10, G: 100, B: 200, A: 255}
	l := Lighten(c, 30)
	if l.R < c.R || l.G < c.G || l.B < c.B {
		t.Errorf("Lighten(%v, 30) = %v darkened a channel", c, l)
	}
	if PerceivedBrightness(l) <= PerceivedBrightness(c) {
		t.Errorf("Lighten did not increase brightness")
	}
}
