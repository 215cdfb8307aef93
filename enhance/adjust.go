// Package enhance applies the print-oriented pixel adjustments used on
// captured charts: a global brightness/contrast remap, a line reinforcement
// pass for stroked charts, and three compositing layers (overlay self-blend,
// sub-pixel sharpen, flat tint).
//
// Every function returns a new buffer of the same dimensions and leaves its
// input untouched.
package enhance

import (
	"math"

	"github.com/gogpu/chartexport/internal/parallel"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

const (
	// TransparentAlpha is the alpha below which a pixel is left untouched by
	// the remap.
	TransparentAlpha = 20

	// ReinforceThreshold is the grayscale average below which a pixel of a
	// light line chart is forced to opaque black.
	ReinforceThreshold = 100
)

// Config selects the remap constants for one buffer.
type Config struct {
	Brightness  int
	Contrast    int
	Theme       surface.Theme
	IsLineChart bool

	// Layers overrides DefaultLayers(Theme) when non-nil.
	Layers *Layers
}

// Defaults returns the tuned brightness and contrast for theme.
func Defaults(theme surface.Theme) Config {
	if theme == surface.ThemeDark {
		return Config{Brightness: 25, Contrast: 40, Theme: theme}
	}
	return Config{Brightness: 20, Contrast: 50, Theme: theme}
}

// ForKind returns Defaults(theme) with IsLineChart set for stroked kinds.
func ForKind(kind surface.Kind, theme surface.Theme) Config {
	cfg := Defaults(theme)
	cfg.IsLineChart = kind.Stroked()
	return cfg
}

func (c Config) layers() Layers {
	if c.Layers != nil {
		return *c.Layers
	}
	return DefaultLayers(c.Theme)
}

// AdjustChannel remaps one color channel:
//
//	v' = clamp(v + brightness + (v-128)*contrast/100, 0, 255)
//
// The contrast term vanishes at v = 128.
func AdjustChannel(v uint8, brightness, contrast int) uint8 {
	f := float64(v)
	return clamp8(f + float64(brightness) + (f-128)*float64(contrast)/100)
}

// Adjust applies the brightness/contrast remap and, for light line charts,
// the reinforcement pass.
func Adjust(src *pixel.Buffer, cfg Config) *pixel.Buffer {
	return adjust(nil, src, cfg)
}

func adjust(pool *parallel.WorkerPool, src *pixel.Buffer, cfg Config) *pixel.Buffer {
	dst := src.Clone()
	lut := channelTable(cfg.Brightness, cfg.Contrast)
	reinforce := cfg.IsLineChart && cfg.Theme == surface.ThemeLight
	stride := src.Width() * 4
	data := dst.Data()

	pool.ForBands(src.Height(), func(lo, hi int) {
		row := data[lo*stride : hi*stride]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] < TransparentAlpha {
				continue
			}
			r, g, b := lut[row[i]], lut[row[i+1]], lut[row[i+2]]
			if reinforce && (int(r)+int(g)+int(b)) < 3*ReinforceThreshold {
				r, g, b = 0, 0, 0
			}
			row[i], row[i+1], row[i+2], row[i+3] = r, g, b, 255
		}
	})
	return dst
}

func channelTable(brightness, contrast int) *[256]uint8 {
	var lut [256]uint8
	for v := range lut {
		lut[v] = AdjustChannel(uint8(v), brightness, contrast)
	}
	return &lut
}

func clamp8(x float64) uint8 {
	switch {
	case x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return uint8(math.RoundToEven(x))
}
