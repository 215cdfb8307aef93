package style

import (
	"image/color"
	"math"
	"strconv"

	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

// Policy holds the tunable constants of the export-safe style.
type Policy struct {
	// LightStrokeScale widens line and area series strokes in the light theme.
	LightStrokeScale float64

	// DarkStrokeScale widens line and area series strokes in the dark theme.
	DarkStrokeScale float64

	// MinStrokeWidth is the minimum series and axis stroke width after
	// widening, in logical pixels.
	MinStrokeWidth float64

	// MarkerScale enlarges line markers.
	MarkerScale float64

	// DarkenPercent darkens light fills in the light theme.
	DarkenPercent float64

	// BrightenPercent brightens every series color in the dark theme.
	BrightenPercent float64

	// LightGround and DarkGround replace the chart background.
	LightGround color.NRGBA
	DarkGround  color.NRGBA
}

// DefaultPolicy returns the tuned export policy.
func DefaultPolicy() Policy {
	return Policy{
		LightStrokeScale: 5,
		DarkStrokeScale:  2,
		MinStrokeWidth:   2,
		MarkerScale:      2,
		DarkenPercent:    40,
		BrightenPercent:  30,
		LightGround:      color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		DarkGround:       color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff},
	}
}

// Ground returns the export background of theme.
func (p Policy) Ground(theme surface.Theme) color.NRGBA {
	if theme == surface.ThemeDark {
		return p.DarkGround
	}
	return p.LightGround
}

// Overrides computes the export-safe values for the properties of a chart of
// the given kind. Only keys present in cur whose value changes are returned.
//
// Light theme: line and area strokes become black and widen, light fills are
// darkened, text becomes black. Dark theme: every series color is brightened
// rather than replaced so series stay distinguishable, text becomes white.
// Both themes: bold, fully opaque text and hidden interactive chrome.
func (p Policy) Overrides(kind surface.Kind, theme surface.Theme, cur surface.Properties) surface.Properties {
	out := make(surface.Properties)
	set := func(k, v string) {
		if cur[k] != v {
			out[k] = v
		}
	}
	dark := theme == surface.ThemeDark
	ink := "#000000"
	if dark {
		ink = "#ffffff"
	}

	for _, k := range cur.Keys() {
		key, ok := surface.ParseKey(k)
		if !ok {
			continue
		}
		v := cur[k]
		switch key.Group {
		case surface.GroupBackground:
			if key.Attr == "" {
				set(k, pixel.FormatColor(p.Ground(theme)))
			}

		case surface.GroupText:
			switch key.Attr {
			case surface.AttrColor:
				set(k, ink)
			case surface.AttrFontWeight:
				set(k, "bold")
			case surface.AttrOpacity:
				set(k, "1")
			}

		case surface.GroupAxis:
			switch key.Attr {
			case surface.AttrStroke:
				if dark {
					p.recolor(set, k, v, Lighten, p.BrightenPercent)
				} else {
					set(k, ink)
				}
			case surface.AttrStrokeWidth:
				p.widen(set, k, cur, 1)
			}

		case surface.GroupGrid:
			if key.Attr == surface.AttrStroke {
				if dark {
					p.recolor(set, k, v, Lighten, p.BrightenPercent)
				} else {
					p.recolor(set, k, v, Darken, p.DarkenPercent)
				}
			}

		case surface.GroupSeries:
			p.series(set, kind, dark, key, k, v, cur)

		case surface.GroupChrome:
			if key.Attr == surface.AttrDisplay {
				set(k, surface.DisplayNone)
			}
		}
	}
	return out
}

func (p Policy) series(set func(k, v string), kind surface.Kind, dark bool, key surface.Key, k, v string, cur surface.Properties) {
	switch key.Attr {
	case surface.AttrStroke:
		switch {
		case dark:
			p.recolor(set, k, v, Lighten, p.BrightenPercent)
		case kind.Stroked():
			set(k, "#000000")
		default:
			p.darkenIfLight(set, k, v)
		}
	case surface.AttrFill:
		if dark {
			p.recolor(set, k, v, Lighten, p.BrightenPercent)
		} else {
			p.darkenIfLight(set, k, v)
		}
	case surface.AttrStrokeWidth:
		if !kind.Stroked() {
			return
		}
		scale := p.LightStrokeScale
		if dark {
			scale = p.DarkStrokeScale
		}
		p.widen(set, k, cur, scale)
	case surface.AttrMarkerRadius:
		if kind.Stroked() {
			if r, ok := cur.Float(k); ok {
				set(k, formatFloat(r*p.MarkerScale))
			}
		}
	}
}

func (p Policy) widen(set func(k, v string), k string, cur surface.Properties, scale float64) {
	w, ok := cur.Float(k)
	if !ok {
		return
	}
	set(k, formatFloat(math.Max(w*scale, p.MinStrokeWidth)))
}

func (p Policy) recolor(set func(k, v string), k, v string, fn func(color.NRGBA, float64) color.NRGBA, pct float64) {
	c, err := pixel.ParseColor(v)
	if err != nil || c.A == 0 {
		return
	}
	set(k, pixel.FormatColor(fn(c, pct)))
}

func (p Policy) darkenIfLight(set func(k, v string), k, v string) {
	c, err := pixel.ParseColor(v)
	if err != nil || c.A == 0 || !IsLightColor(c) {
		return
	}
	set(k, pixel.FormatColor(Darken(c, p.DarkenPercent)))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
