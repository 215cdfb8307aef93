package enhance

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/chartexport/internal/parallel"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

// Layers holds the compositing constants applied after the remap.
type Layers struct {
	// OverlayAlpha is the opacity of the overlay-blended copy.
	OverlayAlpha float64

	// SharpenAlpha is the opacity of the shifted copy.
	SharpenAlpha float64

	// SharpenOffset is the shift in pixels along both axes.
	SharpenOffset float64

	// Tint is the flat color laid over the result at TintAlpha.
	Tint      color.NRGBA
	TintAlpha float64
}

// DefaultLayers returns the layer constants for theme.
func DefaultLayers(theme surface.Theme) Layers {
	if theme == surface.ThemeDark {
		return Layers{
			OverlayAlpha:  0.15,
			SharpenAlpha:  0.4,
			SharpenOffset: 0.5,
			Tint:          color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			TintAlpha:     0.02,
		}
	}
	return Layers{
		OverlayAlpha:  0.25,
		SharpenAlpha:  0.5,
		SharpenOffset: 0.5,
		Tint:          color.NRGBA{A: 255},
		TintAlpha:     0.05,
	}
}

// OverlaySelf draws buf onto itself with the overlay blend mode at alpha.
func OverlaySelf(buf *pixel.Buffer, alpha float64) *pixel.Buffer {
	return overlaySelf(nil, buf, alpha)
}

func overlaySelf(pool *parallel.WorkerPool, buf *pixel.Buffer, alpha float64) *pixel.Buffer {
	return composite(pool, buf, buf.Data(), alpha, overlay)
}

// SharpenOffset draws a copy of buf shifted by offset pixels in x and y at
// alpha. The shifted copy is resampled bilinearly.
func SharpenOffset(buf *pixel.Buffer, offset, alpha float64) *pixel.Buffer {
	return sharpenOffset(nil, buf, offset, alpha)
}

func sharpenOffset(pool *parallel.WorkerPool, buf *pixel.Buffer, offset, alpha float64) *pixel.Buffer {
	src := buf.NRGBA()
	shifted := image.NewNRGBA(src.Bounds())
	s2d := f64.Aff3{
		1, 0, offset,
		0, 1, offset,
	}
	draw.BiLinear.Transform(shifted, s2d, src, src.Bounds(), draw.Src, nil)
	return composite(pool, buf, shifted.Pix, alpha, normal)
}

// Tint lays a flat color over buf at alpha.
func Tint(buf *pixel.Buffer, c color.NRGBA, alpha float64) *pixel.Buffer {
	return tint(nil, buf, c, alpha)
}

func tint(pool *parallel.WorkerPool, buf *pixel.Buffer, c color.NRGBA, alpha float64) *pixel.Buffer {
	flat := make([]uint8, len(buf.Data()))
	for i := 0; i < len(flat); i += 4 {
		flat[i], flat[i+1], flat[i+2], flat[i+3] = c.R, c.G, c.B, c.A
	}
	return composite(pool, buf, flat, alpha, normal)
}

// blendFunc is a separable blend B(cb, cs) on unit-range channels.
type blendFunc func(cb, cs float64) float64

func normal(_, cs float64) float64 { return cs }

// overlay is HardLight with the layers swapped.
func overlay(cb, cs float64) float64 {
	if cb <= 0.5 {
		return 2 * cb * cs
	}
	return 1 - 2*(1-cb)*(1-cs)
}

// composite draws the straight-alpha layer src over backdrop at the given
// opacity using blend, and returns the result as a new buffer:
//
//	Cs' = (1 - ab)*Cs + ab*B(Cb, Cs)
//	ao  = as + ab*(1 - as)
//	Co  = (as*Cs' + ab*(1 - as)*Cb) / ao
func composite(pool *parallel.WorkerPool, backdrop *pixel.Buffer, src []uint8, opacity float64, blend blendFunc) *pixel.Buffer {
	dst := backdrop.Clone()
	if opacity <= 0 {
		return dst
	}
	opacity = min(opacity, 1)
	stride := backdrop.Width() * 4
	bd := backdrop.Data()
	out := dst.Data()

	pool.ForBands(backdrop.Height(), func(lo, hi int) {
		for i := lo * stride; i < hi*stride; i += 4 {
			as := float64(src[i+3]) / 255 * opacity
			if as == 0 {
				continue
			}
			ab := float64(bd[i+3]) / 255
			ao := as + ab*(1-as)
			for c := range 3 {
				cb := float64(bd[i+c]) / 255
				cs := float64(src[i+c]) / 255
				mixed := (1-ab)*cs + ab*blend(cb, cs)
				co := (as*mixed + ab*(1-as)*cb) / ao
				out[i+c] = clamp8(co * 255)
			}
			out[i+3] = clamp8(ao * 255)
		}
	})
	return dst
}
