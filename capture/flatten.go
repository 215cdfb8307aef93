// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

// Theme grounds used when the caller does not pick a background.
var (
	LightBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DarkBackground  = color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

// DefaultBackground returns the capture ground of theme.
func DefaultBackground(theme surface.Theme) color.NRGBA {
	if theme == surface.ThemeDark {
		return DarkBackground
	}
	return LightBackground
}

// Flatten composites buf over an opaque version of background and returns a
// new buffer. Contrast math downstream is undefined over transparent pixels.
func Flatten(buf *pixel.Buffer, background color.NRGBA) *pixel.Buffer {
	background.A = 0xff
	out := buf.Clone()
	opaque := true
	for i := 3; i < len(buf.Data()); i += 4 {
		if buf.Data()[i] != 0xff {
			opaque = false
			break
		}
	}
	if opaque {
		return out
	}

	dst := out.NRGBA()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), buf.NRGBA(), image.Point{}, draw.Over)
	return out
}
