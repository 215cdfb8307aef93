// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"context"
	"errors"
	"image/color"

	"github.com/gogpu/chartexport/pixel"
)

var (
	// ErrUnavailable is returned when a surface has been detached and can no
	// longer be read, restyled or rendered.
	ErrUnavailable = errors.New("surface: unavailable")

	// ErrCaptureUnavailable is returned by RenderToPixelBuffer when the
	// surface was detached while a capture was in progress.
	ErrCaptureUnavailable = errors.New("surface: capture unavailable")
)

// ChartSurface is a live, theme-aware chart that can be restyled and rasterized.
//
// Implementations must return ErrUnavailable (or ErrCaptureUnavailable from
// RenderToPixelBuffer) rather than panic once detached.
type ChartSurface interface {
	// Kind returns the chart type.
	Kind() Kind

	// Theme returns the theme the chart was rendered with.
	Theme() Theme

	// Size returns the logical size in CSS pixels.
	Size() (width, height int)

	// StyleProperties returns a copy of the current style properties.
	StyleProperties() (Properties, error)

	// SetStyleProperties merges p into the current style. Keys absent from p
	// keep their value.
	SetStyleProperties(p Properties) error

	// RenderToPixelBuffer rasterizes the chart at scale times its logical
	// size, composited onto background.
	RenderToPixelBuffer(ctx context.Context, scale float64, background color.NRGBA) (*pixel.Buffer, error)

	// IsReady reports whether pending transitions have settled.
	IsReady() bool
}

// Chrome is a global interactive UI element that is hidden during export.
type Chrome interface {
	// Name identifies the element in logs.
	Name() string

	// Display returns the current CSS display value.
	Display() (string, error)

	// SetDisplay sets the CSS display value.
	SetDisplay(display string) error
}

// DisplayNone is the display value that hides an element.
const DisplayNone = "none"
