// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/gogpu/chartexport/pixel"
)

// Series is one data series of a Memory chart.
type Series struct {
	Name   string
	Values []float64
}

// Default palettes, one color per series (or per slice for pie charts).
var (
	lightPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}
	darkPalette  = []string{"#60a5fa", "#f59e0b", "#34d399", "#f87171", "#a78bfa", "#fbbf24"}
)

// DefaultProperties returns the on-screen style a freshly rendered chart
// with n series has in the given theme.
func DefaultProperties(theme Theme, n int) Properties {
	palette := lightPalette
	p := Properties{
		KeyBackground:      "#ffffff",
		KeyTextColor:       "#374151",
		KeyTextWeight:      "normal",
		KeyTextOpacity:     "0.87",
		KeyAxisStroke:      "#9ca3af",
		KeyAxisStrokeWidth: "1",
		KeyGridStroke:      "#e5e7eb",
	}
	p[ChromeKey("tooltip")] = "block"
	p[ChromeKey("toolbar")] = "flex"
	if theme == ThemeDark {
		palette = darkPalette
		p[KeyBackground] = "#111827"
		p[KeyTextColor] = "#d1d5db"
		p[KeyAxisStroke] = "#4b5563"
		p[KeyGridStroke] = "#374151"
	}
	for i := 0; i < n; i++ {
		c := palette[i%len(palette)]
		p[SeriesKey(i, AttrStroke)] = c
		p[SeriesKey(i, AttrFill)] = c
		p[SeriesKey(i, AttrStrokeWidth)] = "1"
		p[SeriesKey(i, AttrMarkerRadius)] = "2"
	}
	return p
}

// Memory is a CPU chart surface that renders from its own style properties.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	kind   Kind
	theme  Theme
	width  int
	height int
	series []Series
	props  Properties

	detached   bool
	readyAfter int // IsReady polls answered false; negative means never ready
	polls      int
	captureErr error
	renderHook func()
	renders    int
}

// NewMemory creates a chart surface of the given logical size.
func NewMemory(kind Kind, theme Theme, width, height int, series ...Series) *Memory {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	n := len(series)
	if kind == KindPie && n > 0 {
		n = len(series[0].Values)
	}
	return &Memory{
		kind:   kind,
		theme:  theme,
		width:  width,
		height: height,
		series: series,
		props:  DefaultProperties(theme, n),
	}
}

// Kind implements ChartSurface.
func (m *Memory) Kind() Kind { return m.kind }

// Theme implements ChartSurface.
func (m *Memory) Theme() Theme { return m.theme }

// Size implements ChartSurface.
func (m *Memory) Size() (int, int) { return m.width, m.height }

// StyleProperties implements ChartSurface.
func (m *Memory) StyleProperties() (Properties, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return nil, ErrUnavailable
	}
	return m.props.Clone(), nil
}

// SetStyleProperties implements ChartSurface.
func (m *Memory) SetStyleProperties(p Properties) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached {
		return ErrUnavailable
	}
	for k, v := range p {
		m.props[k] = v
	}
	return nil
}

// IsReady implements ChartSurface.
func (m *Memory) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detached || m.readyAfter < 0 {
		return false
	}
	m.polls++
	return m.polls > m.readyAfter
}

// RenderToPixelBuffer implements ChartSurface.
func (m *Memory) RenderToPixelBuffer(ctx context.Context, scale float64, background color.NRGBA) (*pixel.Buffer, error) {
	m.mu.Lock()
	hook := m.renderHook
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	if m.detached {
		m.mu.Unlock()
		return nil, ErrCaptureUnavailable
	}
	if m.captureErr != nil {
		err := m.captureErr
		m.mu.Unlock()
		return nil, err
	}
	props := m.props.Clone()
	series := m.series
	m.renders++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Round(float64(m.width)*scale)))
	h := max(1, int(math.Round(float64(m.height)*scale)))

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	p := &painter{dst: canvas, scale: scale, props: props}
	p.chart(m.kind, series)

	buf, err := pixel.New(w, h)
	if err != nil {
		return nil, err
	}
	draw.Draw(buf.NRGBA(), buf.Bounds(), canvas, image.Point{}, draw.Src)
	return buf, nil
}

// Detach simulates the chart being unmounted. Every further call fails.
func (m *Memory) Detach() {
	m.mu.Lock()
	m.detached = true
	m.mu.Unlock()
}

// SetReadyAfter makes IsReady answer false for the next n polls.
// A negative n means the surface never becomes ready.
func (m *Memory) SetReadyAfter(n int) {
	m.mu.Lock()
	m.readyAfter = n
	m.polls = 0
	m.mu.Unlock()
}

// FailCapture makes RenderToPixelBuffer return err. Pass nil to clear.
func (m *Memory) FailCapture(err error) {
	m.mu.Lock()
	m.captureErr = err
	m.mu.Unlock()
}

// OnRender registers fn to run at the start of every RenderToPixelBuffer call,
// before the surface state is read.
func (m *Memory) OnRender(fn func()) {
	m.mu.Lock()
	m.renderHook = fn
	m.mu.Unlock()
}

// Renders returns the number of completed renders.
func (m *Memory) Renders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders
}
