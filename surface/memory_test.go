// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func newLineChart() *Memory {
	return NewMemory(KindLine, ThemeLight, 40, 30,
		Series{Name: "scope 1", Values: []float64{3, 5, 2, 6}},
		Series{Name: "scope 2", Values: []float64{1, 2, 4, 3}},
	)
}

func TestMemoryDefaults(t *testing.T) {
	m := newLineChart()
	props, err := m.StyleProperties()
	if err != nil {
		t.Fatalf("StyleProperties() error = %v", err)
	}
	for _, k := range []string{KeyBackground, SeriesKey(1, AttrStroke), ChromeKey("tooltip")} {
		if _, ok := props[k]; !ok {
			t.Errorf("default properties missing %q", k)
		}
	}
	if w, h := m.Size(); w != 40 || h != 30 {
		t.Errorf("Size() = %dx%d", w, h)
	}

	pie := NewMemory(KindPie, ThemeDark, 10, 10, Series{Values: []float64{1, 2, 3}})
	pp, _ := pie.StyleProperties()
	if _, ok := pp[SeriesKey(2, AttrFill)]; !ok {
		t.Error("pie chart should have one fill per slice")
	}
}

func TestMemorySetStylePropertiesMerges(t *testing.T) {
	m := newLineChart()
	if err := m.SetStyleProperties(Properties{KeyTextWeight: "bold"}); err != nil {
		t.Fatalf("SetStyleProperties() error = %v", err)
	}
	props, _ := m.StyleProperties()
	if props[KeyTextWeight] != "bold" {
		t.Errorf("text weight = %q, want bold", props[KeyTextWeight])
	}
	if props[KeyBackground] != "#ffffff" {
		t.Error("unrelated key was lost by merge")
	}

	// Returned maps are copies.
	props[KeyBackground] = "#000000"
	again, _ := m.StyleProperties()
	if again[KeyBackground] != "#ffffff" {
		t.Error("StyleProperties() leaked internal map")
	}
}

func TestMemoryDetached(t *testing.T) {
	m := newLineChart()
	m.Detach()

	if _, err := m.StyleProperties(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("StyleProperties() error = %v, want ErrUnavailable", err)
	}
	if err := m.SetStyleProperties(Properties{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetStyleProperties() error = %v, want ErrUnavailable", err)
	}
	if _, err := m.RenderToPixelBuffer(context.Background(), 1, white); !errors.Is(err, ErrCaptureUnavailable) {
		t.Errorf("RenderToPixelBuffer() error = %v, want ErrCaptureUnavailable", err)
	}
	if m.IsReady() {
		t.Error("detached surface reported ready")
	}
}

func TestMemoryDetachDuringRender(t *testing.T) {
	m := newLineChart()
	m.OnRender(m.Detach)
	if _, err := m.RenderToPixelBuffer(context.Background(), 1, white); !errors.Is(err, ErrCaptureUnavailable) {
		t.Errorf("error = %v, want ErrCaptureUnavailable", err)
	}
}

func TestMemoryReadyAfter(t *testing.T) {
	m := newLineChart()
	if !m.IsReady() {
		t.Error("fresh surface should be ready")
	}
	m.SetReadyAfter(2)
	got := []bool{m.IsReady(), m.IsReady(), m.IsReady()}
	if got[0] || got[1] || !got[2] {
		t.Errorf("IsReady sequence = %v, want [false false true]", got)
	}
	m.SetReadyAfter(-1)
	for i := 0; i < 5; i++ {
		if m.IsReady() {
			t.Fatal("never-ready surface reported ready")
		}
	}
}

func TestMemoryRender(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		scale float64
		wantW int
		wantH int
	}{
		{"line x1", KindLine, 1, 40, 30},
		{"line x3", KindLine, 3, 120, 90},
		{"area x2", KindArea, 2, 80, 60},
		{"bar x2", KindBar, 2, 80, 60},
		{"pie x1.5", KindPie, 1.5, 60, 45},
		{"non-positive scale", KindLine, 0, 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(tt.kind, ThemeLight, 40, 30,
				Series{Values: []float64{3, 5, 2, 6}},
				Series{Values: []float64{1, 2, 4, 3}},
			)
			buf, err := m.RenderToPixelBuffer(context.Background(), tt.scale, white)
			if err != nil {
				t.Fatalf("RenderToPixelBuffer() error = %v", err)
			}
			if buf.Width() != tt.wantW || buf.Height() != tt.wantH {
				t.Fatalf("size = %dx%d, want %dx%d", buf.Width(), buf.Height(), tt.wantW, tt.wantH)
			}
			if err := buf.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			for i := 3; i < len(buf.Data()); i += 4 {
				if buf.Data()[i] != 255 {
					t.Fatalf("pixel %d has alpha %d, want opaque ground", i/4, buf.Data()[i])
				}
			}
			if m.Renders() != 1 {
				t.Errorf("Renders() = %d, want 1", m.Renders())
			}
		})
	}
}

func TestMemoryRenderReflectsStyle(t *testing.T) {
	m := newLineChart()
	before, err := m.RenderToPixelBuffer(context.Background(), 2, white)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetStyleProperties(Properties{
		ChromeKey("tooltip"):          DisplayNone,
		ChromeKey("toolbar"):          DisplayNone,
		SeriesKey(0, AttrStroke):      "#000000",
		SeriesKey(0, AttrStrokeWidth): "5",
	}); err != nil {
		t.Fatal(err)
	}
	after, err := m.RenderToPixelBuffer(context.Background(), 2, white)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(before.Data(), after.Data()) {
		t.Error("restyled render is identical to the original")
	}
	if darkPixels(after) <= darkPixels(before) {
		t.Errorf("wide black strokes should add dark pixels: before %d, after %d", darkPixels(before), darkPixels(after))
	}
}

func TestMemoryFailCapture(t *testing.T) {
	m := newLineChart()
	boom := errors.New("engine exploded")
	m.FailCapture(boom)
	if _, err := m.RenderToPixelBuffer(context.Background(), 1, white); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	m.FailCapture(nil)
	if _, err := m.RenderToPixelBuffer(context.Background(), 1, white); err != nil {
		t.Errorf("error after clearing = %v", err)
	}
}

func TestMemoryRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newLineChart().RenderToPixelBuffer(ctx, 1, white); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMemoryChrome(t *testing.T) {
	c := NewMemoryChrome("menu", "block")
	if err := c.SetDisplay(DisplayNone); err != nil {
		t.Fatal(err)
	}
	if d, _ := c.Display(); d != DisplayNone {
		t.Errorf("Display() = %q", d)
	}
	c.Detach()
	if _, err := c.Display(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Display() after detach error = %v", err)
	}
	if err := c.SetDisplay("block"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SetDisplay() after detach error = %v", err)
	}
}

func darkPixels(buf interface{ Data() []uint8 }) int {
	n := 0
	d := buf.Data()
	for i := 0; i < len(d); i += 4 {
		if (int(d[i])+int(d[i+1])+int(d[i+2]))/3 < 64 {
			n++
		}
	}
	return n
}
