package enhance

import (
	"bytes"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/chartexport/internal/parallel"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

func TestPipelineKeepsShapeAndInput(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()
	p := NewPipeline(pool)

	rng := rand.New(rand.NewPCG(1, 2))
	sizes := []struct{ w, h int }{{1, 1}, {3, 7}, {64, 33}, {120, 90}}

	for _, sz := range sizes {
		for _, theme := range []surface.Theme{surface.ThemeLight, surface.ThemeDark} {
			src, err := pixel.New(sz.w, sz.h)
			if err != nil {
				t.Fatal(err)
			}
			for i := range src.Data() {
				src.Data()[i] = uint8(rng.IntN(256))
			}
			before := bytes.Clone(src.Data())

			cfg := Defaults(theme)
			cfg.IsLineChart = true
			out, err := p.Run(src, cfg)
			if err != nil {
				t.Fatalf("Run(%dx%d): %v", sz.w, sz.h, err)
			}
			if !out.SameShape(src) {
				t.Errorf("output %dx%d, want %dx%d", out.Width(), out.Height(), sz.w, sz.h)
			}
			if err := out.Validate(); err != nil {
				t.Errorf("output invalid: %v", err)
			}
			if !bytes.Equal(before, src.Data()) {
				t.Errorf("%dx%d %s: input buffer was mutated", sz.w, sz.h, theme)
			}
			if out == src || (len(out.Data()) > 0 && &out.Data()[0] == &src.Data()[0]) {
				t.Error("output shares memory with input")
			}
		}
	}
}

func TestPipelineMatchesSerial(t *testing.T) {
	src, _ := pixel.New(31, 17)
	rng := rand.New(rand.NewPCG(7, 7))
	for i := range src.Data() {
		src.Data()[i] = uint8(rng.IntN(256))
	}
	cfg := Defaults(surface.ThemeLight)

	pool := parallel.NewWorkerPool(3)
	defer pool.Close()

	parallelOut, err := NewPipeline(pool).Run(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	serialOut, err := (&Pipeline{}).Run(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parallelOut.Data(), serialOut.Data()) {
		t.Error("parallel and serial results differ")
	}
}

func TestPipelineWhiteLightTheme(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	src := solid(t, 8, 8, white)

	noTint := DefaultLayers(surface.ThemeLight)
	noTint.TintAlpha = 0
	cfg := Defaults(surface.ThemeLight)
	cfg.Layers = &noTint

	out, err := NewPipeline(nil).Run(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for y := range 8 {
		for x := range 8 {
			if got := out.Pixel(x, y); got != white {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, white)
			}
		}
	}

	// The default black tint darkens saturated white by 5%.
	out, err = NewPipeline(nil).Run(src, Defaults(surface.ThemeLight))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Pixel(4, 4); got != (color.NRGBA{R: 242, G: 242, B: 242, A: 255}) {
		t.Errorf("tinted white = %v, want (242,242,242,255)", got)
	}
}

func TestPipelineRejectsMalformedBuffer(t *testing.T) {
	if _, err := NewPipeline(nil).Run(&pixel.Buffer{}, Defaults(surface.ThemeLight)); err == nil {
		t.Error("Run accepted an empty buffer")
	}
	if _, err := NewPipeline(nil).Run(nil, Defaults(surface.ThemeLight)); err == nil {
		t.Error("Run accepted a nil buffer")
	}
}

func TestOverlaySelf(t *testing.T) {
	tests := []struct {
		name string
		in   uint8
		want uint8
	}{
		// 2*0.2*0.2 = 0.08; 0.75*0.2 + 0.25*0.08 = 0.17
		{"dark tone darkens", 51, 43},
		{"white unchanged", 255, 255},
		{"black unchanged", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := solid(t, 2, 2, color.NRGBA{R: tt.in, G: tt.in, B: tt.in, A: 255})
			out := OverlaySelf(src, 0.25)
			if got := out.Pixel(1, 1); got.R != tt.want || got.A != 255 {
				t.Errorf("OverlaySelf(%d) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSharpenOffsetUniformIsStable(t *testing.T) {
	c := color.NRGBA{R: 40, G: 120, B: 200, A: 255}
	src := solid(t, 6, 5, c)
	out := SharpenOffset(src, 0.5, 0.5)
	for y := range 5 {
		for x := range 6 {
			if got := out.Pixel(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, c)
			}
		}
	}
}

func TestSharpenOffsetSpreadsEdges(t *testing.T) {
	src := solid(t, 8, 8, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetPixel(3, 3, color.NRGBA{A: 255})

	out := SharpenOffset(src, 0.5, 0.5)
	if got := out.Pixel(4, 4); got.R >= 255 {
		t.Errorf("pixel below-right of the dot not darkened: %v", got)
	}
	if got := out.Pixel(0, 7); got.R != 255 {
		t.Errorf("far pixel changed: %v", got)
	}
}

func TestTint(t *testing.T) {
	src := solid(t, 1, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	dark := Tint(src, color.NRGBA{A: 255}, 0.05)
	if got := dark.Pixel(0, 0).R; got != 95 {
		t.Errorf("black tint = %d, want 95", got)
	}
	light := Tint(src, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0.02)
	if got := light.Pixel(0, 0).R; got != 103 {
		t.Errorf("white tint = %d, want 103", got)
	}
	if got := Tint(src, color.NRGBA{A: 255}, 0).Pixel(0, 0); got != src.Pixel(0, 0) {
		t.Errorf("zero alpha tint changed pixel to %v", got)
	}
}
