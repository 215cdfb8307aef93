package style

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/chartexport/surface"
)

func newCharts() []*surface.Memory {
	series := []surface.Series{
		{Name: "scope 1", Values: []float64{4, 2, 5}},
		{Name: "scope 2", Values: []float64{1, 3, 2}},
	}
	return []*surface.Memory{
		surface.NewMemory(surface.KindLine, surface.ThemeLight, 30, 20, series...),
		surface.NewMemory(surface.KindBar, surface.ThemeLight, 30, 20, series...),
		surface.NewMemory(surface.KindArea, surface.ThemeDark, 30, 20, series...),
		surface.NewMemory(surface.KindPie, surface.ThemeDark, 30, 20, series[0]),
	}
}

func TestApplyRestoreInvariant(t *testing.T) {
	for _, theme := range []surface.Theme{surface.ThemeLight, surface.ThemeDark} {
		t.Run(theme.String(), func(t *testing.T) {
			m := NewManager(DefaultPolicy())
			charts := newCharts()

			originals := make([]surface.Properties, len(charts))
			snaps := make([]*Snapshot, len(charts))
			for i, c := range charts {
				originals[i], _ = c.StyleProperties()
				snap, err := m.Apply(c, theme)
				if err != nil {
					t.Fatalf("Apply(chart %d) error = %v", i, err)
				}
				if snap.Len() == 0 {
					t.Fatalf("Apply(chart %d) changed nothing", i)
				}
				snaps[i] = snap
			}

			// Every chart is styled before any is restored.
			for i, c := range charts {
				now, _ := c.StyleProperties()
				if cmp.Equal(originals[i], now) {
					t.Errorf("chart %d style unchanged after Apply", i)
				}
			}

			for i, c := range charts {
				if err := m.Restore(c, snaps[i]); err != nil {
					t.Fatalf("Restore(chart %d) error = %v", i, err)
				}
				got, _ := c.StyleProperties()
				if diff := cmp.Diff(originals[i], got); diff != "" {
					t.Errorf("chart %d not restored (-want +got):\n%s", i, diff)
				}
				if !snaps[i].Consumed() {
					t.Errorf("snapshot %d not consumed", i)
				}
			}
		})
	}
}

func TestApplyLightLineForcesBlackWideStrokes(t *testing.T) {
	c := newCharts()[0]
	if _, err := NewManager(DefaultPolicy()).Apply(c, surface.ThemeLight); err != nil {
		t.Fatal(err)
	}
	props, _ := c.StyleProperties()
	if props[surface.SeriesKey(1, surface.AttrStroke)] != "#000000" {
		t.Errorf("stroke = %q, want #000000", props[surface.SeriesKey(1, surface.AttrStroke)])
	}
	if w, _ := props.Float(surface.SeriesKey(1, surface.AttrStrokeWidth)); w < 5 {
		t.Errorf("stroke width = %v, want >= 5x nominal", w)
	}
	if props[surface.KeyTextWeight] != "bold" || props[surface.KeyTextOpacity] != "1" {
		t.Error("text is not bold and opaque")
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	m := NewManager(DefaultPolicy())
	c := newCharts()[0]
	snap, _ := m.Apply(c, surface.ThemeLight)

	if err := m.Restore(c, snap); err != nil {
		t.Fatal(err)
	}
	// Someone restyles after restore; a second Restore must not clobber it.
	_ = c.SetStyleProperties(surface.Properties{surface.KeyTextWeight: "600"})
	if err := m.Restore(c, snap); err != nil {
		t.Fatalf("second Restore() error = %v", err)
	}
	got, _ := c.StyleProperties()
	if got[surface.KeyTextWeight] != "600" {
		t.Error("consumed snapshot was applied twice")
	}
	if err := m.Restore(c, nil); err != nil {
		t.Errorf("Restore(nil) error = %v", err)
	}
}

func TestDetachedSurface(t *testing.T) {
	m := NewManager(DefaultPolicy())
	c := newCharts()[0]
	c.Detach()

	snap, err := m.Apply(c, surface.ThemeLight)
	if !errors.Is(err, surface.ErrUnavailable) {
		t.Errorf("Apply() error = %v, want ErrUnavailable", err)
	}
	if snap != nil {
		t.Error("Apply() on detached surface returned a snapshot")
	}

	live := newCharts()[1]
	snap, err = m.Apply(live, surface.ThemeLight)
	if err != nil {
		t.Fatal(err)
	}
	live.Detach()
	if err := m.Restore(live, snap); !errors.Is(err, surface.ErrUnavailable) {
		t.Errorf("Restore() error = %v, want ErrUnavailable", err)
	}
}

// partialSurface accepts only the first n keys of the next SetStyleProperties
// call and then fails, as a renderer that dies halfway through a restyle.
type partialSurface struct {
	*surface.Memory
	failNext bool
	accept   int
}

func (p *partialSurface) SetStyleProperties(props surface.Properties) error {
	if !p.failNext {
		return p.Memory.SetStyleProperties(props)
	}
	p.failNext = false
	part := surface.Properties{}
	for _, k := range props.Keys()[:min(p.accept, len(props))] {
		part[k] = props[k]
	}
	_ = p.Memory.SetStyleProperties(part)
	return errors.New("renderer crashed")
}

func TestRestoreAfterPartialApply(t *testing.T) {
	m := NewManager(DefaultPolicy())
	s := &partialSurface{Memory: newCharts()[0], failNext: true, accept: 3}
	orig, _ := s.StyleProperties()

	snap, err := m.Apply(s, surface.ThemeLight)
	if err == nil {
		t.Fatal("Apply() should report the renderer failure")
	}
	if snap == nil {
		t.Fatal("Apply() must return the snapshot even on failure")
	}
	mid, _ := s.StyleProperties()
	if cmp.Equal(orig, mid) {
		t.Fatal("test setup: nothing was partially applied")
	}

	if err := m.Restore(s, snap); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	got, _ := s.StyleProperties()
	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("not restored (-want +got):\n%s", diff)
	}
}

func TestHideRestoreChrome(t *testing.T) {
	m := NewManager(DefaultPolicy())
	menu := surface.NewMemoryChrome("menu", "block")
	zoom := surface.NewMemoryChrome("zoom", "flex")
	hidden := surface.NewMemoryChrome("help", surface.DisplayNone)
	gone := surface.NewMemoryChrome("gone", "block")
	gone.Detach()

	snap, err := m.HideChrome([]surface.Chrome{menu, zoom, hidden, gone})
	if !errors.Is(err, surface.ErrUnavailable) {
		t.Errorf("HideChrome() error = %v, want ErrUnavailable for detached element", err)
	}
	if snap.Len() != 3 {
		t.Errorf("snapshot recorded %d elements, want 3", snap.Len())
	}
	for _, c := range []*surface.MemoryChrome{menu, zoom, hidden} {
		if d, _ := c.Display(); d != surface.DisplayNone {
			t.Errorf("%s display = %q, want none", c.Name(), d)
		}
	}

	if err := m.RestoreChrome(snap); err != nil {
		t.Fatalf("RestoreChrome() error = %v", err)
	}
	want := map[string]string{"menu": "block", "zoom": "flex", "help": surface.DisplayNone}
	for _, c := range []*surface.MemoryChrome{menu, zoom, hidden} {
		if d, _ := c.Display(); d != want[c.Name()] {
			t.Errorf("%s display = %q, want %q", c.Name(), d, want[c.Name()])
		}
	}
	if err := m.RestoreChrome(snap); err != nil {
		t.Errorf("second RestoreChrome() error = %v", err)
	}
	if err := m.RestoreChrome(nil); err != nil {
		t.Errorf("RestoreChrome(nil) error = %v", err)
	}
}
