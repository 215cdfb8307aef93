package style

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/surface"
)

func TestOverridesLightLine(t *testing.T) {
	cur := surface.DefaultProperties(surface.ThemeLight, 1)
	got := DefaultPolicy().Overrides(surface.KindLine, surface.ThemeLight, cur)

	want := surface.Properties{
		surface.KeyTextColor:                           "#000000",
		surface.KeyTextWeight:                          "bold",
		surface.KeyTextOpacity:                         "1",
		surface.KeyAxisStroke:                          "#000000",
		surface.KeyAxisStrokeWidth:                     "2",
		surface.KeyGridStroke:                          "#898b8d",
		surface.SeriesKey(0, surface.AttrStroke):       "#000000",
		surface.SeriesKey(0, surface.AttrStrokeWidth):  "5",
		surface.SeriesKey(0, surface.AttrMarkerRadius): "4",
		surface.ChromeKey("tooltip"):                   surface.DisplayNone,
		surface.ChromeKey("toolbar"):                   surface.DisplayNone,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overrides() mismatch (-want +got):\n%s", diff)
	}
}

func TestOverridesLightBarDarkensOnlyLightFills(t *testing.T) {
	cur := surface.Properties{
		surface.SeriesKey(0, surface.AttrFill):        "#ff7f0e", // light
		surface.SeriesKey(1, surface.AttrFill):        "#1f77b4", // dark
		surface.SeriesKey(0, surface.AttrStrokeWidth): "1",
	}
	got := DefaultPolicy().Overrides(surface.KindBar, surface.ThemeLight, cur)

	want := surface.Properties{
		surface.SeriesKey(0, surface.AttrFill): "#994c08",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overrides() mismatch (-want +got):\n%s", diff)
	}
}

func TestOverridesDarkBrightens(t *testing.T) {
	cur := surface.DefaultProperties(surface.ThemeDark, 2)
	got := DefaultPolicy().Overrides(surface.KindLine, surface.ThemeDark, cur)

	for i := 0; i < 2; i++ {
		k := surface.SeriesKey(i, surface.AttrStroke)
		before, _ := pixel.ParseColor(cur[k])
		after, err := pixel.ParseColor(got[k])
		if err != nil {
			t.Fatalf("%s override %q is not a color: %v", k, got[k], err)
		}
		if after == (color.NRGBA{A: 255}) {
			t.Errorf("%s was replaced with black; dark theme must brighten", k)
		}
		if PerceivedBrightness(after) <= PerceivedBrightness(before) {
			t.Errorf("%s not brightened: %v -> %v", k, before, after)
		}
	}
	if got[surface.SeriesKey(0, surface.AttrStrokeWidth)] != "2" {
		t.Errorf("dark stroke width = %q, want 2", got[surface.SeriesKey(0, surface.AttrStrokeWidth)])
	}
	if got[surface.KeyTextColor] != "#ffffff" {
		t.Errorf("dark text color = %q, want #ffffff", got[surface.KeyTextColor])
	}
	if got[surface.KeyBackground] != "#1f2937" {
		t.Errorf("dark background = %q, want #1f2937", got[surface.KeyBackground])
	}
	if got[surface.ChromeKey("tooltip")] != surface.DisplayNone {
		t.Error("chrome not hidden in dark theme")
	}
}

func TestOverridesOnlyChangedKeys(t *testing.T) {
	cur := surface.Properties{
		surface.KeyTextWeight:  "bold",
		surface.KeyTextOpacity: "1",
		"unknown.group":        "x",
		"bad..key":             "y",
	}
	got := DefaultPolicy().Overrides(surface.KindLine, surface.ThemeLight, cur)
	if len(got) != 0 {
		t.Errorf("Overrides() = %v, want no changes", got)
	}
}

func TestOverridesMinimumWidth(t *testing.T) {
	cur := surface.Properties{surface.SeriesKey(0, surface.AttrStrokeWidth): "0.2"}
	got := DefaultPolicy().Overrides(surface.KindArea, surface.ThemeLight, cur)
	if w := got[surface.SeriesKey(0, surface.AttrStrokeWidth)]; w != "2" {
		t.Errorf("width = %q, want minimum 2", w)
	}
}
