// Package config loads export profiles and chart fixtures from TOML.
//
// A profile carries every tunable of an Exporter:
//
//	scale = 3
//	stabilization_delay = "400ms"
//	locale = "de"
//
//	[page]
//	size = "A4"
//	margin = 10
//
//	[light]
//	brightness = 20
//	contrast = 50
//
// Fields missing from a file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/gogpu/chartexport"
	"github.com/gogpu/chartexport/capture"
	"github.com/gogpu/chartexport/document"
	"github.com/gogpu/chartexport/enhance"
	"github.com/gogpu/chartexport/pixel"
	"github.com/gogpu/chartexport/style"
	"github.com/gogpu/chartexport/surface"
)

// Duration is a time.Duration written as a Go duration string ("400ms").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Profile is the complete export configuration.
type Profile struct {
	Scale              float64  `toml:"scale"`
	StabilizationDelay Duration `toml:"stabilization_delay"`
	ReadyTimeout       Duration `toml:"ready_timeout"`
	PollInterval       Duration `toml:"poll_interval"`

	// Workers is the pixel worker count; 0 means GOMAXPROCS.
	Workers int    `toml:"workers"`
	Locale  string `toml:"locale"`

	Page  Page        `toml:"page"`
	Light Adjustment  `toml:"light"`
	Dark  Adjustment  `toml:"dark"`
	Style StylePolicy `toml:"style"`
}

// Page is the document geometry.
type Page struct {
	// Size is "A4", "Letter" or "custom". Width and Height are used only
	// for "custom".
	Size     string  `toml:"size"`
	Width    float64 `toml:"width,omitempty"`
	Height   float64 `toml:"height,omitempty"`
	Margin   float64 `toml:"margin"`
	BlockGap float64 `toml:"block_gap"`
	MaxDPI   float64 `toml:"max_dpi"`
}

// Adjustment is the per-theme pixel enhancement.
type Adjustment struct {
	Brightness    int     `toml:"brightness"`
	Contrast      int     `toml:"contrast"`
	OverlayAlpha  float64 `toml:"overlay_alpha"`
	SharpenAlpha  float64 `toml:"sharpen_alpha"`
	SharpenOffset float64 `toml:"sharpen_offset"`
	Tint          string  `toml:"tint"`
	TintAlpha     float64 `toml:"tint_alpha"`
}

// StylePolicy mirrors style.Policy.
type StylePolicy struct {
	LightStrokeScale float64 `toml:"light_stroke_scale"`
	DarkStrokeScale  float64 `toml:"dark_stroke_scale"`
	MinStrokeWidth   float64 `toml:"min_stroke_width"`
	MarkerScale      float64 `toml:"marker_scale"`
	DarkenPercent    float64 `toml:"darken_percent"`
	BrightenPercent  float64 `toml:"brighten_percent"`
	LightGround      string  `toml:"light_ground"`
	DarkGround       string  `toml:"dark_ground"`
}

// Default returns the built-in profile.
func Default() *Profile {
	layout := document.DefaultLayout()
	policy := style.DefaultPolicy()
	return &Profile{
		Scale:              capture.DefaultScale,
		StabilizationDelay: Duration{capture.DefaultStabilizationDelay},
		ReadyTimeout:       Duration{capture.DefaultReadyTimeout},
		PollInterval:       Duration{capture.DefaultPollInterval},
		Locale:             "en",
		Page: Page{
			Size:     "A4",
			Margin:   layout.Margin,
			BlockGap: layout.BlockGap,
			MaxDPI:   document.DefaultMaxDPI,
		},
		Light: defaultAdjustment(surface.ThemeLight),
		Dark:  defaultAdjustment(surface.ThemeDark),
		Style: StylePolicy{
			LightStrokeScale: policy.LightStrokeScale,
			DarkStrokeScale:  policy.DarkStrokeScale,
			MinStrokeWidth:   policy.MinStrokeWidth,
			MarkerScale:      policy.MarkerScale,
			DarkenPercent:    policy.DarkenPercent,
			BrightenPercent:  policy.BrightenPercent,
			LightGround:      pixel.FormatColor(policy.LightGround),
			DarkGround:       pixel.FormatColor(policy.DarkGround),
		},
	}
}

func defaultAdjustment(theme surface.Theme) Adjustment {
	cfg := enhance.Defaults(theme)
	l := enhance.DefaultLayers(theme)
	return Adjustment{
		Brightness:    cfg.Brightness,
		Contrast:      cfg.Contrast,
		OverlayAlpha:  l.OverlayAlpha,
		SharpenAlpha:  l.SharpenAlpha,
		SharpenOffset: l.SharpenOffset,
		Tint:          pixel.FormatColor(l.Tint),
		TintAlpha:     l.TintAlpha,
	}
}

// Parse decodes a TOML profile over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal encodes p as TOML.
func (p *Profile) Marshal() ([]byte, error) {
	return toml.Marshal(p)
}

// ValidationError is a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "config: " + strings.Join(msgs, "; ")
}

// Validate checks every field and reports all problems at once.
func (p *Profile) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p.Scale <= 0 || p.Scale > 10 {
		add("scale", "must be in (0, 10], got %g", p.Scale)
	}
	if p.StabilizationDelay.Duration < 0 {
		add("stabilization_delay", "must not be negative")
	}
	if p.ReadyTimeout.Duration <= 0 {
		add("ready_timeout", "must be positive")
	}
	if p.PollInterval.Duration <= 0 {
		add("poll_interval", "must be positive")
	}
	if p.Workers < 0 {
		add("workers", "must not be negative")
	}
	if _, err := language.Parse(p.Locale); err != nil {
		add("locale", "%v", err)
	}

	if _, err := p.Page.layout(); err != nil {
		add("page", "%v", err)
	}
	if p.Page.MaxDPI <= 0 {
		add("page.max_dpi", "must be positive")
	}

	for name, a := range map[string]Adjustment{"light": p.Light, "dark": p.Dark} {
		if a.Brightness < -255 || a.Brightness > 255 {
			add(name+".brightness", "must be in [-255, 255]")
		}
		if a.Contrast < -255 || a.Contrast > 255 {
			add(name+".contrast", "must be in [-255, 255]")
		}
		for field, v := range map[string]float64{
			"overlay_alpha": a.OverlayAlpha,
			"sharpen_alpha": a.SharpenAlpha,
			"tint_alpha":    a.TintAlpha,
		} {
			if v < 0 || v > 1 {
				add(name+"."+field, "must be in [0, 1]")
			}
		}
		if _, err := pixel.ParseColor(a.Tint); err != nil {
			add(name+".tint", "%v", err)
		}
	}

	s := p.Style
	if s.LightStrokeScale <= 0 || s.DarkStrokeScale <= 0 || s.MarkerScale <= 0 {
		add("style", "scales must be positive")
	}
	if s.DarkenPercent < 0 || s.DarkenPercent > 100 || s.BrightenPercent < 0 || s.BrightenPercent > 100 {
		add("style", "percentages must be in [0, 100]")
	}
	for field, v := range map[string]string{"light_ground": s.LightGround, "dark_ground": s.DarkGround} {
		if _, err := pixel.ParseColor(v); err != nil {
			add("style."+field, "%v", err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (pg Page) layout() (document.Layout, error) {
	l := document.Layout{Margin: pg.Margin, CursorY: pg.Margin, BlockGap: pg.BlockGap}
	switch strings.ToLower(pg.Size) {
	case "a4", "":
		l.PageWidth, l.PageHeight = document.A4Width, document.A4Height
	case "letter":
		l.PageWidth, l.PageHeight = document.LetterWidth, document.LetterHeight
	case "custom":
		l.PageWidth, l.PageHeight = pg.Width, pg.Height
	default:
		return l, fmt.Errorf("unknown size %q", pg.Size)
	}
	return l, l.Validate()
}

// Options converts p into Exporter options. p must be valid.
func (p *Profile) Options() ([]chartexport.Option, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	layout, _ := p.Page.layout()
	locale, _ := language.Parse(p.Locale)
	lightGround, _ := pixel.ParseColor(p.Style.LightGround)
	darkGround, _ := pixel.ParseColor(p.Style.DarkGround)

	opts := []chartexport.Option{
		chartexport.WithScale(p.Scale),
		chartexport.WithStabilizationDelay(p.StabilizationDelay.Duration),
		chartexport.WithReadyTimeout(p.ReadyTimeout.Duration),
		chartexport.WithPollInterval(p.PollInterval.Duration),
		chartexport.WithWorkers(p.Workers),
		chartexport.WithLocale(locale),
		chartexport.WithLayout(layout),
		chartexport.WithMaxDPI(p.Page.MaxDPI),
		chartexport.WithStylePolicy(style.Policy{
			LightStrokeScale: p.Style.LightStrokeScale,
			DarkStrokeScale:  p.Style.DarkStrokeScale,
			MinStrokeWidth:   p.Style.MinStrokeWidth,
			MarkerScale:      p.Style.MarkerScale,
			DarkenPercent:    p.Style.DarkenPercent,
			BrightenPercent:  p.Style.BrightenPercent,
			LightGround:      lightGround,
			DarkGround:       darkGround,
		}),
	}
	for theme, a := range map[surface.Theme]Adjustment{surface.ThemeLight: p.Light, surface.ThemeDark: p.Dark} {
		tint, _ := pixel.ParseColor(a.Tint)
		opts = append(opts,
			chartexport.WithAdjustment(theme, a.Brightness, a.Contrast),
			chartexport.WithLayers(theme, enhance.Layers{
				OverlayAlpha:  a.OverlayAlpha,
				SharpenAlpha:  a.SharpenAlpha,
				SharpenOffset: a.SharpenOffset,
				Tint:          tint,
				TintAlpha:     a.TintAlpha,
			}),
		)
	}
	return opts, nil
}
