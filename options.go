package chartexport

import (
	"runtime"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/chartexport/capture"
	"github.com/gogpu/chartexport/document"
	"github.com/gogpu/chartexport/enhance"
	"github.com/gogpu/chartexport/style"
	"github.com/gogpu/chartexport/surface"
)

// Option configures an Exporter during creation.
//
// Example:
//
//	exp := chartexport.New(
//	    chartexport.WithScale(2),
//	    chartexport.WithAdjustment(surface.ThemeLight, 10, 30),
//	)
type Option func(*options)

// options holds the Exporter configuration.
type options struct {
	scale    float64
	capture  capture.Options
	adjust   map[surface.Theme]enhance.Config
	layers   map[surface.Theme]enhance.Layers
	policy   style.Policy
	layout   document.Layout
	maxDPI   float64
	locale   language.Tag
	clock    func() time.Time
	workers  int
	observer func(from, to State)
}

// defaultOptions returns the default exporter options.
func defaultOptions() options {
	return options{
		scale:   capture.DefaultScale,
		capture: capture.DefaultOptions(),
		adjust: map[surface.Theme]enhance.Config{
			surface.ThemeLight: enhance.Defaults(surface.ThemeLight),
			surface.ThemeDark:  enhance.Defaults(surface.ThemeDark),
		},
		layers:  map[surface.Theme]enhance.Layers{},
		policy:  style.DefaultPolicy(),
		layout:  document.DefaultLayout(),
		maxDPI:  document.DefaultMaxDPI,
		locale:  language.English,
		clock:   time.Now,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithScale sets the capture scale relative to the surface's logical size.
// Non-positive values are ignored.
func WithScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithStabilizationDelay sets the wait between styling and capture.
func WithStabilizationDelay(d time.Duration) Option {
	return func(o *options) {
		o.capture.StabilizationDelay = d
	}
}

// WithReadyTimeout bounds the wait for a surface to report ready.
func WithReadyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.capture.ReadyTimeout = d
	}
}

// WithPollInterval sets how often readiness is polled.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.capture.PollInterval = d
	}
}

// WithAdjustment overrides the brightness and contrast for theme.
func WithAdjustment(theme surface.Theme, brightness, contrast int) Option {
	return func(o *options) {
		o.adjust[theme] = enhance.Config{Brightness: brightness, Contrast: contrast, Theme: theme}
	}
}

// WithLayers overrides the compositing layers for theme.
func WithLayers(theme surface.Theme, l enhance.Layers) Option {
	return func(o *options) {
		o.layers[theme] = l
	}
}

// WithStylePolicy replaces the export style policy.
func WithStylePolicy(p style.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLayout sets the page geometry of the document.
func WithLayout(l document.Layout) Option {
	return func(o *options) {
		o.layout = l
	}
}

// WithMaxDPI caps the resolution of embedded images.
func WithMaxDPI(dpi float64) Option {
	return func(o *options) {
		o.maxDPI = dpi
	}
}

// WithLocale selects the language of page stamps.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithWorkers sets the number of goroutines used for pixel work and PNG
// encoding. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithStateObserver registers fn to be called on every state transition.
// fn runs synchronously on the exporting goroutine.
func WithStateObserver(fn func(from, to State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// adjustment returns the enhancement config for a chart of kind.
func (o *options) adjustment(kind surface.Kind, theme surface.Theme) enhance.Config {
	cfg, ok := o.adjust[theme]
	if !ok {
		cfg = enhance.Defaults(theme)
	}
	cfg.Theme = theme
	cfg.IsLineChart = kind.Stroked()
	if l, ok := o.layers[theme]; ok {
		cfg.Layers = &l
	}
	return cfg
}
