package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/chartexport"
	"github.com/gogpu/chartexport/surface"
)

// Fixture describes a set of in-memory charts:
//
//	[[chrome]]
//	name = "tooltip"
//	display = "block"
//
//	[[chart]]
//	title = "CO₂ indoor"
//	kind = "line"
//	width = 600
//	height = 400
//	[[chart.series]]
//	name = "ppm"
//	values = [410, 450, 620]
type Fixture struct {
	Chrome []ChromeSpec `toml:"chrome"`
	Charts []ChartSpec  `toml:"chart"`
}

// ChromeSpec is a global chrome element.
type ChromeSpec struct {
	Name    string `toml:"name"`
	Display string `toml:"display"`
}

// ChartSpec is one chart of a fixture.
type ChartSpec struct {
	Title  string       `toml:"title"`
	Kind   surface.Kind `toml:"kind"`
	Width  int          `toml:"width"`
	Height int          `toml:"height"`
	Series []SeriesSpec `toml:"series"`

	// Style overrides the surface's default style properties.
	Style map[string]string `toml:"style,omitempty"`
}

// SeriesSpec is one data series.
type SeriesSpec struct {
	Name   string    `toml:"name"`
	Values []float64 `toml:"values"`
}

// ParseCharts decodes a chart fixture.
func ParseCharts(data []byte) (*Fixture, error) {
	var f Fixture
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: charts: %w", err)
	}
	var errs ValidateErrors
	if len(f.Charts) == 0 {
		errs = append(errs, ValidationError{Field: "chart", Message: "no charts"})
	}
	for i, c := range f.Charts {
		if c.Width <= 0 || c.Height <= 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("chart[%d]", i),
				Message: fmt.Sprintf("invalid size %dx%d", c.Width, c.Height),
			})
		}
		for k := range c.Style {
			if _, ok := surface.ParseKey(k); !ok {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("chart[%d].style", i),
					Message: fmt.Sprintf("invalid key %q", k),
				})
			}
		}
	}
	for i, c := range f.Chrome {
		if c.Name == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("chrome[%d]", i), Message: "missing name"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &f, nil
}

// LoadCharts reads and parses the chart fixture at path.
func LoadCharts(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := ParseCharts(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Job builds an export job over fresh in-memory surfaces styled for theme.
func (f *Fixture) Job(theme surface.Theme, mode chartexport.Mode) (chartexport.Job, error) {
	job := chartexport.Job{Theme: theme, Mode: mode}
	for _, c := range f.Chrome {
		display := c.Display
		if display == "" {
			display = "block"
		}
		job.Chrome = append(job.Chrome, surface.NewMemoryChrome(c.Name, display))
	}
	for i, c := range f.Charts {
		series := make([]surface.Series, len(c.Series))
		for j, s := range c.Series {
			series[j] = surface.Series{Name: s.Name, Values: s.Values}
		}
		s := surface.NewMemory(c.Kind, theme, c.Width, c.Height, series...)
		if len(c.Style) > 0 {
			if err := s.SetStyleProperties(surface.Properties(c.Style)); err != nil {
				return chartexport.Job{}, fmt.Errorf("config: chart %d style: %w", i, err)
			}
		}
		job.Charts = append(job.Charts, chartexport.Chart{Surface: s, Title: c.Title})
	}
	return job, nil
}
