// Package chartexport turns live chart surfaces into print-ready output.
//
// # Overview
//
// An export job takes an ordered list of charts and, for each one, applies
// an export-safe style variant, rasterizes the surface, enhances the pixels
// for print, and places the result in a paginated PDF (or returns one PNG
// per chart). The original style of every chart is restored afterwards,
// whatever happened during the capture.
//
// # Quick Start
//
//	import "github.com/gogpu/chartexport"
//
//	exp := chartexport.New(chartexport.WithScale(3))
//	res, err := exp.Run(ctx, chartexport.Job{
//	    Charts: []chartexport.Chart{{Surface: s, Title: "CO₂ concentration"}},
//	    Theme:  surface.ThemeLight,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("export.pdf", res.Document, 0o644)
//
// # Failure handling
//
// A chart that cannot be styled, captured or enhanced is skipped and
// reported in [Result.Skipped]. The job fails with [ErrAllChartsFailed] only
// when no chart succeeded, and with [ErrCancelled] when its context is
// cancelled. Either way all chart styles and global chrome are restored
// before Run returns.
//
// # Architecture
//
// The pipeline is split into packages:
//   - surface: the chart surface contract and an in-memory reference surface
//   - style: export style overrides with snapshot and restore
//   - capture: stabilization wait and rasterization
//   - enhance: brightness/contrast remap and compositing layers
//   - document: PDF page layout and assembly
//   - config: TOML profiles for the options below
package chartexport
