// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the boundary between the export pipeline and the
// live chart renderers of the host application.
//
// A [ChartSurface] is owned by the caller. The pipeline only reads and writes
// its style [Properties] and asks it to rasterize itself; it never creates or
// destroys surfaces. Global interactive UI (tooltip layers, menus, zoom
// controls) is reached through the [Chrome] interface.
//
// # Property keys
//
// Style properties are CSS-like string values under dotted keys:
//
//	background
//	text.color  text.fontWeight  text.opacity
//	axis.stroke  axis.strokeWidth  grid.stroke
//	series.<i>.stroke  series.<i>.strokeWidth  series.<i>.fill  series.<i>.markerRadius
//	chrome.<name>.display
//
// Use [ParseKey] and the Key helpers instead of splitting keys by hand.
//
// # Reference implementation
//
// [Memory] is a CPU surface that draws line, area, bar and pie charts with
// golang.org/x/image/vector according to its current properties. It backs the
// chartexport command and the tests, and can simulate detached surfaces,
// slow stabilization and capture failures.
package surface
