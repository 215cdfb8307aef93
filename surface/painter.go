// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/vector"

	"github.com/gogpu/chartexport/pixel"
)

type point struct{ x, y float64 }

// painter draws a chart into an opaque RGBA canvas. Every primitive gets its
// own rasterizer sized to the primitive's bounding box, so overlapping
// shapes never cancel each other's coverage.
type painter struct {
	dst   *image.RGBA
	scale float64
	props Properties
}

// plot returns the plotting rectangle in device pixels.
func (p *painter) plot() (x0, y0, x1, y1 float64) {
	b := p.dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	return w * 0.10, h * 0.12, w * 0.95, h * 0.90
}

func (p *painter) chart(kind Kind, series []Series) {
	b := p.dst.Bounds()
	p.fillRect(0, 0, float64(b.Dx()), float64(b.Dy()), p.color(KeyBackground, color.NRGBA{}))
	p.title()

	if kind == KindPie {
		if len(series) > 0 {
			p.pie(series[0].Values)
		}
		p.chrome()
		return
	}

	p.grid()
	maxV := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			maxV = math.Max(maxV, v)
		}
	}
	if maxV <= 0 {
		maxV = 1
	}
	switch kind {
	case KindBar:
		p.bars(series, maxV)
	default:
		for i, s := range series {
			p.line(kind, i, s.Values, maxV)
		}
	}
	p.axes()
	p.chrome()
}

// title draws a bar standing in for the chart title text.
func (p *painter) title() {
	b := p.dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	c := p.color(KeyTextColor, color.NRGBA{A: 255})
	if op, ok := p.props.Float(KeyTextOpacity); ok {
		c.A = uint8(math.Round(float64(c.A) * math.Max(0, math.Min(1, op))))
	}
	thickness := h * 0.02
	if strings.EqualFold(p.props[KeyTextWeight], "bold") {
		thickness = h * 0.035
	}
	p.fillRect(w*0.10, h*0.03, w*0.40, h*0.03+thickness, c)
}

func (p *painter) grid() {
	x0, y0, x1, y1 := p.plot()
	c := p.color(KeyGridStroke, color.NRGBA{})
	for i := 1; i <= 4; i++ {
		y := y1 - (y1-y0)*float64(i)/4
		p.strokePolyline([]point{{x0, y}, {x1, y}}, p.scale, c)
	}
}

func (p *painter) axes() {
	x0, y0, x1, y1 := p.plot()
	c := p.color(KeyAxisStroke, color.NRGBA{A: 255})
	w := p.width(KeyAxisStrokeWidth, 1)
	p.strokePolyline([]point{{x0, y0}, {x0, y1}, {x1, y1}}, w, c)
}

func (p *painter) line(kind Kind, i int, values []float64, maxV float64) {
	if len(values) == 0 {
		return
	}
	x0, y0, x1, y1 := p.plot()
	pts := make([]point, len(values))
	for j, v := range values {
		x := (x0 + x1) / 2
		if len(values) > 1 {
			x = x0 + (x1-x0)*float64(j)/float64(len(values)-1)
		}
		pts[j] = point{x, y1 - (y1-y0)*math.Max(0, v)/maxV}
	}

	if kind == KindArea {
		fill := p.color(SeriesKey(i, AttrFill), color.NRGBA{})
		fill.A = uint8(float64(fill.A) * 0.35)
		poly := append([]point{{pts[0].x, y1}}, pts...)
		poly = append(poly, point{pts[len(pts)-1].x, y1})
		p.fillPolygon(poly, fill)
	}

	stroke := p.color(SeriesKey(i, AttrStroke), color.NRGBA{A: 255})
	p.strokePolyline(pts, p.width(SeriesKey(i, AttrStrokeWidth), 1), stroke)
	r := p.width(SeriesKey(i, AttrMarkerRadius), 0)
	for _, pt := range pts {
		p.fillCircle(pt, r, stroke)
	}
}

func (p *painter) bars(series []Series, maxV float64) {
	x0, y0, x1, y1 := p.plot()
	n := 0
	for _, s := range series {
		n = max(n, len(s.Values))
	}
	if n == 0 {
		return
	}
	group := (x1 - x0) / float64(n)
	bar := group * 0.8 / float64(len(series))
	for i, s := range series {
		fill := p.color(SeriesKey(i, AttrFill), color.NRGBA{A: 255})
		for j, v := range s.Values {
			left := x0 + group*float64(j) + group*0.1 + bar*float64(i)
			top := y1 - (y1-y0)*math.Max(0, v)/maxV
			p.fillRect(left, top, left+bar, y1, fill)
		}
	}
}

func (p *painter) pie(values []float64) {
	x0, y0, x1, y1 := p.plot()
	total := 0.0
	for _, v := range values {
		total += math.Max(0, v)
	}
	if total <= 0 {
		return
	}
	c := point{(x0 + x1) / 2, (y0 + y1) / 2}
	r := math.Min(x1-x0, y1-y0) / 2
	start := -math.Pi / 2
	for i, v := range values {
		sweep := 2 * math.Pi * math.Max(0, v) / total
		if sweep == 0 {
			continue
		}
		steps := max(2, int(sweep/(2*math.Pi)*96))
		poly := []point{c}
		for s := 0; s <= steps; s++ {
			a := start + sweep*float64(s)/float64(steps)
			poly = append(poly, point{c.x + r*math.Cos(a), c.y + r*math.Sin(a)})
		}
		p.fillPolygon(poly, p.color(SeriesKey(i, AttrFill), color.NRGBA{A: 255}))
		start += sweep
	}
}

// chrome draws visible per-chart interactive elements as boxes along the top edge.
func (p *painter) chrome() {
	b := p.dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	slot := 0
	for _, k := range p.props.Keys() {
		key, ok := ParseKey(k)
		if !ok || key.Group != GroupChrome || key.Attr != AttrDisplay {
			continue
		}
		if strings.EqualFold(p.props[k], DisplayNone) {
			continue
		}
		right := w*0.95 - float64(slot)*w*0.12
		p.fillRect(right-w*0.10, h*0.02, right, h*0.08, color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xc0})
		slot++
	}
}

// color resolves a color property, falling back when absent or malformed.
func (p *painter) color(key string, fallback color.NRGBA) color.NRGBA {
	if v, ok := p.props[key]; ok {
		if c, err := pixel.ParseColor(v); err == nil {
			return c
		}
	}
	return fallback
}

// width resolves a width property in device pixels.
func (p *painter) width(key string, fallback float64) float64 {
	if v, ok := p.props.Float(key); ok && v >= 0 {
		return v * p.scale
	}
	return fallback * p.scale
}

func (p *painter) fillRect(x0, y0, x1, y1 float64, c color.NRGBA) {
	p.fillPolygon([]point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}, c)
}

func (p *painter) fillCircle(center point, r float64, c color.NRGBA) {
	if r <= 0 {
		return
	}
	n := min(64, max(12, int(r*2)))
	pts := make([]point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = point{center.x + r*math.Cos(a), center.y + r*math.Sin(a)}
	}
	p.fillPolygon(pts, c)
}

// strokePolyline strokes pts with round joins.
func (p *painter) strokePolyline(pts []point, w float64, c color.NRGBA) {
	if w <= 0 || c.A == 0 {
		return
	}
	hw := w / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.x-a.x, b.y-a.y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		p.fillPolygon([]point{
			{a.x + nx, a.y + ny},
			{b.x + nx, b.y + ny},
			{b.x - nx, b.y - ny},
			{a.x - nx, a.y - ny},
		}, c)
		if i < len(pts)-1 && hw >= 1 {
			p.fillCircle(b, hw, c)
		}
	}
}

func (p *painter) fillPolygon(pts []point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt.x), math.Max(maxX, pt.x)
		minY, maxY = math.Min(minY, pt.y), math.Max(maxY, pt.y)
	}

	// The rasterizer rectangle must lie inside dst.
	b := p.dst.Bounds()
	x0 := max(b.Min.X, int(math.Floor(minX)))
	y0 := max(b.Min.Y, int(math.Floor(minY)))
	x1 := min(b.Max.X, int(math.Ceil(maxX)))
	y1 := min(b.Max.Y, int(math.Ceil(maxY)))
	if x1 <= x0 || y1 <= y0 {
		return
	}

	z := vector.NewRasterizer(x1-x0, y1-y0)
	for i, pt := range pts {
		x := float32(math.Min(math.Max(pt.x, float64(x0)), float64(x1)) - float64(x0))
		y := float32(math.Min(math.Max(pt.y, float64(y0)), float64(y1)) - float64(y0))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(p.dst, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{})
}
