// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"sort"
	"strconv"
	"strings"
)

// Property groups.
const (
	GroupBackground = "background"
	GroupText       = "text"
	GroupAxis       = "axis"
	GroupGrid       = "grid"
	GroupSeries     = "series"
	GroupChrome     = "chrome"
)

// Property attributes.
const (
	AttrColor        = "color"
	AttrFontWeight   = "fontWeight"
	AttrOpacity      = "opacity"
	AttrStroke       = "stroke"
	AttrStrokeWidth  = "strokeWidth"
	AttrFill         = "fill"
	AttrMarkerRadius = "markerRadius"
	AttrDisplay      = "display"
)

// Fixed property keys.
const (
	KeyBackground      = GroupBackground
	KeyTextColor       = GroupText + "." + AttrColor
	KeyTextWeight      = GroupText + "." + AttrFontWeight
	KeyTextOpacity     = GroupText + "." + AttrOpacity
	KeyAxisStroke      = GroupAxis + "." + AttrStroke
	KeyAxisStrokeWidth = GroupAxis + "." + AttrStrokeWidth
	KeyGridStroke      = GroupGrid + "." + AttrStroke
)

// Properties maps property keys to CSS-like values.
type Properties map[string]string

// Clone returns a copy of p. Clone of nil is an empty map.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the keys of p in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns the value of key parsed as a number, with an optional "px" suffix.
func (p Properties) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Key is a parsed property key.
//
// For "series.2.stroke" Group is "series", Name is "2" and Attr is "stroke".
// For "text.color" Name is empty. For "background" only Group is set.
type Key struct {
	Group string
	Name  string
	Attr  string
}

// ParseKey splits a property key. It reports false for malformed keys.
func ParseKey(s string) (Key, bool) {
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return Key{}, false
		}
	}
	switch len(parts) {
	case 1:
		return Key{Group: parts[0]}, true
	case 2:
		return Key{Group: parts[0], Attr: parts[1]}, true
	case 3:
		return Key{Group: parts[0], Name: parts[1], Attr: parts[2]}, true
	default:
		return Key{}, false
	}
}

// String reassembles the key.
func (k Key) String() string {
	switch {
	case k.Attr == "":
		return k.Group
	case k.Name == "":
		return k.Group + "." + k.Attr
	default:
		return k.Group + "." + k.Name + "." + k.Attr
	}
}

// Index returns the series index of a series key.
func (k Key) Index() (int, bool) {
	if k.Group != GroupSeries {
		return 0, false
	}
	i, err := strconv.Atoi(k.Name)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// SeriesKey returns the key of attr for series i.
func SeriesKey(i int, attr string) string {
	return GroupSeries + "." + strconv.Itoa(i) + "." + attr
}

// ChromeKey returns the display key of the named per-chart chrome element.
func ChromeKey(name string) string {
	return GroupChrome + "." + name + "." + AttrDisplay
}
