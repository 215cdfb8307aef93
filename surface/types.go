// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"strings"
)

// Theme is the visual theme of the host application.
type Theme uint8

const (
	// ThemeLight renders dark content on a white ground.
	ThemeLight Theme = iota
	// ThemeDark renders light content on a dark ground.
	ThemeDark
)

// String returns the theme name.
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return fmt.Sprintf("Theme(%d)", uint8(t))
	}
}

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("surface: unknown theme %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Theme) UnmarshalText(b []byte) error {
	v, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Kind is the chart type.
type Kind uint8

const (
	// KindLine is a line chart.
	KindLine Kind = iota
	// KindBar is a bar chart.
	KindBar
	// KindPie is a pie or donut chart.
	KindPie
	// KindArea is a filled area chart.
	KindArea
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	case KindPie:
		return "pie"
	case KindArea:
		return "area"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Stroked reports whether the chart draws its series as strokes.
// Line and area charts do; bars and pies are fills.
func (k Kind) Stroked() bool {
	return k == KindLine || k == KindArea
}

// ParseKind parses a chart type name. "donut" is accepted as KindPie.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line":
		return KindLine, nil
	case "bar":
		return KindBar, nil
	case "pie", "donut":
		return KindPie, nil
	case "area":
		return KindArea, nil
	default:
		return KindLine, fmt.Errorf("surface: unknown chart kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
