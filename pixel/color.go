package pixel

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by ParseColor for unrecognized input.
var ErrInvalidColor = errors.New("pixel: invalid color")

// ParseColor parses the color notations chart style properties use:
// "#rgb", "#rgba", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, a)"
// with a in [0, 1], and the names black, white, transparent and none.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "black":
		return color.NRGBA{A: 255}, nil
	case "white":
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	case "transparent", "none":
		return color.NRGBA{}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunctional(s)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(hex string) (color.NRGBA, error) {
	var v [8]uint8
	for i := 0; i < len(hex) && i < len(v); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrInvalidColor, hex)
		}
		v[i] = d
	}

	switch len(hex) {
	case 3: // RGB
		return color.NRGBA{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: 255}, nil
	case 4: // RGBA
		return color.NRGBA{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: v[3] * 17}, nil
	case 6: // RRGGBB
		return color.NRGBA{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: 255}, nil
	case 8: // RRGGBBAA
		return color.NRGBA{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: v[6]<<4 | v[7]}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrInvalidColor, hex)
	}
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func parseFunctional(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	name := s[:open]
	args := strings.Split(s[open+1:len(s)-1], ",")
	switch {
	case name == "rgb" && len(args) == 3:
	case name == "rgba" && len(args) == 4:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	var ch [3]uint8
	for i := range ch {
		n, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		ch[i] = clampByte(n)
	}
	c := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	if len(args) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(args[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c.A = clampByte(a * 255)
	}
	return c, nil
}

// FormatColor renders c as "#rrggbb" when opaque and "rgba(r, g, b, a)" otherwise.
// ParseColor(FormatColor(c)) == c for every c.
func FormatColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	a := strconv.FormatFloat(float64(c.A)/255, 'f', 3, 64)
	a = strings.TrimRight(strings.TrimRight(a, "0"), ".")
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, a)
}

// clampByte rounds x to the nearest integer in [0, 255].
func clampByte(x float64) uint8 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(x))
}
