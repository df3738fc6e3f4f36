// Package colorparse resolves SVG color tokens to RRGGBB hex plus alpha.
//
// Accepted forms: #rgb, #rrggbb, #rrggbbaa, rgb()/rgba() with integer or
// percentage components, hsl()/hsla(), and the SVG named colors. Parsing
// never panics; unknown tokens report ok=false so callers can degrade.
package colorparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a resolved color: uppercase RRGGBB hex and an alpha in [0,1].
type Color struct {
	Hex   string
	Alpha float64
}

// Parse resolves a color token. ok is false when the token is not a
// recognizable color (including "none").
func Parse(token string) (Color, bool) {
	s := strings.TrimSpace(strings.ToLower(token))
	switch s {
	case "", "none":
		return Color{}, false
	case "transparent":
		return Color{Hex: "000000", Alpha: 0}, true
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGB(s)
	}
	if strings.HasPrefix(s, "hsl(") || strings.HasPrefix(s, "hsla(") {
		return parseHSL(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return Color{
			Hex:   fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B),
			Alpha: 1,
		}, true
	}
	return Color{}, false
}

func parseHex(h string) (Color, bool) {
	switch len(h) {
	case 3:
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	case 6, 8:
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(h[:6], 16, 32)
	if err != nil {
		return Color{}, false
	}
	alpha := 1.0
	if len(h) == 8 {
		a, err := strconv.ParseUint(h[6:], 16, 16)
		if err != nil {
			return Color{}, false
		}
		alpha = float64(a) / 255
	}
	return Color{Hex: fmt.Sprintf("%06X", v), Alpha: alpha}, true
}

// funcArgs extracts the comma/space separated arguments of rgb(...)/hsl(...).
func funcArgs(s string) []string {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < open {
		return nil
	}
	inner := s[open+1 : close]
	inner = strings.ReplaceAll(inner, ",", " ")
	inner = strings.ReplaceAll(inner, "/", " ")
	return strings.Fields(inner)
}

// component parses one rgb() component: 0-255 integer or percentage.
func component(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return uint8(math.Round(clamp(p, 0, 100) * 255 / 100)), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(clamp(v, 0, 255)), true
}

func parseRGB(s string) (Color, bool) {
	args := funcArgs(s)
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		c, ok := component(args[i])
		if !ok {
			return Color{}, false
		}
		rgb[i] = c
	}
	alpha := 1.0
	if len(args) == 4 {
		a, ok := alphaValue(args[3])
		if !ok {
			return Color{}, false
		}
		alpha = a
	}
	return Color{
		Hex:   fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2]),
		Alpha: alpha,
	}, true
}

func parseHSL(s string) (Color, bool) {
	args := funcArgs(s)
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Color{}, false
	}
	sat, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "%"), 64)
	if err != nil {
		return Color{}, false
	}
	l, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err != nil {
		return Color{}, false
	}
	alpha := 1.0
	if len(args) == 4 {
		a, ok := alphaValue(args[3])
		if !ok {
			return Color{}, false
		}
		alpha = a
	}
	r, g, b := hslToRGB(math.Mod(math.Mod(h, 360)+360, 360), clamp(sat, 0, 100)/100, clamp(l, 0, 100)/100)
	return Color{Hex: fmt.Sprintf("%02X%02X%02X", r, g, b), Alpha: alpha}, true
}

func alphaValue(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp(p, 0, 100) / 100, true
	}
	a, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp(a, 0, 1), true
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	conv := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 1.0/2:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	hk := h / 360
	return conv(hk + 1.0/3), conv(hk), conv(hk - 1.0/3)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
