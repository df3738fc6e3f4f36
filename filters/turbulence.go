package filters

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// TurbulenceParams are the parsed feTurbulence parameters.
type TurbulenceParams struct {
	FreqX, FreqY float64
	Octaves      int
	Seed         int
	Stitch       bool
	Type         string // turbulence | fractalNoise
	In           string
	Result       string
}

// Procedural noise has no DrawingML equivalent; every turbulence result is
// an approximation. No Perlin noise is computed — the seed only pins the
// pattern selection so identical inputs yield identical output.
//
// noiseTones are the gray levels the seed selects among.
var noiseTones = []string{"808080", "999999", "A6A6A6", "B3B3B3", "8C8C8C"}

// TurbulenceFilter maps feTurbulence to flat-overlay or gradient stand-ins.
type TurbulenceFilter struct{}

func (TurbulenceFilter) Kind() Kind { return KindTurbulence }

func (TurbulenceFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feTurbulence")
}

func parseTurbulence(el *svgdom.Element) (TurbulenceParams, error) {
	p := TurbulenceParams{
		Type:   el.AttrDefault("type", "turbulence"),
		In:     el.AttrDefault("in", "SourceGraphic"),
		Result: el.AttrDefault("result", "turbulence"),
		Stitch: el.Attr("stitchTiles") == "stitch",
	}

	if raw := strings.TrimSpace(el.Attr("baseFrequency")); raw != "" {
		vals, err := splitNumbers(KindTurbulence, "baseFrequency", raw)
		if err != nil {
			return p, err
		}
		switch len(vals) {
		case 1:
			p.FreqX, p.FreqY = vals[0], vals[0]
		case 2:
			p.FreqX, p.FreqY = vals[0], vals[1]
		default:
			return p, parseErr(KindTurbulence, "baseFrequency wants 1 or 2 values, got %d", len(vals))
		}
	}

	var err error
	if p.Octaves, err = attrInt(el, KindTurbulence, "numOctaves", 1); err != nil {
		return p, err
	}
	if p.Seed, err = attrInt(el, KindTurbulence, "seed", 0); err != nil {
		return p, err
	}

	if p.FreqX < 0 || p.FreqY < 0 {
		return p, parseErr(KindTurbulence, "negative baseFrequency (%g, %g)", p.FreqX, p.FreqY)
	}
	if p.Octaves < 0 {
		return p, parseErr(KindTurbulence, "negative numOctaves %d", p.Octaves)
	}
	if p.Type != "turbulence" && p.Type != "fractalNoise" {
		return p, parseErr(KindTurbulence, "unknown type %q", p.Type)
	}
	return p, nil
}

func (f TurbulenceFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p, err := parseTurbulence(el)
	if err != nil {
		return failure(err)
	}

	meta := map[string]any{
		"kind":           string(KindTurbulence),
		"native_support": false,
		"approximation":  true,
		"type":           p.Type,
		"octaves":        p.Octaves,
		"seed":           p.Seed,
	}

	if p.Type == "fractalNoise" {
		return Result{OK: true, Fragment: f.fractalFragment(p, ctx), Meta: meta}
	}
	return Result{OK: true, Fragment: f.overlayFragment(p, ctx), Meta: meta}
}

// overlayFragment: flat semi-transparent overlay, opacity min(100%, octaves*15%).
func (TurbulenceFilter) overlayFragment(p TurbulenceParams, ctx *Context) string {
	opacity := float64(p.Octaves) * 0.15
	if opacity > 1 {
		opacity = 1
	}
	tone := noiseTones[((p.Seed%len(noiseTones))+len(noiseTones))%len(noiseTones)]

	var b strings.Builder
	b.WriteString(comment("turbulence approximated as noise overlay (octaves=%d seed=%d freq=%g,%g)",
		p.Octaves, p.Seed, p.FreqX, p.FreqY))
	fmt.Fprintf(&b,
		`<a:fillOverlay blend="over"><a:solidFill><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:solidFill></a:fillOverlay>`,
		tone, ctx.Units.Percent(opacity))
	return b.String()
}

// fractalFragment: a three-stop gradient suggesting layered structure, stop
// opacity alternating around clamp(60/octaves, 20, 80)%.
func (TurbulenceFilter) fractalFragment(p TurbulenceParams, ctx *Context) string {
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}
	base := clampF(60/float64(octaves), 20, 80) / 100
	tone := noiseTones[((p.Seed%len(noiseTones))+len(noiseTones))%len(noiseTones)]

	stops := [3]int64{
		ctx.Units.Percent(base),
		ctx.Units.Percent(1 - base),
		ctx.Units.Percent(base),
	}

	var b strings.Builder
	b.WriteString(comment("fractalNoise approximated as layered gradient (octaves=%d seed=%d)",
		p.Octaves, p.Seed))
	b.WriteString(`<a:gradFill><a:gsLst>`)
	positions := [3]int64{0, 50000, 100000}
	for i, pos := range positions {
		fmt.Fprintf(&b,
			`<a:gs pos="%d"><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:gs>`,
			pos, tone, stops[i])
	}
	b.WriteString(`</a:gsLst><a:lin ang="5400000" scaled="1"/></a:gradFill>`)
	return b.String()
}

func (TurbulenceFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	_, err := parseTurbulence(el)
	return err == nil
}
