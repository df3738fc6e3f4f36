package filters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// FloodParams are the parsed feFlood parameters.
type FloodParams struct {
	ColorToken string
	Opacity    float64 // clamped to [0,1]
	In         string
	Result     string
}

// FloodFilter maps feFlood to a solid fill. Flood never aborts a chain: an
// unresolvable color degrades to black with the original token recorded.
type FloodFilter struct{}

func (FloodFilter) Kind() Kind { return KindFlood }

func (FloodFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feFlood")
}

func parseFlood(el *svgdom.Element) FloodParams {
	p := FloodParams{
		ColorToken: el.AttrDefault("flood-color", "black"),
		Opacity:    1.0,
		In:         el.AttrDefault("in", "SourceGraphic"),
		Result:     el.AttrDefault("result", "flood"),
	}
	if raw := strings.TrimSpace(el.Attr("flood-opacity")); raw != "" {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64); err == nil {
			if strings.HasSuffix(raw, "%") {
				v /= 100
			}
			p.Opacity = v
		}
	}
	p.Opacity = clampF(p.Opacity, 0, 1)
	return p
}

func (FloodFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p := parseFlood(el)

	meta := map[string]any{
		"kind":           string(KindFlood),
		"native_support": true,
		"opacity":        p.Opacity,
	}

	col, resolved := ctx.ResolveColor(p.ColorToken, "000000")
	var b strings.Builder
	if !resolved {
		meta["color_fallback"] = true
		b.WriteString(comment("flood color %q could not be resolved; black fallback", p.ColorToken))
	}
	fmt.Fprintf(&b,
		`<a:solidFill><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:solidFill>`,
		col.Hex, ctx.Units.Percent(p.Opacity*col.Alpha))
	return Result{OK: true, Fragment: b.String(), Meta: meta}
}

func (FloodFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	// Flood always converts; validation only checks the opacity token is a
	// number when present.
	raw := strings.TrimSpace(el.Attr("flood-opacity"))
	if raw == "" {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	return err == nil
}
