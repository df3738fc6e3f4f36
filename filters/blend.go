package filters

import (
	"fmt"

	"github.com/hazyhaar/svgfx/svgdom"
)

// BlendParams are the parsed feBlend parameters.
type BlendParams struct {
	Mode    string
	In, In2 string
	Result  string
}

// nativeBlendModes maps the six SVG modes DrawingML supports 1:1.
var nativeBlendModes = map[string]string{
	"normal":   "over",
	"multiply": "mult",
	"screen":   "screen",
	"overlay":  "overlay",
	"darken":   "darken",
	"lighten":  "lighten",
}

// blendApproximations substitutes the closest supported mode for the rest.
// The substitute is itself resolved through nativeBlendModes; substitutes
// with no DrawingML token (exclusion) degrade to over.
var blendApproximations = map[string]string{
	"color-dodge": "lighten",
	"color-burn":  "darken",
	"hard-light":  "overlay",
	"soft-light":  "overlay",
	"difference":  "exclusion",
	"exclusion":   "exclusion",
}

// BlendFilter maps feBlend to a DrawingML blend token.
type BlendFilter struct{}

func (BlendFilter) Kind() Kind { return KindBlend }

func (BlendFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feBlend")
}

func parseBlend(el *svgdom.Element) BlendParams {
	return BlendParams{
		Mode:   el.AttrDefault("mode", "normal"),
		In:     el.AttrDefault("in", "SourceGraphic"),
		In2:    el.AttrDefault("in2", "SourceGraphic"),
		Result: el.AttrDefault("result", "blend"),
	}
}

func (BlendFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p := parseBlend(el)

	meta := map[string]any{
		"kind": string(KindBlend),
		"mode": p.Mode,
	}

	if token, ok := nativeBlendModes[p.Mode]; ok {
		meta["native_support"] = true
		frag := comment("blend %s: %s with %s", p.Mode, p.In, p.In2) +
			fmt.Sprintf(`<a:blend blend="%s"/>`, token)
		return Result{OK: true, Fragment: frag, Meta: meta}
	}

	substitute, ok := blendApproximations[p.Mode]
	if !ok {
		substitute = "normal"
	}
	token, ok := nativeBlendModes[substitute]
	if !ok {
		token = "over"
	}

	meta["native_support"] = false
	meta["approximation"] = true
	meta["substitute"] = substitute
	frag := comment("blend mode %q approximated as %q (in=%s, in2=%s)",
		p.Mode, substitute, p.In, p.In2) +
		fmt.Sprintf(`<a:blend blend="%s"/>`, token)
	return Result{OK: true, Fragment: frag, Meta: meta}
}

func (BlendFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	p := parseBlend(el)
	if p.In == "" || p.In2 == "" {
		return false
	}
	_, native := nativeBlendModes[p.Mode]
	_, approx := blendApproximations[p.Mode]
	return native || approx
}
