package filters

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// CompositeParams are the parsed feComposite parameters.
type CompositeParams struct {
	Operator       string
	In, In2        string
	K1, K2, K3, K4 float64
	Result         string
}

var compositeOperators = map[string]bool{
	"over": true, "in": true, "out": true, "atop": true, "xor": true,
	"multiply": true, "screen": true, "darken": true, "lighten": true,
	"arithmetic": true,
}

// nativeBlendTokens maps operators that translate 1:1 to a DrawingML
// blend mode.
var nativeBlendTokens = map[string]string{
	"over":     "over",
	"multiply": "mult",
	"screen":   "screen",
	"darken":   "darken",
	"lighten":  "lighten",
}

// CompositeFilter maps feComposite (Porter-Duff and arithmetic compositing).
type CompositeFilter struct{}

func (CompositeFilter) Kind() Kind { return KindComposite }

func (CompositeFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feComposite")
}

func parseComposite(el *svgdom.Element) (CompositeParams, error) {
	p := CompositeParams{
		Operator: strings.TrimSpace(el.AttrDefault("operator", "over")),
		In:       el.AttrDefault("in", "SourceGraphic"),
		In2:      el.AttrDefault("in2", "SourceGraphic"),
		Result:   el.AttrDefault("result", "composite"),
	}
	if !compositeOperators[p.Operator] {
		return p, parseErr(KindComposite, "unknown operator %q", p.Operator)
	}
	var err error
	for _, k := range []struct {
		name string
		dst  *float64
	}{
		{"k1", &p.K1}, {"k2", &p.K2}, {"k3", &p.K3}, {"k4", &p.K4},
	} {
		if *k.dst, err = attrFloat(el, KindComposite, k.name, 0); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (f CompositeFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p, err := parseComposite(el)
	if err != nil {
		return failure(err)
	}

	meta := map[string]any{
		"kind":     string(KindComposite),
		"operator": p.Operator,
	}

	if token, ok := nativeBlendTokens[p.Operator]; ok {
		meta["native_support"] = true
		frag := comment("composite %s: %s over %s", p.Operator, p.In, p.In2) +
			fmt.Sprintf(`<a:blend blend="%s"/>`, token)
		return Result{OK: true, Fragment: frag, Meta: meta}
	}

	if p.Operator == "arithmetic" {
		return f.applyArithmetic(p, ctx, meta)
	}

	// Remaining Porter-Duff operators (in, out, atop, xor) have no
	// DrawingML equivalent; approximate as over and leave an audit trail
	// naming the operator and both inputs.
	meta["native_support"] = false
	meta["approximation"] = true
	frag := comment("composite operator %q not supported; approximated as over (in=%s, in2=%s)",
		p.Operator, p.In, p.In2) +
		`<a:blend blend="over"/>`
	return Result{OK: true, Fragment: frag, Meta: meta}
}

// applyArithmetic classifies k1*i1*i2 + k2*i1 + k3*i2 + k4 heuristically:
// both linear terms positive reads as additive (lighten), a positive product
// term as multiplicative (mult), anything else as plain over. A non-zero k4
// becomes a transparency adjustment.
func (CompositeFilter) applyArithmetic(p CompositeParams, ctx *Context, meta map[string]any) Result {
	token := "over"
	switch {
	case p.K2 > 0 && p.K3 > 0:
		token = "lighten"
	case p.K1 > 0:
		token = "mult"
	}

	meta["native_support"] = false
	meta["approximation"] = true
	meta["k1"], meta["k2"], meta["k3"], meta["k4"] = p.K1, p.K2, p.K3, p.K4

	var b strings.Builder
	b.WriteString(comment("composite arithmetic k=(%g,%g,%g,%g): approximated as %s (in=%s, in2=%s)",
		p.K1, p.K2, p.K3, p.K4, token, p.In, p.In2))
	fmt.Fprintf(&b, `<a:blend blend="%s"/>`, token)
	if p.K4 != 0 {
		fmt.Fprintf(&b, `<a:alphaModFix amt="%d"/>`, ctx.Units.Percent(p.K4))
	}
	return Result{OK: true, Fragment: b.String(), Meta: meta}
}

func (CompositeFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	p, err := parseComposite(el)
	if err != nil {
		return false
	}
	return p.In != "" && p.In2 != ""
}
