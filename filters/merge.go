package filters

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// MergeParams are the parsed feMerge parameters.
type MergeParams struct {
	Inputs []string // document order of feMergeNode children
	Result string
}

// minMergeLayerAlpha keeps deep stacks visually distinguishable: each layer
// gets max(20%, 100%/N) opacity.
const minMergeLayerAlpha = 20000

// MergeFilter maps feMerge to a stack of fill-overlay layers. Layer order is
// load-bearing: first input painted first, each subsequent one on top.
type MergeFilter struct{}

func (MergeFilter) Kind() Kind { return KindMerge }

func (MergeFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feMerge")
}

func parseMerge(el *svgdom.Element) MergeParams {
	p := MergeParams{Result: el.AttrDefault("result", "merge")}
	for _, c := range el.Children {
		if !tagMatches(c, "feMergeNode") {
			continue
		}
		p.Inputs = append(p.Inputs, c.AttrDefault("in", "SourceGraphic"))
	}
	return p
}

func (MergeFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p := parseMerge(el)

	meta := map[string]any{
		"kind":           string(KindMerge),
		"native_support": false,
		"inputs":         len(p.Inputs),
	}

	if len(p.Inputs) == 0 {
		return Result{
			OK:       true,
			Fragment: comment("merge with no inputs: empty effect"),
			Meta:     meta,
		}
	}

	alpha := int64(100000 / len(p.Inputs))
	if alpha < minMergeLayerAlpha {
		alpha = minMergeLayerAlpha
	}
	meta["layer_alpha"] = alpha

	var b strings.Builder
	b.WriteString(comment("merge of %d inputs, layered bottom-up", len(p.Inputs)))
	for i, in := range p.Inputs {
		b.WriteString(comment("merge layer %d: %s", i+1, in))
		fmt.Fprintf(&b,
			`<a:fillOverlay blend="over"><a:solidFill><a:srgbClr val="FFFFFF"><a:alpha val="%d"/></a:srgbClr></a:solidFill></a:fillOverlay>`,
			alpha)
	}
	return Result{OK: true, Fragment: b.String(), Meta: meta}
}

func (MergeFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	// Any feMerge is valid, including an empty one.
	return tagMatches(el, "feMerge")
}
