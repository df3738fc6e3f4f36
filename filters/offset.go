package filters

import (
	"fmt"
	"math"

	"github.com/hazyhaar/svgfx/svgdom"
)

// OffsetParams are the parsed feOffset parameters.
type OffsetParams struct {
	DX, DY float64
	In     string
	Result string
}

// maxNativeOffsetPx is the largest per-axis displacement rendered as a
// native directional shadow; the bound is inclusive. Larger offsets leave
// the shadow effect's sensible parameter range and fall back to a position
// offset construct.
const maxNativeOffsetPx = 50.0

// OffsetFilter maps feOffset to a directional shadow (flat black at 50%
// opacity — the original content color is not sampled).
type OffsetFilter struct{}

func (OffsetFilter) Kind() Kind { return KindOffset }

func (OffsetFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feOffset")
}

func parseOffset(el *svgdom.Element) (OffsetParams, error) {
	p := OffsetParams{
		In:     el.AttrDefault("in", "SourceGraphic"),
		Result: el.AttrDefault("result", "offset"),
	}
	var err error
	if p.DX, err = attrFloat(el, KindOffset, "dx", 0); err != nil {
		return p, err
	}
	if p.DY, err = attrFloat(el, KindOffset, "dy", 0); err != nil {
		return p, err
	}
	return p, nil
}

func (OffsetFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p, err := parseOffset(el)
	if err != nil {
		return failure(err)
	}

	meta := map[string]any{
		"kind": string(KindOffset),
		"dx":   p.DX,
		"dy":   p.DY,
	}

	if p.DX == 0 && p.DY == 0 {
		meta["no_effect"] = true
		return Result{OK: true, Meta: meta}
	}

	if math.Max(math.Abs(p.DX), math.Abs(p.DY)) <= maxNativeOffsetPx {
		spec := shadowSpec{DX: p.DX, DY: p.DY}
		frag, dist, dir := spec.fragment(ctx.Units)
		meta["native_support"] = true
		meta["distance_emu"] = dist
		meta["direction"] = dir
		return Result{OK: true, Fragment: frag, Meta: meta}
	}

	meta["native_support"] = false
	meta["approximation"] = true
	frag := comment("offset dx=%g dy=%g exceeds native shadow range; approximated as position offset", p.DX, p.DY) +
		fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/></a:xfrm>`,
			ctx.Units.ToEMU(p.DX), ctx.Units.ToEMU(p.DY))
	return Result{OK: true, Fragment: frag, Meta: meta}
}

func (OffsetFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	_, err := parseOffset(el)
	return err == nil
}
