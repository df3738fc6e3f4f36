package filters

import (
	"fmt"
	"math"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// ColorMatrixParams are the parsed feColorMatrix parameters.
type ColorMatrixParams struct {
	Type   string // matrix | saturate | hueRotate | luminanceToAlpha
	Values []float64
	In     string
	Result string
}

// Simple-matrix heuristic: a full 4x5 matrix is treated as "simple" when at
// most simpleMatrixMaxDeviations of its 20 cells deviate from identity by
// more than matrixDeviationThreshold. Simple matrices get heuristic
// tint/luminance tokens; the rest get a flagged low-fidelity fallback.
const (
	simpleMatrixMaxDeviations = 5
	matrixDeviationThreshold  = 0.1
)

// identityMatrix is the 4x5 row-major identity (offsets in 4, 9, 14, 19).
var identityMatrix = [20]float64{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// ColorMatrixFilter maps feColorMatrix sub-modes onto DrawingML color
// transforms.
type ColorMatrixFilter struct{}

func (ColorMatrixFilter) Kind() Kind { return KindColorMatrix }

func (ColorMatrixFilter) CanApply(el *svgdom.Element) bool {
	return tagMatches(el, "feColorMatrix")
}

func parseColorMatrix(el *svgdom.Element) (ColorMatrixParams, error) {
	p := ColorMatrixParams{
		Type:   el.AttrDefault("type", "matrix"),
		In:     el.AttrDefault("in", "SourceGraphic"),
		Result: el.AttrDefault("result", "color_matrix"),
	}

	raw := strings.TrimSpace(el.Attr("values"))
	if raw != "" {
		vals, err := splitNumbers(KindColorMatrix, "values", raw)
		if err != nil {
			return p, err
		}
		p.Values = vals
	}

	switch p.Type {
	case "matrix":
		if p.Values == nil {
			p.Values = identityMatrix[:]
		}
		if len(p.Values) != 20 {
			return p, parseErr(KindColorMatrix, "matrix wants 20 values, got %d", len(p.Values))
		}
	case "saturate":
		if p.Values == nil {
			p.Values = []float64{1.0}
		}
		if len(p.Values) != 1 {
			return p, parseErr(KindColorMatrix, "saturate wants 1 value, got %d", len(p.Values))
		}
	case "hueRotate":
		if p.Values == nil {
			p.Values = []float64{0.0}
		}
		if len(p.Values) != 1 {
			return p, parseErr(KindColorMatrix, "hueRotate wants 1 value, got %d", len(p.Values))
		}
	case "luminanceToAlpha":
		if len(p.Values) != 0 {
			return p, parseErr(KindColorMatrix, "luminanceToAlpha takes no values, got %d", len(p.Values))
		}
	default:
		return p, parseErr(KindColorMatrix, "unknown type %q", p.Type)
	}
	return p, nil
}

func (f ColorMatrixFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p, err := parseColorMatrix(el)
	if err != nil {
		return failure(err)
	}

	meta := map[string]any{
		"kind":        string(KindColorMatrix),
		"matrix_type": p.Type,
	}

	switch p.Type {
	case "saturate":
		meta["native_support"] = true
		return Result{OK: true, Fragment: f.saturateFragment(p.Values[0], ctx), Meta: meta}
	case "hueRotate":
		meta["native_support"] = true
		frag := comment("hueRotate %g degrees", p.Values[0]) +
			fmt.Sprintf(`<a:hsl hue="%d" sat="0" lum="0"/>`, ctx.Units.Degrees(p.Values[0]))
		return Result{OK: true, Fragment: frag, Meta: meta}
	case "luminanceToAlpha":
		meta["native_support"] = false
		meta["approximation"] = true
		frag := comment("luminanceToAlpha has no native equivalent; fixed 50%% alpha approximation") +
			`<a:alphaModFix amt="50000"/>`
		return Result{OK: true, Fragment: frag, Meta: meta}
	}
	return f.applyMatrix(p, ctx, meta)
}

// saturateFragment: s<=0 drops to grayscale, s<1 desaturates, s>1 gets a
// bounded oversaturation.
func (ColorMatrixFilter) saturateFragment(s float64, ctx *Context) string {
	switch {
	case s <= 0:
		return comment("saturate %g: grayscale", s) + `<a:grayscl/>`
	case s == 1:
		return comment("saturate 1: no visible change")
	default:
		offset := int64(math.Round((s - 1) * 100000))
		if offset > 100000 {
			offset = 100000
		}
		if offset < -100000 {
			offset = -100000
		}
		return comment("saturate %g", s) +
			fmt.Sprintf(`<a:hsl hue="0" sat="%d" lum="0"/>`, offset)
	}
}

// applyMatrix classifies the full 4x5 matrix by deviation count, then
// derives tint/shade from the RGB diagonal and luminance modulation from the
// offset column.
func (ColorMatrixFilter) applyMatrix(p ColorMatrixParams, ctx *Context, meta map[string]any) Result {
	deviations := 0
	for i, v := range p.Values {
		if math.Abs(v-identityMatrix[i]) > matrixDeviationThreshold {
			deviations++
		}
	}
	meta["deviations"] = deviations

	if deviations == 0 {
		meta["native_support"] = true
		return Result{
			OK:       true,
			Fragment: comment("color matrix: no significant changes"),
			Meta:     meta,
		}
	}

	// Average RGB diagonal deviation drives tint (brighten) or shade
	// (darken); the offset column average drives luminance modulation.
	diag := (p.Values[0] + p.Values[6] + p.Values[12]) / 3
	offset := (p.Values[4] + p.Values[9] + p.Values[14]) / 3

	var tint string
	dev := diag - 1
	switch {
	case dev > 0:
		tint = fmt.Sprintf(`<a:tint hue="0" amt="%d"/>`, ctx.Units.Percent(clampF(dev, 0, 1)))
	case dev < 0:
		tint = fmt.Sprintf(`<a:lum bright="-%d"/>`, ctx.Units.Percent(clampF(-dev, 0, 1)))
	}

	meta["native_support"] = false
	meta["approximation"] = true

	if deviations <= simpleMatrixMaxDeviations {
		var lum string
		if offset != 0 {
			bright := int64(math.Round(clampF(offset, -1, 1) * 100000))
			lum = fmt.Sprintf(`<a:lum bright="%d"/>`, bright)
		}
		frag := comment("color matrix: %d cells deviate; heuristic tint/luminance approximation", deviations) +
			tint + lum
		return Result{OK: true, Fragment: frag, Meta: meta}
	}

	meta["needs_rasterization"] = true
	frag := comment("color matrix: complex (%d cells deviate); low-fidelity tint only, rasterization required for full accuracy", deviations) +
		tint
	return Result{OK: true, Fragment: frag, Meta: meta}
}

func (ColorMatrixFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	_, err := parseColorMatrix(el)
	return err == nil
}
