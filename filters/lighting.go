package filters

import (
	"fmt"

	"github.com/hazyhaar/svgfx/svgdom"
)

// LightSource describes the single light-source child of a lighting
// primitive.
type LightSource struct {
	Type string // distant | point | spot

	// distant
	Azimuth, Elevation float64
	// point and spot
	X, Y, Z float64
	// spot
	PointsAtX, PointsAtY, PointsAtZ float64
	SpecularExponent                float64
	LimitingConeAngle               float64
}

// LightingParams are the parsed feDiffuseLighting / feSpecularLighting
// parameters.
type LightingParams struct {
	Specular         bool
	ColorToken       string
	SurfaceScale     float64
	Constant         float64 // diffuseConstant or specularConstant
	SpecularExponent float64
	Light            LightSource
	In               string
	Result           string
}

// lightingSizePx scales the lighting constant into a glow/shadow extent.
const lightingSizePx = 4.0

// LightingFilter maps feDiffuseLighting and feSpecularLighting. Both are
// approximations: diffuse becomes an outward glow, specular an inner shadow.
type LightingFilter struct {
	Specular bool
}

func (f LightingFilter) Kind() Kind {
	if f.Specular {
		return KindSpecularLighting
	}
	return KindDiffuseLighting
}

func (f LightingFilter) CanApply(el *svgdom.Element) bool {
	if f.Specular {
		return tagMatches(el, "feSpecularLighting")
	}
	return tagMatches(el, "feDiffuseLighting")
}

func parseLightSource(el *svgdom.Element) (LightSource, error) {
	// Default light source: distant at azimuth/elevation 0.
	ls := LightSource{Type: "distant"}
	var src *svgdom.Element
	for _, c := range el.Children {
		switch {
		case tagMatches(c, "feDistantLight"):
			ls.Type = "distant"
			src = c
		case tagMatches(c, "fePointLight"):
			ls.Type = "point"
			src = c
		case tagMatches(c, "feSpotLight"):
			ls.Type = "spot"
			src = c
		}
		if src != nil {
			break
		}
	}
	if src == nil {
		return ls, nil
	}

	kind := KindDiffuseLighting
	var err error
	switch ls.Type {
	case "distant":
		if ls.Azimuth, err = attrFloat(src, kind, "azimuth", 0); err != nil {
			return ls, err
		}
		if ls.Elevation, err = attrFloat(src, kind, "elevation", 0); err != nil {
			return ls, err
		}
	case "point", "spot":
		for _, a := range []struct {
			name string
			dst  *float64
			def  float64
		}{
			{"x", &ls.X, 0}, {"y", &ls.Y, 0}, {"z", &ls.Z, 0},
			{"pointsAtX", &ls.PointsAtX, 0}, {"pointsAtY", &ls.PointsAtY, 0},
			{"pointsAtZ", &ls.PointsAtZ, 0},
			{"specularExponent", &ls.SpecularExponent, 1},
			{"limitingConeAngle", &ls.LimitingConeAngle, 0},
		} {
			if *a.dst, err = attrFloat(src, kind, a.name, a.def); err != nil {
				return ls, err
			}
		}
	}
	return ls, nil
}

func (f LightingFilter) parse(el *svgdom.Element) (LightingParams, error) {
	kind := f.Kind()
	p := LightingParams{
		Specular:   f.Specular,
		ColorToken: el.AttrDefault("lighting-color", "white"),
		In:         el.AttrDefault("in", "SourceGraphic"),
		Result:     el.AttrDefault("result", "lighting"),
	}

	var err error
	if p.SurfaceScale, err = attrFloat(el, kind, "surfaceScale", 1); err != nil {
		return p, err
	}
	constAttr := "diffuseConstant"
	if f.Specular {
		constAttr = "specularConstant"
	}
	if p.Constant, err = attrFloat(el, kind, constAttr, 1); err != nil {
		return p, err
	}
	if p.SpecularExponent, err = attrFloat(el, kind, "specularExponent", 1); err != nil {
		return p, err
	}

	if p.Constant < 0 {
		return p, parseErr(kind, "negative %s %g", constAttr, p.Constant)
	}
	if p.SpecularExponent < 0 {
		return p, parseErr(kind, "negative specularExponent %g", p.SpecularExponent)
	}

	if p.Light, err = parseLightSource(el); err != nil {
		return p, err
	}
	return p, nil
}

func (f LightingFilter) Apply(el *svgdom.Element, ctx *Context) Result {
	p, err := f.parse(el)
	if err != nil {
		return failure(err)
	}

	meta := map[string]any{
		"kind":           string(f.Kind()),
		"native_support": false,
		"approximation":  true,
		"light_source":   p.Light.Type,
	}

	col, _ := ctx.ResolveColor(p.ColorToken, "FFFFFF")
	size := ctx.Units.ToEMU(p.Constant * lightingSizePx)

	if f.Specular {
		frag := comment("specular lighting approximated as inner shadow (%s light)", p.Light.Type) +
			fmt.Sprintf(
				`<a:innerShdw blurRad="%d" dist="0" dir="0"><a:srgbClr val="%s"><a:alpha val="50000"/></a:srgbClr></a:innerShdw>`,
				size, col.Hex)
		return Result{OK: true, Fragment: frag, Meta: meta}
	}

	frag := comment("diffuse lighting approximated as outer glow (%s light)", p.Light.Type) +
		fmt.Sprintf(
			`<a:glow rad="%d"><a:srgbClr val="%s"><a:alpha val="60000"/></a:srgbClr></a:glow>`,
			size, col.Hex)
	return Result{OK: true, Fragment: frag, Meta: meta}
}

func (f LightingFilter) Validate(el *svgdom.Element, ctx *Context) bool {
	_, err := f.parse(el)
	return err == nil
}
