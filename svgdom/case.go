package svgdom

// The HTML5 parser lowercases element and attribute names outside of proper
// SVG foreign-content context. These tables restore canonical SVG spelling
// for everything the filter pipeline consumes.

var canonicalTags = map[string]string{
	"fegaussianblur":      "feGaussianBlur",
	"fedropshadow":        "feDropShadow",
	"feoffset":            "feOffset",
	"feblend":             "feBlend",
	"fecomposite":         "feComposite",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"feflood":             "feFlood",
	"feturbulence":        "feTurbulence",
	"fecolormatrix":       "feColorMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fespecularlighting":  "feSpecularLighting",
	"fedistantlight":      "feDistantLight",
	"fepointlight":        "fePointLight",
	"fespotlight":         "feSpotLight",
	"feimage":             "feImage",
	"fetile":              "feTile",
	"femorphology":        "feMorphology",
	"fedisplacementmap":   "feDisplacementMap",
	"feconvolvematrix":    "feConvolveMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fefuncr":             "feFuncR",
	"fefuncg":             "feFuncG",
	"fefuncb":             "feFuncB",
	"fefunca":             "feFuncA",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"clippath":            "clipPath",
}

var canonicalAttrs = map[string]string{
	"stddeviation":      "stdDeviation",
	"basefrequency":     "baseFrequency",
	"numoctaves":        "numOctaves",
	"stitchtiles":       "stitchTiles",
	"surfacescale":      "surfaceScale",
	"diffuseconstant":   "diffuseConstant",
	"specularconstant":  "specularConstant",
	"specularexponent":  "specularExponent",
	"limitingconeangle": "limitingConeAngle",
	"pointsatx":         "pointsAtX",
	"pointsaty":         "pointsAtY",
	"pointsatz":         "pointsAtZ",
	"filterunits":       "filterUnits",
	"primitiveunits":    "primitiveUnits",
	"gradientunits":     "gradientUnits",
	"tablevalues":       "tableValues",
}

func canonicalTag(name string) string {
	if c, ok := canonicalTags[name]; ok {
		return c
	}
	return name
}

func canonicalAttr(name string) string {
	if c, ok := canonicalAttrs[name]; ok {
		return c
	}
	return name
}
