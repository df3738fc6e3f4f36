// Package filters maps SVG filter primitives onto DrawingML effect markup.
//
// Each primitive (feComposite, feMerge, feBlend, feOffset, feTurbulence,
// feColorMatrix, feFlood, feDiffuse/SpecularLighting) owns its parameter
// parsing, validation, and generation. A Registry holds the implementations;
// a Service resolves filter definitions by id, consults an optional policy
// engine for the fallback tier, dispatches primitives, and combines their
// fragments into one effect list.
//
// Conversion never hard-fails a document: a malformed primitive degrades to
// an omitted fragment, an unsupported chain degrades to an explanatory
// placeholder comment.
package filters

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// Kind identifies a filter primitive type.
type Kind string

const (
	KindComposite        Kind = "composite"
	KindMerge            Kind = "merge"
	KindBlend            Kind = "blend"
	KindOffset           Kind = "offset"
	KindTurbulence       Kind = "turbulence"
	KindColorMatrix      Kind = "color_matrix"
	KindFlood            Kind = "flood"
	KindDiffuseLighting  Kind = "diffuse_lighting"
	KindSpecularLighting Kind = "specular_lighting"

	// Handled inline by the Service (legacy fast paths), not registered.
	KindBlur       Kind = "blur"
	KindDropShadow Kind = "drop_shadow"
)

var tagKinds = map[string]Kind{
	"feComposite":        KindComposite,
	"feMerge":            KindMerge,
	"feBlend":            KindBlend,
	"feOffset":           KindOffset,
	"feTurbulence":       KindTurbulence,
	"feColorMatrix":      KindColorMatrix,
	"feFlood":            KindFlood,
	"feDiffuseLighting":  KindDiffuseLighting,
	"feSpecularLighting": KindSpecularLighting,
	"feGaussianBlur":     KindBlur,
	"feDropShadow":       KindDropShadow,
}

// KindForTag maps a primitive element tag to its Kind. The tag is matched on
// its canonical suffix so namespace-prefixed forms (svg:feOffset) resolve too.
func KindForTag(tag string) (Kind, bool) {
	if k, ok := tagKinds[tag]; ok {
		return k, true
	}
	for t, k := range tagKinds {
		if strings.HasSuffix(tag, t) {
			return k, true
		}
	}
	return "", false
}

// Result is the uniform outcome of one primitive conversion.
//
// OK true with an empty Fragment is legitimate (a zero-displacement offset,
// an empty merge). OK false always carries Err and an empty Fragment.
type Result struct {
	OK       bool
	Fragment string
	Meta     map[string]any
	Err      string
}

func failure(err error) Result {
	return Result{OK: false, Err: err.Error()}
}

// Definition is one filter definition: an ordered chain of primitive
// elements plus the id content elements reference it by. Built once per
// document scan, never mutated.
type Definition struct {
	ID         string
	Primitives []*svgdom.Element
	// Source is the original subtree markup, kept for the rasterize and
	// embed fallback tiers. May be empty.
	Source string
}

// NewDefinition builds a Definition from a parsed filter element.
func NewDefinition(el *svgdom.Element) *Definition {
	return &Definition{
		ID:         el.Attr("id"),
		Primitives: el.Children,
		Source:     el.XML(),
	}
}

// comment renders an explanatory XML comment fragment.
func comment(format string, args ...any) string {
	return fmt.Sprintf("<!-- "+format+" -->", args...)
}

// commentOnly reports whether a fragment consists solely of XML comments
// (and whitespace) — such fragments carry no visual effect.
func commentOnly(fragment string) bool {
	s := strings.TrimSpace(fragment)
	for strings.HasPrefix(s, "<!--") {
		end := strings.Index(s, "-->")
		if end < 0 {
			return false
		}
		s = strings.TrimSpace(s[end+3:])
	}
	return s == ""
}
