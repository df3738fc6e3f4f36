package filters

import (
	"strconv"
	"strings"

	"github.com/hazyhaar/svgfx/svgdom"
)

// Primitive converts one SVG filter primitive element to DrawingML.
//
// CanApply is a cheap tag test; Apply parses, validates, and generates;
// Validate parses and checks domain constraints without generating. Apply
// never panics or returns an error past its boundary — failures become
// Result{OK:false}.
type Primitive interface {
	Kind() Kind
	CanApply(el *svgdom.Element) bool
	Apply(el *svgdom.Element, ctx *Context) Result
	Validate(el *svgdom.Element, ctx *Context) bool
}

// tagMatches implements the shared applicability rule: exact suffix match on
// the canonical tag (covers namespace prefixes), with a case-insensitive
// substring fallback for malformed or namespace-less input.
func tagMatches(el *svgdom.Element, canonical string) bool {
	if el == nil {
		return false
	}
	if el.Tag == canonical || strings.HasSuffix(el.Tag, canonical) {
		return true
	}
	return strings.Contains(strings.ToLower(el.Tag), strings.ToLower(canonical))
}

// attrFloat parses a numeric attribute, returning def when absent or empty.
func attrFloat(el *svgdom.Element, kind Kind, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(el.Attr(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, parseErr(kind, "attribute %s=%q is not numeric", name, raw)
	}
	return v, nil
}

// attrInt parses an integer attribute, returning def when absent or empty.
func attrInt(el *svgdom.Element, kind Kind, name string, def int) (int, error) {
	raw := strings.TrimSpace(el.Attr(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Tolerate float-formatted integers (seed="3.0").
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, parseErr(kind, "attribute %s=%q is not an integer", name, raw)
		}
		return int(f), nil
	}
	return v, nil
}

// splitNumbers parses a space- and/or comma-separated number list.
func splitNumbers(kind Kind, name, raw string) ([]float64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, parseErr(kind, "attribute %s contains non-numeric value %q", name, f)
		}
		out = append(out, v)
	}
	return out, nil
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
