package filters

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/svgfx/colorparse"
)

// ColorResolver resolves a color token to hex + alpha. Resolution failure is
// reported, never raised — primitives fall back to a default color.
type ColorResolver interface {
	Resolve(token string) (colorparse.Color, bool)
}

// ColorResolverFunc adapts a plain function to ColorResolver.
type ColorResolverFunc func(token string) (colorparse.Color, bool)

func (f ColorResolverFunc) Resolve(token string) (colorparse.Color, bool) {
	return f(token)
}

// UnitConverter converts SVG numbers to target units. units.Converter
// satisfies it.
type UnitConverter interface {
	ToEMU(px float64) int64
	Degrees(d float64) int64
	Radians(r float64) int64
	Percent(f float64) int64
}

// PolicyEngine decides the fallback tier for one filter definition. Absent
// an engine the Service always proceeds natively.
type PolicyEngine interface {
	Decide(def *Definition, classification string, primitives int) Decision
}

// Decision is a policy engine outcome.
type Decision int

const (
	DecideNative Decision = iota
	DecideRasterize
	DecideEmbed
	DecideSkip
)

func (d Decision) String() string {
	switch d {
	case DecideNative:
		return "native"
	case DecideRasterize:
		return "rasterize"
	case DecideEmbed:
		return "embed"
	case DecideSkip:
		return "skip"
	}
	return "unknown"
}

// Rasterizer renders SVG markup to PNG bytes. Optional; when absent the
// rasterize tier produces only a placeholder comment.
type Rasterizer interface {
	Render(ctx context.Context, svg string, width, height int) ([]byte, error)
}

// Context is the read-only collaborator bundle passed into every primitive
// apply. Filters never own or mutate it.
type Context struct {
	Colors ColorResolver
	Units  UnitConverter
	Logger *slog.Logger
}

// ResolveColor resolves token, falling back to fallbackHex (full opacity)
// when the resolver is absent or rejects the token.
func (c *Context) ResolveColor(token, fallbackHex string) (colorparse.Color, bool) {
	if c.Colors != nil {
		if col, ok := c.Colors.Resolve(token); ok {
			return col, true
		}
	}
	return colorparse.Color{Hex: fallbackHex, Alpha: 1}, false
}
