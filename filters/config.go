package filters

import (
	"log/slog"

	"github.com/hazyhaar/svgfx/colorparse"
	"github.com/hazyhaar/svgfx/fxtrace"
	"github.com/hazyhaar/svgfx/units"
)

// Config configures a filter Service.
type Config struct {
	// Logger for debug/warn messages.
	Logger *slog.Logger

	// Colors resolves color tokens. Defaults to colorparse.Parse.
	Colors ColorResolver

	// Units converts SVG lengths to target units. Defaults to 96 dpi.
	Units UnitConverter

	// Policy decides the fallback tier per definition. Nil means always
	// proceed natively.
	Policy PolicyEngine

	// Rasterizer renders the rasterize tier when the policy asks for it.
	// Nil leaves that tier as a placeholder comment.
	Rasterizer Rasterizer

	// Trace records per-primitive outcomes. Nil disables tracing.
	Trace fxtrace.Recorder

	// RasterWidth/RasterHeight bound rasterizer output (default 256x256).
	RasterWidth  int
	RasterHeight int
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Colors == nil {
		c.Colors = ColorResolverFunc(colorparse.Parse)
	}
	if c.Units == nil {
		c.Units = units.Converter{}
	}
	if c.RasterWidth <= 0 {
		c.RasterWidth = 256
	}
	if c.RasterHeight <= 0 {
		c.RasterHeight = 256
	}
}
