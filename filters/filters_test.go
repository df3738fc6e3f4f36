package filters

import (
	"io"
	"log/slog"

	"github.com/hazyhaar/svgfx/colorparse"
	"github.com/hazyhaar/svgfx/svgdom"
	"github.com/hazyhaar/svgfx/units"
)

// el builds a primitive element for tests.
func el(tag string, attrs map[string]string, children ...*svgdom.Element) *svgdom.Element {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &svgdom.Element{Tag: tag, Attrs: attrs, Children: children}
}

func testCtx() *Context {
	return &Context{
		Colors: ColorResolverFunc(colorparse.Parse),
		Units:  units.Converter{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
