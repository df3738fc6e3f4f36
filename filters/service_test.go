package filters

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hazyhaar/svgfx/svgdom"
)

func testService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewService(cfg)
}

func filterDef(id string, primitives ...*svgdom.Element) *Definition {
	return NewDefinition(el("filter", map[string]string{"id": id}, primitives...))
}

// countingPrimitive wraps a primitive and counts Apply calls.
type countingPrimitive struct {
	inner Primitive
	calls *int
}

func (c countingPrimitive) Kind() Kind                          { return c.inner.Kind() }
func (c countingPrimitive) CanApply(e *svgdom.Element) bool     { return c.inner.CanApply(e) }
func (c countingPrimitive) Validate(e *svgdom.Element, ctx *Context) bool {
	return c.inner.Validate(e, ctx)
}
func (c countingPrimitive) Apply(e *svgdom.Element, ctx *Context) Result {
	*c.calls++
	return c.inner.Apply(e, ctx)
}

// policyFunc adapts a function to PolicyEngine.
type policyFunc func(def *Definition, classification string, primitives int) Decision

func (f policyFunc) Decide(def *Definition, classification string, primitives int) Decision {
	return f(def, classification, primitives)
}

// rasterFunc adapts a function to Rasterizer.
type rasterFunc func(ctx context.Context, svg string, width, height int) ([]byte, error)

func (f rasterFunc) Render(ctx context.Context, svg string, width, height int) ([]byte, error) {
	return f(ctx, svg, width, height)
}

func TestServiceGaussianBlur(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("soft",
		el("feGaussianBlur", map[string]string{"stdDeviation": "2"})))

	def, _ := s.Definition("soft")
	if got := s.Classify(def); got != "blur" {
		t.Errorf("Classify = %q", got)
	}

	out, ok := s.FilterContent(context.Background(), "soft")
	if !ok {
		t.Fatal("not found")
	}
	if out != `<a:blur rad="38100"/>` {
		t.Errorf("fragment = %q", out)
	}
}

func TestServiceOffsetShadow(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("shift",
		el("feOffset", map[string]string{"dx": "3", "dy": "4"})))

	out, ok := s.FilterContent(context.Background(), "shift")
	if !ok {
		t.Fatal("not found")
	}
	if !strings.Contains(out, `dist="47625"`) || !strings.Contains(out, `dir="3187806"`) {
		t.Errorf("fragment = %q", out)
	}
}

func TestServiceDropShadowDefaults(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("ds", el("feDropShadow", nil)))

	def, _ := s.Definition("ds")
	if got := s.Classify(def); got != "shadow" {
		t.Errorf("Classify = %q", got)
	}

	out, _ := s.FilterContent(context.Background(), "ds")
	// dx=dy=stdDeviation=2: blur 38100, dist hypot(2,2)px = 26941, dir 45°.
	for _, want := range []string{`blurRad="38100"`, `dist="26941"`, `dir="2700000"`} {
		if !strings.Contains(out, want) {
			t.Errorf("fragment %q missing %s", out, want)
		}
	}
}

func TestServiceEmptyDefinition(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("nothing"))

	def, _ := s.Definition("nothing")
	if got := s.Classify(def); got != "empty" {
		t.Errorf("Classify = %q", got)
	}

	out, ok := s.FilterContent(context.Background(), "nothing")
	if !ok {
		t.Fatal("not found")
	}
	if !strings.Contains(out, `filter "nothing": no supported primitives`) {
		t.Errorf("placeholder = %q", out)
	}
}

func TestServiceUnknownReference(t *testing.T) {
	s := testService(Config{})
	out, ok := s.FilterContent(context.Background(), "url(#ghost)")
	if ok || out != "" {
		t.Errorf("got %q, %v", out, ok)
	}
}

func TestServiceReferenceForms(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("f1",
		el("feGaussianBlur", map[string]string{"stdDeviation": "1"})))

	for _, ref := range []string{"url(#f1)", "#f1", "f1"} {
		out, ok := s.FilterContent(context.Background(), ref)
		if !ok || out == "" {
			t.Errorf("%s: got %q, %v", ref, out, ok)
		}
	}
}

func TestServiceCachesResults(t *testing.T) {
	s := testService(Config{})
	calls := 0
	s.Registry().Register(KindFlood, countingPrimitive{inner: FloodFilter{}, calls: &calls})
	s.RegisterDefinition(filterDef("fill",
		el("feFlood", map[string]string{"flood-color": "#112233"})))

	first, _ := s.FilterContent(context.Background(), "fill")
	second, _ := s.FilterContent(context.Background(), "fill")
	if first != second {
		t.Errorf("cached result differs: %q vs %q", first, second)
	}
	if calls != 1 {
		t.Errorf("primitive ran %d times", calls)
	}

	s.ClearCache()
	s.FilterContent(context.Background(), "fill")
	if calls != 2 {
		t.Errorf("primitive ran %d times after ClearCache", calls)
	}
}

func TestServiceChainCombines(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("chain",
		el("feFlood", map[string]string{"flood-color": "#ff0000"}),
		el("feGaussianBlur", map[string]string{"stdDeviation": "1"})))

	def, _ := s.Definition("chain")
	if got := s.Classify(def); got != "chain" {
		t.Errorf("Classify = %q", got)
	}

	out, _ := s.FilterContent(context.Background(), "chain")
	if !strings.HasPrefix(out, "<a:effectLst>") || !strings.HasSuffix(out, "</a:effectLst>") {
		t.Errorf("no effect list wrapper: %q", out)
	}
	if !strings.Contains(out, "<a:solidFill>") || !strings.Contains(out, "<a:blur ") {
		t.Errorf("fragments missing: %q", out)
	}
}

func TestServiceChainSkipsCommentOnlyFragments(t *testing.T) {
	s := testService(Config{})
	// saturate 1 yields a comment-only fragment; it must not survive into the
	// effect list.
	s.RegisterDefinition(filterDef("mixed",
		el("feColorMatrix", map[string]string{"type": "saturate", "values": "1"}),
		el("feGaussianBlur", map[string]string{"stdDeviation": "1"})))

	out, _ := s.FilterContent(context.Background(), "mixed")
	if strings.Contains(out, "<!--") {
		t.Errorf("comment leaked into effect list: %q", out)
	}
	if !strings.Contains(out, "<a:blur ") {
		t.Errorf("blur missing: %q", out)
	}
}

func TestServiceFailedPrimitiveIsOmitted(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("partial",
		el("feComposite", map[string]string{"operator": "bogus"}),
		el("feGaussianBlur", map[string]string{"stdDeviation": "2"})))

	out, ok := s.FilterContent(context.Background(), "partial")
	if !ok {
		t.Fatal("chain with one bad primitive must still convert")
	}
	if out != `<a:blur rad="38100"/>` {
		t.Errorf("fragment = %q", out)
	}
}

func TestServicePolicyTiers(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{DecideRasterize, "requires rasterization"},
		{DecideEmbed, "alternate-format embedding"},
		{DecideSkip, "native effects disabled"},
	}
	for _, tt := range tests {
		s := testService(Config{
			Policy: policyFunc(func(*Definition, string, int) Decision { return tt.decision }),
		})
		s.RegisterDefinition(filterDef("f",
			el("feGaussianBlur", map[string]string{"stdDeviation": "2"})))
		out, ok := s.FilterContent(context.Background(), "f")
		if !ok {
			t.Fatalf("%s: not found", tt.decision)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%s: fragment = %q", tt.decision, out)
		}
		if strings.Contains(out, "<a:blur") {
			t.Errorf("%s: generation was not short-circuited: %q", tt.decision, out)
		}
	}
}

func TestServiceRasterizeTier(t *testing.T) {
	var rendered string
	s := testService(Config{
		Policy: policyFunc(func(*Definition, string, int) Decision { return DecideRasterize }),
		Rasterizer: rasterFunc(func(_ context.Context, svg string, w, h int) ([]byte, error) {
			rendered = svg
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil
		}),
	})
	s.RegisterDefinition(filterDef("heavy",
		el("feTurbulence", map[string]string{"baseFrequency": "0.05"})))

	out, ok := s.FilterContent(context.Background(), "heavy")
	if !ok {
		t.Fatal("not found")
	}
	if !strings.Contains(out, `filter "heavy" rasterized (4 bytes png)`) {
		t.Errorf("fragment = %q", out)
	}
	if !strings.Contains(rendered, `filter="url(#heavy)"`) {
		t.Errorf("rasterizer input wrong: %q", rendered)
	}

	png, ok := s.RasterizedImage("heavy")
	if !ok || len(png) != 4 {
		t.Errorf("RasterizedImage = %v, %v", png, ok)
	}
}

func TestServiceRegisterDocument(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<filter id="a"><feGaussianBlur stdDeviation="1"/></filter>
			<filter id="b"><feOffset dx="1" dy="1"/></filter>
		</defs>
		<rect filter="url(#a)"/>
	</svg>`
	root, err := svgdom.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	s := testService(Config{})
	if n := s.RegisterDocument(root); n != 2 {
		t.Fatalf("registered %d definitions", n)
	}
	for _, id := range []string{"a", "b"} {
		if _, ok := s.Definition(id); !ok {
			t.Errorf("definition %s missing", id)
		}
	}
}

func TestServiceStats(t *testing.T) {
	s := testService(Config{})
	s.RegisterDefinition(filterDef("f1",
		el("feFlood", nil)))
	s.FilterContent(context.Background(), "f1")

	st := s.Stats()
	if st.Definitions != 1 || st.CachedResults != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.Registry.ByKind[KindFlood] != 1 {
		t.Errorf("flood lookups = %d", st.Registry.ByKind[KindFlood])
	}

	if s.ConversionID() == "" {
		t.Error("empty conversion id")
	}
	if testService(Config{}).ConversionID() == s.ConversionID() {
		t.Error("conversion ids must differ per service")
	}
}
