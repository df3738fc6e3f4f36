package filters

import (
	"strings"
	"testing"
)

func TestCompositeNativeOperators(t *testing.T) {
	f := CompositeFilter{}
	ctx := testCtx()

	tests := []struct {
		operator string
		token    string
	}{
		{"over", `blend="over"`},
		{"multiply", `blend="mult"`},
		{"screen", `blend="screen"`},
		{"darken", `blend="darken"`},
		{"lighten", `blend="lighten"`},
	}
	for _, tt := range tests {
		e := el("feComposite", map[string]string{
			"operator": tt.operator,
			"in":       "SourceGraphic",
			"in2":      "BackgroundImage",
		})
		res := f.Apply(e, ctx)
		if !res.OK {
			t.Errorf("%s: failed: %s", tt.operator, res.Err)
			continue
		}
		if !strings.Contains(res.Fragment, tt.token) {
			t.Errorf("%s: fragment %q missing %q", tt.operator, res.Fragment, tt.token)
		}
		if !strings.Contains(res.Fragment, "SourceGraphic") || !strings.Contains(res.Fragment, "BackgroundImage") {
			t.Errorf("%s: fragment does not name both inputs: %q", tt.operator, res.Fragment)
		}
		if res.Meta["native_support"] != true {
			t.Errorf("%s: native_support = %v", tt.operator, res.Meta["native_support"])
		}
	}
}

func TestCompositeArithmeticClassification(t *testing.T) {
	f := CompositeFilter{}
	ctx := testCtx()

	tests := []struct {
		name  string
		attrs map[string]string
		token string
	}{
		{"additive", map[string]string{"operator": "arithmetic", "k2": "0.5", "k3": "0.5"}, `blend="lighten"`},
		{"multiplicative", map[string]string{"operator": "arithmetic", "k1": "0.8"}, `blend="mult"`},
		{"default over", map[string]string{"operator": "arithmetic"}, `blend="over"`},
	}
	for _, tt := range tests {
		res := f.Apply(el("feComposite", tt.attrs), ctx)
		if !res.OK {
			t.Fatalf("%s: %s", tt.name, res.Err)
		}
		if !strings.Contains(res.Fragment, tt.token) {
			t.Errorf("%s: fragment %q missing %q", tt.name, res.Fragment, tt.token)
		}
	}
}

func TestCompositeArithmeticK4Transparency(t *testing.T) {
	f := CompositeFilter{}
	res := f.Apply(el("feComposite", map[string]string{
		"operator": "arithmetic", "k4": "0.5",
	}), testCtx())
	if !res.OK {
		t.Fatal(res.Err)
	}
	if !strings.Contains(res.Fragment, `<a:alphaModFix amt="50000"/>`) {
		t.Errorf("missing alphaModFix: %q", res.Fragment)
	}

	// Out-of-range k4 clamps, never rejects.
	res = f.Apply(el("feComposite", map[string]string{
		"operator": "arithmetic", "k4": "3.0",
	}), testCtx())
	if !strings.Contains(res.Fragment, `<a:alphaModFix amt="100000"/>`) {
		t.Errorf("k4 not clamped: %q", res.Fragment)
	}
}

func TestCompositePorterDuffFallback(t *testing.T) {
	f := CompositeFilter{}
	for _, op := range []string{"in", "out", "atop", "xor"} {
		res := f.Apply(el("feComposite", map[string]string{
			"operator": op, "in": "A", "in2": "B",
		}), testCtx())
		if !res.OK {
			t.Fatalf("%s: %s", op, res.Err)
		}
		if !strings.Contains(res.Fragment, `blend="over"`) {
			t.Errorf("%s: no over fallback: %q", op, res.Fragment)
		}
		// Loss must stay auditable: comment names operator and inputs.
		if !strings.Contains(res.Fragment, op) || !strings.Contains(res.Fragment, "in=A") || !strings.Contains(res.Fragment, "in2=B") {
			t.Errorf("%s: audit comment incomplete: %q", op, res.Fragment)
		}
		if res.Meta["native_support"] != false {
			t.Errorf("%s: native_support = %v", op, res.Meta["native_support"])
		}
	}
}

func TestCompositeInvalidOperator(t *testing.T) {
	f := CompositeFilter{}
	res := f.Apply(el("feComposite", map[string]string{"operator": "bogus"}), testCtx())
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Fragment != "" {
		t.Errorf("failed result has fragment %q", res.Fragment)
	}
	if res.Err == "" {
		t.Error("failed result has no error message")
	}
}

func TestCompositeDefaults(t *testing.T) {
	p, err := parseComposite(el("feComposite", nil))
	if err != nil {
		t.Fatal(err)
	}
	if p.Operator != "over" || p.In != "SourceGraphic" || p.In2 != "SourceGraphic" || p.Result != "composite" {
		t.Errorf("defaults = %+v", p)
	}
	if p.K1 != 0 || p.K2 != 0 || p.K3 != 0 || p.K4 != 0 {
		t.Errorf("k defaults = %+v", p)
	}
}

func TestCompositeValidate(t *testing.T) {
	f := CompositeFilter{}
	ctx := testCtx()
	if !f.Validate(el("feComposite", map[string]string{"operator": "xor"}), ctx) {
		t.Error("xor should validate")
	}
	if f.Validate(el("feComposite", map[string]string{"operator": "bogus"}), ctx) {
		t.Error("bogus operator should not validate")
	}
	if f.Validate(el("feComposite", map[string]string{"k1": "abc"}), ctx) {
		t.Error("non-numeric k1 should not validate")
	}
}

func TestCompositeCanApply(t *testing.T) {
	f := CompositeFilter{}
	if !f.CanApply(el("feComposite", nil)) {
		t.Error("canonical tag rejected")
	}
	if !f.CanApply(el("svg:feComposite", nil)) {
		t.Error("prefixed tag rejected")
	}
	if !f.CanApply(el("fecomposite", nil)) {
		t.Error("lowercased tag rejected")
	}
	if f.CanApply(el("feBlend", nil)) {
		t.Error("feBlend accepted")
	}
}
