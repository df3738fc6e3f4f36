package filters

import (
	"strings"
	"testing"
)

func TestBlendNativeModes(t *testing.T) {
	f := BlendFilter{}
	ctx := testCtx()

	tests := []struct {
		mode  string
		token string
	}{
		{"normal", `blend="over"`},
		{"multiply", `blend="mult"`},
		{"screen", `blend="screen"`},
		{"overlay", `blend="overlay"`},
		{"darken", `blend="darken"`},
		{"lighten", `blend="lighten"`},
	}
	for _, tt := range tests {
		res := f.Apply(el("feBlend", map[string]string{"mode": tt.mode}), ctx)
		if !res.OK {
			t.Fatalf("%s: %s", tt.mode, res.Err)
		}
		if !strings.Contains(res.Fragment, tt.token) {
			t.Errorf("%s: fragment %q missing %q", tt.mode, res.Fragment, tt.token)
		}
		if res.Meta["native_support"] != true {
			t.Errorf("%s: native_support = %v", tt.mode, res.Meta["native_support"])
		}
	}
}

func TestBlendApproximations(t *testing.T) {
	f := BlendFilter{}
	ctx := testCtx()

	tests := []struct {
		mode       string
		substitute string
		token      string
	}{
		{"color-dodge", "lighten", `blend="lighten"`},
		{"color-burn", "darken", `blend="darken"`},
		{"hard-light", "overlay", `blend="overlay"`},
		{"soft-light", "overlay", `blend="overlay"`},
		// Exclusion has no DrawingML token; the substitution is recorded
		// and the emitted token degrades to over.
		{"difference", "exclusion", `blend="over"`},
		{"exclusion", "exclusion", `blend="over"`},
	}
	for _, tt := range tests {
		res := f.Apply(el("feBlend", map[string]string{"mode": tt.mode}), ctx)
		if !res.OK {
			t.Fatalf("%s: %s", tt.mode, res.Err)
		}
		if !strings.Contains(res.Fragment, tt.token) {
			t.Errorf("%s: fragment %q missing %q", tt.mode, res.Fragment, tt.token)
		}
		if res.Meta["substitute"] != tt.substitute {
			t.Errorf("%s: substitute = %v, want %s", tt.mode, res.Meta["substitute"], tt.substitute)
		}
		// Approximation must be auditable: comment names both modes.
		if !strings.Contains(res.Fragment, tt.mode) || !strings.Contains(res.Fragment, tt.substitute) {
			t.Errorf("%s: comment incomplete: %q", tt.mode, res.Fragment)
		}
	}
}

func TestBlendUnknownModeDefaultsToOver(t *testing.T) {
	f := BlendFilter{}
	res := f.Apply(el("feBlend", map[string]string{"mode": "hue"}), testCtx())
	if !res.OK {
		t.Fatal(res.Err)
	}
	if !strings.Contains(res.Fragment, `blend="over"`) {
		t.Errorf("unknown mode not defaulted: %q", res.Fragment)
	}
}

func TestBlendDefaultsToNormal(t *testing.T) {
	f := BlendFilter{}
	res := f.Apply(el("feBlend", nil), testCtx())
	if !res.OK {
		t.Fatal(res.Err)
	}
	if res.Meta["mode"] != "normal" {
		t.Errorf("mode = %v", res.Meta["mode"])
	}
}
