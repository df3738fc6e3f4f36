package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/svgfx/filters"
)

func TestDecide(t *testing.T) {
	r := &Rules{
		RasterizeOver: 3,
		EmbedClasses:  []string{"turbulence"},
		SkipClasses:   []string{"empty"},
	}

	tests := []struct {
		class string
		n     int
		want  filters.Decision
	}{
		{"blur", 1, filters.DecideNative},
		{"chain", 3, filters.DecideNative},
		{"chain", 4, filters.DecideRasterize},
		{"turbulence", 1, filters.DecideEmbed},
		{"empty", 0, filters.DecideSkip},
	}
	for _, tt := range tests {
		got := r.Decide(&filters.Definition{ID: "f"}, tt.class, tt.n)
		if got != tt.want {
			t.Errorf("Decide(%q, %d) = %v, want %v", tt.class, tt.n, got, tt.want)
		}
	}
}

func TestDisableNative(t *testing.T) {
	r := &Rules{DisableNative: true}
	if got := r.Decide(&filters.Definition{}, "blur", 1); got != filters.DecideSkip {
		t.Errorf("got %v, want skip", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `disable_native: false
rasterize_over: 5
embed_classes:
  - turbulence
skip_classes:
  - empty
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.RasterizeOver != 5 {
		t.Errorf("RasterizeOver = %d, want 5", r.RasterizeOver)
	}
	if len(r.EmbedClasses) != 1 || r.EmbedClasses[0] != "turbulence" {
		t.Errorf("EmbedClasses = %v", r.EmbedClasses)
	}
}

func TestLoadFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("disable_native: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if r.RasterizeOver != 8 {
		t.Errorf("default RasterizeOver = %d, want 8", r.RasterizeOver)
	}
}
