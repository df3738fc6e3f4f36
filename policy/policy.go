// Package policy implements a rule-driven fallback policy engine for filter
// conversion. Rules come from a YAML file or are built in code; absent any
// engine the filter service always proceeds natively.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/svgfx/filters"
)

// Rules is a declarative policy: which classifications to skip or embed,
// and how long a chain may grow before rasterization.
type Rules struct {
	// DisableNative skips every filter (placeholder output only).
	DisableNative bool `yaml:"disable_native"`

	// RasterizeOver rasterizes chains with more than this many primitives
	// (default 8; 0 keeps the default).
	RasterizeOver int `yaml:"rasterize_over"`

	// EmbedClasses lists classifications forced to alternate-format
	// embedding (e.g. "turbulence").
	EmbedClasses []string `yaml:"embed_classes"`

	// SkipClasses lists classifications to skip entirely.
	SkipClasses []string `yaml:"skip_classes"`
}

// LoadFile reads policy rules from a YAML file.
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	r.applyDefaults()
	return &r, nil
}

func (r *Rules) applyDefaults() {
	if r.RasterizeOver <= 0 {
		r.RasterizeOver = 8
	}
}

// Decide implements filters.PolicyEngine.
func (r *Rules) Decide(def *filters.Definition, classification string, primitives int) filters.Decision {
	if r.DisableNative {
		return filters.DecideSkip
	}
	for _, c := range r.SkipClasses {
		if c == classification {
			return filters.DecideSkip
		}
	}
	for _, c := range r.EmbedClasses {
		if c == classification {
			return filters.DecideEmbed
		}
	}
	limit := r.RasterizeOver
	if limit <= 0 {
		limit = 8
	}
	if primitives > limit {
		return filters.DecideRasterize
	}
	return filters.DecideNative
}
