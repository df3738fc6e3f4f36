package filters

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hazyhaar/svgfx/fxtrace"
	"github.com/hazyhaar/svgfx/svgdom"
)

// Service orchestrates filter-definition conversion for one document.
//
// Construct one Service per conversion job: definition ids are only unique
// within a single source document, and both caches are keyed by them. The
// caches are guarded by a RWMutex (entries are write-once-then-immutable),
// so sharing an instance across goroutines is safe but invites cross-
// document id collisions.
type Service struct {
	cfg          Config
	registry     *Registry
	fctx         *Context
	conversionID string

	mu         sync.RWMutex
	defs       map[string]*Definition
	results    map[string]string
	rasterized map[string][]byte
}

// NewService builds a Service with the default primitive registry.
func NewService(cfg Config) *Service {
	cfg.defaults()
	reg := NewRegistry()
	reg.RegisterDefaults()
	return &Service{
		cfg:          cfg,
		registry:     reg,
		conversionID: uuid.NewString(),
		fctx: &Context{
			Colors: cfg.Colors,
			Units:  cfg.Units,
			Logger: cfg.Logger,
		},
		defs:       make(map[string]*Definition),
		results:    make(map[string]string),
		rasterized: make(map[string][]byte),
	}
}

// Registry exposes the primitive registry (for custom registrations before
// first use).
func (s *Service) Registry() *Registry { return s.registry }

// ConversionID identifies this conversion job in traces.
func (s *Service) ConversionID() string { return s.conversionID }

// RegisterDefinition adds one filter definition to the definition cache.
func (s *Service) RegisterDefinition(def *Definition) {
	if def == nil || def.ID == "" {
		return
	}
	s.mu.Lock()
	s.defs[def.ID] = def
	s.mu.Unlock()
}

// RegisterDocument scans a parsed document for filter definitions and
// registers them all, returning the count.
func (s *Service) RegisterDocument(root *svgdom.Element) int {
	defs := svgdom.FilterDefs(root)
	for _, el := range defs {
		s.RegisterDefinition(NewDefinition(el))
	}
	return len(defs)
}

// Definition looks up a registered definition by bare id.
func (s *Service) Definition(id string) (*Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.defs[id]
	return d, ok
}

// Classify labels a definition's shape: "empty", a single primitive's kind
// label, or "chain".
func (s *Service) Classify(def *Definition) string {
	switch len(def.Primitives) {
	case 0:
		return "empty"
	case 1:
		kind, ok := KindForTag(def.Primitives[0].Tag)
		if !ok {
			return "unknown"
		}
		return kindLabel(kind)
	default:
		return "chain"
	}
}

func kindLabel(kind Kind) string {
	switch kind {
	case KindBlur:
		return "blur"
	case KindDropShadow:
		return "shadow"
	default:
		return string(kind)
	}
}

// FilterContent resolves a filter reference (url(#id), #id, or bare id) to
// its combined DrawingML effect markup. The second return is false when the
// id is unknown — logged, never fatal to the caller.
func (s *Service) FilterContent(ctx context.Context, ref string) (string, bool) {
	id := svgdom.StripReference(ref)

	s.mu.RLock()
	cached, hit := s.results[id]
	def, found := s.defs[id]
	s.mu.RUnlock()
	if hit {
		return cached, true
	}
	if !found {
		s.cfg.Logger.Warn("filter definition not found", "id", id)
		return "", false
	}

	classification := s.Classify(def)
	count := len(def.Primitives)

	var out string
	if s.cfg.Policy != nil {
		decision := s.cfg.Policy.Decide(def, classification, count)
		if decision != DecideNative {
			out = s.fallbackFragment(ctx, def, decision)
			s.storeResult(id, out)
			return out, true
		}
	}

	fragments := s.generate(def)
	out = s.combine(def, fragments)
	s.storeResult(id, out)
	return out, true
}

func (s *Service) storeResult(id, fragment string) {
	s.mu.Lock()
	s.results[id] = fragment
	s.mu.Unlock()
}

// fallbackFragment renders the rasterize/embed/skip short-circuit tiers.
func (s *Service) fallbackFragment(ctx context.Context, def *Definition, d Decision) string {
	switch d {
	case DecideRasterize:
		if s.cfg.Rasterizer != nil && def.Source != "" {
			png, err := s.rasterize(ctx, def)
			if err == nil {
				s.mu.Lock()
				s.rasterized[def.ID] = png
				s.mu.Unlock()
				return comment(`filter "%s" rasterized (%d bytes png)`, def.ID, len(png))
			}
			s.cfg.Logger.Warn("rasterize failed; placeholder emitted", "id", def.ID, "error", err)
		}
		return comment(`filter "%s" requires rasterization`, def.ID)
	case DecideEmbed:
		return comment(`filter "%s" deferred to alternate-format embedding`, def.ID)
	case DecideSkip:
		return comment(`filter "%s" skipped: native effects disabled`, def.ID)
	}
	return comment(`filter "%s": unknown policy decision`, def.ID)
}

// rasterize renders the definition applied to a full-viewport rect.
func (s *Service) rasterize(ctx context.Context, def *Definition) ([]byte, error) {
	w, h := s.cfg.RasterWidth, s.cfg.RasterHeight
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><defs>%s</defs><rect width="100%%" height="100%%" fill="#808080" filter="url(#%s)"/></svg>`,
		w, h, def.Source, def.ID)
	return s.cfg.Rasterizer.Render(ctx, svg, w, h)
}

// RasterizedImage returns the PNG produced for a definition, when the
// rasterize tier ran with a configured Rasterizer.
func (s *Service) RasterizedImage(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.rasterized[id]
	return b, ok
}

// generate runs every primitive in chain order, collecting non-empty
// fragments. Failed primitives contribute nothing and processing continues.
func (s *Service) generate(def *Definition) []string {
	var fragments []string
	for _, el := range def.Primitives {
		kind, ok := KindForTag(el.Tag)
		if !ok {
			s.cfg.Logger.Debug("unsupported primitive tag", "id", def.ID, "tag", el.Tag)
			continue
		}

		start := time.Now()
		var res Result
		switch kind {
		case KindBlur:
			res = s.inlineBlur(el)
		case KindDropShadow:
			res = s.inlineDropShadow(el)
		default:
			p, found := s.registry.Get(kind)
			if !found {
				s.cfg.Logger.Debug("no primitive registered", "id", def.ID, "kind", kind)
				continue
			}
			res = p.Apply(el, s.fctx)
		}
		s.trace(def.ID, kind, res, time.Since(start))

		if !res.OK {
			s.cfg.Logger.Warn("primitive failed; omitted from chain",
				"id", def.ID, "kind", kind, "error", res.Err)
			continue
		}
		if res.Fragment != "" {
			fragments = append(fragments, res.Fragment)
		}
	}
	return fragments
}

// inlineBlur is the legacy fast path for feGaussianBlur.
func (s *Service) inlineBlur(el *svgdom.Element) Result {
	raw := strings.TrimSpace(el.AttrDefault("stdDeviation", "0"))
	vals, err := splitNumbers(KindBlur, "stdDeviation", raw)
	if err != nil || len(vals) == 0 {
		if err == nil {
			err = parseErr(KindBlur, "empty stdDeviation")
		}
		return failure(err)
	}
	std := vals[0]
	if std < 0 {
		return failure(parseErr(KindBlur, "negative stdDeviation %g", std))
	}
	rad := s.fctx.Units.ToEMU(std * blurExtentFactor)
	return Result{
		OK:       true,
		Fragment: fmt.Sprintf(`<a:blur rad="%d"/>`, rad),
		Meta: map[string]any{
			"kind":           string(KindBlur),
			"native_support": true,
			"std_deviation":  std,
		},
	}
}

// inlineDropShadow is the legacy fast path for feDropShadow. It shares the
// shadow generator with the offset primitive so both emit identical markup
// for identical displacements.
func (s *Service) inlineDropShadow(el *svgdom.Element) Result {
	dx, err := attrFloat(el, KindDropShadow, "dx", 2)
	if err != nil {
		return failure(err)
	}
	dy, err := attrFloat(el, KindDropShadow, "dy", 2)
	if err != nil {
		return failure(err)
	}
	std, err := attrFloat(el, KindDropShadow, "stdDeviation", 2)
	if err != nil {
		return failure(err)
	}
	if std < 0 {
		return failure(parseErr(KindDropShadow, "negative stdDeviation %g", std))
	}

	spec := shadowSpec{DX: dx, DY: dy, StdDev: std}
	frag, dist, dir := spec.fragment(s.fctx.Units)
	return Result{
		OK:       true,
		Fragment: frag,
		Meta: map[string]any{
			"kind":           string(KindDropShadow),
			"native_support": true,
			"distance_emu":   dist,
			"direction":      dir,
		},
	}
}

// combine merges primitive fragments into one effect construct.
func (s *Service) combine(def *Definition, fragments []string) string {
	switch len(fragments) {
	case 0:
		return comment(`filter "%s": no supported primitives`, def.ID)
	case 1:
		return fragments[0]
	}

	var b strings.Builder
	b.WriteString(`<a:effectLst>`)
	kept := 0
	for _, f := range fragments {
		if commentOnly(f) {
			continue
		}
		b.WriteString(f)
		kept++
	}
	b.WriteString(`</a:effectLst>`)
	if kept == 0 {
		return comment(`filter "%s": no supported primitives`, def.ID)
	}
	return b.String()
}

func (s *Service) trace(defID string, kind Kind, res Result, dur time.Duration) {
	if s.cfg.Trace == nil {
		return
	}
	e := &fxtrace.Entry{
		ConversionID: s.conversionID,
		DefinitionID: defID,
		Kind:         string(kind),
		OK:           res.OK,
		DurationUs:   dur.Microseconds(),
		Error:        res.Err,
		Timestamp:    time.Now().UnixMicro(),
	}
	if v, ok := res.Meta["native_support"].(bool); ok {
		e.Native = v
	}
	if v, ok := res.Meta["approximation"].(bool); ok {
		e.Approximation = v
	}
	s.cfg.Trace.RecordAsync(e)
}

// ServiceStats snapshots cache sizes and registry usage.
type ServiceStats struct {
	Definitions   int
	CachedResults int
	Registry      RegistryStats
}

// Stats reports the service's current cache and registry state.
func (s *Service) Stats() ServiceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ServiceStats{
		Definitions:   len(s.defs),
		CachedResults: len(s.results),
		Registry:      s.registry.Stats(),
	}
}

// ClearCache drops cached results (definitions are kept).
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.results = make(map[string]string)
	s.rasterized = make(map[string][]byte)
	s.mu.Unlock()
}
