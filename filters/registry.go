package filters

import (
	"sort"
	"sync/atomic"
)

// Registry maps primitive kinds to their implementations. Registration is
// append-only and must finish before concurrent use; after that, lookups are
// safe without locking (RegisterDefaults acts as the initialization
// barrier).
type Registry struct {
	m     map[Kind]Primitive
	usage map[Kind]*atomic.Int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		m:     make(map[Kind]Primitive),
		usage: make(map[Kind]*atomic.Int64),
	}
}

// Register installs a primitive for kind, replacing any previous one.
func (r *Registry) Register(kind Kind, p Primitive) {
	r.m[kind] = p
	if _, ok := r.usage[kind]; !ok {
		r.usage[kind] = &atomic.Int64{}
	}
}

// RegisterDefaults installs the built-in primitive set (lighting is one
// implementation registered under both of its kinds).
func (r *Registry) RegisterDefaults() {
	r.Register(KindComposite, CompositeFilter{})
	r.Register(KindMerge, MergeFilter{})
	r.Register(KindBlend, BlendFilter{})
	r.Register(KindOffset, OffsetFilter{})
	r.Register(KindTurbulence, TurbulenceFilter{})
	r.Register(KindColorMatrix, ColorMatrixFilter{})
	r.Register(KindFlood, FloodFilter{})
	r.Register(KindDiffuseLighting, LightingFilter{Specular: false})
	r.Register(KindSpecularLighting, LightingFilter{Specular: true})
}

// Get returns the primitive registered for kind and counts the lookup.
func (r *Registry) Get(kind Kind) (Primitive, bool) {
	p, ok := r.m[kind]
	if ok {
		r.usage[kind].Add(1)
	}
	return p, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RegistryStats reports registration and usage counts.
type RegistryStats struct {
	Total  int
	ByKind map[Kind]int64 // lookups served per kind
}

// Stats snapshots the registry's usage counters.
func (r *Registry) Stats() RegistryStats {
	s := RegistryStats{Total: len(r.m), ByKind: make(map[Kind]int64, len(r.m))}
	for k, c := range r.usage {
		s.ByKind[k] = c.Load()
	}
	return s
}
