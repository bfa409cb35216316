/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package registry implements the ordered classification registry.
//
// Filters are consulted in insertion order and the first one that matches a
// type wins. The registry is read-only after construction and safe for
// concurrent classification.
package registry

import (
	"errors"
	"sync"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
)

var (
	// ErrNilSource is returned when a registry is created without a source.
	ErrNilSource = errors.New("legacy(registry): nil source provided")
	// ErrNilFilter is returned when a nil filter is provided.
	ErrNilFilter = errors.New("legacy(registry): nil filter provided")
)

// New constructs a Registry over src with the given filters in precedence
// order. An empty filter list is valid and classifies nothing.
func New(src apis.Source, lggr logger.Logger, filters ...apis.Filter) (*Registry, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	out := make([]apis.Filter, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			return nil, ErrNilFilter
		}
		out = append(out, f)
	}
	return &Registry{
		src:     src,
		filters: out,
		lggr:    logger.OrNop(lggr).Named("registry"),
	}, nil
}

// Registry is the classification registry. It holds no per-pass state; see
// NewPass for a view that memoizes decisions.
type Registry struct {
	// src resolves type metadata.
	src apis.Source
	// filters are in precedence order.
	filters []apis.Filter
	// lggr logs decisions at debug level.
	lggr logger.Logger
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry)(nil)

// Classify returns the first filter matching t with the member it selected.
func (r *Registry) Classify(t *apis.Type) (apis.Match, bool) {
	if t == nil || t.Interface {
		return apis.Match{}, false
	}
	for _, f := range r.filters {
		if m, ok := f.Match(t); ok {
			return apis.Match{Filter: f, Member: m}, true
		}
	}
	return apis.Match{}, false
}

// Include reports whether ref names a type some filter matches. Interfaces
// and types the source cannot resolve are excluded.
func (r *Registry) Include(ref apis.TypeRef) bool {
	_, ok := r.classifyRef(ref)
	return ok
}

func (r *Registry) classifyRef(ref apis.TypeRef) (apis.Match, bool) {
	if ref.Interface || ref.Name == "" {
		return apis.Match{}, false
	}
	t, ok := r.src.Resolve(ref.Name)
	if !ok {
		r.lggr.Debugw("excluding unresolvable type", "type", ref.Name)
		return apis.Match{}, false
	}
	return r.Classify(t)
}

// Customize applies the winning filter to reg. A registration that already
// carries a binding, or whose type matches no filter, is left untouched.
func (r *Registry) Customize(reg *apis.Registration) bool {
	if reg == nil || reg.Customized() {
		return false
	}
	m, ok := r.matchRegistration(reg)
	if !ok {
		return false
	}
	m.Filter.Apply(m.Member, reg)
	r.lggr.Debugw("customized registration",
		"type", reg.TypeName, "filter", m.Filter.String(), "member", m.Member.Name, "bean", reg.Name)
	return true
}

func (r *Registry) matchRegistration(reg *apis.Registration) (apis.Match, bool) {
	if reg.Type != nil {
		return r.Classify(reg.Type)
	}
	return r.classifyRef(apis.TypeRef{Name: reg.TypeName})
}

// Filters returns a copy of the filters in precedence order.
func (r *Registry) Filters() []apis.Filter {
	out := make([]apis.Filter, len(r.filters))
	copy(out, r.filters)
	return out
}

// Source returns the metadata source.
func (r *Registry) Source() apis.Source { return r.src }

// Len returns the number of filters.
func (r *Registry) Len() int { return len(r.filters) }

// NewPass returns a view of r for one scanning pass. The view memoizes the
// decision per type name so repeated Include and Customize calls resolve
// and classify each type once.
func (r *Registry) NewPass(lggr logger.Logger) *Pass {
	if lggr == nil {
		lggr = r.lggr
	}
	return &Pass{r: r, lggr: lggr}
}

// decision is the memoized outcome for one type.
type decision struct {
	typ   *apis.Type
	match apis.Match
	ok    bool
}

// Pass is a pass-scoped, memoizing view of a Registry. It is safe for
// concurrent use.
type Pass struct {
	r    *Registry
	lggr logger.Logger
	// cache maps a qualified type name to its decision.
	cache sync.Map // map[string]decision
	// mu serializes first computation per pass.
	mu sync.Mutex
	// count is the number of cached decisions.
	count int
}

// Ensure Pass implements apis.Registry.
var _ apis.Registry = (*Pass)(nil)

// decide returns the cached decision for ref, computing it once. A non-nil
// typ is classified as given instead of being resolved through the source.
func (p *Pass) decide(ref apis.TypeRef, typ *apis.Type) decision {
	if v, ok := p.cache.Load(ref.Name); ok {
		return v.(decision)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.cache.Load(ref.Name); ok {
		return v.(decision)
	}

	var d decision
	switch {
	case ref.Interface:
		p.lggr.Debugw("excluding interface", "type", ref.Name)
	default:
		t := typ
		if t == nil {
			var ok bool
			if t, ok = p.r.src.Resolve(ref.Name); !ok {
				p.lggr.Debugw("excluding unresolvable type", "type", ref.Name)
				break
			}
		}
		d.typ = t
		d.match, d.ok = p.r.Classify(t)
		if d.ok {
			p.lggr.Debugw("type qualifies", "type", ref.Name, "filter", d.match.Filter.String(), "member", d.match.Member.Name)
		} else {
			p.lggr.Debugw("type matches no filter", "type", ref.Name)
		}
	}
	p.cache.Store(ref.Name, d)
	p.count++
	return d
}

// Classify classifies t once per pass; later calls for the same type name
// return the cached decision.
func (p *Pass) Classify(t *apis.Type) (apis.Match, bool) {
	if t == nil {
		return apis.Match{}, false
	}
	d := p.decide(t.Ref(), t)
	return d.match, d.ok
}

// Include reports whether ref qualifies.
func (p *Pass) Include(ref apis.TypeRef) bool {
	if ref.Name == "" {
		return false
	}
	return p.decide(ref, nil).ok
}

// Customize applies the cached winning filter to reg.
func (p *Pass) Customize(reg *apis.Registration) bool {
	if reg == nil || reg.Customized() || reg.TypeName == "" {
		return false
	}
	ref := apis.TypeRef{Name: reg.TypeName}
	if reg.Type != nil {
		ref = reg.Type.Ref()
	}
	d := p.decide(ref, reg.Type)
	if !d.ok {
		return false
	}
	if reg.Type == nil {
		reg.Type = d.typ
	}
	d.match.Filter.Apply(d.match.Member, reg)
	p.lggr.Debugw("customized registration",
		"type", reg.TypeName, "filter", d.match.Filter.String(), "member", d.match.Member.Name, "bean", reg.Name)
	return true
}

// Filters returns the underlying filters.
func (p *Pass) Filters() []apis.Filter { return p.r.Filters() }

// Source returns the underlying source.
func (p *Pass) Source() apis.Source { return p.r.src }

// Resolved returns the type resolved for name during this pass.
func (p *Pass) Resolved(name string) (*apis.Type, bool) {
	v, ok := p.cache.Load(name)
	if !ok {
		return nil, false
	}
	d := v.(decision)
	return d.typ, d.typ != nil
}

// Count returns the number of types decided in this pass.
func (p *Pass) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
