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

package legacy

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/builder"
	"dirpx.dev/legacy/config"
)

// init publishes the default snapshot: default configuration, the config
// builder and no source, hence no registry.
func init() {
	st.Store(&state{cfg: config.DefaultConfig(), bld: builder.New()})
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("legacy: builder returned nil registry")
)

// Classify returns the first (filter, member) pair of the global registry
// matching t. Without a registry nothing matches.
func Classify(t *apis.Type) (apis.Match, bool) {
	reg := st.Load().reg
	if reg == nil {
		return apis.Match{}, false
	}
	return reg.Classify(t)
}

// Customize applies the global registry's winning filter to reg.
func Customize(reg *apis.Registration) bool {
	r := st.Load().reg
	if r == nil {
		return false
	}
	return r.Customize(reg)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds the registry unless
// it is pinned. On error the previous snapshot stays published.
func SetConfig(cfg apis.Config) error {
	return update(func(next *state) { next.cfg = cfg })
}

// Source returns the global metadata source.
func Source() apis.Source {
	return st.Load().src
}

// SetSource sets the global metadata source and rebuilds the registry
// unless it is pinned.
func SetSource(src apis.Source) error {
	return update(func(next *state) { next.src = src })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds the registry unless it is
// pinned. A nil builder is ignored.
func SetBuilder(b apis.Builder) error {
	if b == nil {
		return nil
	}
	return update(func(next *state) { next.bld = b })
}

// Registry returns the global registry, nil until a source is set.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry publishes reg as the global registry and pins it. A nil
// registry is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	_ = update(func(next *state) {
		next.reg = reg
		next.preg = true
	})
}

// SetAll replaces the whole snapshot. A nil cfg or bld keeps the current
// one; src is always replaced. A nil reg is built and left unpinned, a
// non-nil reg is pinned.
func SetAll(cfg *apis.Config, src apis.Source, reg apis.Registry, bld apis.Builder) error {
	return update(func(next *state) {
		if cfg != nil {
			next.cfg = *cfg
		}
		if bld != nil {
			next.bld = bld
		}
		next.src = src
		next.reg = reg
		next.preg = reg != nil
	})
}

// Reset publishes the default snapshot.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(&state{cfg: config.DefaultConfig(), bld: builder.New()})
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops rebuilding the global registry.
func PinRegistry() {
	_ = update(func(next *state) { next.preg = true })
}

// UnpinRegistry lets the next reconfiguration rebuild the global registry.
// The current registry stays published until then.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()
	next := *st.Load()
	next.preg = false
	st.Store(&next)
}

// update derives a snapshot from the current one, rebuilds the registry
// when it is not pinned and publishes the result.
func update(fn func(next *state)) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := *st.Load()
	fn(&next)

	if !next.preg {
		reg, err := next.build()
		if err != nil {
			return err
		}
		next.reg = reg
	}

	st.Store(&next)
	return nil
}

// build compiles the registry of s. Without a source there is nothing to
// classify against.
func (s *state) build() (apis.Registry, error) {
	if s.src == nil {
		return nil, nil
	}
	reg, err := s.bld.BuildRegistry(s.cfg, s.src)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	return reg, nil
}

// buildMu serializes writers so partially built snapshots are never
// published.
var buildMu sync.Mutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot. Writers copy it, modify the copy and
// swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// src is the global metadata source.
	src apis.Source
	// reg is the global registry, nil without a source.
	reg apis.Registry
	// bld compiles cfg into reg.
	bld apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
}
