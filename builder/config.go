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

package builder

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/filter"
	"dirpx.dev/legacy/naming"
	"dirpx.dev/legacy/predicate"
)

// Rule strategies.
const (
	StrategyField   = "field"
	StrategyMethod  = "method"
	StrategyFactory = "factory"
)

// FromConfig creates a builder from a declarative configuration. Base
// packages are taken as given; an empty list fails Build.
func FromConfig(cfg apis.Config, src apis.Source) *Builder {
	b := &Builder{order: cfg.Order, src: src, noDefaults: cfg.DisableDefaults}
	b.Logger(nil)
	for _, p := range cfg.BasePackages {
		if p != "" {
			b.packages = append(b.packages, p)
		}
	}

	namer, err := naming.ByName(cfg.Naming)
	if err != nil {
		b.errs = multierr.Append(b.errs, err)
	}
	b.namer = namer

	for i, r := range cfg.Rules {
		p, err := compile(r)
		if err != nil {
			b.errs = multierr.Append(b.errs, fmt.Errorf("legacy(builder): rule %d: %w", i, err))
			continue
		}
		b.add(p)
	}
	return b
}

// compile turns a rule into a pending filter.
func compile(r apis.Rule) (pending, error) {
	check, err := predicate.FromRule(r)
	if err != nil {
		return nil, err
	}
	scope, err := apis.ParseScope(r.Scope)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(r.Strategy)) {
	case StrategyField:
		if scope != apis.Singleton {
			return nil, fmt.Errorf("field rules are always singleton, got %s", scope)
		}
		return func(apis.Source) (apis.Filter, error) { return filter.Fields(check), nil }, nil
	case StrategyMethod:
		return func(apis.Source) (apis.Filter, error) { return filter.Methods(scope, check), nil }, nil
	case StrategyFactory:
		if r.Factory == "" {
			return nil, fmt.Errorf("%w: factory rule without factory type", ErrUnknownFactory)
		}
		return factory(r.Factory, scope, check), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", r.Strategy)
	}
}

// New returns an apis.Builder compiling configurations into registries.
func New() apis.Builder {
	return &configBuilder{}
}

// configBuilder is an empty struct to be used as a receiver for builder methods.
type configBuilder struct{}

// BuildRegistry compiles cfg into a classification registry over src.
func (configBuilder) BuildRegistry(cfg apis.Config, src apis.Source) (apis.Registry, error) {
	r, err := FromConfig(cfg, src).Registry()
	if err != nil {
		return nil, err
	}
	return r, nil
}
