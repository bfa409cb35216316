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

// Package builder configures the classification registry and the scan
// processor fluently:
//
//	p, err := builder.Packages("example.com/legacy/billing").
//		Source(meta.Default()).
//		Singletons().Methods(predicate.Named("getInstance")).
//		Prototypes().Methods(predicate.Prefixed("create")).
//		Factory("example.com/legacy/billing.LedgerFactory").Singletons(predicate.Getter()).
//		Build()
//
// Filters keep the order in which they are added. When none is added the
// defaults apply: getter-style static methods, then constant-style static
// fields, both as singletons.
package builder

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/filter"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/predicate"
	"dirpx.dev/legacy/registry"
	"dirpx.dev/legacy/scan"
	uref "dirpx.dev/legacy/utils/reflect"
)

var (
	// ErrNoPackages is returned when no base package was given and the
	// caller's package could not be determined.
	ErrNoPackages = errors.New("legacy(builder): no base packages")
	// ErrNoSource is returned when no metadata source was provided.
	ErrNoSource = errors.New("legacy(builder): no metadata source provided")
	// ErrUnknownFactory is returned when a factory type cannot be resolved.
	ErrUnknownFactory = errors.New("legacy(builder): factory type cannot be resolved")
)

// pending is a filter whose construction needs the source.
type pending func(src apis.Source) (apis.Filter, error)

// Builder accumulates configuration. Misuse is reported by Build.
type Builder struct {
	packages   []string
	src        apis.Source
	lggr       logger.Logger
	namer      apis.Namer
	order      int
	filters    []pending
	noDefaults bool
	errs       error
}

// Packages starts a builder scanning the given base packages. Without
// arguments the package of the caller is scanned.
func Packages(pkgs ...string) *Builder {
	b := &Builder{order: apis.LowestPrecedence, lggr: logger.Nop()}
	if len(pkgs) == 0 {
		if pkg, ok := uref.CallerPackage(1); ok {
			pkgs = []string{pkg}
		}
	}
	for _, p := range pkgs {
		if p != "" {
			b.packages = append(b.packages, p)
		}
	}
	return b
}

// Source sets the metadata source.
func (b *Builder) Source(src apis.Source) *Builder {
	b.src = src
	return b
}

// Logger sets the logger of the registry and the scanner.
func (b *Builder) Logger(l logger.Logger) *Builder {
	b.lggr = logger.OrNop(l)
	return b
}

// BeanNaming sets the bean namer. Defaults to naming.Default.
func (b *Builder) BeanNaming(n apis.Namer) *Builder {
	b.namer = n
	return b
}

// Ordered sets the processor order; lower runs earlier. Defaults to
// apis.LowestPrecedence.
func (b *Builder) Ordered(order int) *Builder {
	b.order = order
	return b
}

// WithoutDefaults keeps an empty filter list empty.
func (b *Builder) WithoutDefaults() *Builder {
	b.noDefaults = true
	return b
}

// Singletons adds singleton filters.
func (b *Builder) Singletons() SingletonRules { return SingletonRules{b: b} }

// Prototypes adds prototype filters.
func (b *Builder) Prototypes() PrototypeRules { return PrototypeRules{b: b} }

// Factory adds filters searching the named factory type.
func (b *Builder) Factory(typeName string) FactoryRules {
	return FactoryRules{b: b, typeName: typeName}
}

// Filter adds a prepared filter.
func (b *Builder) Filter(f apis.Filter) *Builder {
	if f == nil {
		b.errs = multierr.Append(b.errs, registry.ErrNilFilter)
		return b
	}
	return b.add(func(apis.Source) (apis.Filter, error) { return f, nil })
}

func (b *Builder) add(p pending) *Builder {
	b.filters = append(b.filters, p)
	return b
}

// SingletonRules adds singleton filters to a Builder.
type SingletonRules struct{ b *Builder }

// Fields binds types to one of their own static fields.
func (r SingletonRules) Fields(p apis.Predicate) *Builder {
	return r.b.add(func(apis.Source) (apis.Filter, error) { return filter.Fields(p), nil })
}

// Methods binds types to one of their own static functions, called once.
func (r SingletonRules) Methods(p apis.Predicate) *Builder {
	return r.b.add(func(apis.Source) (apis.Filter, error) { return filter.Methods(apis.Singleton, p), nil })
}

// PrototypeRules adds prototype filters to a Builder.
type PrototypeRules struct{ b *Builder }

// Methods binds types to one of their own static functions, called on
// every request.
func (r PrototypeRules) Methods(p apis.Predicate) *Builder {
	return r.b.add(func(apis.Source) (apis.Filter, error) { return filter.Methods(apis.Prototype, p), nil })
}

// FactoryRules adds factory filters to a Builder.
type FactoryRules struct {
	b        *Builder
	typeName string
}

// Singletons binds types to a factory method called once.
func (r FactoryRules) Singletons(p apis.Predicate) *Builder {
	return r.b.add(factory(r.typeName, apis.Singleton, p))
}

// Prototypes binds types to a factory method called on every request.
func (r FactoryRules) Prototypes(p apis.Predicate) *Builder {
	return r.b.add(factory(r.typeName, apis.Prototype, p))
}

func factory(typeName string, scope apis.Scope, p apis.Predicate) pending {
	return func(src apis.Source) (apis.Filter, error) {
		t, ok := src.Resolve(typeName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, typeName)
		}
		return filter.Factory(t, scope, p)
	}
}

// Defaults returns the default filters: getter-style static methods, then
// constant-style static fields, both singletons.
func Defaults() []apis.Filter {
	return []apis.Filter{
		filter.Methods(apis.Singleton, predicate.Getter()),
		filter.Fields(predicate.Constant()),
	}
}

// Registry builds the classification registry only.
func (b *Builder) Registry() (*registry.Registry, error) {
	errs := b.errs
	if b.src == nil {
		return nil, multierr.Append(errs, ErrNoSource)
	}

	filters := make([]apis.Filter, 0, len(b.filters))
	for _, p := range b.filters {
		f, err := p(b.src)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		filters = append(filters, f)
	}
	if errs != nil {
		return nil, errs
	}
	if len(filters) == 0 && !b.noDefaults {
		filters = Defaults()
	}

	r, err := registry.New(b.src, b.lggr, filters...)
	if err != nil {
		return nil, err
	}
	b.lggr.Debugw("registry built", "filters", len(filters), "defaults", len(b.filters) == 0 && !b.noDefaults)
	return r, nil
}

// Build validates the configuration and returns the scan processor.
// Configuration errors are combined.
func (b *Builder) Build() (*scan.Processor, error) {
	var errs error
	if len(b.packages) == 0 {
		errs = multierr.Append(errs, ErrNoPackages)
	}
	r, err := b.Registry()
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return scan.NewProcessor(r, b.namer, b.order, b.lggr, b.packages...)
}
