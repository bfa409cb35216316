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

// Package filter implements the access filters: one per binding strategy
// (static field, static method, external factory method).
//
// A Filter is plain data: a strategy tag, a scope, an optional factory type
// and the caller's predicate. Every filter always requires members to be
// visible and declared on the examined type; the caller's predicate is
// ANDed on top of that.
//
// Match returns the first qualifying member in the order the metadata
// source declares them. That order is the tie-break when several members
// qualify; no additional sorting takes place.
package filter

import (
	"errors"
	"fmt"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/predicate"
)

var (
	// ErrNilFactory is returned when a factory filter is created without a
	// resolved factory type.
	ErrNilFactory = errors.New("legacy(filter): nil factory type provided")
)

// Filter is an access filter. The zero value is not usable; use Fields,
// Methods or Factory.
type Filter struct {
	// kind is the binding variant produced by Apply.
	kind apis.BindingKind
	// scope is the scope of produced bindings.
	scope apis.Scope
	// factory is the factory type for ExternalFactoryMethod filters.
	factory *apis.Type
	// check is the caller's predicate.
	check apis.Predicate
}

// Ensure Filter implements apis.Filter.
var _ apis.Filter = (*Filter)(nil)

// Fields creates a filter binding types to one of their own static fields.
// Field bindings are always lazy singletons.
func Fields(check apis.Predicate) *Filter {
	return &Filter{kind: apis.FieldSingleton, scope: apis.Singleton, check: check}
}

// Methods creates a filter designating one of the type's own static
// functions as factory method, with the given scope.
func Methods(scope apis.Scope, check apis.Predicate) *Filter {
	return &Filter{kind: apis.MethodFactory, scope: scope, check: check}
}

// Factory creates a filter that searches the methods of a separate factory
// type for one returning the examined type. The examined type's own members
// are never consulted.
func Factory(factory *apis.Type, scope apis.Scope, check apis.Predicate) (*Filter, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &Filter{kind: apis.ExternalFactoryMethod, scope: scope, factory: factory, check: check}, nil
}

// Kind returns the binding variant the filter produces.
func (f *Filter) Kind() apis.BindingKind { return f.kind }

// Scope returns the scope of produced bindings.
func (f *Filter) Scope() apis.Scope { return f.scope }

// FactoryType returns the factory type, nil unless Kind is
// ExternalFactoryMethod.
func (f *Filter) FactoryType() *apis.Type { return f.factory }

// Match returns the first member qualifying for t.
func (f *Filter) Match(t *apis.Type) (apis.Member, bool) {
	if t == nil {
		return apis.Member{}, false
	}

	var (
		members []apis.Member
		guard   apis.Predicate
	)
	base := predicate.Visible().And(predicate.DeclaredOnOwner())
	switch f.kind {
	case apis.FieldSingleton:
		members = t.Fields
		guard = base.And(predicate.Static(), predicate.Returns(t))
	case apis.MethodFactory:
		members = t.Methods
		guard = base.And(predicate.Static(), predicate.Returns(t))
	case apis.ExternalFactoryMethod:
		members = f.factory.Methods
		guard = base.And(predicate.Returns(t))
	default:
		return apis.Member{}, false
	}
	check := guard.And(f.check)

	for _, m := range members {
		if check(m) {
			return m, true
		}
	}
	return apis.Member{}, false
}

// Apply attaches the filter's binding for m to reg. It never fails: a
// member that later proves unusable fails when the container constructs
// the bean.
func (f *Filter) Apply(m apis.Member, reg *apis.Registration) {
	if reg == nil {
		return
	}
	b := &apis.Binding{Kind: f.kind, Member: m, Scope: f.scope}
	switch f.kind {
	case apis.FieldSingleton:
		// A static field is read once: singleton regardless of configuration.
		b.Scope = apis.Singleton
	case apis.ExternalFactoryMethod:
		b.Factory = f.factory
	}
	reg.Scope = b.Scope
	reg.Lazy = true
	reg.Binding = b
}

// String describes the filter, e.g. "methods(prototype)".
func (f *Filter) String() string {
	switch f.kind {
	case apis.FieldSingleton:
		return "fields(singleton)"
	case apis.MethodFactory:
		return fmt.Sprintf("methods(%s)", f.scope)
	case apis.ExternalFactoryMethod:
		return fmt.Sprintf("factory(%s, %s)", f.factory.Name, f.scope)
	default:
		return "invalid"
	}
}
