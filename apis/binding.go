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

package apis

import (
	"fmt"
	"strings"
)

// Scope controls how many instances the container creates for a binding.
type Scope int

const (
	// Singleton means one shared instance per container.
	Singleton Scope = iota
	// Prototype means a new instance on every request.
	Prototype
)

// String returns the canonical lowercase name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope parses a scope name case-insensitively. An empty string is
// Singleton.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "singleton":
		return Singleton, nil
	case "prototype":
		return Prototype, nil
	default:
		return Singleton, fmt.Errorf("legacy: unknown scope %q", s)
	}
}

// BindingKind tags the variant of a Binding.
type BindingKind int

const (
	// FieldSingleton reads a static field once.
	FieldSingleton BindingKind = iota + 1
	// MethodFactory calls a static method of the bound type.
	MethodFactory
	// ExternalFactoryMethod calls a method of a separate factory type.
	ExternalFactoryMethod
)

// String returns the human-readable name of the binding kind.
func (k BindingKind) String() string {
	switch k {
	case FieldSingleton:
		return "field-singleton"
	case MethodFactory:
		return "method-factory"
	case ExternalFactoryMethod:
		return "external-factory-method"
	default:
		return "none"
	}
}

// Binding is the deferred construction contract attached to a registration.
// Exactly one variant is set: Factory is only meaningful for
// ExternalFactoryMethod.
type Binding struct {
	// Kind is the variant tag.
	Kind BindingKind
	// Member is the static field, or the method designated as factory.
	Member Member
	// Scope is the scope the binding was created for.
	Scope Scope
	// Factory is the factory type for ExternalFactoryMethod.
	Factory *Type
}

// String renders b for logs and reports.
func (b Binding) String() string {
	if b.Kind == ExternalFactoryMethod && b.Factory != nil {
		return fmt.Sprintf("%s(%s, %s, %s)", b.Kind, b.Factory.Name, b.Member.Name, b.Scope)
	}
	return fmt.Sprintf("%s(%s, %s)", b.Kind, b.Member.Name, b.Scope)
}

// Registration is a pending container registration for one discovered type.
// The scanner creates it, the winning filter mutates it once, the container
// consumes it.
type Registration struct {
	// Name is the bean name assigned by the scanner's namer.
	Name string
	// TypeName is the qualified name of the discovered type.
	TypeName string
	// Type is the resolved metadata, nil if the type was never resolved.
	Type *Type
	// Scope is singleton or prototype.
	Scope Scope
	// Lazy defers construction until first request.
	Lazy bool
	// Binding is the construction strategy; nil leaves construction to the
	// container's defaults.
	Binding *Binding
}

// NewRegistration creates the scanner's default registration for t:
// singleton scope, no binding.
func NewRegistration(t *Type) *Registration {
	r := &Registration{Scope: Singleton}
	if t != nil {
		r.TypeName = t.Name
		r.Type = t
	}
	return r
}

// Customized reports whether a binding has been attached.
func (r *Registration) Customized() bool {
	return r != nil && r.Binding != nil
}

// LowestPrecedence is the default processor order: runs after every
// processor with an explicit order.
const LowestPrecedence = int(^uint(0) >> 1)

// HighestPrecedence runs before every other processor.
const HighestPrecedence = -LowestPrecedence - 1
