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
	"reflect"
)

// MemberKind tells fields and methods apart.
type MemberKind int

const (
	// FieldMember is a variable: a package-level var attached to a type
	// (static) or a struct field (instance).
	FieldMember MemberKind = iota
	// MethodMember is a function: a package-level func attached to a type
	// (static) or a method (instance).
	MethodMember
)

// String returns the human-readable name of the member kind.
func (k MemberKind) String() string {
	switch k {
	case FieldMember:
		return "field"
	case MethodMember:
		return "method"
	default:
		return "unknown"
	}
}

// Visibility is the access level of a member as reported by its source.
type Visibility int

const (
	// Private members cannot be read or invoked from outside their declaring
	// type. Unexported struct fields are private.
	Private Visibility = iota
	// Package members are reachable from inside their package, which includes
	// accessors registered by that package.
	Package
	// Public members are exported.
	Public
)

// String returns the human-readable name of the visibility.
func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Package:
		return "package"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

// Member is the reflected metadata of a single field or method of a type.
// Members are produced by a Source and treated as immutable values.
type Member struct {
	// Kind is field or method.
	Kind MemberKind
	// Name is the declared identifier.
	Name string
	// Owner is the qualified name of the type whose member list holds this
	// member, i.e. the type being examined.
	Owner string
	// DeclaringType is the qualified name of the type that actually declares
	// the member. It differs from Owner for members promoted from an
	// embedded type.
	DeclaringType string
	// Static reports a package-level var or func attached to the type.
	Static bool
	// Visibility is the access level.
	Visibility Visibility
	// NumIn is the number of parameters of a method, receiver excluded.
	NumIn int
	// ValueType is the qualified name of the field type, or of the first
	// result of a method.
	ValueType string
	// RType is the runtime type behind ValueType. Nil for metadata-only sources.
	RType reflect.Type
	// Index is the position of the member in its source's declaration order.
	Index int
	// Value is the runtime handle of the member: a pointer to the variable for
	// static fields, the function for static methods and the method
	// expression (receiver first) for instance methods. The zero Value means
	// the source only knows metadata.
	Value reflect.Value
}

// IsField reports whether m is a field.
func (m Member) IsField() bool { return m.Kind == FieldMember }

// IsMethod reports whether m is a method.
func (m Member) IsMethod() bool { return m.Kind == MethodMember }

// IsZero reports whether m is the zero Member.
func (m Member) IsZero() bool { return m.Name == "" && m.Owner == "" }

// String renders m as "static field pkg.T.INSTANCE".
func (m Member) String() string {
	if m.IsZero() {
		return "<none>"
	}
	s := m.Kind.String() + " " + m.DeclaringType + "." + m.Name
	if m.Static {
		s = "static " + s
	}
	if m.IsMethod() {
		s += fmt.Sprintf("/%d", m.NumIn)
	}
	return s
}
