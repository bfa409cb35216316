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

import "reflect"

// TypeRef is the cheap metadata a Source reports while scanning a package:
// enough for early eligibility checks, without resolving any member.
type TypeRef struct {
	// Name is the qualified type name ("import/path.Name").
	Name string
	// Package is the import path of the declaring package.
	Package string
	// Interface reports an interface type. Interfaces are never candidates.
	Interface bool
}

// Type is the resolved metadata of a type: its declared members in
// declaration order. Declaration order is whatever the Source exposes and is
// the tie-break whenever several members qualify.
type Type struct {
	// Name is the qualified type name ("import/path.Name").
	Name string
	// Package is the import path of the declaring package.
	Package string
	// Interface reports an interface type.
	Interface bool
	// RType is the runtime type. Nil for metadata-only sources.
	RType reflect.Type
	// Fields lists the declared fields, statics included.
	Fields []Member
	// Methods lists the declared methods, statics included.
	Methods []Member
}

// Ref returns the cheap metadata of t.
func (t *Type) Ref() TypeRef {
	return TypeRef{Name: t.Name, Package: t.Package, Interface: t.Interface}
}

// Members returns the fields or methods of t.
func (t *Type) Members(k MemberKind) []Member {
	if t == nil {
		return nil
	}
	if k == FieldMember {
		return t.Fields
	}
	return t.Methods
}

// Source supplies type metadata to the classification engine.
//
// Scan must be cheap and must not resolve members. Resolve is the fallible
// type-resolution step: a type that cannot be loaded yields (nil, false) and
// is treated as ineligible, never as an error.
type Source interface {
	// Scan returns the types declared in basePackage and its sub-packages.
	Scan(basePackage string) []TypeRef
	// Resolve returns the member metadata of the named type.
	Resolve(name string) (*Type, bool)
}
