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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"
)

// DefaultMaxUnwrap bounds pointer unwrapping. A value of 8 is sufficient
// for all practical purposes.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, func, []T).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
)

// Normalize unwraps pointers and returns the nearest named type, or an error
// if none is found. Slices, maps and channels are not unwrapped: a []T is not
// a T.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t.Kind() == reflect.Ptr && i < DefaultMaxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// QualifiedName returns "import/path.Name" for the nearest named type of t,
// with generic instantiation parameters stripped. Unnamed and builtin types
// fall back to t.String().
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	base, err := Normalize(t)
	if err != nil || base.PkgPath() == "" {
		return t.String()
	}
	return base.PkgPath() + "." + StripTypeParams(base.Name())
}

// Assignable reports whether a value of type from can stand in for type to:
// identical after pointer unwrapping, or assignable by Go rules.
func Assignable(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.AssignableTo(to) {
		return true
	}
	fb, err := Normalize(from)
	if err != nil {
		return false
	}
	tb, err := Normalize(to)
	if err != nil {
		return false
	}
	return fb == tb
}

// SplitName splits a qualified name into its package path and type name.
// "example.com/legacy/billing.Service" -> ("example.com/legacy/billing", "Service").
func SplitName(qualified string) (pkg, name string) {
	slash := strings.LastIndexByte(qualified, '/')
	dot := strings.IndexByte(qualified[slash+1:], '.')
	if dot < 0 {
		return "", qualified
	}
	dot += slash + 1
	return qualified[:dot], qualified[dot+1:]
}

// ShortName renders a qualified name as "pkg.Name" using the last element
// of the package path. Type parameters are dropped.
func ShortName(qualified string) string {
	pkg, name := SplitName(StripTypeParams(qualified))
	if pkg == "" {
		return name
	}
	return path.Base(pkg) + "." + name
}

// StripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func StripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// InPackage reports whether pkg equals base or lies below it.
func InPackage(pkg, base string) bool {
	base = strings.TrimSuffix(base, "/")
	return base == "" || pkg == base || strings.HasPrefix(pkg, base+"/")
}
