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

// Package predicate is the member predicate library: small, pure tests over
// a single apis.Member, composed with apis.Predicate.And.
package predicate

import (
	"regexp"
	"slices"
	"strings"

	"dirpx.dev/legacy/apis"
	uref "dirpx.dev/legacy/utils/reflect"
)

var (
	getters   = regexp.MustCompile(`^[gG]et[A-Z].+$`)
	constants = regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`)
)

// Any matches every member.
func Any() apis.Predicate {
	return func(apis.Member) bool { return true }
}

// Visible is true unless the member is private.
func Visible() apis.Predicate {
	return func(m apis.Member) bool { return m.Visibility != apis.Private }
}

// DeclaredOnOwner is true only for members declared by the examined type
// itself. Members promoted from embedded types are rejected.
func DeclaredOnOwner() apis.Predicate {
	return func(m apis.Member) bool { return m.DeclaringType == m.Owner }
}

// Static is true for package-level vars and funcs attached to a type.
func Static() apis.Predicate {
	return func(m apis.Member) bool { return m.Static }
}

// Kind is true for members of kind k.
func Kind(k apis.MemberKind) apis.Predicate {
	return func(m apis.Member) bool { return m.Kind == k }
}

// Named is true if the member name is exactly one of names.
func Named(names ...string) apis.Predicate {
	set := slices.Clone(names)
	return func(m apis.Member) bool { return slices.Contains(set, m.Name) }
}

// Matching is true if the whole member name matches re.
func Matching(re *regexp.Regexp) apis.Predicate {
	full := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	return func(m apis.Member) bool { return full.MatchString(m.Name) }
}

// Pattern compiles expr and returns a predicate matching whole names.
func Pattern(expr string) (apis.Predicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return Matching(re), nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr string) apis.Predicate {
	p, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Prefixed is true if the member name starts with prefix.
func Prefixed(prefix string) apis.Predicate {
	return func(m apis.Member) bool { return strings.HasPrefix(m.Name, prefix) }
}

// NoParams is true for fields and for methods without parameters.
func NoParams() apis.Predicate {
	return func(m apis.Member) bool { return m.NumIn == 0 }
}

// Getter is true for accessor-style methods: "get" (or the exported "Get")
// followed by an upper-case letter and at least one more character, with no
// parameters.
func Getter() apis.Predicate {
	return func(m apis.Member) bool {
		return m.IsMethod() && m.NumIn == 0 && getters.MatchString(m.Name)
	}
}

// Constant is true for constant-style names such as INSTANCE or DEFAULT_2.
func Constant() apis.Predicate {
	return func(m apis.Member) bool { return constants.MatchString(m.Name) }
}

// Returns is true when the member's value (field type or first result) can
// stand in for t. Runtime types are compared when both sides carry them,
// qualified names otherwise.
func Returns(t *apis.Type) apis.Predicate {
	return func(m apis.Member) bool {
		if t == nil {
			return false
		}
		if m.RType != nil && t.RType != nil {
			return uref.Assignable(m.RType, t.RType)
		}
		return m.ValueType != "" && m.ValueType == t.Name
	}
}

// Not negates p.
func Not(p apis.Predicate) apis.Predicate {
	return func(m apis.Member) bool { return !p.Test(m) }
}

// Or is true when any of ps is true. Evaluation stops at the first true.
func Or(ps ...apis.Predicate) apis.Predicate {
	return func(m apis.Member) bool {
		for _, p := range ps {
			if p != nil && p(m) {
				return true
			}
		}
		return false
	}
}

// All composes ps with And, starting from Any.
func All(ps ...apis.Predicate) apis.Predicate {
	return Any().And(ps...)
}
