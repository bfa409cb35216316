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

// Package naming generates bean names for registrations.
//
// A namer may decline a registration by returning an empty string; Chain
// tries namers in order and the first usable name wins. Default never
// declines.
package naming

import (
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/legacy/apis"
	uref "dirpx.dev/legacy/utils/reflect"
)

// Named is implemented by types that choose their own bean name. The method
// is called on the zero value of the type.
type Named interface {
	BeanName() string
}

// Strategy names accepted by ByName.
const (
	StrategyDefault = "default"
	StrategyShort   = "short"
)

// Default returns the default namer: "<qualified type>#<n>" with the lowest
// n not yet taken.
func Default() apis.Namer {
	return apis.NamerFunc(func(reg *apis.Registration, taken func(string) bool) string {
		return unique(reg.TypeName+"#", 0, taken)
	})
}

// Short returns a namer producing "pkg.Type", suffixed with "#<n>" when the
// short name is already taken.
func Short() apis.Namer {
	return apis.NamerFunc(func(reg *apis.Registration, taken func(string) bool) string {
		name := uref.ShortName(reg.TypeName)
		if !isTaken(taken, name) {
			return name
		}
		return unique(name+"#", 1, taken)
	})
}

// Explicit returns a namer serving the names held by r. It declines types r
// does not know and names already taken.
func Explicit(r *Registry) apis.Namer {
	return apis.NamerFunc(func(reg *apis.Registration, taken func(string) bool) string {
		if r == nil {
			return ""
		}
		name, ok := r.Lookup(reg.TypeName)
		if !ok || isTaken(taken, name) {
			return ""
		}
		return name
	})
}

// SelfNamed returns a namer asking the type itself through Named. It
// declines types without runtime information or without the method.
func SelfNamed() apis.Namer {
	return apis.NamerFunc(func(reg *apis.Registration, taken func(string) bool) string {
		if reg.Type == nil || reg.Type.RType == nil || reg.Type.Interface {
			return ""
		}
		n, ok := reflect.New(reg.Type.RType).Interface().(Named)
		if !ok {
			return ""
		}
		name := n.BeanName()
		if isTaken(taken, name) {
			return ""
		}
		return name
	})
}

// Chain returns a namer trying each namer in order, falling back to
// Default. Nil namers are ignored.
func Chain(namers ...apis.Namer) apis.Namer {
	out := make([]apis.Namer, 0, len(namers)+1)
	for _, n := range namers {
		if n != nil {
			out = append(out, n)
		}
	}
	out = append(out, Default())
	return chain(out)
}

// chain is an immutable, order-preserving namer over a set of namers.
type chain []apis.Namer

// Name runs namers in order until one produces a free name.
func (c chain) Name(reg *apis.Registration, taken func(string) bool) string {
	for _, n := range c {
		if name := n.Name(reg, taken); name != "" && !isTaken(taken, name) {
			return name
		}
	}
	return ""
}

// ByName returns the namer registered under strategy, case-insensitively.
// An empty strategy is StrategyDefault.
func ByName(strategy string) (apis.Namer, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyDefault:
		return Default(), nil
	case StrategyShort:
		return Short(), nil
	default:
		return nil, fmt.Errorf("legacy(naming): unknown naming strategy %q", strategy)
	}
}

func unique(prefix string, from int, taken func(string) bool) string {
	for n := from; ; n++ {
		if name := fmt.Sprintf("%s%d", prefix, n); !isTaken(taken, name) {
			return name
		}
	}
}

func isTaken(taken func(string) bool, name string) bool {
	return taken != nil && taken(name)
}
