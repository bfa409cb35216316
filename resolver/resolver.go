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

// Package resolver interprets bindings: it reads static fields and calls
// factory functions and methods to produce bean instances.
//
// Arguments of factory functions, and the receiver of instance factory
// methods, are resolved by type through an Args implementation. Chain
// combines several Args in order; the first one that resolves a type wins.
package resolver

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/legacy/apis"
)

var (
	// ErrUnresolved is returned by Args that cannot provide a value of the
	// requested type. Chain moves on to the next Args on this error.
	ErrUnresolved = errors.New("legacy(resolver): unresolved argument type")
	// ErrNotCallable is returned when a method member does not hold a function.
	ErrNotCallable = errors.New("legacy(resolver): member is not callable")
	// ErrPanicked is returned when a factory panics.
	ErrPanicked = errors.New("legacy(resolver): factory panicked")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Args resolves values by type.
type Args interface {
	ResolveType(t reflect.Type) (reflect.Value, error)
}

// ArgsFunc adapts a function to Args.
type ArgsFunc func(t reflect.Type) (reflect.Value, error)

// ResolveType calls f.
func (f ArgsFunc) ResolveType(t reflect.Type) (reflect.Value, error) { return f(t) }

// Chain returns Args trying each of args in order. Nil entries are ignored.
func Chain(args ...Args) Args {
	out := make([]Args, 0, len(args))
	for _, a := range args {
		if a != nil {
			out = append(out, a)
		}
	}
	return chain(out)
}

// chain is an immutable, order-preserving Args over a set of Args.
type chain []Args

// ResolveType runs the chain until one Args resolves t.
func (c chain) ResolveType(t reflect.Type) (reflect.Value, error) {
	for _, a := range c {
		v, err := a.ResolveType(t)
		if errors.Is(err, ErrUnresolved) {
			continue
		}
		return v, err
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnresolved, t)
}

// Values returns Args serving the given values by assignability, first
// match wins. Nil values are ignored.
func Values(vals ...any) Args {
	rvs := make([]reflect.Value, 0, len(vals))
	for _, v := range vals {
		if v != nil {
			rvs = append(rvs, reflect.ValueOf(v))
		}
	}
	return ArgsFunc(func(t reflect.Type) (reflect.Value, error) {
		for _, rv := range rvs {
			if rv.Type().AssignableTo(t) {
				return rv, nil
			}
		}
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnresolved, t)
	})
}

// Params returns the types Invoke expects for reg, in call order. Field
// bindings take none. Instance factory methods take their receiver first.
// A variadic tail is never requested.
func Params(reg *apis.Registration) ([]reflect.Type, error) {
	fn, err := accessor(reg)
	if err != nil {
		return nil, err
	}
	if reg.Binding.Kind == apis.FieldSingleton {
		return nil, nil
	}
	ft := fn.Type()
	n := ft.NumIn()
	if ft.IsVariadic() {
		n--
	}
	out := make([]reflect.Type, n)
	for i := range out {
		out[i] = ft.In(i)
	}
	return out, nil
}

// Invoke produces the instance for reg from already resolved arguments.
// It fails with a *apis.CreationError.
func Invoke(reg *apis.Registration, in []reflect.Value) (any, error) {
	v, err := accessor(reg)
	if err != nil {
		return nil, err
	}

	var out reflect.Value
	switch reg.Binding.Kind {
	case apis.FieldSingleton:
		out = v.Elem()
	default:
		out, err = call(v, in)
		if err != nil {
			return nil, fail(reg, err)
		}
	}
	if isNil(out) {
		return nil, fail(reg, apis.ErrNilInstance)
	}
	return out.Interface(), nil
}

// Instance resolves the arguments of reg through args and invokes it.
func Instance(reg *apis.Registration, args Args) (any, error) {
	params, err := Params(reg)
	if err != nil {
		return nil, err
	}
	in := make([]reflect.Value, len(params))
	for i, pt := range params {
		if args == nil {
			return nil, fail(reg, fmt.Errorf("%w: %s", ErrUnresolved, pt))
		}
		v, err := args.ResolveType(pt)
		if err != nil {
			return nil, fail(reg, fmt.Errorf("argument %d: %w", i, err))
		}
		in[i] = v
	}
	return Invoke(reg, in)
}

// accessor validates reg and returns the runtime handle of its member.
func accessor(reg *apis.Registration) (reflect.Value, error) {
	if reg == nil || reg.Binding == nil {
		return reflect.Value{}, fail(reg, apis.ErrNoBinding)
	}
	m := reg.Binding.Member
	if m.Visibility == apis.Private {
		return reflect.Value{}, fail(reg, apis.ErrInaccessible)
	}
	v := m.Value
	if !v.IsValid() {
		return reflect.Value{}, fail(reg, apis.ErrNoAccessor)
	}
	switch reg.Binding.Kind {
	case apis.FieldSingleton:
		if v.Kind() != reflect.Pointer || v.IsNil() {
			return reflect.Value{}, fail(reg, apis.ErrInaccessible)
		}
	case apis.MethodFactory, apis.ExternalFactoryMethod:
		if v.Kind() != reflect.Func || v.IsNil() {
			return reflect.Value{}, fail(reg, ErrNotCallable)
		}
	default:
		return reflect.Value{}, fail(reg, apis.ErrNoBinding)
	}
	return v, nil
}

// call invokes fn and splits a trailing error result.
func call(fn reflect.Value, in []reflect.Value) (out reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()

	res := fn.Call(in)
	if len(res) == 0 {
		return reflect.Value{}, ErrNotCallable
	}
	if last := res[len(res)-1]; len(res) > 1 && last.Type().Implements(errorType) && !last.IsNil() {
		return reflect.Value{}, last.Interface().(error)
	}
	return res[0], nil
}

// isNil reports whether v holds no usable instance.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// fail wraps err into a *apis.CreationError describing reg.
func fail(reg *apis.Registration, err error) error {
	ce := &apis.CreationError{Err: err}
	if reg != nil {
		ce.Bean = reg.Name
		ce.Type = reg.TypeName
		if reg.Binding != nil {
			ce.Member = reg.Binding.Member
		}
	}
	return ce
}
