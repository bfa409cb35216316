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

// Package digbind provides legacy bindings to a go.uber.org/dig container.
//
// A singleton binding is provided as a constructor of its instance type.
// Dig calls every constructor at most once, so a prototype binding is
// provided as a factory instead: consumers depend on func() (T, error) and
// call it for each new instance.
package digbind

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/resolver"
	"dirpx.dev/legacy/scan"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Provide provides reg to c. Factory arguments and receivers become
// constructor parameters resolved by dig.
func Provide(c *dig.Container, reg *apis.Registration, opts ...dig.ProvideOption) error {
	if reg == nil || reg.Binding == nil {
		return &apis.CreationError{Err: apis.ErrNoBinding}
	}
	params, err := resolver.Params(reg)
	if err != nil {
		return err
	}
	out := reg.Binding.Member.RType
	if out == nil {
		return &apis.CreationError{Bean: reg.Name, Type: reg.TypeName, Member: reg.Binding.Member, Err: apis.ErrNoAccessor}
	}

	if reg.Scope == apis.Prototype {
		return c.Provide(prototype(reg, params, out).Interface(), opts...)
	}
	return c.Provide(singleton(reg, params, out).Interface(), opts...)
}

// singleton returns func(params...) (out, error).
func singleton(reg *apis.Registration, params []reflect.Type, out reflect.Type) reflect.Value {
	ft := reflect.FuncOf(params, []reflect.Type{out, errorType}, false)
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		v, err := resolver.Invoke(reg, in)
		return results(out, v, err)
	})
}

// prototype returns func(params...) func() (out, error).
func prototype(reg *apis.Registration, params []reflect.Type, out reflect.Type) reflect.Value {
	factory := reflect.FuncOf(nil, []reflect.Type{out, errorType}, false)
	ft := reflect.FuncOf(params, []reflect.Type{factory}, false)
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		args := make([]reflect.Value, len(in))
		copy(args, in)
		return []reflect.Value{reflect.MakeFunc(factory, func([]reflect.Value) []reflect.Value {
			v, err := resolver.Invoke(reg, args)
			return results(out, v, err)
		})}
	})
}

// results converts an instance and an error to typed results.
func results(out reflect.Type, v any, err error) []reflect.Value {
	rv := reflect.New(out).Elem()
	if err != nil {
		return []reflect.Value{rv, reflect.ValueOf(&err).Elem()}
	}
	rv.Set(reflect.ValueOf(v))
	return []reflect.Value{rv, reflect.Zero(errorType)}
}

// FactoryOf returns the type a prototype of T is provided as.
func FactoryOf[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return reflect.FuncOf(nil, []reflect.Type{t, errorType}, false)
}

// Target is a scan.BeanRegistry providing every registration to a dig
// container.
type Target struct {
	c     *dig.Container
	named bool
	lggr  logger.Logger

	mu    sync.Mutex
	names map[string]string // bean name -> type name
}

// Ensure Target implements scan.BeanRegistry.
var _ scan.BeanRegistry = (*Target)(nil)

// Option configures a Target.
type Option func(*Target)

// WithNames provides every bean under its bean name (dig.Name) instead of
// as the unnamed value of its type.
func WithNames() Option {
	return func(t *Target) { t.named = true }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Target) { t.lggr = logger.OrNop(l) }
}

// NewTarget creates a Target over c.
func NewTarget(c *dig.Container, opts ...Option) *Target {
	t := &Target{c: c, lggr: logger.Nop(), names: make(map[string]string)}
	for _, o := range opts {
		if o != nil {
			o(t)
		}
	}
	t.lggr = t.lggr.Named("digbind")
	return t
}

// RegisterBinding provides reg to the container.
func (t *Target) RegisterBinding(reg *apis.Registration) error {
	if reg == nil {
		return &apis.CreationError{Err: apis.ErrNoBinding}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.names[reg.Name]; ok {
		return fmt.Errorf("legacy(digbind): duplicate bean name %q", reg.Name)
	}

	var opts []dig.ProvideOption
	if t.named {
		opts = append(opts, dig.Name(reg.Name))
	}
	if err := Provide(t.c, reg, opts...); err != nil {
		return err
	}
	t.names[reg.Name] = reg.TypeName
	t.lggr.Debugw("bean provided", "bean", reg.Name, "type", reg.TypeName, "scope", reg.Scope.String())
	return nil
}

// Contains reports whether a bean name was provided.
func (t *Target) Contains(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.names[name]
	return ok
}

// ContainsType reports whether a bean of the qualified type was provided.
func (t *Target) ContainsType(typeName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, tn := range t.names {
		if tn == typeName {
			return true
		}
	}
	return false
}
