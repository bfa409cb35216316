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

// Package meta supplies type metadata to the classification engine.
//
// Go has no static members, so legacy packages attach their package-level
// singletons and factory functions to the type they produce by declaring
// them in a Catalog, typically from an init function:
//
//	func init() {
//	    meta.MustDeclare(meta.TypeOf[Billing](),
//	        meta.Var("INSTANCE", &INSTANCE),
//	        meta.Func("GetInstance", GetInstance),
//	    )
//	}
//
// Struct fields and methods are found by reflection. Members promoted from
// an embedded type (including the statics declared for that type) are
// reported with the embedded type as declaring type.
//
// Types that may fail to load, e.g. behind optional dependencies, are
// declared lazily; a failing loader makes the type unresolvable, which the
// engine treats as "not eligible".
package meta

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	uref "dirpx.dev/legacy/utils/reflect"
)

var (
	// ErrDuplicateType is returned when a type is declared twice.
	ErrDuplicateType = errors.New("legacy(meta): type already declared")
	// ErrEmptyName is returned when a lazy type is declared without a name.
	ErrEmptyName = errors.New("legacy(meta): empty type name provided")
)

// TypeOf returns the reflect.Type of T, interfaces included.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// entry is one declared type. Eager entries carry rt and statics; lazy
// entries carry load.
type entry struct {
	ref     apis.TypeRef
	rt      reflect.Type
	statics []static
	load    func() (reflect.Type, error)

	once sync.Once
	typ  *apis.Type
	err  error
}

// Catalog is an in-memory apis.Source. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	lggr    logger.Logger
}

// Ensure Catalog implements apis.Source.
var _ apis.Source = (*Catalog)(nil)

// NewCatalog creates an empty catalog. A nil logger discards output.
func NewCatalog(lggr logger.Logger) *Catalog {
	return &Catalog{
		entries: make(map[string]*entry),
		lggr:    logger.OrNop(lggr).Named("meta"),
	}
}

// Declare adds rt (pointers are unwrapped) with its static members.
func (c *Catalog) Declare(rt reflect.Type, opts ...Option) error {
	base, err := uref.Normalize(rt)
	if err != nil {
		return err
	}
	statics := collect(opts)
	for _, s := range statics {
		if err := s.validate(); err != nil {
			return err
		}
	}
	e := &entry{
		ref: apis.TypeRef{
			Name:      uref.QualifiedName(base),
			Package:   base.PkgPath(),
			Interface: base.Kind() == reflect.Interface,
		},
		rt:      base,
		statics: statics,
	}
	return c.add(e)
}

// MustDeclare is like Declare but panics on error.
func (c *Catalog) MustDeclare(rt reflect.Type, opts ...Option) {
	if err := c.Declare(rt, opts...); err != nil {
		panic(err)
	}
}

// DeclareLazy adds a type known by name whose runtime type is produced by
// load on first resolution. A load error makes the type unresolvable.
func (c *Catalog) DeclareLazy(name string, load func() (reflect.Type, error), opts ...Option) error {
	if name == "" {
		return ErrEmptyName
	}
	pkg, _ := uref.SplitName(name)
	e := &entry{
		ref:     apis.TypeRef{Name: name, Package: pkg},
		statics: collect(opts),
		load:    load,
	}
	return c.add(e)
}

func (c *Catalog) add(e *entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[e.ref.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, e.ref.Name)
	}
	c.entries[e.ref.Name] = e
	c.order = append(c.order, e.ref.Name)
	return nil
}

// Scan returns the declared types under basePackage in declaration order.
func (c *Catalog) Scan(basePackage string) []apis.TypeRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []apis.TypeRef
	for _, name := range c.order {
		e := c.entries[name]
		if uref.InPackage(e.ref.Package, basePackage) {
			out = append(out, e.ref)
		}
	}
	return out
}

// Resolve returns the metadata of the named type. The result is computed
// once per type.
func (c *Catalog) Resolve(name string) (*apis.Type, bool) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.once.Do(func() {
		rt := e.rt
		if e.load != nil {
			rt, e.err = e.load()
			if e.err != nil {
				return
			}
		}
		e.typ, e.err = describe(rt, e.statics, c.inherited)
		if e.err == nil && e.typ.Name != name {
			e.typ, e.err = nil, fmt.Errorf("legacy(meta): %s loaded as %s", name, e.typ.Name)
		}
	})
	if e.err != nil {
		c.lggr.Debugw("type not resolvable", "type", name, "err", e.err)
		return nil, false
	}
	return e.typ, true
}

// inherited returns the statics declared for an embedded type. Only eager
// entries are consulted so resolution never recurses.
func (c *Catalog) inherited(rt reflect.Type) []static {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[uref.QualifiedName(rt)]; ok && e.load == nil {
		return e.statics
	}
	return nil
}

// Names returns the declared type names in declaration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Len returns the number of declared types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// defaultCatalog is the process-wide catalog legacy packages declare into.
var defaultCatalog = NewCatalog(nil)

// Default returns the process-wide catalog.
func Default() *Catalog { return defaultCatalog }

// MustDeclare declares rt in the process-wide catalog and panics on error.
func MustDeclare(rt reflect.Type, opts ...Option) {
	defaultCatalog.MustDeclare(rt, opts...)
}
