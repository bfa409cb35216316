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

// Package container is a small bean container: it holds registrations by
// name, runs registration-time processors and constructs beans from their
// bindings.
//
// Singletons are constructed at most once, on first request, or during
// Refresh when the registration is not lazy. Prototypes are constructed on
// every request. Factory arguments and factory receivers are resolved by
// type among the registered beans:
//
//	c := container.New(lggr)
//	c.AddProcessor(processor)
//	if err := c.Refresh(); err != nil {
//		return err
//	}
//	svc, err := container.Resolve[*legacy.Service](c)
package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/enorith/supports/reflection"
	"go.uber.org/multierr"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/resolver"
	"dirpx.dev/legacy/scan"
)

// Processor runs against the container's registry during Refresh.
type Processor interface {
	// Order positions the processor; lower runs earlier.
	Order() int
	// PostProcess registers beans with target.
	PostProcess(target scan.BeanRegistry) error
}

// definition is one registered bean.
type definition struct {
	reg *apis.Registration
	// out is the type the binding produces, nil when unknown.
	out reflect.Type

	// mu serializes singleton construction.
	mu       sync.Mutex
	created  bool
	instance any
}

// Container holds bean definitions. It is safe for concurrent use.
type Container struct {
	mu         sync.RWMutex
	defs       map[string]*definition
	order      []string
	processors []Processor
	refreshed  bool
	lggr       logger.Logger
}

// Ensure Container implements scan.BeanRegistry.
var _ scan.BeanRegistry = (*Container)(nil)

// New creates an empty Container.
func New(lggr logger.Logger) *Container {
	return &Container{
		defs: make(map[string]*definition),
		lggr: logger.OrNop(lggr).Named("container"),
	}
}

// RegisterBinding registers reg under reg.Name.
func (c *Container) RegisterBinding(reg *apis.Registration) error {
	if reg == nil || reg.Name == "" || reg.TypeName == "" {
		return ErrInvalidRegistration
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.defs[reg.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBean, reg.Name)
	}
	c.defs[reg.Name] = &definition{reg: reg, out: produces(reg)}
	c.order = append(c.order, reg.Name)
	c.lggr.Debugw("bean registered", "bean", reg.Name, "type", reg.TypeName, "scope", reg.Scope.String(), "lazy", reg.Lazy)
	return nil
}

// produces returns the type of the instances built for reg.
func produces(reg *apis.Registration) reflect.Type {
	if reg.Binding != nil && reg.Binding.Member.RType != nil {
		return reg.Binding.Member.RType
	}
	if reg.Type != nil && reg.Type.RType != nil {
		return reflect.PointerTo(reg.Type.RType)
	}
	return nil
}

// Contains reports whether a bean name is in use.
func (c *Container) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.defs[name]
	return ok
}

// ContainsType reports whether a bean of the qualified type is registered.
func (c *Container) ContainsType(typeName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.defs {
		if d.reg.TypeName == typeName {
			return true
		}
	}
	return false
}

// Names returns the bean names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Registration returns the registration of the named bean.
func (c *Container) Registration(name string) (*apis.Registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.defs[name]
	if !ok {
		return nil, false
	}
	return d.reg, true
}

// AddProcessor adds a processor to run on Refresh.
func (c *Container) AddProcessor(p Processor) {
	if p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, p)
}

// Refresh runs the processors by ascending Order, then constructs every
// non-lazy singleton. Processor and construction errors are combined; a
// failing bean does not stop the others.
func (c *Container) Refresh() error {
	c.mu.Lock()
	if c.refreshed {
		c.mu.Unlock()
		return ErrAlreadyRefreshed
	}
	c.refreshed = true
	procs := make([]Processor, len(c.processors))
	copy(procs, c.processors)
	c.mu.Unlock()

	sort.SliceStable(procs, func(i, j int) bool { return procs[i].Order() < procs[j].Order() })

	var errs error
	for _, p := range procs {
		if err := p.PostProcess(c); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	for _, name := range c.Names() {
		reg, _ := c.Registration(name)
		if reg.Lazy || reg.Scope != apis.Singleton {
			continue
		}
		if _, err := c.Instance(name); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	c.lggr.Infow("container refreshed", "beans", len(c.Names()), "processors", len(procs))
	return errs
}

// Instance returns the named bean, constructing it if needed.
func (c *Container) Instance(name string) (any, error) {
	return c.instance(name, nil)
}

func (c *Container) instance(name string, stack []string) (any, error) {
	c.mu.RLock()
	d, ok := c.defs[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBeanNotFound, name)
	}

	if len(stack) == 0 {
		// Singleton locks are taken along dependency edges, so a cycle
		// must be refused before any of them is held.
		if err := c.checkCycle(name, nil, make(map[string]bool)); err != nil {
			return nil, err
		}
	}
	if err := circular(name, stack); err != nil {
		return nil, err
	}
	stack = append(stack, name)

	if d.reg.Scope == apis.Prototype {
		return c.create(d, stack)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.created {
		return d.instance, nil
	}
	v, err := c.create(d, stack)
	if err != nil {
		return nil, err
	}
	d.instance, d.created = v, true
	return v, nil
}

// checkCycle walks the dependency graph below name, following the
// parameter types of each binding. Unresolvable parameters are left for
// construction to report.
func (c *Container) checkCycle(name string, path []string, done map[string]bool) error {
	if err := circular(name, path); err != nil {
		return err
	}
	if done[name] {
		return nil
	}
	done[name] = true

	c.mu.RLock()
	d, ok := c.defs[name]
	c.mu.RUnlock()
	if !ok || d.reg.Binding == nil {
		return nil
	}
	params, err := resolver.Params(d.reg)
	if err != nil {
		return nil
	}
	path = append(path, name)
	for _, pt := range params {
		dep, err := c.lookupType(pt)
		if err != nil {
			continue
		}
		if err := c.checkCycle(dep, path, done); err != nil {
			return err
		}
	}
	return nil
}

func circular(name string, path []string) error {
	for _, s := range path {
		if s == name {
			return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(append(path[:len(path):len(path)], name), " -> "))
		}
	}
	return nil
}

// create builds a new instance of d. A registration without binding whose
// type is known is constructed as a pointer to the zero value.
func (c *Container) create(d *definition, stack []string) (any, error) {
	if reg := d.reg; reg.Binding == nil && reg.Type != nil && reg.Type.RType != nil && !reg.Type.Interface {
		c.lggr.Debugw("bean created", "bean", reg.Name, "scope", reg.Scope.String())
		return reflect.New(reg.Type.RType).Interface(), nil
	}
	v, err := resolver.Instance(d.reg, c.args(stack))
	if err != nil {
		c.lggr.Warnw("bean creation failed", "bean", d.reg.Name, "type", d.reg.TypeName, "err", err)
		return nil, err
	}
	c.lggr.Debugw("bean created", "bean", d.reg.Name, "scope", d.reg.Scope.String())
	return v, nil
}

// args resolves factory arguments among the registered beans.
func (c *Container) args(stack []string) resolver.Args {
	return resolver.ArgsFunc(func(t reflect.Type) (reflect.Value, error) {
		name, err := c.lookupType(t)
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := c.instance(name, stack)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	})
}

// lookupType returns the single bean whose instances are assignable to t.
func (c *Container) lookupType(t reflect.Type) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var found []string
	for _, name := range c.order {
		if out := c.defs[name].out; out != nil && out.AssignableTo(t) {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: [%s]", ErrBeanNotFound, reflection.TypeString(t))
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: [%s] matches %s", ErrAmbiguousType, reflection.TypeString(t), strings.Join(found, ", "))
	}
}

// GetByType returns the single bean assignable to t.
func (c *Container) GetByType(t reflect.Type) (any, error) {
	name, err := c.lookupType(t)
	if err != nil {
		return nil, err
	}
	return c.Instance(name)
}

// Resolve is a generic helper returning the single bean of type T:
//
//	svc, err := container.Resolve[*legacy.Service](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	v, err := c.GetByType(t)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("legacy(container): cannot convert %T to %s", v, t)
	}
	return out, nil
}
