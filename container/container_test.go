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

package container_test

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/container"
	"dirpx.dev/legacy/filter"
	"dirpx.dev/legacy/internal/legacytest"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/naming"
	"dirpx.dev/legacy/predicate"
	"dirpx.dev/legacy/registry"
	"dirpx.dev/legacy/scan"
)

type cycA struct{}
type cycB struct{}

func newCycA(*cycB) *cycA { return &cycA{} }
func newCycB(*cycA) *cycB { return &cycB{} }

// manual builds a registration bound to a factory function.
func manual(name string, fn any, scope apis.Scope) *apis.Registration {
	return &apis.Registration{
		Name:     name,
		TypeName: "test." + name,
		Scope:    scope,
		Lazy:     true,
		Binding: &apis.Binding{
			Kind:  apis.MethodFactory,
			Scope: scope,
			Member: apis.Member{
				Kind:       apis.MethodMember,
				Name:       name,
				Static:     true,
				Visibility: apis.Public,
				Value:      reflect.ValueOf(fn),
				RType:      reflect.TypeOf(fn).Out(0),
			},
		},
	}
}

// processor scans the fixtures with the given filters.
func processor(t *testing.T, order int, filters ...apis.Filter) *scan.Processor {
	t.Helper()
	r, err := registry.New(legacytest.NewCatalog(logger.Test(t)), logger.Test(t), filters...)
	require.NoError(t, err)
	p, err := scan.NewProcessor(r, naming.Short(), order, logger.Test(t), legacytest.Package)
	require.NoError(t, err)
	return p
}

func refreshed(t *testing.T, filters ...apis.Filter) *container.Container {
	t.Helper()
	c := container.New(logger.Test(t))
	c.AddProcessor(processor(t, apis.LowestPrecedence, filters...))
	require.NoError(t, c.Refresh())
	return c
}

func TestContainer_Singletons(t *testing.T) {
	c := refreshed(t,
		filter.Methods(apis.Singleton, predicate.Getter()),
		filter.Fields(predicate.Named("INSTANCE")),
	)

	byField, err := container.Resolve[*legacytest.ByField](c)
	require.NoError(t, err)
	assert.Same(t, legacytest.INSTANCE, byField)

	byMethod, err := container.Resolve[*legacytest.ByMethod](c)
	require.NoError(t, err)
	assert.Same(t, legacytest.GetInstance(), byMethod)

	a, err := c.Instance("legacytest.Both")
	require.NoError(t, err)
	b, err := c.Instance("legacytest.Both")
	require.NoError(t, err)
	assert.Same(t, a, b, "singleton is constructed once")
	assert.Equal(t, "method", a.(*legacytest.Both).Via)
}

func TestContainer_Prototypes(t *testing.T) {
	c := refreshed(t, filter.Methods(apis.Prototype, predicate.Prefixed("Create")))

	a, err := container.Resolve[*legacytest.Prototype](c)
	require.NoError(t, err)
	b, err := container.Resolve[*legacytest.Prototype](c)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestContainer_ExternalFactory(t *testing.T) {
	ft, ok := legacytest.NewCatalog(nil).Resolve(legacytest.FactoryName)
	require.True(t, ok)
	singletons, err := filter.Factory(ft, apis.Singleton, predicate.Prefixed("Get"))
	require.NoError(t, err)

	c := refreshed(t, singletons)
	w, err := container.Resolve[*legacytest.Widget](c)
	require.NoError(t, err)
	assert.Same(t, legacytest.GetWidget(), w)
}

func TestContainer_FactoryReceiverAndArguments(t *testing.T) {
	cat := legacytest.NewCatalog(nil)
	ft, ok := cat.Resolve(legacytest.FactoryName)
	require.True(t, ok)
	made, err := filter.Factory(ft, apis.Prototype, predicate.Named("NewWidget"))
	require.NoError(t, err)

	c := refreshed(t,
		made,
		filter.Methods(apis.Singleton, predicate.Prefixed("New")),
		filter.Fields(predicate.Named("INSTANCE")),
	)
	// The factory itself is a plain bean.
	factory := apis.NewRegistration(ft)
	factory.Name = "factory"
	require.NoError(t, c.RegisterBinding(factory))

	w, err := container.Resolve[*legacytest.Widget](c)
	require.NoError(t, err)
	assert.Equal(t, "-made", w.Kind)

	wp, err := container.Resolve[*legacytest.WithParams](c)
	require.NoError(t, err)
	assert.Same(t, legacytest.INSTANCE, wp.Dep)
}

func TestContainer_CreationFailureIsPerBean(t *testing.T) {
	c := refreshed(t,
		filter.Methods(apis.Singleton, predicate.Getter()),
		filter.Fields(predicate.Constant()),
	)

	_, err := container.Resolve[*legacytest.Failing](c)
	require.ErrorIs(t, err, legacytest.ErrFailing)
	var ce *apis.CreationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "legacytest.Failing", ce.Bean)
	assert.Equal(t, "GetFailing", ce.Member.Name)

	_, err = container.Resolve[*legacytest.ByMethod](c)
	require.NoError(t, err)
}

func TestContainer_EagerSingletons(t *testing.T) {
	var calls atomic.Int32
	reg := manual("eager", func() *legacytest.Plain {
		calls.Add(1)
		return &legacytest.Plain{Name: "eager"}
	}, apis.Singleton)
	reg.Lazy = false

	c := container.New(logger.Test(t))
	require.NoError(t, c.RegisterBinding(reg))
	require.NoError(t, c.RegisterBinding(manual("lazy", legacytest.CreateWidget, apis.Singleton)))
	require.NoError(t, c.Refresh())
	assert.EqualValues(t, 1, calls.Load())

	_, err := c.Instance("eager")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	require.ErrorIs(t, c.Refresh(), container.ErrAlreadyRefreshed)
}

// recorder records the order processors run in.
type recorder struct {
	order int
	name  string
	log   *[]string
}

func (r recorder) Order() int { return r.order }

func (r recorder) PostProcess(scan.BeanRegistry) error {
	*r.log = append(*r.log, r.name)
	return nil
}

func TestContainer_ProcessorOrder(t *testing.T) {
	var log []string
	c := container.New(nil)
	c.AddProcessor(recorder{order: apis.LowestPrecedence, name: "last", log: &log})
	c.AddProcessor(recorder{order: 5, name: "second", log: &log})
	c.AddProcessor(nil)
	c.AddProcessor(recorder{order: apis.HighestPrecedence, name: "first", log: &log})
	c.AddProcessor(recorder{order: 5, name: "third", log: &log})

	require.NoError(t, c.Refresh())
	assert.Equal(t, []string{"first", "second", "third", "last"}, log)
}

func TestContainer_RegistrationErrors(t *testing.T) {
	c := container.New(nil)
	require.ErrorIs(t, c.RegisterBinding(nil), container.ErrInvalidRegistration)
	require.ErrorIs(t, c.RegisterBinding(&apis.Registration{Name: "x"}), container.ErrInvalidRegistration)

	require.NoError(t, c.RegisterBinding(manual("widget", legacytest.GetWidget, apis.Singleton)))
	require.ErrorIs(t, c.RegisterBinding(manual("widget", legacytest.CreateWidget, apis.Singleton)), container.ErrDuplicateBean)

	assert.True(t, c.Contains("widget"))
	assert.True(t, c.ContainsType("test.widget"))
	assert.Equal(t, []string{"widget"}, c.Names())

	_, err := c.Instance("missing")
	require.ErrorIs(t, err, container.ErrBeanNotFound)
	_, err = container.Resolve[*legacytest.Plain](c)
	require.ErrorIs(t, err, container.ErrBeanNotFound)
}

func TestContainer_AmbiguousType(t *testing.T) {
	c := container.New(nil)
	require.NoError(t, c.RegisterBinding(manual("shared", legacytest.GetWidget, apis.Singleton)))
	require.NoError(t, c.RegisterBinding(manual("fresh", legacytest.CreateWidget, apis.Prototype)))

	_, err := container.Resolve[*legacytest.Widget](c)
	require.ErrorIs(t, err, container.ErrAmbiguousType)

	fresh, err := c.Instance("fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.(*legacytest.Widget).Kind)
}

func TestContainer_CircularDependency(t *testing.T) {
	c := container.New(nil)
	require.NoError(t, c.RegisterBinding(manual("a", newCycA, apis.Singleton)))
	require.NoError(t, c.RegisterBinding(manual("b", newCycB, apis.Prototype)))

	_, err := c.Instance("a")
	require.ErrorIs(t, err, container.ErrCircularDependency)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestContainer_ConcurrentCircularSingletons(t *testing.T) {
	c := container.New(nil)
	require.NoError(t, c.RegisterBinding(manual("a", newCycA, apis.Singleton)))
	require.NoError(t, c.RegisterBinding(manual("b", newCycB, apis.Singleton)))

	for range 50 {
		errs := make(chan error, 2)
		for _, name := range []string{"a", "b"} {
			go func() {
				_, err := c.Instance(name)
				errs <- err
			}()
		}
		for range 2 {
			select {
			case err := <-errs:
				require.ErrorIs(t, err, container.ErrCircularDependency)
			case <-time.After(5 * time.Second):
				t.Fatal("instance did not return")
			}
		}
	}

	_, err := c.Instance("b")
	require.ErrorIs(t, err, container.ErrCircularDependency)
	assert.Contains(t, err.Error(), "b -> a -> b")
}

func TestContainer_ConcurrentSingleton(t *testing.T) {
	var calls atomic.Int32
	c := container.New(nil)
	require.NoError(t, c.RegisterBinding(manual("counted", func() *legacytest.Plain {
		calls.Add(1)
		return &legacytest.Plain{}
	}, apis.Singleton)))

	wg := sync.WaitGroup{}
	results := make([]any, 32)
	wg.Add(len(results))
	for i := range results {
		go func() {
			defer wg.Done()
			v, err := c.Instance("counted")
			if err != nil {
				t.Errorf("instance: %v", err)
				return
			}
			results[i] = v
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
