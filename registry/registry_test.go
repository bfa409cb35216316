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

package registry_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/filter"
	"dirpx.dev/legacy/internal/legacytest"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/predicate"
	"dirpx.dev/legacy/registry"
)

// countingSource counts Resolve calls.
type countingSource struct {
	apis.Source
	resolves atomic.Int64
}

func (s *countingSource) Resolve(name string) (*apis.Type, bool) {
	s.resolves.Add(1)
	return s.Source.Resolve(name)
}

func defaults() []apis.Filter {
	return []apis.Filter{
		filter.Methods(apis.Singleton, predicate.Getter()),
		filter.Fields(predicate.Constant()),
	}
}

func newRegistry(t *testing.T, filters ...apis.Filter) (*registry.Registry, apis.Source) {
	t.Helper()
	src := legacytest.NewCatalog(logger.Test(t))
	r, err := registry.New(src, logger.Test(t), filters...)
	require.NoError(t, err)
	return r, src
}

func TestNew_Errors(t *testing.T) {
	_, err := registry.New(nil, nil)
	require.ErrorIs(t, err, registry.ErrNilSource)

	_, err = registry.New(legacytest.NewCatalog(nil), nil, filter.Fields(nil), nil)
	require.ErrorIs(t, err, registry.ErrNilFilter)
}

func TestClassify(t *testing.T) {
	r, src := newRegistry(t, defaults()...)

	cases := []struct {
		name   string
		typ    string
		ok     bool
		kind   apis.BindingKind
		member string
	}{
		{"field_singleton", legacytest.ByFieldName, true, apis.FieldSingleton, "INSTANCE"},
		{"getter", legacytest.ByMethodName, true, apis.MethodFactory, "GetInstance"},
		{"plain", legacytest.PlainName, false, 0, ""},
		{"private_instance", legacytest.PrivateName, false, 0, ""},
		{"inherited_instance", legacytest.InheritingName, false, 0, ""},
		{"create_is_not_a_getter", legacytest.PrototypeName, false, 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ, ok := src.Resolve(tc.typ)
			require.True(t, ok)

			m, ok := r.Classify(typ)
			require.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.Nil(t, m.Filter)
				return
			}
			assert.Equal(t, tc.kind, m.Filter.Kind())
			assert.Equal(t, tc.member, m.Member.Name)
		})
	}

	_, ok := r.Classify(nil)
	assert.False(t, ok)
}

func TestClassify_EarlierFilterWins(t *testing.T) {
	fields := filter.Fields(predicate.Constant())
	methods := filter.Methods(apis.Singleton, predicate.Getter())

	r, src := newRegistry(t, fields, methods)
	both, ok := src.Resolve(legacytest.BothName)
	require.True(t, ok)

	m, ok := r.Classify(both)
	require.True(t, ok)
	assert.Same(t, fields, m.Filter)
	assert.Equal(t, "BOTH", m.Member.Name)

	r, _ = newRegistry(t, methods, fields)
	m, ok = r.Classify(both)
	require.True(t, ok)
	assert.Same(t, methods, m.Filter)
	assert.Equal(t, "GetBoth", m.Member.Name)
}

func TestClassify_Deterministic(t *testing.T) {
	r, src := newRegistry(t, defaults()...)
	typ, _ := src.Resolve(legacytest.BothName)

	first, ok := r.Classify(typ)
	require.True(t, ok)
	for range 10 {
		again, ok := r.Classify(typ)
		require.True(t, ok)
		assert.Same(t, first.Filter, again.Filter)
		assert.Equal(t, first.Member.Name, again.Member.Name)
	}
}

func TestEmptyRegistryClassifiesNothing(t *testing.T) {
	r, src := newRegistry(t)
	typ, _ := src.Resolve(legacytest.ByFieldName)

	_, ok := r.Classify(typ)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Filters())
}

func TestInclude(t *testing.T) {
	lggr, logs := logger.TestObserved(t, zapcore.DebugLevel)
	r, err := registry.New(legacytest.NewCatalog(logger.Test(t)), lggr, defaults()...)
	require.NoError(t, err)

	assert.True(t, r.Include(apis.TypeRef{Name: legacytest.ByFieldName}))
	assert.False(t, r.Include(apis.TypeRef{Name: legacytest.PlainName}))
	assert.False(t, r.Include(apis.TypeRef{Name: legacytest.ServiceName, Interface: true}))
	assert.False(t, r.Include(apis.TypeRef{Name: legacytest.BrokenName}))
	assert.False(t, r.Include(apis.TypeRef{}))

	entries := logs.FilterMessage("excluding unresolvable type").All()
	require.Len(t, entries, 1)
	assert.Equal(t, legacytest.BrokenName, entries[0].ContextMap()["type"])
}

func TestCustomize_ExactlyOnce(t *testing.T) {
	r, src := newRegistry(t, defaults()...)
	typ, _ := src.Resolve(legacytest.ByFieldName)

	reg := apis.NewRegistration(typ)
	reg.Name = "byField"
	require.True(t, r.Customize(reg))
	require.True(t, reg.Customized())
	assert.True(t, reg.Lazy)
	assert.Equal(t, apis.Singleton, reg.Scope)
	assert.Equal(t, apis.FieldSingleton, reg.Binding.Kind)

	before := *reg.Binding
	assert.False(t, r.Customize(reg))
	assert.Equal(t, before.Kind, reg.Binding.Kind)
	assert.Equal(t, before.Member.Name, reg.Binding.Member.Name)
}

func TestCustomize_NoMatchLeavesRegistrationUntouched(t *testing.T) {
	r, src := newRegistry(t, defaults()...)
	typ, _ := src.Resolve(legacytest.PlainName)

	reg := apis.NewRegistration(typ)
	assert.False(t, r.Customize(reg))
	assert.Nil(t, reg.Binding)
	assert.False(t, reg.Lazy)
	assert.Equal(t, apis.Singleton, reg.Scope)

	assert.False(t, r.Customize(nil))
}

func TestCustomize_ResolvesByName(t *testing.T) {
	r, _ := newRegistry(t, filter.Methods(apis.Prototype, predicate.Prefixed("Create")))

	reg := &apis.Registration{TypeName: legacytest.PrototypeName}
	require.True(t, r.Customize(reg))
	assert.Equal(t, apis.Prototype, reg.Scope)
	assert.Equal(t, "Create", reg.Binding.Member.Name)
}

func TestFilters_ReturnsCopy(t *testing.T) {
	r, src := newRegistry(t, defaults()...)
	fs := r.Filters()
	fs[0] = nil

	assert.NotNil(t, r.Filters()[0])
	assert.Same(t, src, r.Source())
}

func TestPass_MemoizesDecisions(t *testing.T) {
	src := &countingSource{Source: legacytest.NewCatalog(logger.Test(t))}
	r, err := registry.New(src, logger.Test(t), defaults()...)
	require.NoError(t, err)
	pass := r.NewPass(nil)

	ref := apis.TypeRef{Name: legacytest.ByMethodName}
	for range 5 {
		assert.True(t, pass.Include(ref))
	}
	reg := &apis.Registration{TypeName: legacytest.ByMethodName}
	require.True(t, pass.Customize(reg))
	require.NotNil(t, reg.Type)
	assert.Equal(t, "GetInstance", reg.Binding.Member.Name)

	assert.False(t, pass.Customize(reg))
	assert.Equal(t, int64(1), src.resolves.Load())
	assert.Equal(t, 1, pass.Count())

	typ, ok := pass.Resolved(legacytest.ByMethodName)
	require.True(t, ok)
	assert.Same(t, reg.Type, typ)

	_, ok = pass.Resolved(legacytest.PlainName)
	assert.False(t, ok)
}

func TestPass_ClassifiesGivenType(t *testing.T) {
	const name = "example.com/handmade.Thing"
	typ := &apis.Type{
		Name:    name,
		Package: "example.com/handmade",
		Fields: []apis.Member{{
			Kind:          apis.FieldMember,
			Name:          "INSTANCE",
			Owner:         name,
			DeclaringType: name,
			Static:        true,
			Visibility:    apis.Public,
			ValueType:     name,
		}},
	}
	src := &countingSource{Source: legacytest.NewCatalog(logger.Test(t))}
	r, err := registry.New(src, logger.Test(t), filter.Fields(predicate.Named("INSTANCE")))
	require.NoError(t, err)

	want, ok := r.Classify(typ)
	require.True(t, ok)

	pass := r.NewPass(nil)
	got, ok := pass.Classify(typ)
	require.True(t, ok)
	assert.Equal(t, want.Member.Name, got.Member.Name)
	assert.Zero(t, src.resolves.Load())

	reg := &apis.Registration{TypeName: name, Type: typ}
	require.True(t, pass.Customize(reg))
	assert.Equal(t, "INSTANCE", reg.Binding.Member.Name)
	assert.Equal(t, 1, pass.Count())
}

func TestPass_LogsDecisions(t *testing.T) {
	lggr, logs := logger.TestObserved(t, zapcore.DebugLevel)
	r, _ := newRegistry(t, defaults()...)
	pass := r.NewPass(lggr)

	pass.Include(apis.TypeRef{Name: legacytest.ByFieldName})
	pass.Include(apis.TypeRef{Name: legacytest.PlainName})
	pass.Include(apis.TypeRef{Name: legacytest.ServiceName, Interface: true})
	pass.Include(apis.TypeRef{Name: legacytest.BrokenName})

	assert.Equal(t, 1, logs.FilterMessage("type qualifies").Len())
	assert.Equal(t, 1, logs.FilterMessage("type matches no filter").Len())
	assert.Equal(t, 1, logs.FilterMessage("excluding interface").Len())
	assert.Equal(t, 1, logs.FilterMessage("excluding unresolvable type").Len())

	q := logs.FilterMessage("type qualifies").All()[0].ContextMap()
	assert.Equal(t, "fields(singleton)", q["filter"])
	assert.Equal(t, "INSTANCE", q["member"])
}
