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

package gosrc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/filter"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/meta/gosrc"
	"dirpx.dev/legacy/predicate"
	"dirpx.dev/legacy/registry"
)

const module = "example.com/app"

var files = map[string]string{
	"shop/service.go": `package shop

import "time"

type Repo interface{ Find() }

type Service struct {
	Name  string
	cache map[string]int
	*Base
}

type Base struct{}

var INSTANCE = &Service{}

var fallback Service

func GetService() *Service { return INSTANCE }

type Clock struct{ at time.Time }

func NewClock(zone string, offset int) *Clock { return &Clock{} }

func (c *Clock) Now() time.Time { return c.at }

func (c *Clock) reset() {}
`,
	"shop/widget.go": `package shop

type Widget struct{}

type WidgetFactory struct{}

func (WidgetFactory) CreateWidget() *Widget { return &Widget{} }

func (WidgetFactory) GetWidget() *Widget { return &Widget{} }

func MakeWidget() *Widget { return &Widget{} }
`,
	"shop/shop_test.go": `package shop

type TestOnly struct{}
`,
	"shop/sub/thing.go": `package sub

type Thing struct{}

var DEFAULT = new(Thing)
`,
	"testdata/skipped.go": `package testdata

type Skipped struct{}
`,
}

func newSource(t *testing.T) *gosrc.Source {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	src, err := gosrc.New(dir, module, logger.Test(t))
	require.NoError(t, err)
	return src
}

func names(refs []apis.TypeRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}

func TestNew_Errors(t *testing.T) {
	_, err := gosrc.New(t.TempDir(), "", nil)
	assert.ErrorIs(t, err, gosrc.ErrNoModulePath)

	_, err = gosrc.New(filepath.Join(t.TempDir(), "missing"), module, nil)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	src := newSource(t)

	tests := []struct {
		name string
		base string
		want []string
	}{
		{
			name: "package and sub-packages",
			base: module + "/shop",
			want: []string{
				module + "/shop.Repo",
				module + "/shop.Service",
				module + "/shop.Base",
				module + "/shop.Clock",
				module + "/shop.Widget",
				module + "/shop.WidgetFactory",
				module + "/shop/sub.Thing",
			},
		},
		{
			name: "sub-package only",
			base: module + "/shop/sub",
			want: []string{module + "/shop/sub.Thing"},
		},
		{
			name: "parent of the module",
			base: "example.com",
			want: []string{
				module + "/shop.Repo",
				module + "/shop.Service",
				module + "/shop.Base",
				module + "/shop.Clock",
				module + "/shop.Widget",
				module + "/shop.WidgetFactory",
				module + "/shop/sub.Thing",
			},
		},
		{name: "outside the module", base: "example.org/other"},
		{name: "missing package", base: module + "/nowhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, namesOrNil(src.Scan(tt.base)))
		})
	}
}

func namesOrNil(refs []apis.TypeRef) []string {
	if len(refs) == 0 {
		return nil
	}
	return names(refs)
}

func TestScan_ReportsInterfaces(t *testing.T) {
	src := newSource(t)
	for _, ref := range src.Scan(module + "/shop") {
		assert.Equal(t, ref.Name == module+"/shop.Repo", ref.Interface, ref.Name)
		assert.NotEmpty(t, ref.Package)
	}
}

func TestResolve_Statics(t *testing.T) {
	src := newSource(t)

	typ, ok := src.Resolve(module + "/shop.Service")
	require.True(t, ok)
	assert.Equal(t, module+"/shop", typ.Package)
	assert.Nil(t, typ.RType)

	require.Len(t, typ.Fields, 5)
	inst := typ.Fields[0]
	assert.Equal(t, "INSTANCE", inst.Name)
	assert.True(t, inst.Static)
	assert.Equal(t, apis.Public, inst.Visibility)
	assert.Equal(t, module+"/shop.Service", inst.ValueType)
	assert.Equal(t, typ.Name, inst.Owner)
	assert.Equal(t, typ.Name, inst.DeclaringType)
	assert.False(t, inst.Value.IsValid())

	fb := typ.Fields[1]
	assert.Equal(t, "fallback", fb.Name)
	assert.Equal(t, apis.Package, fb.Visibility)

	assert.Equal(t, "Name", typ.Fields[2].Name)
	assert.False(t, typ.Fields[2].Static)
	assert.Equal(t, apis.Private, typ.Fields[3].Visibility)
	assert.Equal(t, "Base", typ.Fields[4].Name)
	assert.Equal(t, module+"/shop.Base", typ.Fields[4].ValueType)

	require.Len(t, typ.Methods, 1)
	get := typ.Methods[0]
	assert.Equal(t, "GetService", get.Name)
	assert.True(t, get.Static)
	assert.Zero(t, get.NumIn)
}

func TestResolve_Methods(t *testing.T) {
	src := newSource(t)

	clock, ok := src.Resolve(module + "/shop.Clock")
	require.True(t, ok)
	require.Len(t, clock.Methods, 2)
	assert.Equal(t, "NewClock", clock.Methods[0].Name)
	assert.Equal(t, 2, clock.Methods[0].NumIn)
	assert.True(t, clock.Methods[0].Static)
	assert.Equal(t, "Now", clock.Methods[1].Name)
	assert.False(t, clock.Methods[1].Static)
	assert.Equal(t, "time.Time", clock.Methods[1].ValueType)
	assert.Equal(t, 1, clock.Methods[1].Index)

	thing, ok := src.Resolve(module + "/shop/sub.Thing")
	require.True(t, ok)
	require.Len(t, thing.Fields, 1)
	assert.Equal(t, "DEFAULT", thing.Fields[0].Name)
}

func TestResolve_PackageFuncBelongsToResult(t *testing.T) {
	src := newSource(t)

	factory, ok := src.Resolve(module + "/shop.WidgetFactory")
	require.True(t, ok)
	require.Len(t, factory.Methods, 2)
	for _, m := range factory.Methods {
		assert.False(t, m.Static, m.Name)
		assert.NotEqual(t, "MakeWidget", m.Name)
	}

	widget, ok := src.Resolve(module + "/shop.Widget")
	require.True(t, ok)
	require.Len(t, widget.Methods, 1)
	assert.Equal(t, "MakeWidget", widget.Methods[0].Name)
	assert.True(t, widget.Methods[0].Static)

	ff, err := filter.Factory(factory, apis.Prototype, predicate.Prefixed("Make"))
	require.NoError(t, err)
	_, ok = ff.Match(widget)
	assert.False(t, ok)

	_, ok = filter.Methods(apis.Prototype, predicate.Prefixed("Make")).Match(widget)
	assert.True(t, ok)
}

func TestResolve_Unknown(t *testing.T) {
	src := newSource(t)
	for _, name := range []string{
		module + "/shop.Missing",
		module + "/shop.TestOnly",
		module + "/nowhere.Thing",
		"example.org/other.Thing",
	} {
		_, ok := src.Resolve(name)
		assert.False(t, ok, name)
	}
}

func TestClassifyFromSource(t *testing.T) {
	src := newSource(t)

	factory, ok := src.Resolve(module + "/shop.WidgetFactory")
	require.True(t, ok)
	ff, err := filter.Factory(factory, apis.Prototype, predicate.Prefixed("Create"))
	require.NoError(t, err)

	r, err := registry.New(src, logger.Test(t),
		filter.Methods(apis.Singleton, predicate.Getter()),
		filter.Fields(predicate.Constant()),
		ff,
	)
	require.NoError(t, err)

	tests := []struct {
		typ    string
		member string
		kind   apis.BindingKind
	}{
		{typ: "shop.Service", member: "GetService", kind: apis.MethodFactory},
		{typ: "shop/sub.Thing", member: "DEFAULT", kind: apis.FieldSingleton},
		{typ: "shop.Widget", member: "CreateWidget", kind: apis.ExternalFactoryMethod},
		{typ: "shop.Clock"},
		{typ: "shop.Repo"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			typ, ok := src.Resolve(module + "/" + tt.typ)
			require.True(t, ok)
			m, ok := r.Classify(typ)
			if tt.member == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.member, m.Member.Name)
			assert.Equal(t, tt.kind, m.Filter.Kind())
		})
	}
}
