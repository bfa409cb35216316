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

// Package legacytest holds legacy-style types for tests: singletons exposed
// through package-level vars and funcs, a separate factory type, and a few
// types that must never qualify.
package legacytest

import (
	"errors"
	"reflect"
	"sync/atomic"

	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/meta"
)

// Package is the import path of this package.
const Package = "dirpx.dev/legacy/internal/legacytest"

// Qualified type names.
const (
	ByFieldName    = Package + ".ByField"
	ByMethodName   = Package + ".ByMethod"
	PrototypeName  = Package + ".Prototype"
	WidgetName     = Package + ".Widget"
	FactoryName    = Package + ".WidgetFactory"
	PrivateName    = Package + ".Private"
	PlainName      = Package + ".Plain"
	InheritingName = Package + ".Inheriting"
	BothName       = Package + ".Both"
	ServiceName    = Package + ".Service"
	BrokenName     = Package + ".Broken"
	WithParamsName = Package + ".WithParams"
	FailingName    = Package + ".Failing"
)

// ByField is a singleton exposed through a static field.
type ByField struct{ ID string }

// INSTANCE is the ByField singleton.
var INSTANCE = &ByField{ID: "by-field"}

// ByMethod is a singleton exposed through a getter.
type ByMethod struct{ ID string }

var byMethod = &ByMethod{ID: "by-method"}

// GetInstance returns the ByMethod singleton.
func GetInstance() *ByMethod { return byMethod }

// Prototype is created anew by Create.
type Prototype struct{ Seq int64 }

var prototypeSeq atomic.Int64

// Create returns a new Prototype.
func Create() *Prototype { return &Prototype{Seq: prototypeSeq.Add(1)} }

// Widget is minted by WidgetFactory only.
type Widget struct{ Kind string }

// WidgetFactory is a legacy factory type for Widget.
type WidgetFactory struct{ Prefix string }

var sharedWidget = &Widget{Kind: "shared"}

// GetWidget returns the shared Widget.
func GetWidget() *Widget { return sharedWidget }

// CreateWidget returns a new Widget.
func CreateWidget() *Widget { return &Widget{Kind: "fresh"} }

// NewWidget is an instance factory method.
func (f *WidgetFactory) NewWidget() *Widget { return &Widget{Kind: f.Prefix + "-made"} }

// Private exposes its singleton through a private field only.
type Private struct{}

var privateInstance = &Private{}

// Plain has no static members.
type Plain struct{ Name string }

// Inheriting embeds ByField and therefore sees its statics as inherited.
type Inheriting struct {
	ByField
	Extra string
}

// Both qualifies through a field and a getter.
type Both struct{ Via string }

// BOTH is the field singleton of Both.
var BOTH = &Both{Via: "field"}

// GetBoth is the getter of Both.
func GetBoth() *Both { return &Both{Via: "method"} }

// Service is an interface: never a candidate.
type Service interface{ Serve() string }

// SERVICE is a Service singleton.
var SERVICE Service = serviceImpl{}

type serviceImpl struct{}

func (serviceImpl) Serve() string { return "served" }

// WithParams is produced by a function with a dependency.
type WithParams struct{ Dep *ByField }

// NewWithParams builds a WithParams from its dependency.
func NewWithParams(dep *ByField) *WithParams { return &WithParams{Dep: dep} }

// Failing has a getter that fails and a nil field.
type Failing struct{}

// ErrFailing is returned by GetFailing.
var ErrFailing = errors.New("legacytest: failing on purpose")

// GetFailing always fails.
func GetFailing() (*Failing, error) { return nil, ErrFailing }

// NILFAILING is never initialized.
var NILFAILING *Failing

// NewCatalog returns a catalog declaring every type of this package.
func NewCatalog(lggr logger.Logger) *meta.Catalog {
	c := meta.NewCatalog(lggr)
	c.MustDeclare(meta.TypeOf[ByField](), meta.Var("INSTANCE", &INSTANCE))
	c.MustDeclare(meta.TypeOf[ByMethod](), meta.Func("GetInstance", GetInstance))
	c.MustDeclare(meta.TypeOf[Prototype](), meta.Func("Create", Create))
	c.MustDeclare(meta.TypeOf[Widget]())
	c.MustDeclare(meta.TypeOf[WidgetFactory](),
		meta.Func("GetWidget", GetWidget),
		meta.Func("CreateWidget", CreateWidget),
	)
	c.MustDeclare(meta.TypeOf[Private](), meta.PrivateVar("INSTANCE", &privateInstance))
	c.MustDeclare(meta.TypeOf[Plain]())
	c.MustDeclare(meta.TypeOf[Inheriting]())
	c.MustDeclare(meta.TypeOf[Both](),
		meta.Var("BOTH", &BOTH),
		meta.Func("GetBoth", GetBoth),
	)
	c.MustDeclare(meta.TypeOf[Service](), meta.Var("SERVICE", &SERVICE))
	c.MustDeclare(meta.TypeOf[WithParams](), meta.Func("NewWithParams", NewWithParams))
	c.MustDeclare(meta.TypeOf[Failing](),
		meta.Func("GetFailing", GetFailing),
		meta.Var("NILFAILING", &NILFAILING),
	)
	if err := c.DeclareLazy(BrokenName, func() (reflect.Type, error) {
		return nil, errors.New("legacytest: optional dependency missing")
	}); err != nil {
		panic(err)
	}
	return c
}
