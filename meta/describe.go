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

package meta

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"

	"dirpx.dev/legacy/apis"
	uref "dirpx.dev/legacy/utils/reflect"
)

var (
	// ErrNotPointer is returned when a static variable is not given as a
	// non-nil pointer.
	ErrNotPointer = errors.New("legacy(meta): static variable must be a non-nil pointer")
	// ErrNotFunc is returned when a static function is not a func value.
	ErrNotFunc = errors.New("legacy(meta): static function must be a non-nil func")
	// ErrBadResults is returned when a static function does not return
	// (T) or (T, error).
	ErrBadResults = errors.New("legacy(meta): static function must return (T) or (T, error)")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// static is a package-level var or func attached to a type.
type static struct {
	kind    apis.MemberKind
	name    string
	value   reflect.Value
	private bool
}

// Option attaches a static member to a declared type.
type Option func(*[]static)

// Var attaches the package-level variable behind ptr as static field name.
func Var(name string, ptr any) Option {
	return func(s *[]static) {
		*s = append(*s, static{kind: apis.FieldMember, name: name, value: reflect.ValueOf(ptr)})
	}
}

// PrivateVar is like Var but marks the field private.
func PrivateVar(name string, ptr any) Option {
	return func(s *[]static) {
		*s = append(*s, static{kind: apis.FieldMember, name: name, value: reflect.ValueOf(ptr), private: true})
	}
}

// Func attaches the package-level function fn as static method name.
// fn must return (T) or (T, error).
func Func(name string, fn any) Option {
	return func(s *[]static) {
		*s = append(*s, static{kind: apis.MethodMember, name: name, value: reflect.ValueOf(fn)})
	}
}

// PrivateFunc is like Func but marks the method private.
func PrivateFunc(name string, fn any) Option {
	return func(s *[]static) {
		*s = append(*s, static{kind: apis.MethodMember, name: name, value: reflect.ValueOf(fn), private: true})
	}
}

// validate checks the runtime shape of a static member.
func (s static) validate() error {
	switch s.kind {
	case apis.FieldMember:
		if !s.value.IsValid() || s.value.Kind() != reflect.Ptr || s.value.IsNil() {
			return fmt.Errorf("%w: %s", ErrNotPointer, s.name)
		}
	case apis.MethodMember:
		if !s.value.IsValid() || s.value.Kind() != reflect.Func || s.value.IsNil() {
			return fmt.Errorf("%w: %s", ErrNotFunc, s.name)
		}
		ft := s.value.Type()
		switch {
		case ft.NumOut() == 1:
		case ft.NumOut() == 2 && ft.Out(1).Implements(errorType):
		default:
			return fmt.Errorf("%w: %s", ErrBadResults, s.name)
		}
	}
	return nil
}

// member renders the static as a member of owner, declared by declaring.
func (s static) member(owner, declaring string, index int) apis.Member {
	m := apis.Member{
		Kind:          s.kind,
		Name:          s.name,
		Owner:         owner,
		DeclaringType: declaring,
		Static:        true,
		Visibility:    visibility(s.name, s.private),
		Index:         index,
		Value:         s.value,
	}
	if s.kind == apis.FieldMember {
		m.RType = s.value.Type().Elem()
	} else {
		ft := s.value.Type()
		m.NumIn = ft.NumIn()
		m.RType = ft.Out(0)
	}
	m.ValueType = uref.QualifiedName(m.RType)
	return m
}

// visibility maps a Go identifier to a visibility level.
func visibility(name string, private bool) apis.Visibility {
	switch {
	case private:
		return apis.Private
	case token.IsExported(name):
		return apis.Public
	default:
		return apis.Package
	}
}

// Describe builds the metadata of rt: statics first, in the order given,
// followed by the struct fields and methods found by reflection. Members
// promoted from embedded types keep the embedded type as declaring type.
func Describe(rt reflect.Type, opts ...Option) (*apis.Type, error) {
	return describe(rt, collect(opts), nil)
}

func collect(opts []Option) []static {
	var statics []static
	for _, o := range opts {
		if o != nil {
			o(&statics)
		}
	}
	return statics
}

// describe builds the metadata of rt. inherited returns the statics of an
// embedded type, if known.
func describe(rt reflect.Type, statics []static, inherited func(reflect.Type) []static) (*apis.Type, error) {
	base, err := uref.Normalize(rt)
	if err != nil {
		return nil, err
	}
	for _, s := range statics {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	name := uref.QualifiedName(base)
	t := &apis.Type{
		Name:      name,
		Package:   base.PkgPath(),
		Interface: base.Kind() == reflect.Interface,
		RType:     base,
	}

	for _, s := range statics {
		if s.kind == apis.FieldMember {
			t.Fields = append(t.Fields, s.member(name, name, len(t.Fields)))
		} else {
			t.Methods = append(t.Methods, s.member(name, name, len(t.Methods)))
		}
	}

	embedded := embeddedTypes(base)
	if inherited != nil {
		for _, e := range embedded {
			for _, s := range inherited(e) {
				en := uref.QualifiedName(e)
				if s.kind == apis.FieldMember {
					t.Fields = append(t.Fields, s.member(name, en, len(t.Fields)))
				} else {
					t.Methods = append(t.Methods, s.member(name, en, len(t.Methods)))
				}
			}
		}
	}

	if base.Kind() == reflect.Struct {
		t.Fields = appendFields(t.Fields, name, name, base, map[reflect.Type]bool{base: true})
	}
	t.Methods = appendMethods(t.Methods, name, base, embedded)
	return t, nil
}

// embeddedTypes returns the named types embedded directly in a struct.
func embeddedTypes(t reflect.Type) []reflect.Type {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous {
			continue
		}
		if et, err := uref.Normalize(sf.Type); err == nil {
			out = append(out, et)
		}
	}
	return out
}

// appendFields appends the instance fields of st, recursing into embedded
// structs. seen guards against embedding cycles through pointers.
func appendFields(dst []apis.Member, owner, declaring string, st reflect.Type, seen map[reflect.Type]bool) []apis.Member {
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		vis := apis.Private
		if sf.IsExported() {
			vis = apis.Public
		}
		dst = append(dst, apis.Member{
			Kind:          apis.FieldMember,
			Name:          sf.Name,
			Owner:         owner,
			DeclaringType: declaring,
			Visibility:    vis,
			ValueType:     uref.QualifiedName(sf.Type),
			RType:         sf.Type,
			Index:         len(dst),
		})
		if !sf.Anonymous {
			continue
		}
		et, err := uref.Normalize(sf.Type)
		if err != nil || et.Kind() != reflect.Struct || seen[et] {
			continue
		}
		seen[et] = true
		dst = appendFields(dst, owner, uref.QualifiedName(et), et, seen)
	}
	return dst
}

// appendMethods appends the exported methods of *t. A method also present
// on an embedded type is reported as declared by that type: reflection
// cannot tell an override from a promotion.
func appendMethods(dst []apis.Member, owner string, t reflect.Type, embedded []reflect.Type) []apis.Member {
	pt := reflect.PointerTo(t)
	if t.Kind() == reflect.Interface {
		pt = t
	}
	for i := 0; i < pt.NumMethod(); i++ {
		rm := pt.Method(i)
		declaring := owner
		for _, e := range embedded {
			et := e
			if e.Kind() != reflect.Interface {
				et = reflect.PointerTo(e)
			}
			if _, ok := et.MethodByName(rm.Name); ok {
				declaring = uref.QualifiedName(e)
				break
			}
		}

		m := apis.Member{
			Kind:          apis.MethodMember,
			Name:          rm.Name,
			Owner:         owner,
			DeclaringType: declaring,
			Visibility:    apis.Public,
			Index:         len(dst),
		}
		ft := rm.Type
		if t.Kind() != reflect.Interface {
			m.NumIn = ft.NumIn() - 1
			m.Value = rm.Func
		} else {
			m.NumIn = ft.NumIn()
		}
		if ft.NumOut() > 0 {
			m.RType = ft.Out(0)
			m.ValueType = uref.QualifiedName(m.RType)
		}
		dst = append(dst, m)
	}
	return dst
}
