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

// Package gosrc is a metadata-only apis.Source reading Go source files.
//
// Nothing is compiled or loaded, so members carry no runtime accessor: the
// source classifies types and reports bindings but cannot construct beans.
//
// Package-level variables and functions are attached, as static members,
// to the local type they hold or return (T or *T). Methods and struct
// fields are the type's instance members. A factory type therefore offers
// only its methods as factory members: a package-level "func NewT() *T"
// belongs to T, never to the factory. Declaration order follows file name
// order, then position in the file.
package gosrc

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	uref "dirpx.dev/legacy/utils/reflect"
)

var (
	// ErrNoModulePath is returned when a source is created without module path.
	ErrNoModulePath = errors.New("legacy(gosrc): empty module path provided")
)

// Source reads packages below a module root directory.
type Source struct {
	root   string
	module string
	lggr   logger.Logger

	mu   sync.Mutex
	pkgs map[string]*pkgInfo // import path -> parsed package
}

// Ensure Source implements apis.Source.
var _ apis.Source = (*Source)(nil)

// New creates a Source for the module rooted at dir, whose import path is
// modulePath.
func New(dir, modulePath string, lggr logger.Logger) (*Source, error) {
	if modulePath == "" {
		return nil, ErrNoModulePath
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("legacy(gosrc): %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("legacy(gosrc): %s is not a directory", dir)
	}
	return &Source{
		root:   dir,
		module: strings.TrimSuffix(modulePath, "/"),
		lggr:   logger.OrNop(lggr).Named("gosrc"),
		pkgs:   make(map[string]*pkgInfo),
	}, nil
}

// Scan returns the types declared in basePackage and its sub-packages.
func (s *Source) Scan(basePackage string) []apis.TypeRef {
	var out []apis.TypeRef
	for _, pkg := range s.packages(basePackage) {
		p := s.load(pkg)
		if p == nil {
			continue
		}
		for _, name := range p.order {
			ts := p.types[name]
			out = append(out, apis.TypeRef{Name: pkg + "." + name, Package: pkg, Interface: ts.iface})
		}
	}
	return out
}

// Resolve returns the member metadata of the named type.
func (s *Source) Resolve(name string) (*apis.Type, bool) {
	pkg, local := uref.SplitName(name)
	p := s.load(pkg)
	if p == nil {
		return nil, false
	}
	if _, ok := p.types[local]; !ok {
		return nil, false
	}
	return p.describe(local), true
}

// packages lists the import paths below base that exist on disk.
func (s *Source) packages(base string) []string {
	base = strings.TrimSuffix(base, "/")
	var start string
	switch {
	case uref.InPackage(base, s.module):
		start = filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(base, s.module)))
	case uref.InPackage(s.module, base):
		start = s.root
	default:
		return nil
	}

	var out []string
	_ = filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != start && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		pkg := s.module
		if rel != "." {
			pkg = path.Join(s.module, filepath.ToSlash(rel))
		}
		out = append(out, pkg)
		return nil
	})
	return out
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// load parses the package once. Packages without Go files yield nil.
func (s *Source) load(pkg string) *pkgInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pkgs[pkg]; ok {
		return p
	}

	var p *pkgInfo
	if uref.InPackage(pkg, s.module) {
		dir := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(pkg, s.module)))
		var err error
		p, err = parsePackage(dir, pkg)
		if err != nil {
			s.lggr.Debugw("package not parsed", "package", pkg, "err", err)
			p = nil
		}
	}
	s.pkgs[pkg] = p
	return p
}

// typeSpec is one declared type.
type typeSpec struct {
	iface   bool
	fields  []apis.Member
	methods []apis.Member
	statics []static
}

// static is a package-level var or func attached to a type.
type static struct {
	kind  apis.MemberKind
	name  string
	numIn int
	value string // qualified value type
}

// pkgInfo is the parsed metadata of one package.
type pkgInfo struct {
	path  string
	order []string
	types map[string]*typeSpec
}

func parsePackage(dir, pkg string) (*pkgInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasSuffix(n, ".go") || strings.HasSuffix(n, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, n))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files in %s", dir)
	}
	sort.Strings(files)

	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))
	for _, f := range files {
		af, err := parser.ParseFile(fset, f, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, af)
	}

	p := &pkgInfo{path: pkg, types: make(map[string]*typeSpec)}
	// Types first: statics and methods may precede their type.
	for _, af := range parsed {
		for _, decl := range af.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				p.addType(ts, imports(af))
			}
		}
	}

	funcs := make(map[string]string) // local func name -> qualified first result
	for _, af := range parsed {
		r := imports(af)
		for _, decl := range af.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || fd.Type.Results == nil || len(fd.Type.Results.List) == 0 {
				continue
			}
			funcs[fd.Name.Name] = p.qualify(fd.Type.Results.List[0].Type, r)
		}
	}

	for _, af := range parsed {
		r := imports(af)
		for _, decl := range af.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				p.addFunc(d, r)
			case *ast.GenDecl:
				if d.Tok == token.VAR {
					p.addVars(d, r, funcs)
				}
			}
		}
	}
	return p, nil
}

// imports maps the local names of a file's imports to import paths.
func imports(af *ast.File) map[string]string {
	out := make(map[string]string, len(af.Imports))
	for _, is := range af.Imports {
		ip, err := strconv.Unquote(is.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(ip)
		if is.Name != nil {
			name = is.Name.Name
		}
		out[name] = ip
	}
	return out
}

// qualify renders a type expression as a qualified name, pointers and type
// arguments dropped. Local identifiers are qualified even when declared
// later in the package. Unnamed types render as "".
func (p *pkgInfo) qualify(expr ast.Expr, imps map[string]string) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return p.qualify(e.X, imps)
	case *ast.ParenExpr:
		return p.qualify(e.X, imps)
	case *ast.IndexExpr:
		return p.qualify(e.X, imps)
	case *ast.IndexListExpr:
		return p.qualify(e.X, imps)
	case *ast.Ident:
		if isPredeclared(e.Name) {
			return e.Name
		}
		return p.path + "." + e.Name
	case *ast.SelectorExpr:
		if x, ok := e.X.(*ast.Ident); ok {
			if ip, ok := imps[x.Name]; ok {
				return ip + "." + e.Sel.Name
			}
			return x.Name + "." + e.Sel.Name
		}
	}
	return ""
}

func isPredeclared(name string) bool {
	switch name {
	case "bool", "byte", "complex64", "complex128", "error", "float32", "float64",
		"int", "int8", "int16", "int32", "int64", "rune", "string",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any", "comparable":
		return true
	}
	return false
}

// local returns the name of the local type a qualified name refers to.
func (p *pkgInfo) local(qualified string) (string, bool) {
	pkg, name := uref.SplitName(qualified)
	if pkg != p.path || p.types[name] == nil {
		return "", false
	}
	return name, true
}

func (p *pkgInfo) addType(ts *ast.TypeSpec, imps map[string]string) {
	name := ts.Name.Name
	spec := &typeSpec{}
	p.types[name] = spec
	p.order = append(p.order, name)

	switch t := ts.Type.(type) {
	case *ast.InterfaceType:
		spec.iface = true
	case *ast.StructType:
		for _, f := range t.Fields.List {
			ft := p.qualify(f.Type, imps)
			if len(f.Names) == 0 {
				// Embedded field: named after its type.
				spec.fields = append(spec.fields, apis.Member{
					Kind:       apis.FieldMember,
					Name:       embeddedName(f.Type),
					Visibility: fieldVisibility(embeddedName(f.Type)),
					ValueType:  ft,
				})
				continue
			}
			for _, n := range f.Names {
				spec.fields = append(spec.fields, apis.Member{
					Kind:       apis.FieldMember,
					Name:       n.Name,
					Visibility: fieldVisibility(n.Name),
					ValueType:  ft,
				})
			}
		}
	}
}

func unstar(expr ast.Expr) ast.Expr {
	for {
		s, ok := expr.(*ast.StarExpr)
		if !ok {
			return expr
		}
		expr = s.X
	}
}

func embeddedName(expr ast.Expr) string {
	switch e := unstar(expr).(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	}
	return ""
}

// fieldVisibility maps a struct field name: unexported fields are private.
func fieldVisibility(name string) apis.Visibility {
	if token.IsExported(name) {
		return apis.Public
	}
	return apis.Private
}

// staticVisibility maps a package-level name: unexported names stay
// reachable from their package.
func staticVisibility(name string) apis.Visibility {
	if token.IsExported(name) {
		return apis.Public
	}
	return apis.Package
}

func (p *pkgInfo) addFunc(fd *ast.FuncDecl, imps map[string]string) {
	numIn := 0
	for _, f := range fd.Type.Params.List {
		if len(f.Names) == 0 {
			numIn++
		} else {
			numIn += len(f.Names)
		}
	}
	var result string
	if fd.Type.Results != nil && len(fd.Type.Results.List) > 0 {
		result = p.qualify(fd.Type.Results.List[0].Type, imps)
	}

	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		owner := embeddedName(fd.Recv.List[0].Type)
		spec := p.types[owner]
		if spec == nil || !token.IsExported(fd.Name.Name) {
			return
		}
		spec.methods = append(spec.methods, apis.Member{
			Kind:       apis.MethodMember,
			Name:       fd.Name.Name,
			Visibility: apis.Public,
			NumIn:      numIn,
			ValueType:  result,
		})
		return
	}

	if owner, ok := p.local(result); ok {
		p.types[owner].statics = append(p.types[owner].statics, static{
			kind: apis.MethodMember, name: fd.Name.Name, numIn: numIn, value: result,
		})
	}
}

func (p *pkgInfo) addVars(gd *ast.GenDecl, imps map[string]string, funcs map[string]string) {
	for _, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		for i, n := range vs.Names {
			var value string
			switch {
			case vs.Type != nil:
				value = p.qualify(vs.Type, imps)
			case i < len(vs.Values):
				value = p.infer(vs.Values[i], imps, funcs)
			}
			if owner, ok := p.local(value); ok {
				p.types[owner].statics = append(p.types[owner].statics, static{
					kind: apis.FieldMember, name: n.Name, value: value,
				})
			}
		}
	}
}

// infer returns the type of simple initializers: T{}, &T{} and calls of
// local functions or conversions.
func (p *pkgInfo) infer(expr ast.Expr, imps map[string]string, funcs map[string]string) string {
	switch e := expr.(type) {
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return p.infer(e.X, imps, funcs)
		}
	case *ast.CompositeLit:
		if e.Type != nil {
			return p.qualify(e.Type, imps)
		}
	case *ast.CallExpr:
		if id, ok := e.Fun.(*ast.Ident); ok {
			if r, ok := funcs[id.Name]; ok {
				return r
			}
			if id.Name == "new" && len(e.Args) == 1 {
				return p.qualify(e.Args[0], imps)
			}
		}
		if pe, ok := e.Fun.(*ast.ParenExpr); ok {
			return p.qualify(pe.X, imps)
		}
	}
	return ""
}

// describe renders the metadata of a local type.
func (p *pkgInfo) describe(local string) *apis.Type {
	spec := p.types[local]
	name := p.path + "." + local
	t := &apis.Type{Name: name, Package: p.path, Interface: spec.iface}

	for _, s := range spec.statics {
		m := apis.Member{
			Kind:          s.kind,
			Name:          s.name,
			Owner:         name,
			DeclaringType: name,
			Static:        true,
			Visibility:    staticVisibility(s.name),
			NumIn:         s.numIn,
			ValueType:     s.value,
		}
		if s.kind == apis.FieldMember {
			m.Index = len(t.Fields)
			t.Fields = append(t.Fields, m)
		} else {
			m.Index = len(t.Methods)
			t.Methods = append(t.Methods, m)
		}
	}
	for _, f := range spec.fields {
		f.Owner, f.DeclaringType, f.Index = name, name, len(t.Fields)
		t.Fields = append(t.Fields, f)
	}
	for _, m := range spec.methods {
		m.Owner, m.DeclaringType, m.Index = name, name, len(t.Methods)
		t.Methods = append(t.Methods, m)
	}
	return t
}
