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

// Package scan discovers legacy types in base packages and registers them
// with a bean registry, customized by a classification registry.
//
// Only types some filter matches become candidates; interfaces never do.
// Registrations are lazy by default. A type that is already registered is
// skipped, so overlapping base packages register each type once.
package scan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/naming"
	"dirpx.dev/legacy/registry"
)

var (
	// ErrNilRegistry is returned when no classification registry is provided.
	ErrNilRegistry = errors.New("legacy(scan): nil classification registry provided")
	// ErrNilTarget is returned when no bean registry is provided.
	ErrNilTarget = errors.New("legacy(scan): nil bean registry provided")
	// ErrNoName is returned when the namer produces no usable name.
	ErrNoName = errors.New("legacy(scan): namer produced no name")
)

// BeanRegistry receives the registrations produced by a scan.
type BeanRegistry interface {
	// RegisterBinding registers reg under reg.Name.
	RegisterBinding(reg *apis.Registration) error
	// Contains reports whether a bean name is in use.
	Contains(name string) bool
	// ContainsType reports whether a bean of the qualified type is registered.
	ContainsType(typeName string) bool
}

// Scanner walks base packages of a source.
type Scanner struct {
	registry *registry.Registry
	namer    apis.Namer
	lggr     logger.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithNamer sets the bean namer. Defaults to naming.Default.
func WithNamer(n apis.Namer) ScannerOption {
	return func(s *Scanner) {
		if n != nil {
			s.namer = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ScannerOption {
	return func(s *Scanner) { s.lggr = logger.OrNop(l) }
}

// NewScanner creates a Scanner classifying types with reg.
func NewScanner(reg *registry.Registry, opts ...ScannerOption) (*Scanner, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	s := &Scanner{registry: reg, namer: naming.Default(), lggr: logger.Nop()}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	s.lggr = s.lggr.Named("scan")
	return s, nil
}

// Scan registers every qualifying type below basePackages with target and
// returns the number of registrations. A registration target error fails
// only that type; all errors are returned combined.
func (s *Scanner) Scan(target BeanRegistry, basePackages ...string) (int, error) {
	if target == nil {
		return 0, ErrNilTarget
	}
	lggr := s.lggr.With("pass", uuid.NewString())
	pass := s.registry.NewPass(lggr)
	src := s.registry.Source()

	var (
		errs  error
		count int
		seen  = make(map[string]bool)
	)
	for _, base := range basePackages {
		refs := src.Scan(base)
		lggr.Debugw("scanning package", "package", base, "types", len(refs))
		for _, ref := range refs {
			if seen[ref.Name] || ref.Interface {
				continue
			}
			seen[ref.Name] = true
			if target.ContainsType(ref.Name) {
				lggr.Debugw("type already registered", "type", ref.Name)
				continue
			}
			if !pass.Include(ref) {
				continue
			}
			if err := s.register(lggr, target, pass, ref); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			count++
		}
	}
	lggr.Infow("scan finished", "packages", basePackages, "registered", count)
	return count, errs
}

func (s *Scanner) register(lggr logger.Logger, target BeanRegistry, pass *registry.Pass, ref apis.TypeRef) error {
	typ, _ := pass.Resolved(ref.Name)
	reg := apis.NewRegistration(typ)
	reg.TypeName = ref.Name
	reg.Lazy = true

	reg.Name = s.namer.Name(reg, target.Contains)
	if reg.Name == "" || target.Contains(reg.Name) {
		return fmt.Errorf("%w: %s", ErrNoName, ref.Name)
	}
	pass.Customize(reg)
	if err := target.RegisterBinding(reg); err != nil {
		return fmt.Errorf("legacy(scan): register %s: %w", ref.Name, err)
	}
	lggr.Debugw("registered bean", "bean", reg.Name, "type", reg.TypeName, "binding", reg.Binding)
	return nil
}
