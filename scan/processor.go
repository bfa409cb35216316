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

package scan

import (
	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/logger"
	"dirpx.dev/legacy/registry"
)

// Processor is a registration-time processor: when run against a bean
// registry it scans its base packages and registers every qualifying
// type. Processors are ordered by Order, lower runs earlier.
type Processor struct {
	packages []string
	registry *registry.Registry
	namer    apis.Namer
	order    int
	lggr     logger.Logger
}

// NewProcessor creates a Processor. A nil namer means naming.Default.
func NewProcessor(reg *registry.Registry, namer apis.Namer, order int, lggr logger.Logger, packages ...string) (*Processor, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	pkgs := make([]string, len(packages))
	copy(pkgs, packages)
	return &Processor{
		packages: pkgs,
		registry: reg,
		namer:    namer,
		order:    order,
		lggr:     logger.OrNop(lggr),
	}, nil
}

// Order returns the processor's position among processors.
func (p *Processor) Order() int { return p.order }

// Packages returns the base packages.
func (p *Processor) Packages() []string {
	out := make([]string, len(p.packages))
	copy(out, p.packages)
	return out
}

// Registry returns the classification registry.
func (p *Processor) Registry() *registry.Registry { return p.registry }

// PostProcess scans the base packages into target.
func (p *Processor) PostProcess(target BeanRegistry) error {
	s, err := NewScanner(p.registry, WithNamer(p.namer), WithLogger(p.lggr))
	if err != nil {
		return err
	}
	_, err = s.Scan(target, p.packages...)
	return err
}
