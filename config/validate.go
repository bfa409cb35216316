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

package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/builder"
	"dirpx.dev/legacy/naming"
	"dirpx.dev/legacy/predicate"
)

var (
	// ErrNoBasePackages is returned when a configuration names no base package.
	ErrNoBasePackages = errors.New("legacy(config): no base packages configured")
)

// Validate reports every problem of cfg that can be detected without a
// metadata source. Factory types are checked when the builder runs.
func Validate(cfg apis.Config) error {
	var errs error
	if len(cfg.BasePackages) == 0 {
		errs = multierr.Append(errs, ErrNoBasePackages)
	}
	if _, err := naming.ByName(cfg.Naming); err != nil {
		errs = multierr.Append(errs, err)
	}
	for i, r := range cfg.Rules {
		if err := validateRule(r); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("legacy(config): rule %d: %w", i, err))
		}
	}
	return errs
}

func validateRule(r apis.Rule) error {
	var errs error
	scope, err := apis.ParseScope(r.Scope)
	errs = multierr.Append(errs, err)
	if _, err := predicate.FromRule(r); err != nil {
		errs = multierr.Append(errs, err)
	}

	switch strings.ToLower(strings.TrimSpace(r.Strategy)) {
	case builder.StrategyField:
		if err == nil && scope != apis.Singleton {
			errs = multierr.Append(errs, fmt.Errorf("field rules are always singleton, got %s", scope))
		}
	case builder.StrategyMethod:
	case builder.StrategyFactory:
		if r.Factory == "" {
			errs = multierr.Append(errs, errors.New("factory rule without factory type"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown strategy %q", r.Strategy))
	}
	return errs
}
