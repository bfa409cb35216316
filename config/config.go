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
	"dirpx.dev/legacy/apis"
	"dirpx.dev/legacy/naming"
)

const (
	// DefaultOrder represents the default for Order.
	// The processor runs after every processor with an explicit order.
	DefaultOrder = apis.LowestPrecedence
	// DefaultNaming represents the default for Naming.
	DefaultNaming = naming.StrategyDefault
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure Naming is set.
	if cfg.Naming == "" {
		cfg.Naming = DefaultNaming
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
// It has no base packages and no rules, so the default rules apply.
func DefaultConfig() apis.Config {
	return apis.Config{
		Order:  DefaultOrder,
		Naming: DefaultNaming,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithBasePackages appends base packages.
func WithBasePackages(pkgs ...string) Option {
	return func(c *apis.Config) {
		c.BasePackages = append(c.BasePackages, pkgs...)
	}
}

// WithOrder sets the Order option.
func WithOrder(order int) Option {
	return func(c *apis.Config) {
		c.Order = order
	}
}

// WithNaming sets the Naming option.
// An empty value resets to the default.
func WithNaming(strategy string) Option {
	return func(c *apis.Config) {
		if strategy == "" {
			c.Naming = DefaultNaming
			return
		}
		c.Naming = strategy
	}
}

// WithRules appends rules in precedence order.
func WithRules(rules ...apis.Rule) Option {
	return func(c *apis.Config) {
		c.Rules = append(c.Rules, rules...)
	}
}

// WithoutDefaults keeps an empty rule list empty.
func WithoutDefaults() Option {
	return func(c *apis.Config) {
		c.DisableDefaults = true
	}
}
