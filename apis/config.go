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

package apis

// Config carries the declarative configuration of a legacy scan.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// BasePackages are the package roots to scan.
	BasePackages []string `mapstructure:"base_packages" yaml:"base_packages"`

	// Order positions the processor relative to other registration-time
	// processors. Lower runs earlier.
	Order int `mapstructure:"order" yaml:"order"`

	// Naming selects the bean naming strategy: "default" or "short".
	Naming string `mapstructure:"naming" yaml:"naming"`

	// Rules are the access filters in precedence order. When empty the
	// default getter/constant rules apply unless DisableDefaults is set.
	Rules []Rule `mapstructure:"rules" yaml:"rules"`

	// DisableDefaults keeps an empty rule list empty.
	DisableDefaults bool `mapstructure:"disable_defaults" yaml:"disable_defaults"`
}

// Rule is the declarative form of one access filter.
// All name conditions that are set must hold.
type Rule struct {
	// Strategy is "field", "method" or "factory".
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	// Scope is "singleton" (default) or "prototype". Field rules are always
	// singleton.
	Scope string `mapstructure:"scope" yaml:"scope,omitempty"`
	// Factory is the qualified factory type name for factory rules.
	Factory string `mapstructure:"factory" yaml:"factory,omitempty"`
	// Names restricts members to an exact set of names.
	Names []string `mapstructure:"names" yaml:"names,omitempty"`
	// Pattern restricts member names to a full regular expression match.
	Pattern string `mapstructure:"pattern" yaml:"pattern,omitempty"`
	// Prefix restricts member names to a prefix.
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	// Getter restricts members to getter-style methods.
	Getter bool `mapstructure:"getter" yaml:"getter,omitempty"`
	// Constant restricts members to constant-style names.
	Constant bool `mapstructure:"constant" yaml:"constant,omitempty"`
}
