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

// Package legacy registers legacy singletons and factories as container
// beans without touching their source.
//
// Legacy code often hands out shared instances through package-level
// variables (var INSTANCE = &Service{}) or accessor functions
// (func GetInstance() *Service), and produces fresh values through
// factory types. legacy discovers such types in configured base packages,
// decides for each one how instances are obtained and registers a lazy
// bean whose construction goes through that member.
//
// # Building blocks
//
//   - apis: the shared vocabulary. Members, types, bindings,
//     registrations, the Source interface that supplies type metadata and
//     the Filter / Registry / Builder contracts.
//
//   - meta: runtime metadata. A Catalog describes Go types through
//     reflection and attaches package-level vars and funcs to them.
//     meta/gosrc reads the same metadata from Go source without loading
//     anything, for reports and tooling.
//
//   - predicate: composable member predicates (names, patterns, getters,
//     constant-style names, parameter counts, visibility).
//
//   - filter: access filters. Fields binds a type to one of its static
//     fields, Methods designates a static function as factory method and
//     Factory searches a separate factory type.
//
//   - registry: the ordered classification registry. Filters are asked in
//     insertion order and the first match wins. It doubles as the
//     scanner's inclusion predicate and as the registration customizer.
//
//   - scan: walks base packages, names and registers every qualifying
//     type. naming provides the bean name strategies.
//
//   - builder and config: fluent and declarative (YAML, env) ways to
//     assemble registries and scan processors.
//
//   - resolver, container and digbind: bean construction. container is a
//     small bean registry with singleton and prototype scopes; digbind
//     provides the same registrations to go.uber.org/dig.
//
// # Global API
//
// This package keeps a process-wide snapshot of configuration, source,
// builder and registry:
//
//	legacy.SetSource(catalog)
//	legacy.SetConfig(cfg)
//	m, ok := legacy.Classify(typ)
//
// Reads load the snapshot atomically and never lock. Writers take a build
// mutex, derive a new snapshot and publish it; a failed rebuild leaves the
// previous snapshot in place. SetRegistry pins a registry so later
// reconfiguration does not replace it until UnpinRegistry.
//
// # Scope
//
// legacy classifies and binds. Dependency injection into the produced
// beans, lifecycle callbacks and proxying belong to the container that
// receives the registrations.
package legacy
