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

// Registry is the ordered classification registry. Insertion order is
// precedence order: for any type at most one filter is selected, the first
// that matches.
type Registry interface {
	// Classify returns the first (filter, member) pair matching t.
	Classify(t *Type) (Match, bool)
	// Include is the scanner's inclusion predicate. Types that cannot be
	// resolved are excluded.
	Include(ref TypeRef) bool
	// Customize applies the winning filter to reg. It returns false and
	// leaves reg untouched when nothing matches or reg already carries a
	// binding.
	Customize(reg *Registration) bool
	// Filters returns the filters in precedence order.
	Filters() []Filter
	// Source returns the metadata source types are resolved from.
	Source() Source
}
