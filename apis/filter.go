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

// Match is the outcome of classifying a type: the winning filter and the
// member it selected.
type Match struct {
	Filter Filter
	Member Member
}

// Filter is an access filter: a composed member predicate paired with one
// binding customization.
type Filter interface {
	// Kind returns the binding variant the filter produces.
	Kind() BindingKind
	// Match returns the first member of t, in declaration order, satisfying
	// the filter's predicate. It never fails.
	Match(t *Type) (Member, bool)
	// Apply attaches the filter's binding for m to reg.
	Apply(m Member, reg *Registration)
	// String describes the filter for logs.
	String() string
}
