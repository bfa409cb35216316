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

// Predicate is a pure test over a single member.
type Predicate func(m Member) bool

// And returns a predicate that is true when p and every other predicate are
// true. Evaluation runs left to right and stops at the first false. Nil
// predicates are skipped.
func (p Predicate) And(others ...Predicate) Predicate {
	chain := make([]Predicate, 0, len(others)+1)
	if p != nil {
		chain = append(chain, p)
	}
	for _, o := range others {
		if o != nil {
			chain = append(chain, o)
		}
	}
	return func(m Member) bool {
		for _, c := range chain {
			if !c(m) {
				return false
			}
		}
		return true
	}
}

// Test evaluates p, treating a nil predicate as always true.
func (p Predicate) Test(m Member) bool {
	return p == nil || p(m)
}
