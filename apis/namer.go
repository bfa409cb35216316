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

// Namer generates bean names for registrations.
type Namer interface {
	// Name returns a name for reg. taken reports names already in use in the
	// target bean registry; implementations must return a name for which
	// taken is false.
	Name(reg *Registration, taken func(name string) bool) string
}

// NamerFunc adapts a function to Namer.
type NamerFunc func(reg *Registration, taken func(name string) bool) string

// Name calls f.
func (f NamerFunc) Name(reg *Registration, taken func(string) bool) string {
	return f(reg, taken)
}
