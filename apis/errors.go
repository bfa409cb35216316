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

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBinding is returned when a registration carries no binding.
	ErrNoBinding = errors.New("legacy: registration has no binding")
	// ErrNoAccessor is returned when a member is known only by metadata and
	// has no runtime handle.
	ErrNoAccessor = errors.New("legacy: member has no runtime accessor")
	// ErrInaccessible is returned when a member cannot be read or invoked.
	ErrInaccessible = errors.New("legacy: member is not accessible")
	// ErrNilInstance is returned when a field or factory yields nil.
	ErrNilInstance = errors.New("legacy: member produced a nil instance")
)

// CreationError reports a construction-time failure of one bean. It names
// the bean, its type and the member that could not be used.
type CreationError struct {
	// Bean is the bean name.
	Bean string
	// Type is the qualified name of the bound type.
	Type string
	// Member is the field or method that failed.
	Member Member
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *CreationError) Error() string {
	return fmt.Sprintf("legacy: cannot create bean %q of type %s using %s: %v", e.Bean, e.Type, e.Member, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CreationError) Unwrap() error { return e.Err }
