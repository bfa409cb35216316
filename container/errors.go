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

package container

import "errors"

var (
	// ErrBeanNotFound is returned when no bean matches a name or type.
	ErrBeanNotFound = errors.New("legacy(container): bean not found")
	// ErrDuplicateBean is returned when a bean name is registered twice.
	ErrDuplicateBean = errors.New("legacy(container): duplicate bean name")
	// ErrAmbiguousType is returned when several beans match a requested type.
	ErrAmbiguousType = errors.New("legacy(container): ambiguous bean type")
	// ErrCircularDependency is returned when constructing a bean requires
	// the bean itself. The error message includes the full chain.
	ErrCircularDependency = errors.New("legacy(container): circular dependency detected")
	// ErrInvalidRegistration is returned for registrations without a name
	// or type name.
	ErrInvalidRegistration = errors.New("legacy(container): invalid registration")
	// ErrAlreadyRefreshed is returned when Refresh is called twice.
	ErrAlreadyRefreshed = errors.New("legacy(container): container already refreshed")
)
