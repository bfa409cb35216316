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

package naming

import (
	"errors"
	"sort"
	"sync"
)

var (
	// ErrEmptyType is returned when an empty type name is provided.
	ErrEmptyType = errors.New("legacy(naming): empty type name provided")
	// ErrEmptyName is returned when an empty bean name is provided.
	ErrEmptyName = errors.New("legacy(naming): empty name provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("legacy(naming): conflicting type registration")
)

// Entry is one explicit name assignment.
type Entry struct {
	// TypeName is the qualified type name.
	TypeName string
	// Name is the bean name.
	Name string
}

// Registry holds explicit bean names by qualified type name. It is safe for
// concurrent use.
type Registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps a qualified type name to its bean name.
	m sync.Map // map[string]string
	// count tracks the number of registered entries.
	count int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Register assigns name to the type. It is idempotent for the same
// (type, name) pair.
func (r *Registry) Register(typeName, name string) error {
	if typeName == "" {
		return ErrEmptyType
	}
	if name == "" {
		return ErrEmptyName
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(typeName); ok {
		if old.(string) == name {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(typeName); ok {
		if old.(string) == name {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(typeName, name)
	r.count++
	return nil
}

// Lookup returns the explicit name of a type if present.
func (r *Registry) Lookup(typeName string) (string, bool) {
	if v, ok := r.m.Load(typeName); ok {
		return v.(string), true
	}
	return "", false
}

// Entries returns a snapshot sorted by type name.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, Entry{TypeName: key.(string), Name: value.(string)})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].TypeName < entries[j].TypeName })
	return entries
}

// Count returns the number of registered entries.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries. Readers running concurrently see
// each entry either present or absent.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
