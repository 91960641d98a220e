// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"fmt"
	"slices"
	"sync"
)

// RegistrationFunc installs the pack and unpack routines of a format. It is called at
// most once successfully per declared entry.
type RegistrationFunc func() error

// formatEntry is a declared format with its one-shot activation guard.
type formatEntry struct {
	register RegistrationFunc

	mu   sync.Mutex
	done bool
}

// activate runs register unless an earlier call succeeded. Concurrent callers wait for
// the running registration and observe its outcome.
func (f *formatEntry) activate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return nil
	}
	if err := f.register(); err != nil {
		return err
	}
	f.done = true
	return nil
}

// FormatRegistry maps format names to the function that teaches the archive subsystem
// about the format. Entries are never removed. It is safe for concurrent use.
type FormatRegistry struct {
	mu      sync.RWMutex
	entries map[string]*formatEntry
}

// NewFormatRegistry returns an empty registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{entries: map[string]*formatEntry{}}
}

// Declare records register under name and replaces an earlier declaration of the same
// name. An empty name or a nil function is ignored.
func (r *FormatRegistry) Declare(name string, register RegistrationFunc) {
	if name == "" || register == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &formatEntry{register: register}
}

// Activate runs the registration of name. It returns [ErrFormatUnknown] if nothing is
// declared under name. An error of the registration itself is returned unchanged and
// the entry stays inactive.
func (r *FormatRegistry) Activate(name string) error {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q is not declared", ErrFormatUnknown, name)
	}
	return entry.activate()
}

// Formats returns the declared format names in sorted order.
func (r *FormatRegistry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
