// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sort"
	"sync"
)

// Config describes the window a host should create.
type Config struct {
	// Width and Height are the initial client area size.
	Width, Height int

	// Title is the window title.
	Title string

	// Snapshot is a PNG path the first frame is written to.
	// Only honoured by the headless host.
	Snapshot string
}

// HostFactory creates a new Host with the given configuration.
type HostFactory func(cfg Config) (Host, error)

// RegistryEntry represents a registered host.
type RegistryEntry struct {
	// Name is the unique identifier for this host.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: windowed hosts
	//   - 10: headless hosts
	Priority int

	// Factory creates host instances.
	Factory HostFactory

	// Available reports if the host can run on this system,
	// for example whether a display is reachable.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered hosts.
//
// Host packages register themselves from init, so a program selects the
// hosts it supports by importing them:
//
//	import _ "github.com/gogpu/ggview/backend/ebiten"
//
//	h, err := surface.NewHost(surface.Config{Width: 800, Height: 600})
//	// or a specific host:
//	h, err := surface.NewHostByName("headless", cfg)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewHost.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a host to the global registry.
//
// If available is nil, the host is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory HostFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a host from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered host names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available hosts sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific host.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// NewHost creates a host using the best available entry.
func NewHost(cfg Config) (Host, error) {
	return globalRegistry.NewHost(cfg)
}

// NewHostByName creates a host using a specific entry.
func NewHostByName(name string, cfg Config) (Host, error) {
	return globalRegistry.NewHostByName(name, cfg)
}

// Register adds a host to this registry.
func (r *Registry) Register(name string, priority int, factory HostFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a host from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered host names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available hosts sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific host.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// NewHost creates a host using the best available entry. Entries whose
// factory fails are skipped; the last factory error is returned if none
// succeeds.
func (r *Registry) NewHost(cfg Config) (Host, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoHostAvailable
	}

	var lastErr error
	for _, name := range available {
		h, err := r.NewHostByName(name, cfg)
		if err == nil {
			return h, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// NewHostByName creates a host using a specific entry.
func (r *Registry) NewHostByName(name string, cfg Config) (Host, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &HostNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &HostUnavailableError{Name: name}
	}

	return entry.Factory(cfg)
}

// sortedNames returns host names sorted by priority (highest first), ties
// broken by name. If onlyAvailable is true, filters to available hosts only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoHostAvailable is returned when no hosts are registered or
	// available on the current system.
	ErrNoHostAvailable = errors.New("surface: no host available")
)

// HostNotFoundError indicates a named host is not registered.
type HostNotFoundError struct {
	Name string
}

func (e *HostNotFoundError) Error() string {
	return "surface: host not found: " + e.Name
}

// HostUnavailableError indicates a host exists but cannot run here.
type HostUnavailableError struct {
	Name string
}

func (e *HostUnavailableError) Error() string {
	return "surface: host unavailable: " + e.Name
}

// init registers the built-in headless host.
func init() {
	Register("headless", 10, func(cfg Config) (Host, error) {
		return NewHeadless(
			WithSize(cfg.Width, cfg.Height),
			WithSnapshot(cfg.Snapshot),
			WithFrameLimit(1),
		)
	}, nil)
}
