package config

import (
	"sync"
	"sync/atomic"
)

// Store holds the current configuration with atomic read/swap
// semantics, so a polling goroutine can pick up hot-reloaded values
// without locking.
type Store struct {
	value atomic.Pointer[Config]

	mu        sync.RWMutex
	listeners []func(old, updated *Config)
}

// NewStore creates a config store with the given initial value.
func NewStore(initial *Config) *Store {
	s := &Store{}
	s.value.Store(initial)
	return s
}

// Get returns the current config value (zero-lock read).
func (s *Store) Get() *Config {
	return s.value.Load()
}

// Swap atomically replaces the config and notifies all listeners.
func (s *Store) Swap(updated *Config) *Config {
	old := s.value.Swap(updated)

	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(old, updated)
	}
	return old
}

// OnChange registers a listener called whenever the config changes.
func (s *Store) OnChange(fn func(old, updated *Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
