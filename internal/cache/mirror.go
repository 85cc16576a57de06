package cache

import (
	"sync"
	"time"
)

// Mirror is a per-user copy of remote rows kept in sync with writes.
// Optimistic writes go through Apply and are settled with Confirm or
// Rollback; a settle only lands while no newer write has touched the key.
type Mirror[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	clone   func(T) T
	now     func() time.Time
}

type entry[T any] struct {
	value     T
	present   bool
	version   uint64
	fetchedAt time.Time
}

// Snapshot is the value a key held before an optimistic write
type Snapshot[T any] struct {
	Key     string
	Value   T
	Present bool
	version uint64
}

// NewMirror creates an empty mirror. clone copies values on the way in and
// out so callers never share memory with the mirror; nil means T is copied
// by assignment.
func NewMirror[T any](clone func(T) T) *Mirror[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Mirror[T]{
		entries: make(map[string]*entry[T]),
		clone:   clone,
		now:     time.Now,
	}
}

// Get returns the cached value and whether the key has been populated
func (m *Mirror[T]) Get(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !e.present {
		var zero T
		return zero, false
	}
	return m.clone(e.value), true
}

// GetFresh is Get limited to values set within ttl
func (m *Mirror[T]) GetFresh(key string, ttl time.Duration) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !e.present || m.now().Sub(e.fetchedAt) > ttl {
		var zero T
		return zero, false
	}
	return m.clone(e.value), true
}

// Set replaces the value for key with a confirmed server value
func (m *Mirror[T]) Set(key string, v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	e.version++
	e.value = m.clone(v)
	e.present = true
	e.fetchedAt = m.now()
}

// Clear drops the key entirely
func (m *Mirror[T]) Clear(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		// keep the version counter so outstanding snapshots go stale
		var zero T
		e.version++
		e.value = zero
		e.present = false
	}
}

// Apply writes v ahead of the remote call and returns what it replaced
func (m *Mirror[T]) Apply(key string, v T) Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(key)
	snap := Snapshot[T]{Key: key, Value: m.clone(e.value), Present: e.present}
	e.version++
	e.value = m.clone(v)
	e.present = true
	snap.version = e.version
	return snap
}

// Confirm replaces the optimistic value with the server's answer. It
// reports false when a newer write has landed since Apply.
func (m *Mirror[T]) Confirm(snap Snapshot[T], v T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[snap.Key]
	if !ok || e.version != snap.version {
		return false
	}
	e.value = m.clone(v)
	e.present = true
	e.fetchedAt = m.now()
	return true
}

// Rollback restores the snapshot unless a newer write has landed since Apply
func (m *Mirror[T]) Rollback(snap Snapshot[T]) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[snap.Key]
	if !ok || e.version != snap.version {
		return false
	}
	e.version++
	e.value = m.clone(snap.Value)
	e.present = snap.Present
	return true
}

func (m *Mirror[T]) entry(key string) *entry[T] {
	e, ok := m.entries[key]
	if !ok {
		e = &entry[T]{}
		m.entries[key] = e
	}
	return e
}
