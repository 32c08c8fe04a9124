package session

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Manager keeps live sessions by id and serializes work on each one.
// Concurrent requests for the same session run one at a time; different
// sessions run in parallel.
type Manager[T any] struct {
	mu       sync.Mutex
	sessions map[string]*entry[T]
	onEvict  func(id string, v T)
	now      func() time.Time
}

type entry[T any] struct {
	mu       sync.Mutex
	value    T
	lastUsed time.Time
	gone     bool
}

// NewManager returns an empty manager. onEvict, when non-nil, is called for
// every session removed by Delete or Cleanup.
func NewManager[T any](onEvict func(id string, v T)) *Manager[T] {
	return &Manager[T]{
		sessions: make(map[string]*entry[T]),
		onEvict:  onEvict,
		now:      time.Now,
	}
}

// Put registers v under id, replacing (and evicting) any previous session.
func (m *Manager[T]) Put(id string, v T) {
	m.mu.Lock()
	old, ok := m.sessions[id]
	m.sessions[id] = &entry[T]{value: v, lastUsed: m.now()}
	m.mu.Unlock()

	if ok {
		m.evict(id, old)
	}
}

// Get returns the session stored under id.
func (m *Manager[T]) Get(id string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// WithLock executes fn while holding the session's mutex.
func (m *Manager[T]) WithLock(id string, fn func(v T) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gone {
		return ErrNotFound
	}
	e.lastUsed = m.now()
	return fn(e.value)
}

// Delete removes the session under id. It waits for a running WithLock on the
// same id, so it must not be called from inside one.
func (m *Manager[T]) Delete(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.evict(id, e)
	return nil
}

// Len is the number of live sessions.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Cleanup removes sessions not used within maxAge to prevent memory leaks.
// It returns how many were removed.
func (m *Manager[T]) Cleanup(maxAge time.Duration) int {
	now := m.now()

	m.mu.Lock()
	var stale map[string]*entry[T]
	for id, e := range m.sessions {
		// Busy sessions are in use, so they are not idle.
		if !e.mu.TryLock() {
			continue
		}
		idle := now.Sub(e.lastUsed) > maxAge
		e.mu.Unlock()
		if !idle {
			continue
		}
		if stale == nil {
			stale = make(map[string]*entry[T])
		}
		stale[id] = e
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for id, e := range stale {
		m.evict(id, e)
	}
	return len(stale)
}

func (m *Manager[T]) evict(id string, e *entry[T]) {
	e.mu.Lock()
	e.gone = true
	e.mu.Unlock()

	if m.onEvict != nil {
		m.onEvict(id, e.value)
	}
}
