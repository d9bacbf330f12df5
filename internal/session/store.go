// Package session provides an in-memory per-user session store.
//
// Unlike a single map guarded by one RWMutex, every user owns a dedicated
// mutex: the store-level lock is held only for the map lookup, and the
// session value is read and mutated under the user's own lock, so slow
// handlers for one user never serialize unrelated users.
package session

import "sync"

type entry[T any] struct {
	mu  sync.Mutex
	val *T
}

// Store keeps at most one session value per user ID.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[int64]*entry[T]
}

// NewStore constructs an empty per-user session store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[int64]*entry[T])}
}

// Do runs fn under the user's lock. fn receives the current session value
// (nil when the user has none) and returns the value to keep; returning nil
// removes the session. fn must not retain the pointer past the call.
func (s *Store[T]) Do(userID int64, fn func(cur *T) *T) {
	for {
		s.mu.Lock()
		e, ok := s.entries[userID]
		if !ok {
			e = &entry[T]{}
			s.entries[userID] = e
		}
		s.mu.Unlock()

		e.mu.Lock()
		// The entry may have been removed and replaced between the map
		// lookup and acquiring its lock; retry on a stale entry.
		s.mu.Lock()
		if s.entries[userID] != e {
			s.mu.Unlock()
			e.mu.Unlock()
			continue
		}
		s.mu.Unlock()

		e.val = fn(e.val)
		if e.val == nil {
			s.mu.Lock()
			delete(s.entries, userID)
			s.mu.Unlock()
		}
		e.mu.Unlock()
		return
	}
}

// Get returns a copy of the user's session value.
func (s *Store[T]) Get(userID int64) (T, bool) {
	var out T
	found := false
	s.Do(userID, func(cur *T) *T {
		if cur != nil {
			out = *cur
			found = true
		}
		return cur
	})
	return out, found
}

// Has reports whether the user currently owns a session.
func (s *Store[T]) Has(userID int64) bool {
	_, ok := s.Get(userID)
	return ok
}

// Put replaces the user's session value wholesale.
func (s *Store[T]) Put(userID int64, val T) {
	s.Do(userID, func(*T) *T { return &val })
}

// Delete removes the user's session if present.
func (s *Store[T]) Delete(userID int64) {
	s.Do(userID, func(*T) *T { return nil })
}

// Len reports the number of active sessions.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
