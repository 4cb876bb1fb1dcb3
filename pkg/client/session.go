// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

package client

import "sync"

// Profile is the public view of a user returned by the API.
type Profile struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// SessionStore holds the currently authenticated profile. Implementations
// must be safe for concurrent use.
type SessionStore interface {
	// Current returns the stored profile, or nil when logged out.
	Current() *Profile

	// Set replaces the stored profile and notifies subscribers.
	Set(p *Profile)

	// Clear removes the stored profile and notifies subscribers with nil.
	Clear()

	// Subscribe registers fn to be called on every change. The returned
	// function removes the subscription.
	Subscribe(fn func(*Profile)) (unsubscribe func())
}

// MemoryStore is an in-memory SessionStore.
type MemoryStore struct {
	mu          sync.Mutex
	current     *Profile
	subscribers map[int]func(*Profile)
	nextID      int
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subscribers: make(map[int]func(*Profile))}
}

// Current returns the stored profile, or nil when logged out.
func (s *MemoryStore) Current() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Set replaces the stored profile and notifies subscribers.
func (s *MemoryStore) Set(p *Profile) {
	s.mu.Lock()
	if p != nil {
		copied := *p
		s.current = &copied
	} else {
		s.current = nil
	}
	subs := s.snapshot()
	current := s.current
	s.mu.Unlock()

	for _, fn := range subs {
		fn(current)
	}
}

// Clear removes the stored profile and notifies subscribers with nil.
func (s *MemoryStore) Clear() {
	s.Set(nil)
}

// Subscribe registers fn to be called on every change.
func (s *MemoryStore) Subscribe(fn func(*Profile)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// snapshot copies the subscriber list. Caller must hold the lock.
func (s *MemoryStore) snapshot() []func(*Profile) {
	subs := make([]func(*Profile), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}
