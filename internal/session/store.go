// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"

	"github.com/bitum-chat/bitum-tui/internal/api"
)

// Phase is the lifecycle of an identity resolution.
type Phase int

const (
	// PhaseUnresolved means no resolution attempt has started.
	PhaseUnresolved Phase = iota
	// PhaseResolving means the "who am I" request is in flight.
	PhaseResolving
	// PhaseResolved means the attempt settled, with or without identity.
	PhaseResolved
)

// Identity is one published state of the store. User is nil until the
// phase reaches PhaseResolved with an authenticated session; consumers
// must not assume identity is available before then.
type Identity struct {
	Phase Phase
	User  *api.User
}

// Authenticated reports whether a logged-in user is known.
func (i Identity) Authenticated() bool {
	return i.Phase == PhaseResolved && i.User != nil
}

// Store broadcasts the current identity to consumers. Reads are
// unrestricted; writes happen only through the Guard.
type Store struct {
	mu      sync.RWMutex
	current Identity
	subs    []chan Identity
}

// NewStore creates a store in the unresolved state.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current identity state.
func (s *Store) Snapshot() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel that receives each published state change.
// The channel is buffered; a slow consumer sees the latest value, not a
// backlog.
func (s *Store) Subscribe() <-chan Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Identity, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// publish replaces the current value and notifies subscribers.
func (s *Store) publish(next Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	for _, ch := range s.subs {
		// Drop the stale pending value so the buffer always holds the
		// most recent state.
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
