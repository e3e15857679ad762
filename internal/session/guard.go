// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitum-chat/bitum-tui/internal/api"
)

// identityClient is the slice of the API client the guard needs.
type identityClient interface {
	CurrentUser(ctx context.Context) (*api.User, error)
}

// ResolvedMsg reports the outcome of the guard's single resolution
// attempt. Authenticated is false for every failure mode alike.
type ResolvedMsg struct {
	User          *api.User
	Authenticated bool
}

// Guard resolves the current identity once and gates the protected views.
type Guard struct {
	client    identityClient
	store     *Store
	attempted bool
}

// NewGuard creates a guard publishing into store.
func NewGuard(client identityClient, store *Store) *Guard {
	return &Guard{client: client, store: store}
}

// Store returns the identity store the guard publishes into.
func (g *Guard) Store() *Store {
	return g.store
}

// Resolve issues the one "who am I" request. The second and later calls
// return nil: one attempt per guard instance, success or not.
func (g *Guard) Resolve() tea.Cmd {
	if g.attempted {
		return nil
	}
	g.attempted = true
	g.store.publish(Identity{Phase: PhaseResolving})

	client := g.client
	return func() tea.Msg {
		user, err := client.CurrentUser(context.Background())
		if err != nil {
			// ok=false and transport failure collapse to the same
			// outcome: not logged in.
			return ResolvedMsg{Authenticated: false}
		}
		return ResolvedMsg{User: user, Authenticated: true}
	}
}

// Apply publishes a resolution outcome. It returns true when the caller
// must redirect to the login view (the fail-closed path).
func (g *Guard) Apply(msg ResolvedMsg) (redirect bool) {
	if msg.Authenticated {
		g.store.publish(Identity{Phase: PhaseResolved, User: msg.User})
		return false
	}
	g.store.publish(Identity{Phase: PhaseResolved, User: nil})
	return true
}
