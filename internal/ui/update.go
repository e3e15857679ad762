// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitum-chat/bitum-tui/internal/notify"
	"github.com/bitum-chat/bitum-tui/internal/session"
)

// Update is the root dispatcher. Cross-cutting messages (resize, quit,
// guard resolution, notifications, the event feed) are handled here;
// everything else goes to the active route.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutRoutes()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			if visible := m.queue.Visible(); len(visible) > 0 {
				m.queue.Dismiss(visible[0].ID)
			}
			return m, nil
		}

	case session.ResolvedMsg:
		m.resolved = true
		if m.guard.Apply(msg) {
			// Fail closed: anything short of a confirmed identity lands
			// on the login form.
			return m, m.setRoute(RouteLogin)
		}
		m.user = msg.User
		m.header.Username = msg.User.Username
		cmds = append(cmds, m.setRoute(RouteChats), m.events.Start())
		return m, tea.Batch(cmds...)

	case loginSucceededMsg:
		m.user = msg.user
		m.header.Username = msg.user.Username
		// Keep the broadcast store current for consumers outside the
		// update loop.
		m.guard.Apply(session.ResolvedMsg{User: msg.user, Authenticated: true})
		cmds = append(cmds, m.setRoute(RouteChats), m.events.Start())
		return m, tea.Batch(cmds...)

	case registerSucceededMsg:
		m.queue.Confirm("account created, sign in")
		m.login.prefill(msg.username)
		cmds = append(cmds, m.setRoute(RouteLogin), m.maybeSweep())
		return m, tea.Batch(cmds...)

	case notify.TickMsg, notify.DismissMsg:
		cmd := m.host.Update(msg)
		if _, isTick := msg.(notify.TickMsg); isTick && cmd == nil {
			m.sweeping = false
		}
		return m, cmd
	}

	// App-wide event feed: every fetched event becomes an Info entry,
	// except the user's own messages.
	if result, cmd := m.events.Update(msg); result != nil || cmd != nil {
		if result != nil {
			for _, event := range result.Snapshot.Records {
				if skipOwnEvent(event, m.ownUserID()) {
					continue
				}
				if text := eventText(event); text != "" {
					m.queue.Info(text)
				}
			}
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.routeUpdate(msg), m.maybeSweep())
	return m, tea.Batch(cmds...)
}

// routeUpdate forwards a message to the active route's model.
func (m *Model) routeUpdate(msg tea.Msg) tea.Cmd {
	switch m.route {
	case RouteLogin:
		return m.login.Update(msg)
	case RouteRegister:
		return m.register.Update(msg)
	case RouteChats:
		return m.chats.Update(msg)
	case RouteChat:
		if m.chat != nil {
			return m.chat.Update(msg)
		}
	case RouteBots:
		return m.bots.Update(msg)
	}
	return nil
}
