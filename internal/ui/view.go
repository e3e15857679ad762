// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/ui/components"
)

// View renders header, active route and status bar, then lets the
// notification host composite its stack over the finished frame.
func (m *Model) View() string {
	if m.width == 0 {
		return "Starting bitum..."
	}

	m.status.SetShortcuts(m.routeShortcuts())

	frame := lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		m.routeView(),
		m.status.View(),
	)

	return m.host.Overlay(frame, m.width, m.height)
}

// routeView renders the active route's content pane.
func (m *Model) routeView() string {
	contentHeight := m.height - 2
	if contentHeight < 4 {
		contentHeight = 4
	}

	var content string
	switch m.route {
	case RouteLogin:
		content = m.login.View()
	case RouteRegister:
		content = m.register.View()
	case RouteChats:
		content = m.chats.View()
	case RouteChat:
		if m.chat != nil {
			content = m.chat.View()
		}
	case RouteBots:
		content = m.bots.View()
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)
}

// routeShortcuts returns the status bar hints for the active route.
func (m *Model) routeShortcuts() []components.Shortcut {
	base := []components.Shortcut{{Key: "C-c", Desc: "quit"}, {Key: "C-x", Desc: "dismiss"}}

	switch m.route {
	case RouteLogin:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "sign in"},
			{Key: "Tab", Desc: "next field"},
			{Key: "C-r", Desc: "register"},
		}, base...)
	case RouteRegister:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "create account"},
			{Key: "Tab", Desc: "next field"},
			{Key: "Esc", Desc: "back to sign in"},
		}, base...)
	case RouteChats:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "open chat"},
			{Key: "C-t", Desc: "new chat"},
			{Key: "C-b", Desc: "bots"},
		}, base...)
	case RouteChat:
		return append([]components.Shortcut{
			{Key: "Enter", Desc: "send"},
			{Key: "C-e", Desc: "members"},
			{Key: "Esc", Desc: "back"},
		}, base...)
	case RouteBots:
		return append([]components.Shortcut{
			{Key: "C-t", Desc: "new bot"},
			{Key: "Enter", Desc: "issue token"},
			{Key: "C-d", Desc: "delete"},
			{Key: "Esc", Desc: "back"},
		}, base...)
	}
	return base
}
