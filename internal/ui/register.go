// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// registerSucceededMsg reports a created account; handled by the root,
// which bounces back to the sign-in form with the username prefilled.
type registerSucceededMsg struct {
	username string
}

// registerFailedMsg reports a failed registration.
type registerFailedMsg struct {
	err error
}

// =============================================================================
// REGISTER ROUTE
// =============================================================================

type registerModel struct {
	root *Model

	username textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	working  bool

	width  int
	height int
}

func newRegisterModel(root *Model) *registerModel {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 64

	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return &registerModel{
		root:     root,
		username: username,
		email:    email,
		password: password,
	}
}

// Activate focuses the first field when the route becomes active.
func (r *registerModel) Activate() tea.Cmd {
	r.working = false
	r.focus = 0
	r.password.Reset()
	r.username.Focus()
	r.email.Blur()
	r.password.Blur()
	return textinput.Blink
}

// SetSize records the content pane dimensions.
func (r *registerModel) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.username.Width = 32
	r.email.Width = 32
	r.password.Width = 32
}

func (r *registerModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case registerFailedMsg:
		r.working = false
		var apiErr *api.Error
		if errors.As(msg.err, &apiErr) {
			r.root.queue.Error("could not create account: " + apiErr.Message)
		} else {
			r.root.queue.Error("server not responding")
		}
		return textinput.Blink

	case tea.KeyMsg:
		if r.working {
			return nil
		}
		switch {
		case key.Matches(msg, r.root.keys.Tab):
			r.cycleFocus()
			return textinput.Blink
		case key.Matches(msg, r.root.keys.Submit):
			return r.submit()
		case key.Matches(msg, r.root.keys.Back):
			return r.root.setRoute(RouteLogin)
		}
	}

	return r.updateInputs(msg)
}

func (r *registerModel) cycleFocus() {
	r.focus = (r.focus + 1) % 3
	r.username.Blur()
	r.email.Blur()
	r.password.Blur()
	switch r.focus {
	case 0:
		r.username.Focus()
	case 1:
		r.email.Focus()
	case 2:
		r.password.Focus()
	}
}

func (r *registerModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	r.username, cmd = r.username.Update(msg)
	cmds = append(cmds, cmd)
	r.email, cmd = r.email.Update(msg)
	cmds = append(cmds, cmd)
	r.password, cmd = r.password.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (r *registerModel) submit() tea.Cmd {
	username := strings.TrimSpace(r.username.Value())
	email := strings.TrimSpace(r.email.Value())
	password := r.password.Value()

	if username == "" || email == "" || password == "" {
		r.root.queue.Error("all fields are required")
		return nil
	}

	r.working = true
	client := r.root.client

	return func() tea.Msg {
		_, err := client.Register(context.Background(), api.NewUserRequest{
			Username: username,
			Password: password,
			Email:    email,
		})
		if err != nil {
			return registerFailedMsg{err: err}
		}
		return registerSucceededMsg{username: username}
	}
}

func (r *registerModel) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Username"),
		r.username.View(),
		"",
		labelStyle.Render("Email"),
		r.email.View(),
		"",
		labelStyle.Render("Password"),
		r.password.View(),
		"",
		hintStyle.Render("Enter to create the account, Esc to go back"),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 2).
		Render(form)

	return lipgloss.Place(r.width, r.height, lipgloss.Center, lipgloss.Center, box)
}
