// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/ui/components"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// loginSucceededMsg reports a completed sign-in; handled by the root.
type loginSucceededMsg struct {
	user *api.User
}

// loginFailedMsg reports a failed sign-in; handled by the login form.
type loginFailedMsg struct {
	err error
}

// =============================================================================
// LOGIN ROUTE
// =============================================================================

// loginModel is the sign-in form. Until the session guard settles it
// shows a connecting splash instead of the form; a still-valid cookie
// skips the form entirely.
type loginModel struct {
	root *Model

	username textinput.Model
	password textinput.Model
	focus    int
	working  bool
	spinner  *components.Spinner

	width  int
	height int
}

func newLoginModel(root *Model) *loginModel {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return &loginModel{
		root:     root,
		username: username,
		password: password,
		spinner:  components.NewSpinner("Connecting..."),
	}
}

// Init starts the splash spinner shown while the guard resolves.
func (l *loginModel) Init() tea.Cmd {
	return l.spinner.Tick()
}

// Activate focuses the form when the route becomes active.
func (l *loginModel) Activate() tea.Cmd {
	l.working = false
	l.focus = 0
	l.password.Reset()
	l.username.Focus()
	l.password.Blur()
	return textinput.Blink
}

// prefill seeds the username after a fresh registration.
func (l *loginModel) prefill(username string) {
	l.username.SetValue(username)
}

// SetSize records the content pane dimensions.
func (l *loginModel) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.username.Width = 32
	l.password.Width = 32
}

func (l *loginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if !l.root.resolved || l.working {
			return l.spinner.Update(msg)
		}
		return nil

	case loginFailedMsg:
		l.working = false
		var apiErr *api.Error
		if errors.As(msg.err, &apiErr) {
			l.root.queue.Error("wrong username or password")
		} else {
			l.root.queue.Error("server not responding")
		}
		return textinput.Blink

	case tea.KeyMsg:
		if !l.root.resolved || l.working {
			return nil
		}
		switch {
		case key.Matches(msg, l.root.keys.Tab):
			l.cycleFocus()
			return textinput.Blink
		case key.Matches(msg, l.root.keys.Submit):
			return l.submit()
		case msg.String() == "ctrl+r":
			return l.root.setRoute(RouteRegister)
		}
	}

	return l.updateInputs(msg)
}

func (l *loginModel) cycleFocus() {
	l.focus = (l.focus + 1) % 2
	if l.focus == 0 {
		l.username.Focus()
		l.password.Blur()
	} else {
		l.password.Focus()
		l.username.Blur()
	}
}

func (l *loginModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	l.username, cmd = l.username.Update(msg)
	cmds = append(cmds, cmd)
	l.password, cmd = l.password.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (l *loginModel) submit() tea.Cmd {
	username := l.username.Value()
	password := l.password.Value()
	if username == "" || password == "" {
		l.root.queue.Error("username and password required")
		return nil
	}

	l.working = true
	l.spinner.SetLabel("Signing in...")
	client := l.root.client

	return tea.Batch(l.spinner.Tick(), func() tea.Msg {
		ctx := context.Background()
		if _, err := client.Token(ctx, api.TokenRequest{Username: username, Password: password}); err != nil {
			return loginFailedMsg{err: err}
		}
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loginSucceededMsg{user: user}
	})
}

func (l *loginModel) View() string {
	if !l.root.resolved || l.working {
		return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center,
			l.spinner.View())
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Username"),
		l.username.View(),
		"",
		labelStyle.Render("Password"),
		l.password.View(),
		"",
		hintStyle.Render("Enter to sign in, C-r to create an account"),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 2).
		Render(form)

	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, box)
}
