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
	"github.com/bitum-chat/bitum-tui/internal/poll"
	"github.com/bitum-chat/bitum-tui/internal/ui/components"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// botCreatedMsg reports the outcome of the create-bot form.
type botCreatedMsg struct {
	bot *api.User
	err error
}

// botDeletedMsg reports a completed bot deletion.
type botDeletedMsg struct {
	username string
	err      error
}

// botTokenMsg delivers a freshly issued bot token.
type botTokenMsg struct {
	username string
	token    string
	err      error
}

// =============================================================================
// BOTS ROUTE
// =============================================================================

// botsModel manages the user's bot accounts: list, create, delete, and
// one-shot token issuance. The token is shown once in a Confirm
// notification and never stored.
type botsModel struct {
	root *Model

	session  *poll.Session[api.User]
	snapshot poll.Snapshot[api.User]
	loaded   bool

	list    *components.List
	spinner *components.Spinner

	creating bool
	working  bool
	name     textinput.Model

	width  int
	height int
}

func newBotsModel(root *Model) *botsModel {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "bot username"
	name.CharLimit = 64

	m := &botsModel{
		root:    root,
		list:    components.NewList(),
		spinner: components.NewSpinner("Loading bots..."),
		name:    name,
	}
	m.session = poll.NewSession[api.User]("bots", "bots", root.cfg.Interval(),
		root.queue, root.client.Bots)
	return m
}

// Activate kicks off the polling loop with an immediate fetch.
func (b *botsModel) Activate() tea.Cmd {
	b.creating = false
	b.working = false
	return tea.Batch(b.session.Refresh(), b.spinner.Tick())
}

// Cancel stops the polling session.
func (b *botsModel) Cancel() {
	b.session.Cancel()
}

// SetSize records the content pane dimensions.
func (b *botsModel) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.list.SetSize(width-4, height-4)
	b.name.Width = 32
}

func (b *botsModel) Update(msg tea.Msg) tea.Cmd {
	if result, cmd := b.session.Update(msg); result != nil || cmd != nil {
		if result != nil {
			b.snapshot = poll.Replace(b.snapshot, result.Snapshot)
			b.loaded = true
			b.rebuildList()
		}
		return cmd
	}

	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if !b.loaded {
			return b.spinner.Update(msg)
		}
		return nil

	case botCreatedMsg:
		b.working = false
		if msg.err != nil {
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) {
				b.root.queue.Error("could not create bot: " + apiErr.Message)
			} else {
				b.root.queue.Error("server not responding")
			}
			return nil
		}
		b.creating = false
		b.root.queue.Confirm("bot " + msg.bot.Username + " created")
		return b.session.Refresh()

	case botDeletedMsg:
		if msg.err != nil {
			b.root.queue.Error("could not delete " + msg.username)
			return nil
		}
		b.root.queue.Confirm("bot " + msg.username + " deleted")
		return b.session.Refresh()

	case botTokenMsg:
		if msg.err != nil {
			b.root.queue.Error("could not issue token for " + msg.username)
			return nil
		}
		// Shown once; the server does not return it again.
		b.root.queue.Confirm(msg.username + " token: " + msg.token)
		return nil

	case tea.KeyMsg:
		if b.creating {
			return b.updateCreateForm(msg)
		}
		switch {
		case key.Matches(msg, b.root.keys.Back):
			return b.root.setRoute(RouteChats)
		case key.Matches(msg, b.root.keys.Up):
			b.list.MoveUp()
		case key.Matches(msg, b.root.keys.Down):
			b.list.MoveDown()
		case key.Matches(msg, b.root.keys.New):
			b.creating = true
			b.name.Reset()
			b.name.Focus()
			return textinput.Blink
		case key.Matches(msg, b.root.keys.Delete):
			return b.deleteSelected()
		case key.Matches(msg, b.root.keys.Submit):
			return b.issueToken()
		}
	}
	return nil
}

func (b *botsModel) updateCreateForm(msg tea.KeyMsg) tea.Cmd {
	if b.working {
		return nil
	}
	switch {
	case key.Matches(msg, b.root.keys.Back):
		b.creating = false
		return nil
	case key.Matches(msg, b.root.keys.Submit):
		username := strings.TrimSpace(b.name.Value())
		if username == "" {
			b.root.queue.Error("bot username required")
			return nil
		}
		b.working = true
		client := b.root.client
		return func() tea.Msg {
			bot, err := client.CreateBot(context.Background(), username)
			return botCreatedMsg{bot: bot, err: err}
		}
	}

	var cmd tea.Cmd
	b.name, cmd = b.name.Update(msg)
	return cmd
}

func (b *botsModel) deleteSelected() tea.Cmd {
	idx := b.list.Cursor()
	if idx < 0 || idx >= len(b.snapshot.Records) {
		return nil
	}
	bot := b.snapshot.Records[idx]
	client := b.root.client

	return func() tea.Msg {
		err := client.DeleteBot(context.Background(), bot.ID)
		return botDeletedMsg{username: bot.Username, err: err}
	}
}

func (b *botsModel) issueToken() tea.Cmd {
	idx := b.list.Cursor()
	if idx < 0 || idx >= len(b.snapshot.Records) {
		return nil
	}
	bot := b.snapshot.Records[idx]
	client := b.root.client

	return func() tea.Msg {
		token, err := client.BotToken(context.Background(), bot.ID)
		return botTokenMsg{username: bot.Username, token: token, err: err}
	}
}

func (b *botsModel) rebuildList() {
	items := make([]components.ListItem, 0, len(b.snapshot.Records))
	for _, bot := range b.snapshot.Records {
		items = append(items, components.ListItem{
			Title:  bot.Username,
			Meta:   "bot",
			Accent: styles.AvatarColor(bot.Username),
		})
	}
	b.list.SetItems(items)
}

func (b *botsModel) View() string {
	if b.creating {
		return b.viewCreateForm()
	}
	if !b.loaded {
		return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center,
			b.spinner.View())
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(b.list.View())
}

func (b *botsModel) viewCreateForm() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	hint := "Enter to create, Esc to cancel"
	if b.working {
		hint = "Creating..."
	}

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Bot username"),
		b.name.View(),
		"",
		hintStyle.Render(hint),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 2).
		Render(form)

	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, box)
}
