// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
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

// chatCreatedMsg reports the outcome of the create-chat form.
type chatCreatedMsg struct {
	chat *api.Chat
	err  error
}

// =============================================================================
// CHATS ROUTE
// =============================================================================

// chatsModel is the chat list: a polling session over GET /chats, warm
// started from the local cache so the list paints before the first fetch.
type chatsModel struct {
	root *Model

	session  *poll.Session[api.Chat]
	snapshot poll.Snapshot[api.Chat]
	loaded   bool

	list    *components.List
	spinner *components.Spinner

	// create-chat form state
	creating    bool
	working     bool
	name        textinput.Model
	iconPath    textinput.Model
	createFocus int

	width  int
	height int
}

func newChatsModel(root *Model) *chatsModel {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "chat name"
	name.CharLimit = 64

	iconPath := textinput.New()
	iconPath.Prompt = ""
	iconPath.Placeholder = "icon file (optional)"
	iconPath.CharLimit = 256

	m := &chatsModel{
		root:     root,
		list:     components.NewList(),
		spinner:  components.NewSpinner("Loading chats..."),
		name:     name,
		iconPath: iconPath,
	}
	m.session = poll.NewSession[api.Chat]("chats", "chats", root.cfg.Interval(),
		root.queue, root.client.Chats)
	return m
}

// Activate warm starts from the cache and kicks off the polling loop
// with an immediate fetch.
func (c *chatsModel) Activate() tea.Cmd {
	c.creating = false
	c.working = false
	c.warmStart()
	return tea.Batch(c.session.Refresh(), c.spinner.Tick())
}

// Cancel stops the polling session.
func (c *chatsModel) Cancel() {
	c.session.Cancel()
}

// warmStart paints the cached chat list while the first fetch runs.
func (c *chatsModel) warmStart() {
	if c.loaded || c.root.store == nil {
		return
	}
	chats, fetchedAt, err := c.root.store.Chats()
	if err != nil {
		return
	}
	c.snapshot = poll.Snapshot[api.Chat]{Records: chats, FetchedAt: fetchedAt}
	c.loaded = true
	c.rebuildList()
}

// SetSize records the content pane dimensions.
func (c *chatsModel) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.list.SetSize(width-4, height-4)
	c.name.Width = 32
	c.iconPath.Width = 32
}

func (c *chatsModel) Update(msg tea.Msg) tea.Cmd {
	if result, cmd := c.session.Update(msg); result != nil || cmd != nil {
		if result != nil {
			previous := c.snapshot.Records
			c.snapshot = poll.Replace(c.snapshot, result.Snapshot)
			c.loaded = true
			c.rebuildList()
			if c.root.store != nil {
				// Cache write failures are invisible; the cache is an
				// optimization only.
				_ = c.root.store.PutChats(c.snapshot.Records, c.snapshot.FetchedAt)
				c.dropVanished(previous)
			}
		}
		return cmd
	}

	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		if !c.loaded {
			return c.spinner.Update(msg)
		}
		return nil

	case chatCreatedMsg:
		c.working = false
		if msg.err != nil {
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) {
				c.root.queue.Error("could not create chat: " + apiErr.Message)
			} else {
				c.root.queue.Error("server not responding")
			}
			return nil
		}
		c.creating = false
		c.root.queue.Confirm("chat " + msg.chat.Name + " created")
		return c.session.Refresh()

	case tea.KeyMsg:
		if c.creating {
			return c.updateCreateForm(msg)
		}
		switch {
		case key.Matches(msg, c.root.keys.Up):
			c.list.MoveUp()
		case key.Matches(msg, c.root.keys.Down):
			c.list.MoveDown()
		case key.Matches(msg, c.root.keys.Submit):
			if idx := c.list.Cursor(); idx >= 0 && idx < len(c.snapshot.Records) {
				return c.root.openChat(c.snapshot.Records[idx])
			}
		case key.Matches(msg, c.root.keys.New):
			c.creating = true
			c.createFocus = 0
			c.name.Reset()
			c.iconPath.Reset()
			c.name.Focus()
			c.iconPath.Blur()
			return textinput.Blink
		case key.Matches(msg, c.root.keys.Bots):
			return c.root.setRoute(RouteBots)
		}
	}
	return nil
}

func (c *chatsModel) updateCreateForm(msg tea.KeyMsg) tea.Cmd {
	if c.working {
		return nil
	}
	switch {
	case key.Matches(msg, c.root.keys.Back):
		c.creating = false
		return nil
	case key.Matches(msg, c.root.keys.Tab):
		c.createFocus = (c.createFocus + 1) % 2
		if c.createFocus == 0 {
			c.name.Focus()
			c.iconPath.Blur()
		} else {
			c.iconPath.Focus()
			c.name.Blur()
		}
		return textinput.Blink
	case key.Matches(msg, c.root.keys.Submit):
		return c.submitCreate()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.name, cmd = c.name.Update(msg)
	cmds = append(cmds, cmd)
	c.iconPath, cmd = c.iconPath.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (c *chatsModel) submitCreate() tea.Cmd {
	name := strings.TrimSpace(c.name.Value())
	if name == "" {
		c.root.queue.Error("chat name required")
		return nil
	}
	iconPath := strings.TrimSpace(c.iconPath.Value())

	c.working = true
	client := c.root.client

	return func() tea.Msg {
		ctx := context.Background()
		req := api.NewChatRequest{Name: name}

		if iconPath != "" {
			file, err := os.Open(iconPath)
			if err != nil {
				return chatCreatedMsg{err: err}
			}
			defer file.Close()

			names, err := client.UploadFiles(ctx, []api.FileUpload{
				{Name: filepath.Base(iconPath), Reader: file},
			})
			if err != nil {
				return chatCreatedMsg{err: err}
			}
			if len(names) > 0 {
				req.IconFile = &names[0]
			}
		}

		chat, err := client.CreateChat(ctx, req)
		return chatCreatedMsg{chat: chat, err: err}
	}
}

// dropVanished purges cached messages for chats no longer in the list,
// e.g. after being kicked or a chat being deleted.
func (c *chatsModel) dropVanished(previous []api.Chat) {
	current := make(map[int]bool, len(c.snapshot.Records))
	for _, chat := range c.snapshot.Records {
		current[chat.ID] = true
	}
	for _, chat := range previous {
		if !current[chat.ID] {
			_ = c.root.store.DropMessages(chat.ID)
		}
	}
}

// rebuildList maps the snapshot into list rows.
func (c *chatsModel) rebuildList() {
	items := make([]components.ListItem, 0, len(c.snapshot.Records))
	for _, chat := range c.snapshot.Records {
		items = append(items, components.ListItem{
			Title:  chat.Name,
			Meta:   "owner " + chat.Owner.Username,
			Accent: styles.AvatarColor(chat.Name),
		})
	}
	c.list.SetItems(items)
}

func (c *chatsModel) View() string {
	if c.creating {
		return c.viewCreateForm()
	}
	if !c.loaded {
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center,
			c.spinner.View())
	}

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	header := countStyle.Render(strconv.Itoa(len(c.snapshot.Records)) + " chats")

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, c.list.View()))
}

func (c *chatsModel) viewCreateForm() string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	hint := "Enter to create, Esc to cancel"
	if c.working {
		hint = "Creating..."
	}

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render("Name"),
		c.name.View(),
		"",
		labelStyle.Render("Icon file"),
		c.iconPath.View(),
		"",
		hintStyle.Render(hint),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 2).
		Render(form)

	return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, box)
}
