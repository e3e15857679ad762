// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/poll"
	"github.com/bitum-chat/bitum-tui/internal/ui/components"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// sentMsg reports the outcome of a message send.
type sentMsg struct {
	err error
}

// memberAddedMsg reports the outcome of an add-member request.
type memberAddedMsg struct {
	username string
	err      error
}

// memberKickedMsg reports the outcome of a kick.
type memberKickedMsg struct {
	username string
	err      error
}

// searchResultsMsg delivers user search results for the add-member panel.
type searchResultsMsg struct {
	query string
	users []api.User
	err   error
}

// chatPane tracks which pane has keyboard focus.
type chatPane int

const (
	paneComposer chatPane = iota
	paneMembers
	paneAddMember
)

// =============================================================================
// CHAT ROUTE
// =============================================================================

// chatModel is one open chat room: independent polling sessions for
// messages and members, a composer, and the member management panel.
type chatModel struct {
	root *Model
	chat api.Chat

	messages *poll.Session[api.ChatMessage]
	members  *poll.Session[api.ChatMember]
	msgSnap  poll.Snapshot[api.ChatMessage]
	memSnap  poll.Snapshot[api.ChatMember]
	loaded   bool

	viewport    viewport.Model
	msgList     *components.MessageList
	markdown    *components.Markdown
	composer    *components.Composer
	memberList  *components.List
	spinner     *components.Spinner
	sendSpinner *components.Spinner

	focus   chatPane
	sending bool

	// add-member panel state
	search        textinput.Model
	searchList    *components.List
	searchResults []api.User

	width  int
	height int
}

func newChatModel(root *Model, chat api.Chat) *chatModel {
	markdown := components.NewMarkdown(72)

	search := textinput.New()
	search.Prompt = "add: "
	search.Placeholder = "search users..."
	search.CharLimit = 64

	m := &chatModel{
		root:        root,
		chat:        chat,
		viewport:    viewport.New(80, 20),
		markdown:    markdown,
		msgList:     components.NewMessageList(markdown),
		composer:    components.NewComposer(),
		memberList:  components.NewList(),
		searchList:  components.NewList(),
		spinner:     components.NewSpinner("Loading messages..."),
		sendSpinner: components.NewDotsSpinner("sending"),
		search:      search,
	}
	m.msgList.OwnUserID = root.ownUserID()

	pageSize := root.cfg.Refresh.PageSize
	chatID := chat.ID
	client := root.client

	// Keys carry a per-instance nonce: a later model for the same chat
	// must never accept results addressed to a discarded one.
	nonce := uuid.NewString()

	m.messages = poll.NewSession[api.ChatMessage]("messages:"+nonce, "messages",
		root.cfg.Interval(), root.queue,
		func(ctx context.Context) ([]api.ChatMessage, error) {
			return client.Messages(ctx, chatID, pageSize, 0)
		}).WithPage(pageSize, 0)

	m.members = poll.NewSession[api.ChatMember]("members:"+nonce, "members",
		root.cfg.Interval(), root.queue,
		func(ctx context.Context) ([]api.ChatMember, error) {
			return client.Members(ctx, chatID)
		})

	return m
}

// Activate warm starts from the message cache and fetches both resources
// immediately; their timers re-arm from there.
func (c *chatModel) Activate() tea.Cmd {
	c.warmStart()
	return tea.Batch(
		c.messages.Refresh(),
		c.members.Refresh(),
		c.spinner.Tick(),
		c.composer.Focus(),
	)
}

// Cancel stops both polling sessions; late results for the old epoch are
// dropped inside the sessions.
func (c *chatModel) Cancel() {
	c.messages.Cancel()
	c.members.Cancel()
}

// warmStart paints cached messages while the first fetch runs.
func (c *chatModel) warmStart() {
	if c.loaded || c.root.store == nil {
		return
	}
	messages, fetchedAt, err := c.root.store.Messages(c.chat.ID)
	if err != nil {
		return
	}
	c.msgSnap = poll.Snapshot[api.ChatMessage]{Records: messages, FetchedAt: fetchedAt}
	c.loaded = true
	c.rebuildMessages()
}

// SetSize records the content pane dimensions.
func (c *chatModel) SetSize(width, height int) {
	c.width = width
	c.height = height

	memberPane := 0
	if width >= 80 {
		memberPane = 24
	}
	msgWidth := width - memberPane - 2

	c.viewport.Width = msgWidth
	c.viewport.Height = height - 3
	c.msgList.SetWidth(msgWidth - 2)
	c.markdown.SetWidth(msgWidth - 8)
	c.composer.SetWidth(width)
	c.memberList.SetSize(memberPane-2, height-6)
	c.searchList.SetSize(memberPane-2, 6)
	c.search.Width = memberPane - 8
	c.rebuildMessages()
}

func (c *chatModel) Update(msg tea.Msg) tea.Cmd {
	if result, cmd := c.messages.Update(msg); result != nil || cmd != nil {
		if result != nil {
			atBottom := c.viewport.AtBottom()
			c.msgSnap = poll.Replace(c.msgSnap, result.Snapshot)
			c.loaded = true
			c.rebuildMessages()
			if atBottom {
				c.viewport.GotoBottom()
			}
			if c.root.store != nil {
				_ = c.root.store.PutMessages(c.chat.ID, c.msgSnap.Records, c.msgSnap.FetchedAt)
			}
		}
		return cmd
	}
	if result, cmd := c.members.Update(msg); result != nil || cmd != nil {
		if result != nil {
			c.memSnap = poll.Replace(c.memSnap, result.Snapshot)
			c.rebuildMembers()
		}
		return cmd
	}

	switch msg := msg.(type) {
	case components.SpinnerTickMsg:
		// Both spinners ride one tick chain; re-arm at most once.
		var cmd tea.Cmd
		if !c.loaded {
			cmd = c.spinner.Update(msg)
		}
		if c.sending {
			cmd = c.sendSpinner.Update(msg)
		}
		return cmd

	case sentMsg:
		c.sending = false
		if msg.err != nil {
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) {
				c.root.queue.Error("could not send message")
			} else {
				c.root.queue.Error("server not responding")
			}
			return nil
		}
		return c.messages.Refresh()

	case memberAddedMsg:
		if msg.err != nil {
			if api.IsConflict(msg.err) {
				c.root.queue.Error(msg.username + " is already a member")
			} else {
				c.root.queue.Error("could not add " + msg.username)
			}
			return nil
		}
		c.root.queue.Confirm(msg.username + " added to " + c.chat.Name)
		c.closeAddPanel()
		return c.members.Refresh()

	case memberKickedMsg:
		if msg.err != nil {
			c.root.queue.Error("could not kick " + msg.username)
			return nil
		}
		c.root.queue.Confirm(msg.username + " kicked from " + c.chat.Name)
		return c.members.Refresh()

	case searchResultsMsg:
		// Drop results for superseded queries.
		if msg.query != normalizeQuery(c.search.Value()) {
			return nil
		}
		if msg.err != nil {
			c.root.queue.Error("could not fetch users")
			return nil
		}
		c.searchResults = msg.users
		items := make([]components.ListItem, 0, len(msg.users))
		for _, user := range msg.users {
			items = append(items, components.ListItem{
				Title:  user.Username,
				Accent: styles.AvatarColor(user.Username),
			})
		}
		c.searchList.SetItems(items)
		return nil

	case tea.KeyMsg:
		return c.updateKeys(msg)
	}

	return nil
}

func (c *chatModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch c.focus {
	case paneComposer:
		switch {
		case key.Matches(msg, c.root.keys.Back):
			return c.root.setRoute(RouteChats)
		case key.Matches(msg, c.root.keys.Members):
			c.focus = paneMembers
			c.composer.Blur()
			return nil
		case key.Matches(msg, c.root.keys.Submit):
			return c.send()
		case msg.Type == tea.KeyPgUp:
			c.viewport.HalfViewUp()
			return nil
		case msg.Type == tea.KeyPgDown:
			c.viewport.HalfViewDown()
			return nil
		}
		return c.composer.Update(msg)

	case paneMembers:
		switch {
		case key.Matches(msg, c.root.keys.Back), key.Matches(msg, c.root.keys.Members):
			c.focus = paneComposer
			return c.composer.Focus()
		case key.Matches(msg, c.root.keys.Up):
			c.memberList.MoveUp()
		case key.Matches(msg, c.root.keys.Down):
			c.memberList.MoveDown()
		case key.Matches(msg, c.root.keys.New):
			if !c.canAddMembers() {
				c.root.queue.Error("you cannot add members here")
				return nil
			}
			c.focus = paneAddMember
			c.search.Reset()
			c.searchList.SetItems(nil)
			c.searchResults = nil
			c.search.Focus()
			return textinput.Blink
		case key.Matches(msg, c.root.keys.Delete):
			return c.kickSelected()
		}
		return nil

	case paneAddMember:
		switch {
		case key.Matches(msg, c.root.keys.Back):
			c.closeAddPanel()
			return nil
		case key.Matches(msg, c.root.keys.Up):
			c.searchList.MoveUp()
			return nil
		case key.Matches(msg, c.root.keys.Down):
			c.searchList.MoveDown()
			return nil
		case key.Matches(msg, c.root.keys.Submit):
			return c.addSelected()
		}
		var inputCmd tea.Cmd
		c.search, inputCmd = c.search.Update(msg)
		return tea.Batch(inputCmd, c.searchCmd())
	}
	return nil
}

// send posts the composer content. An empty composer is a no-op: no
// network call, no notification.
func (c *chatModel) send() tea.Cmd {
	if c.composer.Empty() || c.sending {
		return nil
	}
	content := c.composer.Value()
	// Clear optimistically; the refresh after the send settles brings the
	// message back from the server.
	c.composer.Reset()
	c.sending = true

	client := c.root.client
	chatID := c.chat.ID

	return tea.Batch(c.sendSpinner.Tick(), func() tea.Msg {
		_, err := client.SendMessage(context.Background(), chatID,
			api.SendMessageRequest{Content: content})
		return sentMsg{err: err}
	})
}

// searchCmd queries users matching the normalized search input.
func (c *chatModel) searchCmd() tea.Cmd {
	query := normalizeQuery(c.search.Value())
	if query == "" {
		c.searchList.SetItems(nil)
		c.searchResults = nil
		return nil
	}
	client := c.root.client
	return func() tea.Msg {
		users, err := client.SearchUsers(context.Background(), query, 10, 0)
		return searchResultsMsg{query: query, users: users, err: err}
	}
}

func (c *chatModel) addSelected() tea.Cmd {
	idx := c.searchList.Cursor()
	if idx < 0 || idx >= len(c.searchResults) {
		return nil
	}
	user := c.searchResults[idx]
	client := c.root.client
	chatID := c.chat.ID

	return func() tea.Msg {
		_, err := client.AddMember(context.Background(), chatID, user.ID)
		return memberAddedMsg{username: user.Username, err: err}
	}
}

func (c *chatModel) kickSelected() tea.Cmd {
	idx := c.memberList.Cursor()
	if idx < 0 || idx >= len(c.memSnap.Records) {
		return nil
	}
	member := c.memSnap.Records[idx]

	if member.User.ID == c.root.ownUserID() {
		c.root.queue.Error("you cannot kick yourself")
		return nil
	}
	if !c.canKickMembers() {
		c.root.queue.Error("you cannot kick members here")
		return nil
	}

	client := c.root.client
	chatID := c.chat.ID

	return func() tea.Msg {
		err := client.KickMember(context.Background(), chatID, member.User.ID)
		return memberKickedMsg{username: member.User.Username, err: err}
	}
}

func (c *chatModel) closeAddPanel() {
	c.focus = paneMembers
	c.search.Blur()
	c.searchResults = nil
	c.searchList.SetItems(nil)
}

// ownMember returns the signed-in user's membership record, if present
// in the current snapshot.
func (c *chatModel) ownMember() *api.ChatMember {
	for i := range c.memSnap.Records {
		if c.memSnap.Records[i].User.ID == c.root.ownUserID() {
			return &c.memSnap.Records[i]
		}
	}
	return nil
}

func (c *chatModel) isOwner() bool {
	return c.chat.Owner.ID == c.root.ownUserID()
}

func (c *chatModel) canAddMembers() bool {
	if c.isOwner() {
		return true
	}
	member := c.ownMember()
	return member != nil && member.Permissions.CanAddMembers
}

func (c *chatModel) canKickMembers() bool {
	if c.isOwner() {
		return true
	}
	member := c.ownMember()
	return member != nil && member.Permissions.CanKickMembers
}

// rebuildMessages re-renders the viewport content from the snapshot,
// oldest first.
func (c *chatModel) rebuildMessages() {
	messages := make([]api.ChatMessage, len(c.msgSnap.Records))
	copy(messages, c.msgSnap.Records)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})

	c.msgList.OwnUserID = c.root.ownUserID()
	c.msgList.SetMessages(messages)

	if len(messages) == 0 {
		c.viewport.SetContent(components.EventLine("no messages yet", c.viewport.Width))
		return
	}
	c.viewport.SetContent(c.msgList.View())
}

func (c *chatModel) rebuildMembers() {
	items := make([]components.ListItem, 0, len(c.memSnap.Records))
	for _, member := range c.memSnap.Records {
		meta := ""
		if member.User.ID == c.chat.Owner.ID {
			meta = "owner"
		} else if member.User.IsBot {
			meta = "bot"
		}
		items = append(items, components.ListItem{
			Title:  member.User.Username,
			Meta:   meta,
			Accent: styles.AvatarColor(member.User.Username),
		})
	}
	c.memberList.SetItems(items)
}

func (c *chatModel) View() string {
	if !c.loaded {
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center,
			c.spinner.View())
	}

	sections := []string{c.viewport.View()}
	if c.sending {
		sections = append(sections, c.sendSpinner.View())
	}
	sections = append(sections, c.composer.View())
	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if c.width < 80 {
		return main
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, main, c.viewMemberPane())
}

func (c *chatModel) viewMemberPane() string {
	titleStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	borderColor := styles.Overlay
	if c.focus == paneMembers || c.focus == paneAddMember {
		borderColor = styles.FocusRing
	}

	sections := []string{
		titleStyle.Render("Members"),
		c.memberList.View(),
	}

	if c.focus == paneAddMember {
		sections = append(sections, "", c.search.View(), c.searchList.View())
	} else if c.focus == paneMembers {
		hint := "C-t add, C-d kick"
		if !c.canAddMembers() && !c.canKickMembers() {
			hint = "read-only"
		}
		sections = append(sections, "", hintStyle.Render(hint))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(22).
		Height(c.height-2).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
