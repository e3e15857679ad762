// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/cache"
	"github.com/bitum-chat/bitum-tui/internal/config"
	"github.com/bitum-chat/bitum-tui/internal/notify"
	"github.com/bitum-chat/bitum-tui/internal/poll"
	"github.com/bitum-chat/bitum-tui/internal/session"
	"github.com/bitum-chat/bitum-tui/internal/ui/components"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// ROUTES
// =============================================================================

// Route identifies the active view.
type Route int

const (
	RouteLogin Route = iota
	RouteRegister
	RouteChats
	RouteChat
	RouteBots
)

// String returns the route's display title.
func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "Sign in"
	case RouteRegister:
		return "Create account"
	case RouteChats:
		return "Chats"
	case RouteChat:
		return "Chat"
	case RouteBots:
		return "Bots"
	default:
		return ""
	}
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the route table, the
// session guard, the notification host and the app-wide event feed;
// everything view-specific lives in the per-route models.
type Model struct {
	client *api.Client
	cfg    *config.Config
	guard  *session.Guard
	queue  *notify.Queue
	host   *notify.Host
	store  *cache.Store
	keys   KeyMap
	theme  *styles.Theme

	header *components.Header
	status *components.StatusBar

	route    Route
	login    *loginModel
	register *registerModel
	chats    *chatsModel
	chat     *chatModel
	bots     *botsModel

	// events is the app-wide feed turned into Info notifications.
	events *poll.Session[api.Event]

	user     *api.User
	resolved bool
	sweeping bool

	width  int
	height int
}

// New wires the root model. The notification host must already be
// mounted; store may be nil when the local cache is unavailable.
func New(client *api.Client, cfg *config.Config, queue *notify.Queue, host *notify.Host, store *cache.Store) *Model {
	m := &Model{
		client: client,
		cfg:    cfg,
		guard:  session.NewGuard(client, session.NewStore()),
		queue:  queue,
		host:   host,
		store:  store,
		keys:   DefaultKeyMap(),
		theme:  styles.NewTheme(),
		header: components.NewHeader(),
		status: components.NewStatusBar(),
		route:  RouteLogin,
	}

	m.login = newLoginModel(m)
	m.register = newRegisterModel(m)
	m.chats = newChatsModel(m)
	m.bots = newBotsModel(m)
	m.events = poll.NewSession[api.Event]("events", "events", cfg.Interval(), nil,
		client.Events)

	return m
}

// Identity returns the guard's identity store, for consumers outside the
// update loop.
func (m *Model) Identity() *session.Store {
	return m.guard.Store()
}

// Init resolves the session exactly once and starts the spinner of the
// pre-resolution splash.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.guard.Resolve(),
		m.login.Init(),
	)
}

// maybeSweep restarts the notification expiry sweep when entries exist
// and no sweep is running. The sweep stops itself once the queue drains.
func (m *Model) maybeSweep() tea.Cmd {
	if m.sweeping || m.queue.Len() == 0 {
		return nil
	}
	m.sweeping = true
	return notify.TickCmd()
}

// setRoute switches the active view, canceling the polling sessions of
// the outgoing route so late results are dropped.
func (m *Model) setRoute(route Route) tea.Cmd {
	if m.route == RouteChat && route != RouteChat && m.chat != nil {
		m.chat.Cancel()
	}
	if m.route == RouteChats && route != RouteChats {
		m.chats.Cancel()
	}
	if m.route == RouteBots && route != RouteBots {
		m.bots.Cancel()
	}

	m.route = route
	m.header.Title = route.String()
	m.layoutRoutes()

	switch route {
	case RouteLogin:
		return m.login.Activate()
	case RouteRegister:
		return m.register.Activate()
	case RouteChats:
		return m.chats.Activate()
	case RouteChat:
		if m.chat != nil {
			return m.chat.Activate()
		}
		return nil
	case RouteBots:
		return m.bots.Activate()
	}
	return nil
}

// openChat enters a chat room, replacing any previous chat model.
func (m *Model) openChat(chat api.Chat) tea.Cmd {
	if m.chat != nil {
		m.chat.Cancel()
	}
	m.chat = newChatModel(m, chat)
	return m.setRoute(RouteChat)
}

// ownUserID returns the signed-in user's id, or 0 before resolution.
func (m *Model) ownUserID() int {
	if m.user == nil {
		return 0
	}
	return m.user.ID
}

// layoutRoutes pushes the current terminal size into every live route.
func (m *Model) layoutRoutes() {
	if m.width == 0 {
		return
	}
	contentHeight := m.height - 2 // header + status bar
	if contentHeight < 4 {
		contentHeight = 4
	}

	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)

	m.login.SetSize(m.width, contentHeight)
	m.register.SetSize(m.width, contentHeight)
	m.chats.SetSize(m.width, contentHeight)
	m.bots.SetSize(m.width, contentHeight)
	if m.chat != nil {
		m.chat.SetSize(m.width, contentHeight)
	}
}

// skipOwnEvent filters events caused by the signed-in user; being told
// about your own message is noise.
func skipOwnEvent(event api.Event, ownID int) bool {
	if e, ok := event.(api.NewMessageEvent); ok {
		return e.Message.Sender.ID == ownID
	}
	return false
}

// eventText renders one feed event as notification text. The switch is
// deliberately exhaustive over the closed Event sum.
func eventText(event api.Event) string {
	switch e := event.(type) {
	case api.NewMessageEvent:
		return "new message from " + e.Message.Sender.Username + " in " + e.Message.Chat.Name
	case api.MemberAddedEvent:
		return e.Member.User.Username + " was added to " + e.Member.Chat.Name
	case api.MemberKickedEvent:
		return e.User.Username + " was kicked from " + e.Chat.Name
	default:
		// A new variant must be handled above before it can exist.
		return ""
	}
}
