// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/poll"
	"github.com/bitum-chat/bitum-tui/internal/session"
)

func newTestBots(t *testing.T) (*Model, *botsModel) {
	t.Helper()
	m := newTestModel(t, nil)
	_, _ = m.Update(session.ResolvedMsg{User: &api.User{ID: 7, Username: "alice"}, Authenticated: true})
	_ = m.setRoute(RouteBots)
	_ = m.bots.Update(poll.ResultMsg[api.User]{Key: m.bots.session.Key()})
	return m, m.bots
}

func seedBots(b *botsModel, bots ...api.User) {
	_ = b.Update(poll.TickMsg{Key: b.session.Key()})
	_ = b.Update(poll.ResultMsg[api.User]{Key: b.session.Key(), Records: bots})
}

func TestBotTokenShownOnce(t *testing.T) {
	m, b := newTestBots(t)

	_ = b.Update(botTokenMsg{username: "deploy-bot", token: "tok-abc123"})

	assert.Contains(t, queueTexts(m.queue), "deploy-bot token: tok-abc123")
}

func TestBotTokenFailure(t *testing.T) {
	m, b := newTestBots(t)

	_ = b.Update(botTokenMsg{username: "deploy-bot", err: errors.New("boom")})

	assert.Contains(t, queueTexts(m.queue), "could not issue token for deploy-bot")
}

func TestIssueTokenOnEmptyListIsNoOp(t *testing.T) {
	_, b := newTestBots(t)
	assert.Nil(t, b.issueToken())
}

func TestDeleteSelectedBot(t *testing.T) {
	_, b := newTestBots(t)
	seedBots(b, api.User{ID: 10, Username: "deploy-bot", IsBot: true})

	assert.NotNil(t, b.deleteSelected())
}

func TestBotDeletedRefreshesList(t *testing.T) {
	m, b := newTestBots(t)

	cmd := b.Update(botDeletedMsg{username: "deploy-bot"})

	assert.Contains(t, queueTexts(m.queue), "bot deploy-bot deleted")
	assert.NotNil(t, cmd)
}

func TestCreateBotRequiresUsername(t *testing.T) {
	m, b := newTestBots(t)
	_ = b.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.True(t, b.creating)

	cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, queueTexts(m.queue), "bot username required")
}

func TestCreateBotSuccess(t *testing.T) {
	m, b := newTestBots(t)
	b.creating = true
	b.working = true

	cmd := b.Update(botCreatedMsg{bot: &api.User{ID: 10, Username: "deploy-bot", IsBot: true}})

	assert.False(t, b.creating)
	assert.Contains(t, queueTexts(m.queue), "bot deploy-bot created")
	assert.NotNil(t, cmd)
}

func TestEscLeavesBotsRoute(t *testing.T) {
	m, b := newTestBots(t)

	_ = b.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, RouteChats, m.route)
}
