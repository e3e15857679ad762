// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitum-chat/bitum-tui/internal/api"
)

func testMessage(senderID int, username, content string) api.ChatMessage {
	return api.ChatMessage{
		ID:      1,
		Sender:  api.User{ID: senderID, Username: username},
		Content: content,
	}
}

func TestOwnMessageLabeledYou(t *testing.T) {
	bubble := NewMessageBubble(testMessage(7, "alice", "hello"), 7, nil)
	view := bubble.View()
	assert.Contains(t, view, "you")
	assert.Contains(t, view, "hello")
	assert.NotContains(t, view, "alice")
}

func TestPeerMessageShowsSender(t *testing.T) {
	bubble := NewMessageBubble(testMessage(3, "bob", "hi there"), 7, nil)
	view := bubble.View()
	assert.Contains(t, view, "bob")
	assert.Contains(t, view, "hi there")
}

func TestEmptyContentPlaceholder(t *testing.T) {
	bubble := NewMessageBubble(testMessage(3, "bob", ""), 7, nil)
	assert.Contains(t, bubble.View(), "...")
}

func TestAttachmentChips(t *testing.T) {
	msg := testMessage(3, "bob", "see attached")
	msg.Files = []string{"report.pdf", "photo.png"}
	bubble := NewMessageBubble(msg, 7, nil)
	view := bubble.View()
	assert.Contains(t, view, "report.pdf")
	assert.Contains(t, view, "photo.png")
}

func TestEventLineCentered(t *testing.T) {
	line := EventLine("alice was added to the chat", 60)
	assert.Contains(t, line, "alice was added to the chat")
}

func TestMessageListEmptyState(t *testing.T) {
	list := NewMessageList(nil)
	assert.Contains(t, list.View(), "No messages yet")
}

func TestMessageListRendersInOrder(t *testing.T) {
	list := NewMessageList(nil)
	list.OwnUserID = 7
	list.SetMessages([]api.ChatMessage{
		testMessage(3, "bob", "first"),
		testMessage(7, "alice", "second"),
	})
	view := list.View()
	assert.Less(t, strings.Index(view, "first"), strings.Index(view, "second"))
}
