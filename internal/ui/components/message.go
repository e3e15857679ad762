// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message. Messages from the signed-in
// user get blue right-aligned bubbles; everyone else renders left-aligned
// with their avatar color on the sender name.
type MessageBubble struct {
	Message       api.ChatMessage
	OwnUserID     int
	Width         int
	ShowTimestamp bool
	markdown      *Markdown
}

// NewMessageBubble creates a bubble for one message.
func NewMessageBubble(msg api.ChatMessage, ownUserID int, markdown *Markdown) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		OwnUserID:     ownUserID,
		Width:         80,
		ShowTimestamp: true,
		markdown:      markdown,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Sender.ID == b.OwnUserID {
		return b.renderOwnBubble()
	}
	return b.renderPeerBubble()
}

// ==========================================================================
// OWN BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderOwnBubble() string {
	content := b.renderContent()

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.OwnBubbleFg).
		Background(styles.OwnBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.OwnBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(content)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("you")

	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	// Right-align the bubble with left margin
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(
		lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// PEER BUBBLE - Neutral tones, left-aligned, avatar-colored sender
// ==========================================================================

func (b *MessageBubble) renderPeerBubble() string {
	content := b.renderContent()

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.PeerBubbleFg).
		Background(styles.PeerBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.PeerBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	bubble := bubbleStyle.Render(content)

	senderStyle := lipgloss.NewStyle().
		Foreground(styles.AvatarColor(b.Message.Sender.Username)).
		Bold(true)
	header := senderStyle.Render(b.Message.Sender.Username)

	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

// renderContent wraps the message body and appends attachment chips.
func (b *MessageBubble) renderContent() string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	content := b.Message.Content
	if b.markdown != nil && content != "" {
		b.markdown.SetWidth(maxContentWidth)
		content = strings.TrimRight(b.markdown.Render(content), "\n")
	} else {
		content = wordWrap(content, maxContentWidth)
	}
	if content == "" {
		content = "..."
	}

	if len(b.Message.Files) > 0 {
		chipStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Background(styles.SurfaceBright).
			Padding(0, 1)
		chips := make([]string, 0, len(b.Message.Files))
		for _, f := range b.Message.Files {
			chips = append(chips, chipStyle.Render("@ "+truncate(f, maxContentWidth-4)))
		}
		content += "\n" + strings.Join(chips, " ")
	}

	return content
}

// renderTimestamp renders a dimmed timestamp, date-prefixed when the
// message is from another day.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Created()
	if ts.IsZero() {
		return ""
	}

	timestampStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("15:04")
	} else {
		formatted = ts.Format("Jan 2, 15:04")
	}

	return timestampStyle.Render(formatted)
}

// =============================================================================
// EVENT LINE - Centered amber notice for membership changes
// =============================================================================

// EventLine renders a centered system notice inside the message flow,
// e.g. "alice was added to the chat".
func EventLine(text string, width int) string {
	lineStyle := lipgloss.NewStyle().
		Foreground(styles.EventLineFg).
		Background(styles.EventLineBg).
		Padding(0, 1)

	centerStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center)

	return centerStyle.Render(lineStyle.Render(truncate(text, width-4)))
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a chat's message history oldest-first.
type MessageList struct {
	Messages       []api.ChatMessage
	OwnUserID      int
	Width          int
	ShowTimestamps bool
	markdown       *Markdown
}

// NewMessageList creates an empty message list.
func NewMessageList(markdown *Markdown) *MessageList {
	return &MessageList{
		Width:          80,
		ShowTimestamps: true,
		markdown:       markdown,
	}
}

// SetMessages replaces the displayed messages.
func (ml *MessageList) SetMessages(messages []api.ChatMessage) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		return emptyStyle.Render("No messages yet. Say hello!")
	}

	var bubbles []string
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.OwnUserID, ml.markdown)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n")
}
