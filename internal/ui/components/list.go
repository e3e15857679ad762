// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// SELECTABLE LIST COMPONENT
// =============================================================================

// ListItem is one row in a List: a title plus optional dimmed metadata.
type ListItem struct {
	Title string
	Meta  string
	// Accent colors the title, e.g. an avatar color for member rows.
	// Zero value means the default text color.
	Accent lipgloss.AdaptiveColor
}

// List is a scrollable cursor-driven list shared by the chat list,
// member list, bot list and search results.
type List struct {
	Items  []ListItem
	Width  int
	Height int

	cursor int
	offset int
}

// NewList creates an empty list sized for an 80x20 pane.
func NewList() *List {
	return &List{Width: 80, Height: 20}
}

// SetItems replaces the rows, clamping the cursor into range.
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.scrollToCursor()
}

// SetSize updates the visible pane dimensions.
func (l *List) SetSize(width, height int) {
	l.Width = width
	l.Height = height
	l.scrollToCursor()
}

// Cursor returns the selected index, or -1 when the list is empty.
func (l *List) Cursor() int {
	if len(l.Items) == 0 {
		return -1
	}
	return l.cursor
}

// MoveUp moves the cursor one row up.
func (l *List) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.scrollToCursor()
}

// MoveDown moves the cursor one row down.
func (l *List) MoveDown() {
	if l.cursor < len(l.Items)-1 {
		l.cursor++
	}
	l.scrollToCursor()
}

// scrollToCursor keeps the cursor inside the visible window.
func (l *List) scrollToCursor() {
	if l.Height <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.Height {
		l.offset = l.cursor - l.Height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// View renders the visible window of rows.
func (l *List) View() string {
	if len(l.Items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Padding(1, 1)
		return emptyStyle.Render("Nothing here yet")
	}

	end := l.offset + l.Height
	if l.Height <= 0 || end > len(l.Items) {
		end = len(l.Items)
	}

	metaStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	var rows []string
	for i := l.offset; i < end; i++ {
		item := l.Items[i]

		title := truncate(item.Title, l.Width-4)
		line := title
		if item.Meta != "" {
			line += " " + metaStyle.Render(truncate(item.Meta, l.Width-5-runewidth.StringWidth(title)))
		}

		if i == l.cursor {
			rows = append(rows, lipgloss.NewStyle().
				Background(styles.Purple).
				Foreground(styles.TextInverse).
				Bold(true).
				Padding(0, 1).
				Render("> "+line))
			continue
		}

		rowStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Padding(0, 1)
		if item.Accent.Light != "" || item.Accent.Dark != "" {
			rowStyle = rowStyle.Foreground(item.Accent)
		}
		rows = append(rows, rowStyle.Render("  "+line))
	}

	return strings.Join(rows, "\n")
}
