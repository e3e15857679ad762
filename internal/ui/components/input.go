// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// COMPOSER COMPONENT
// =============================================================================

// composerCharLimit caps a single message body.
const composerCharLimit = 4096

// Composer wraps the message input line at the bottom of a chat view.
type Composer struct {
	input textinput.Model
	width int
}

// NewComposer creates a focused composer with the standard prompt.
func NewComposer() *Composer {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = composerCharLimit
	ti.Focus()

	return &Composer{input: ti, width: 80}
}

// SetWidth resizes the input line.
func (c *Composer) SetWidth(width int) {
	c.width = width
	// Prompt (2) plus container padding (2) plus char counter margin.
	inner := width - 12
	if inner < 10 {
		inner = 10
	}
	c.input.Width = inner
}

// Focus focuses the input and returns the blink command.
func (c *Composer) Focus() tea.Cmd {
	c.input.Focus()
	return textinput.Blink
}

// Blur removes focus.
func (c *Composer) Blur() {
	c.input.Blur()
}

// Focused reports whether the composer has focus.
func (c *Composer) Focused() bool {
	return c.input.Focused()
}

// Value returns the current text with surrounding whitespace removed.
func (c *Composer) Value() string {
	return strings.TrimSpace(c.input.Value())
}

// Empty reports whether there is nothing to send.
func (c *Composer) Empty() bool {
	return c.Value() == ""
}

// Reset clears the input after a send.
func (c *Composer) Reset() {
	c.input.Reset()
}

// Update forwards key events to the underlying input.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the bordered input line with a character counter.
func (c *Composer) View() string {
	counterStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	used := len([]rune(c.input.Value()))
	counter := ""
	if used > composerCharLimit*3/4 {
		counter = counterStyle.Render(
			strconv.Itoa(used) + "/" + strconv.Itoa(composerCharLimit))
	}

	container := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Width(c.width).
		Padding(0, 1)

	line := c.input.View()
	if counter != "" {
		line += " " + counter
	}
	return container.Render(line)
}
