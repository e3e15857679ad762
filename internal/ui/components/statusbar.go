// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar listing the shortcuts of the active view.
type StatusBar struct {
	Shortcuts []Shortcut
	Width     int
}

// NewStatusBar creates a status bar for an 80-column pane.
func NewStatusBar() *StatusBar {
	return &StatusBar{Width: 80}
}

// SetWidth resizes the bar.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetShortcuts replaces the displayed hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// View renders the bar, dropping hints from the right when they overflow.
func (s *StatusBar) View() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		part := keyStyle.Render(sc.Key) + " " + descStyle.Render(sc.Desc)
		w := lipgloss.Width(part) + 3
		if used+w > s.Width-2 {
			break
		}
		parts = append(parts, part)
		used += w
	}

	bar := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(s.Width).
		Padding(0, 1)

	return bar.Render(strings.Join(parts, "   "))
}
