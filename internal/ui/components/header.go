// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line bar at the top of every view: brand on the
// left, view title in the middle, signed-in user on the right.
type Header struct {
	Title    string
	Username string
	Width    int
}

// NewHeader creates a header for an 80-column pane.
func NewHeader() *Header {
	return &Header{Width: 80}
}

// SetWidth resizes the header.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header bar.
func (h *Header) View() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Purple)
	userStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	left := brandStyle.Render("bitum")
	if h.Title != "" {
		left += " " + titleStyle.Render(truncate(h.Title, h.Width/2))
	}

	right := ""
	if h.Username != "" {
		right = userStyle.Render(
			styles.StatusIndicators.Active + " " + truncate(h.Username, h.Width/4))
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	bar := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Width(h.Width).
		Padding(0, 1)

	return bar.Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}
