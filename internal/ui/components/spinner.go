// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// SpinnerTickMsg advances a spinner one frame.
type SpinnerTickMsg struct{}

// Spinner shows an animated indicator while a view waits on its first
// snapshot.
type Spinner struct {
	config styles.SpinnerConfig
	tick   int
	label  string
}

// NewSpinner creates a spinner with the given label, e.g. "Loading chats".
func NewSpinner(label string) *Spinner {
	return &Spinner{
		config: styles.LineSpinner,
		label:  label,
	}
}

// NewDotsSpinner creates a three-dot spinner for short in-flight
// operations like a message send.
func NewDotsSpinner(label string) *Spinner {
	return &Spinner{
		config: styles.DotsSpinner,
		label:  label,
	}
}

// SetLabel updates the text shown next to the spinner.
func (s *Spinner) SetLabel(label string) {
	s.label = label
}

// Tick returns the command that schedules the next frame.
func (s *Spinner) Tick() tea.Cmd {
	return tea.Tick(s.config.Duration(), func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// Update advances the frame and re-arms the tick.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(SpinnerTickMsg); !ok {
		return nil
	}
	s.tick++
	return s.Tick()
}

// View renders the current frame and label.
func (s *Spinner) View() string {
	frameStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	out := frameStyle.Render(s.config.Frame(s.tick))
	if s.label != "" {
		out += " " + labelStyle.Render(s.label)
	}
	return out
}
