// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bitum-chat/bitum-tui/internal/ui/styles"
)

// DefaultSlot is the slot name the application mounts its host under.
const DefaultSlot = "toasts"

// maxVisible caps how many entries the host draws at once. The queue
// itself is unbounded; older entries simply wait their turn off-screen.
const maxVisible = 5

// sweepInterval is how often the host checks for expired entries.
const sweepInterval = 100 * time.Millisecond

// =============================================================================
// HOST REGISTRY
// =============================================================================

var (
	hostsMu sync.Mutex
	hosts   = map[string]*Host{}
)

// Host renders one queue's entries into a fixed overlay slot.
type Host struct {
	slot  string
	queue *Queue
}

// Mount registers a host for slot, rendering entries from queue.
// Mounting the same slot twice is a setup bug.
func Mount(slot string, queue *Queue) (*Host, error) {
	hostsMu.Lock()
	defer hostsMu.Unlock()

	if _, taken := hosts[slot]; taken {
		return nil, fmt.Errorf("notification slot %q already mounted", slot)
	}
	h := &Host{slot: slot, queue: queue}
	hosts[slot] = h
	return h, nil
}

// MustMount is Mount for application startup, where a mount failure means
// the wiring is wrong and nothing sensible can run.
func MustMount(slot string, queue *Queue) *Host {
	h, err := Mount(slot, queue)
	if err != nil {
		panic(err)
	}
	return h
}

// HostFor looks up the host mounted under slot. A missing host is fatal
// setup breakage: notifications would be dropped silently otherwise.
func HostFor(slot string) (*Host, error) {
	hostsMu.Lock()
	defer hostsMu.Unlock()

	h, ok := hosts[slot]
	if !ok {
		return nil, fmt.Errorf("no notification host mounted under %q", slot)
	}
	return h, nil
}

// Unmount releases a slot. Exists for tests; the application mounts once
// for its whole lifetime.
func Unmount(slot string) {
	hostsMu.Lock()
	defer hostsMu.Unlock()
	delete(hosts, slot)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg drives expiry sweeps.
type TickMsg struct {
	Time time.Time
}

// DismissMsg requests dismissal of one entry.
type DismissMsg struct {
	ID string
}

// TickCmd schedules the next expiry sweep.
func TickCmd() tea.Cmd {
	return tea.Tick(sweepInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// Update handles the host's messages: expiry ticks and dismissals.
// It returns the follow-up command for ticks so the sweep keeps running
// while any entry is alive.
func (h *Host) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TickMsg:
		h.queue.Sweep()
		if h.queue.Len() > 0 {
			return TickCmd()
		}
		return nil
	case DismissMsg:
		h.queue.Dismiss(msg.ID)
		return nil
	}
	return nil
}

// =============================================================================
// RENDERING
// =============================================================================

// Overlay composites the current entries over a fully rendered view.
// With no active entries the view passes through untouched.
func (h *Host) Overlay(view string, width, height int) string {
	entries := h.queue.Visible()
	if len(entries) == 0 {
		return view
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	return overlayBottomRight(view, renderStack(entries, width), width, height)
}

// renderStack renders entries vertically, oldest on top.
func renderStack(entries []Entry, width int) string {
	rendered := make([]string, 0, len(entries))
	for i := range entries {
		rendered = append(rendered, renderEntry(&entries[i], width))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

func renderEntry(entry *Entry, width int) string {
	maxWidth := 50
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 24 {
		maxWidth = 24
	}

	var accent lipgloss.AdaptiveColor
	var icon string
	switch entry.Style {
	case StyleError:
		accent = styles.Rose
		icon = styles.StatusIndicators.Error
	case StyleConfirm:
		accent = styles.Emerald
		icon = styles.StatusIndicators.Success
	default:
		accent = styles.Cyan
		icon = styles.StatusIndicators.Info
	}

	iconStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Width(maxWidth - 6)
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)

	content := iconStyle.Render(icon+" ") + textStyle.Render(entry.Text)
	content += "\n" + hintStyle.Render("[x] dismiss")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(content)
}

// overlayBottomRight splices the stack into the bottom-right corner of the
// base view, line by line, leaving room for a status bar.
func overlayBottomRight(base, stack string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	stackLines := strings.Split(stack, "\n")

	startRow := height - len(stackLines) - 2
	if startRow < 0 {
		startRow = 0
	}

	result := make([]string, len(baseLines))
	for i, baseLine := range baseLines {
		stackIdx := i - startRow
		if stackIdx < 0 || stackIdx >= len(stackLines) || lipgloss.Width(stackLines[stackIdx]) == 0 {
			result[i] = baseLine
			continue
		}

		stackLine := stackLines[stackIdx]
		room := width - lipgloss.Width(stackLine) - 1
		if room < 0 {
			room = 0
		}
		if lipgloss.Width(baseLine) > room {
			baseLine = truncateToWidth(baseLine, room)
		}
		if pad := room - lipgloss.Width(baseLine); pad > 0 {
			baseLine += strings.Repeat(" ", pad)
		}
		result[i] = baseLine + stackLine
	}
	return strings.Join(result, "\n")
}

// truncateToWidth cuts a line to a visible width. The base line may carry
// SGR sequences from the route's own styling; a naive rune cut could drop
// the closing reset and bleed color into the stack, so the cut is
// escape-aware and keeps sequences past the cut point.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		width = 0
	}
	return ansi.Truncate(s, width, "")
}
