// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	require.NotNil(t, theme)

	// Styles must render without panicking even before SetSize.
	assert.NotPanics(t, func() {
		theme.OwnBubble.Render("hello")
		theme.PeerBubble.Render("hello")
		theme.EventLine.Render("alice joined")
		theme.ListItemSelected.Render("general")
		theme.FormError.Render("required")
	})
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	assert.Equal(t, 120, theme.Width)
	assert.Equal(t, 40, theme.Height)
}

func TestLayoutModeThresholds(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{width: 40, want: LayoutNarrow},
		{width: 59, want: LayoutNarrow},
		{width: 60, want: LayoutMedium},
		{width: 99, want: LayoutMedium},
		{width: 100, want: LayoutWide},
		{width: 200, want: LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestSpinnerFrames(t *testing.T) {
	assert.Equal(t, time.Second/10, LineSpinner.Duration())

	// Frame selection wraps and tolerates negative ticks.
	assert.Equal(t, LineSpinner.Frames[0], LineSpinner.Frame(0))
	assert.Equal(t, LineSpinner.Frames[1], LineSpinner.Frame(len(LineSpinner.Frames)+1))
	assert.NotEmpty(t, LineSpinner.Frame(-3))

	empty := SpinnerConfig{FPS: 1}
	assert.Equal(t, "", empty.Frame(5))
}
