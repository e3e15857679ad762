// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestAdaptiveColorsHaveBothVariants(t *testing.T) {
	colors := map[string]lipgloss.AdaptiveColor{
		"Purple":      Purple,
		"Cyan":        Cyan,
		"Emerald":     Emerald,
		"Rose":        Rose,
		"Amber":       Amber,
		"Surface":     Surface,
		"SurfaceDim":  SurfaceDim,
		"TextPrimary": TextPrimary,
		"TextMuted":   TextMuted,
	}
	for name, c := range colors {
		assert.NotEmpty(t, c.Light, "%s missing light variant", name)
		assert.NotEmpty(t, c.Dark, "%s missing dark variant", name)
	}
}

func TestAvatarColorStable(t *testing.T) {
	first := AvatarColor("alice")
	second := AvatarColor("alice")
	assert.Equal(t, first, second)
}

func TestAvatarColorWithinPalette(t *testing.T) {
	for _, name := range []string{"alice", "bob", "carol", "", "яна"} {
		c := AvatarColor(name)
		found := false
		for _, p := range AvatarPalette {
			if p == c {
				found = true
				break
			}
		}
		assert.True(t, found, "color for %q not in palette", name)
	}
}

func TestAvatarColorSpreadsUsers(t *testing.T) {
	seen := make(map[string]bool)
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "henry"}
	for _, name := range names {
		seen[AvatarColor(name).Dark] = true
	}
	// FNV over distinct names should hit more than one bucket.
	assert.Greater(t, len(seen), 1)
}

func TestStatusIndicatorsASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}
	for _, ind := range indicators {
		assert.NotEmpty(t, ind)
		for _, r := range ind {
			assert.Less(t, r, rune(128), "indicator %q is not ASCII", ind)
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("saved"), StatusIndicators.Success))
	assert.True(t, strings.Contains(RenderError("failed"), StatusIndicators.Error))
	assert.True(t, strings.Contains(RenderInfo("note"), StatusIndicators.Info))
}
