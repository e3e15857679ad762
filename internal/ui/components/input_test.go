// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func typeText(c *Composer, text string) {
	for _, r := range text {
		c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestComposerStartsEmpty(t *testing.T) {
	c := NewComposer()
	assert.True(t, c.Empty())
	assert.Equal(t, "", c.Value())
}

func TestComposerTrimsWhitespace(t *testing.T) {
	c := NewComposer()
	typeText(c, "   ")
	assert.True(t, c.Empty())

	typeText(c, "hello ")
	assert.False(t, c.Empty())
	assert.Equal(t, "hello", c.Value())
}

func TestComposerReset(t *testing.T) {
	c := NewComposer()
	typeText(c, "draft")
	c.Reset()
	assert.True(t, c.Empty())
}

func TestComposerFocus(t *testing.T) {
	c := NewComposer()
	assert.True(t, c.Focused())
	c.Blur()
	assert.False(t, c.Focused())
	c.Focus()
	assert.True(t, c.Focused())
}

func TestComposerViewRenders(t *testing.T) {
	c := NewComposer()
	c.SetWidth(60)
	typeText(c, "hello")
	assert.Contains(t, c.View(), "hello")
}
