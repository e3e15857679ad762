// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerAdvancesOnTick(t *testing.T) {
	s := NewSpinner("Loading chats")
	before := s.View()

	cmd := s.Update(SpinnerTickMsg{})
	require.NotNil(t, cmd, "tick must re-arm")
	assert.NotEqual(t, before, s.View())
}

func TestSpinnerIgnoresOtherMessages(t *testing.T) {
	s := NewSpinner("Loading")
	assert.Nil(t, s.Update(struct{}{}))
}

func TestSpinnerLabel(t *testing.T) {
	s := NewSpinner("Loading chats")
	assert.Contains(t, s.View(), "Loading chats")
	s.SetLabel("Loading members")
	assert.Contains(t, s.View(), "Loading members")
}
