// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testItems(titles ...string) []ListItem {
	items := make([]ListItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, ListItem{Title: title})
	}
	return items
}

func TestListEmpty(t *testing.T) {
	l := NewList()
	assert.Equal(t, -1, l.Cursor())
	assert.Contains(t, l.View(), "Nothing here yet")
}

func TestListNavigation(t *testing.T) {
	l := NewList()
	l.SetItems(testItems("general", "random", "dev"))

	assert.Equal(t, 0, l.Cursor())
	l.MoveUp() // already at the top
	assert.Equal(t, 0, l.Cursor())

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Cursor())
	l.MoveDown() // already at the bottom
	assert.Equal(t, 2, l.Cursor())

	assert.Equal(t, "dev", l.Items[l.Cursor()].Title)
}

func TestListCursorClampedOnShrink(t *testing.T) {
	l := NewList()
	l.SetItems(testItems("a", "b", "c"))
	l.MoveDown()
	l.MoveDown()

	l.SetItems(testItems("a"))
	assert.Equal(t, 0, l.Cursor())
}

func TestListScrollWindow(t *testing.T) {
	l := NewList()
	l.SetSize(40, 2)
	l.SetItems(testItems("one", "two", "three", "four"))

	// Cursor below the window scrolls it down.
	l.MoveDown()
	l.MoveDown()
	view := l.View()
	assert.NotContains(t, view, "one")
	assert.Contains(t, view, "three")

	// Moving back up scrolls the window up again.
	l.MoveUp()
	l.MoveUp()
	view = l.View()
	assert.Contains(t, view, "one")
	assert.NotContains(t, view, "three")
}

func TestListSelectedRowMarked(t *testing.T) {
	l := NewList()
	l.SetItems(testItems("general", "random"))
	assert.Contains(t, l.View(), "> general")
}
