// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 10)
	}
	// All words survive wrapping.
	assert.Equal(t, 9, len(strings.Fields(wrapped)))
}

func TestWordWrapPreservesParagraphs(t *testing.T) {
	wrapped := wordWrap("one\n\ntwo", 40)
	assert.Equal(t, "one\n\ntwo", wrapped)
}

func TestWordWrapZeroWidth(t *testing.T) {
	assert.Equal(t, "unchanged", wordWrap("unchanged", 0))
}

func TestMaxLineWidth(t *testing.T) {
	assert.Equal(t, 5, maxLineWidth("ab\nhello\nc"))
	// Wide runes count as two columns.
	assert.Equal(t, 4, maxLineWidth("日本"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := truncate("a very long chat name", 10)
	assert.LessOrEqual(t, runewidth.StringWidth(long), 10)
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.Equal(t, "", truncate("anything", 0))
}

func TestMinInt(t *testing.T) {
	assert.Equal(t, 1, minInt(1, 2))
	assert.Equal(t, -3, minInt(-3, 2))
}
