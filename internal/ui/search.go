// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeQuery prepares a search term for the server: trimmed and NFC
// normalized, so composed and decomposed input match the same usernames.
func normalizeQuery(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
