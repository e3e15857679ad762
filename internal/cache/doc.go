// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache persists the most recent chat list and message snapshots
// to a local SQLite database so the UI can paint immediately on startup,
// before the first refresh cycle completes.
//
// The cache is strictly a warm-start optimization. Every successful fetch
// replaces the cached rows wholesale, and stale cached data is always
// overwritten by the next server snapshot. Losing or deleting the database
// file is harmless.
package cache
