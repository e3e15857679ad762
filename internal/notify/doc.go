// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements transient, auto-dismissing notifications.
//
// The design splits ownership from rendering. A Queue is an append-only
// sink any part of the application can push entries into: form submit
// handlers, background poll failures, event feed items. A Host is the one
// place those entries become pixels: a fixed bottom-right stack composited
// over whatever view is active. The two are decoupled so a deeply nested
// component never has to thread notification state up to the renderer;
// it just holds the shared *Queue.
//
// A Host must be mounted exactly once, at application start, before any
// view renders. Rendering through a slot with no mounted host is a setup
// bug and fails loudly rather than silently dropping notifications.
package notify
