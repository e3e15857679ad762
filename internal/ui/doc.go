// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the bitum terminal client: a Bubble Tea program
// with a small route table (login, register, chat list, chat room, bots).
//
// The root model owns the cross-cutting pieces: the session guard that
// resolves the signed-in user exactly once at startup, the notification
// queue and its overlay host, and the app-wide event feed. Each route is
// its own model; switching routes cancels the outgoing route's polling
// sessions so late results can never mutate state.
package ui
