// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the bitum TUI.
//
// Components are plain view helpers: they hold their own display state
// (width, cursor position, spinner frame) but never talk to the server.
// The route models in the ui package own the data and hand it to these
// components for rendering.
package components
