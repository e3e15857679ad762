// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the bitum TUI.
//
// All colors use Lip Gloss AdaptiveColor so the palette adjusts to light
// and dark terminals automatically. The Theme type bundles the styled
// components the views render with; NewTheme detects the terminal's
// color capability via termenv once at startup.
//
// Messages from the signed-in user render with the own-bubble styles;
// everyone else gets a stable avatar color derived from their username
// so the same person always appears in the same hue.
package styles
