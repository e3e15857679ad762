// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the bitum chat server.
//
// Every endpoint replies with the same envelope:
//
//	{ "ok": bool, "error": {"code": int, "message": string} | null, "data": T | null }
//
// The client distinguishes two failure modes and nothing finer:
//   - server-reported failures (ok=false): the envelope decoded, the server
//     said no; the *Error carries the code and message
//   - transport failures (dial, timeout, bad JSON): the request never
//     produced a usable envelope
//
// Authentication rides on the api_token cookie issued by POST /user/token.
// The client keeps it in its cookie jar; callers never touch it.
package api
