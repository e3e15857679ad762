// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package poll implements the repeating-fetch primitive behind every
// live list in the client: messages, members, chats, the event feed.
//
// A Session owns one resource snapshot and refreshes it on a fixed
// interval. The loop is deliberately not a free-running ticker: the next
// tick is armed only after the previous fetch settles, so a session never
// has two fetches in flight and snapshots can never be applied out of
// order. A slow server stretches the effective interval instead of piling
// up requests.
//
// Cancellation works by generation: each Cancel bumps the session's epoch,
// and ticks or results stamped with an older epoch are dropped on arrival.
// A view that tears down mid-fetch therefore never has its state touched
// by the late reply.
//
// Failures never blank the previous snapshot. A server-reported failure
// or transport error leaves the stale-but-valid data in place and pushes
// one entry to the notification queue; the next scheduled tick is the only
// retry mechanism.
package poll
