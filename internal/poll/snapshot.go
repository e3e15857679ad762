// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package poll

import "time"

// Snapshot is the full, point-in-time result of one fetch of a list
// resource, together with the query window that produced it.
type Snapshot[T any] struct {
	Records []T
	Limit   int
	Offset  int

	// FetchedAt is when the snapshot was taken; the zero value marks the
	// placeholder state before the first successful fetch.
	FetchedAt time.Time
}

// Empty reports whether this is the pre-first-fetch placeholder.
func (s Snapshot[T]) Empty() bool {
	return s.FetchedAt.IsZero()
}

// Replace is the reconciler: the server is the single source of truth for
// list resources, so a new snapshot always wins wholesale. Records present
// only in the old snapshot are discarded, never merged: a field-by-field
// merge could represent a state the server never held.
func Replace[T any](_, next Snapshot[T]) Snapshot[T] {
	return next
}
