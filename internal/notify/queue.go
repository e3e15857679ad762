// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

// Style classifies a notification entry.
type Style int

const (
	// StyleInfo is an informational notice (cyan).
	StyleInfo Style = iota
	// StyleError is a failure notice (rose).
	StyleError
	// StyleConfirm is a positive confirmation (emerald).
	StyleConfirm
)

// Auto-dismiss durations per style. Errors stay longer so they can be read.
const (
	InfoDuration    = 4 * time.Second
	ConfirmDuration = 4 * time.Second
	ErrorDuration   = 8 * time.Second
)

// Entry is one transient notification. Entries are created by Enqueue and
// destroyed by Dismiss or expiry; a dismissed entry never comes back.
type Entry struct {
	ID        string
	Text      string
	Style     Style
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the entry has outlived its duration.
// A zero duration means the entry never expires on its own.
func (e *Entry) Expired(now time.Time) bool {
	return e.Duration > 0 && now.Sub(e.CreatedAt) >= e.Duration
}

func durationFor(style Style) time.Duration {
	switch style {
	case StyleError:
		return ErrorDuration
	case StyleConfirm:
		return ConfirmDuration
	default:
		return InfoDuration
	}
}

// =============================================================================
// QUEUE
// =============================================================================

// Queue holds the active notification entries in insertion order.
//
// Writes are append-only plus removal by id, so independent producers
// (poll failures, submit handlers) cannot corrupt each other's entries.
// The mutex covers producers living in command goroutines.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Enqueue appends an entry and returns its id for later dismissal.
func (q *Queue) Enqueue(text string, style Style) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := Entry{
		ID:        uuid.NewString(),
		Text:      text,
		Style:     style,
		CreatedAt: q.now(),
		Duration:  durationFor(style),
	}
	q.entries = append(q.entries, entry)
	return entry.ID
}

// Error enqueues an error entry.
func (q *Queue) Error(text string) string {
	return q.Enqueue(text, StyleError)
}

// Confirm enqueues a confirmation entry.
func (q *Queue) Confirm(text string) string {
	return q.Enqueue(text, StyleConfirm)
}

// Info enqueues an informational entry.
func (q *Queue) Info(text string) string {
	return q.Enqueue(text, StyleInfo)
}

// Dismiss removes the entry with the given id. Dismissing an id that is
// absent, already dismissed, or expired is a no-op.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.entries {
		if q.entries[i].ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Sweep drops expired entries. Called from the host's expiry tick.
func (q *Queue) Sweep() {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.entries[:0]
	for _, entry := range q.entries {
		if !entry.Expired(now) {
			kept = append(kept, entry)
		}
	}
	q.entries = kept
}

// Visible returns a copy of the active entries in insertion order.
// The caller may read the copy freely; mutations never flow back.
func (q *Queue) Visible() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len returns the number of active entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
