// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package poll

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/notify"
)

// FetchFunc fetches one snapshot's worth of records.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// =============================================================================
// MESSAGES
// =============================================================================

// TickMsg fires when a session's interval elapses.
type TickMsg struct {
	Key   string
	Epoch uint64
}

// ResultMsg delivers a settled fetch.
type ResultMsg[T any] struct {
	Key     string
	Epoch   uint64
	Records []T
	Err     error
}

// Result is a live, successfully applied snapshot, handed to the owning
// view by Session.Update.
type Result[T any] struct {
	Snapshot Snapshot[T]
}

// =============================================================================
// SESSION
// =============================================================================

// Session is a cancelable repeating fetch bound to one resource key.
// It is driven entirely from the Bubble Tea update loop: Start arms the
// first tick, Update consumes this session's ticks and results and re-arms
// the timer after each settled fetch. At most one fetch is ever in flight.
//
// Sessions report their own failures: the queue receives one classified
// entry per failed fetch while the previous snapshot stays untouched.
type Session[T any] struct {
	key      string
	label    string
	interval time.Duration
	fetch    FetchFunc[T]
	queue    *notify.Queue

	epoch    uint64
	inFlight bool
	limit    int
	offset   int

	now func() time.Time
}

// NewSession creates a session for the resource identified by key.
// The label names the resource in failure notifications ("could not
// fetch <label>"). The session is inert until Start.
func NewSession[T any](key, label string, interval time.Duration, queue *notify.Queue, fetch FetchFunc[T]) *Session[T] {
	return &Session[T]{
		key:      key,
		label:    label,
		interval: interval,
		fetch:    fetch,
		queue:    queue,
		now:      time.Now,
	}
}

// WithPage records the query window stamped onto produced snapshots.
func (s *Session[T]) WithPage(limit, offset int) *Session[T] {
	s.limit = limit
	s.offset = offset
	return s
}

// Key returns the session's resource key.
func (s *Session[T]) Key() string {
	return s.key
}

// Start arms the first tick. The first fetch deliberately waits a full
// interval: the view paints its placeholder state first.
func (s *Session[T]) Start() tea.Cmd {
	return s.tickCmd()
}

// Cancel invalidates every outstanding tick and in-flight fetch. Late
// arrivals carrying an older epoch are dropped in Update, so no state
// mutation can happen after Cancel returns.
func (s *Session[T]) Cancel() {
	s.epoch++
	s.inFlight = false
}

// Refresh fetches immediately, skipping the interval wait. Used after
// user mutations (a sent message should show up now, not a tick later).
// A refresh while a fetch is in flight is a no-op: the single in-flight
// invariant outranks freshness.
func (s *Session[T]) Refresh() tea.Cmd {
	if s.inFlight {
		return nil
	}
	s.inFlight = true
	return s.fetchCmd()
}

// Update consumes this session's messages. The returned Result is non-nil
// exactly when a live fetch succeeded and produced a fresh snapshot; the
// caller applies it with Replace. Messages for other sessions or stale
// epochs yield (nil, nil).
func (s *Session[T]) Update(msg tea.Msg) (*Result[T], tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.Key != s.key || msg.Epoch != s.epoch {
			return nil, nil
		}
		if s.inFlight {
			// The previous fetch has not settled; its completion will
			// re-arm the timer.
			return nil, nil
		}
		s.inFlight = true
		return nil, s.fetchCmd()

	case ResultMsg[T]:
		if msg.Key != s.key || msg.Epoch != s.epoch {
			return nil, nil
		}
		s.inFlight = false
		rearm := s.tickCmd()

		if msg.Err != nil {
			s.reportFailure(msg.Err)
			return nil, rearm
		}

		return &Result[T]{
			Snapshot: Snapshot[T]{
				Records:   msg.Records,
				Limit:     s.limit,
				Offset:    s.offset,
				FetchedAt: s.now(),
			},
		}, rearm
	}
	return nil, nil
}

func (s *Session[T]) tickCmd() tea.Cmd {
	epoch := s.epoch
	key := s.key
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{Key: key, Epoch: epoch}
	})
}

func (s *Session[T]) fetchCmd() tea.Cmd {
	epoch := s.epoch
	key := s.key
	fetch := s.fetch
	return func() tea.Msg {
		records, err := fetch(context.Background())
		return ResultMsg[T]{Key: key, Epoch: epoch, Records: records, Err: err}
	}
}

// reportFailure pushes one classified entry. Server-reported and transport
// failures recover identically (the next tick); only the text differs.
func (s *Session[T]) reportFailure(err error) {
	if s.queue == nil {
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		s.queue.Error("could not fetch " + s.label)
		return
	}
	s.queue.Error("server not responding")
}
