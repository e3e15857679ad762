// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitum-chat/bitum-tui/internal/api"
	"github.com/bitum-chat/bitum-tui/internal/notify"
)

// fakeFetch is a controllable transport double.
type fakeFetch struct {
	records []string
	err     error
	calls   int
}

func (f *fakeFetch) fn(context.Context) ([]string, error) {
	f.calls++
	return f.records, f.err
}

func newTestSession(queue *notify.Queue, fetch FetchFunc[string]) *Session[string] {
	return NewSession("chat:5:messages", "messages", 50*time.Millisecond, queue, fetch)
}

// runFetch drives one tick through the session and executes the fetch
// command it returns, yielding the result message the program loop would
// deliver.
func runFetch(t *testing.T, s *Session[string]) tea.Msg {
	t.Helper()
	_, cmd := s.Update(TickMsg{Key: s.Key(), Epoch: s.epoch})
	require.NotNil(t, cmd, "tick should start a fetch")
	return cmd()
}

func TestSession_SuccessReplacesSnapshot(t *testing.T) {
	fetch := &fakeFetch{records: []string{"hello"}}
	s := newTestSession(notify.NewQueue(), fetch.fn).WithPage(40, 0)

	msg := runFetch(t, s)
	res, rearm := s.Update(msg)

	require.NotNil(t, res)
	assert.NotNil(t, rearm, "settled fetch must re-arm the timer")
	assert.Equal(t, []string{"hello"}, res.Snapshot.Records)
	assert.Equal(t, 40, res.Snapshot.Limit)
	assert.False(t, res.Snapshot.Empty())

	prior := Snapshot[string]{Records: []string{"placeholder"}}
	assert.Equal(t, res.Snapshot, Replace(prior, res.Snapshot))
}

func TestSession_ServerFailureKeepsSnapshotAndNotifiesOnce(t *testing.T) {
	queue := notify.NewQueue()
	fetch := &fakeFetch{err: &api.Error{Code: 500, Message: "nope"}}
	s := newTestSession(queue, fetch.fn)

	msg := runFetch(t, s)
	res, rearm := s.Update(msg)

	assert.Nil(t, res, "a failed fetch must not produce a snapshot")
	assert.NotNil(t, rearm, "failures still re-arm the timer")

	entries := queue.Visible()
	require.Len(t, entries, 1)
	assert.Equal(t, "could not fetch messages", entries[0].Text)
	assert.Equal(t, notify.StyleError, entries[0].Style)
}

func TestSession_TransportFailureDistinctText(t *testing.T) {
	queue := notify.NewQueue()
	fetch := &fakeFetch{err: errors.New("dial tcp: connection refused")}
	s := newTestSession(queue, fetch.fn)

	res, _ := s.Update(runFetch(t, s))
	assert.Nil(t, res)

	entries := queue.Visible()
	require.Len(t, entries, 1)
	assert.Equal(t, "server not responding", entries[0].Text)
}

func TestSession_SingleInFlightFetch(t *testing.T) {
	fetch := &fakeFetch{}
	s := newTestSession(notify.NewQueue(), fetch.fn)

	_, first := s.Update(TickMsg{Key: s.Key(), Epoch: s.epoch})
	require.NotNil(t, first)

	// A second tick before the fetch settles must not start another.
	_, second := s.Update(TickMsg{Key: s.Key(), Epoch: s.epoch})
	assert.Nil(t, second)

	// Refresh is likewise refused while in flight.
	assert.Nil(t, s.Refresh())

	// After the fetch settles, ticks work again. The returned command is
	// the fetch itself; it only runs when executed.
	res, _ := s.Update(first())
	require.NotNil(t, res)
	_, third := s.Update(TickMsg{Key: s.Key(), Epoch: s.epoch})
	require.NotNil(t, third)
	assert.Equal(t, 1, fetch.calls, "arming a fetch is not running it")

	res, _ = s.Update(third())
	require.NotNil(t, res)
	assert.Equal(t, 2, fetch.calls)
}

func TestSession_CancelDropsInFlightResult(t *testing.T) {
	queue := notify.NewQueue()
	fetch := &fakeFetch{records: []string{"late"}}
	s := newTestSession(queue, fetch.fn)

	msg := runFetch(t, s)
	s.Cancel()

	res, cmd := s.Update(msg)
	assert.Nil(t, res, "a canceled session must never apply a late result")
	assert.Nil(t, cmd, "a canceled session must not re-arm")
	assert.Zero(t, queue.Len(), "a canceled session must not notify")
}

func TestSession_CancelInvalidatesPendingTicks(t *testing.T) {
	fetch := &fakeFetch{}
	s := newTestSession(notify.NewQueue(), fetch.fn)

	staleEpoch := s.epoch
	s.Cancel()

	_, cmd := s.Update(TickMsg{Key: s.Key(), Epoch: staleEpoch})
	assert.Nil(t, cmd)
	assert.Zero(t, fetch.calls)
}

func TestSession_IgnoresOtherSessionsMessages(t *testing.T) {
	fetch := &fakeFetch{}
	s := newTestSession(notify.NewQueue(), fetch.fn)

	_, cmd := s.Update(TickMsg{Key: "chat:5:members", Epoch: 0})
	assert.Nil(t, cmd)

	res, cmd := s.Update(ResultMsg[string]{Key: "chat:5:members", Epoch: 0, Records: []string{"x"}})
	assert.Nil(t, res)
	assert.Nil(t, cmd)
}

func TestSession_RefreshFetchesImmediately(t *testing.T) {
	fetch := &fakeFetch{records: []string{"fresh"}}
	s := newTestSession(notify.NewQueue(), fetch.fn)

	cmd := s.Refresh()
	require.NotNil(t, cmd)

	res, rearm := s.Update(cmd())
	require.NotNil(t, res)
	assert.NotNil(t, rearm)
	assert.Equal(t, []string{"fresh"}, res.Snapshot.Records)
}

func TestReplace_AlwaysWholesale(t *testing.T) {
	old := Snapshot[int]{Records: []int{1, 2, 3}, FetchedAt: time.Now()}
	next := Snapshot[int]{Records: []int{4}, FetchedAt: time.Now()}

	got := Replace(old, next)
	assert.Equal(t, []int{4}, got.Records)
}
