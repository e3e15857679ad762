// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_InsertionOrderMinusDismissed(t *testing.T) {
	q := NewQueue()

	idA := q.Error("a")
	idB := q.Info("b")
	idC := q.Confirm("c")

	q.Dismiss(idB)

	visible := q.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, idA, visible[0].ID)
	assert.Equal(t, idC, visible[1].ID)
	assert.Equal(t, "a", visible[0].Text)
	assert.Equal(t, "c", visible[1].Text)
}

func TestQueue_DismissIsIdempotent(t *testing.T) {
	q := NewQueue()
	id := q.Error("boom")

	q.Dismiss(id)
	assert.NotPanics(t, func() {
		q.Dismiss(id)
		q.Dismiss("never-existed")
	})
	assert.Zero(t, q.Len())
}

func TestQueue_EnqueueDismissRoundTrip(t *testing.T) {
	q := NewQueue()
	id := q.Enqueue("X", StyleError)
	q.Dismiss(id)

	for _, entry := range q.Visible() {
		assert.NotEqual(t, id, entry.ID)
	}
}

func TestQueue_UniqueIDs(t *testing.T) {
	q := NewQueue()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := q.Info("n")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestQueue_StyleDurations(t *testing.T) {
	q := NewQueue()
	q.Error("e")
	q.Confirm("c")
	q.Info("i")

	visible := q.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, ErrorDuration, visible[0].Duration)
	assert.Equal(t, ConfirmDuration, visible[1].Duration)
	assert.Equal(t, InfoDuration, visible[2].Duration)
}

func TestQueue_SweepDropsOnlyExpired(t *testing.T) {
	now := time.Now()
	q := NewQueue()
	q.now = func() time.Time { return now }

	oldID := q.Info("old")

	// Second entry arrives 3s later; the first expires at +4s.
	now = now.Add(3 * time.Second)
	freshID := q.Info("fresh")

	now = now.Add(2 * time.Second)
	q.Sweep()

	visible := q.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, freshID, visible[0].ID)
	assert.NotEqual(t, oldID, visible[0].ID)
}

func TestQueue_VisibleReturnsCopy(t *testing.T) {
	q := NewQueue()
	q.Info("original")

	visible := q.Visible()
	visible[0].Text = "mutated"

	assert.Equal(t, "original", q.Visible()[0].Text)
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Error("from goroutine")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Len())
}
