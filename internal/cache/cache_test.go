// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitum-chat/bitum-tui/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DefaultPath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestChatsMissWhenEmpty(t *testing.T) {
	store := openTestStore(t)

	_, _, err := store.Chats()
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPutChatsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	fetched := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	chats := []api.Chat{
		{ID: 1, Name: "general"},
		{ID: 2, Name: "random"},
	}

	require.NoError(t, store.PutChats(chats, fetched))

	got, at, err := store.Chats()
	require.NoError(t, err)
	assert.Equal(t, chats, got)
	assert.Equal(t, fetched.Unix(), at.Unix())
}

func TestPutChatsReplacesWholesale(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.PutChats([]api.Chat{{ID: 1, Name: "old"}}, now))
	require.NoError(t, store.PutChats([]api.Chat{{ID: 2, Name: "new"}}, now))

	got, _, err := store.Chats()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name)
}

func TestMessagesPerChat(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.PutMessages(1, []api.ChatMessage{{ID: 10, Content: "hi"}}, now))
	require.NoError(t, store.PutMessages(2, []api.ChatMessage{{ID: 20, Content: "yo"}}, now))

	got, _, err := store.Messages(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)

	got, _, err = store.Messages(2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "yo", got[0].Content)

	_, _, err = store.Messages(3)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDropMessages(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.PutMessages(1, []api.ChatMessage{{ID: 10}}, time.Now()))
	require.NoError(t, store.DropMessages(1))

	_, _, err := store.Messages(1)
	assert.ErrorIs(t, err, ErrMiss)

	// Dropping an absent chat is not an error.
	require.NoError(t, store.DropMessages(42))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.PutChats([]api.Chat{{ID: 7, Name: "durable"}}, time.Now()))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, _, err := reopened.Chats()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].ID)
}

func TestClosedStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	assert.True(t, errors.Is(store.PutChats(nil, time.Now()), ErrClosed))
	_, _, err := store.Chats()
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = store.Messages(1)
	assert.ErrorIs(t, err, ErrClosed)
}
