// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/bitum-chat/bitum-tui/internal/api"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrMiss     = errors.New("cache miss")
	ErrClosed   = errors.New("cache closed")
	ErrDatabase = errors.New("cache database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schemaVersion = 1

const schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Chat list snapshot: a single row holding the last fetched chat list
CREATE TABLE IF NOT EXISTS chat_list (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    payload TEXT NOT NULL,       -- JSON-encoded []api.Chat
    fetched_at INTEGER NOT NULL  -- Unix timestamp
);

-- Per-chat message snapshots: the last fetched page for each chat
CREATE TABLE IF NOT EXISTS chat_messages (
    chat_id INTEGER PRIMARY KEY,
    payload TEXT NOT NULL,       -- JSON-encoded []api.ChatMessage
    fetched_at INTEGER NOT NULL  -- Unix timestamp
);
`

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed snapshot cache. It is safe for concurrent use;
// SQLite only supports one writer at a time so the connection pool is
// pinned to a single connection.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// DefaultPath returns the cache database path under dir,
// typically the application config directory.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "cache.db")
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: set pragma: %v", ErrDatabase, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init schema: %v", ErrDatabase, err)
	}
	if _, err := db.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)",
		fmt.Sprint(schemaVersion),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init metadata: %v", ErrDatabase, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database. Further calls to the Store
// return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// =============================================================================
// CHAT LIST
// =============================================================================

// PutChats replaces the cached chat list with the given snapshot.
func (s *Store) PutChats(chats []api.Chat, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("encode chat list: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO chat_list (id, payload, fetched_at) VALUES (1, ?, ?)",
		string(payload), fetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// Chats returns the cached chat list and the time it was fetched.
// Returns ErrMiss when nothing has been cached yet.
func (s *Store) Chats() ([]api.Chat, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, time.Time{}, ErrClosed
	}

	var payload string
	var fetched int64
	err := s.db.QueryRow("SELECT payload, fetched_at FROM chat_list WHERE id = 1").
		Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	var chats []api.Chat
	if err := json.Unmarshal([]byte(payload), &chats); err != nil {
		// A corrupt row is treated as a miss; the next snapshot rewrites it.
		return nil, time.Time{}, ErrMiss
	}
	return chats, time.Unix(fetched, 0), nil
}

// =============================================================================
// MESSAGES
// =============================================================================

// PutMessages replaces the cached message page for a chat.
func (s *Store) PutMessages(chatID int, messages []api.ChatMessage, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO chat_messages (chat_id, payload, fetched_at) VALUES (?, ?, ?)",
		chatID, string(payload), fetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// Messages returns the cached message page for a chat.
// Returns ErrMiss when the chat has no cached page.
func (s *Store) Messages(chatID int) ([]api.ChatMessage, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, time.Time{}, ErrClosed
	}

	var payload string
	var fetched int64
	err := s.db.QueryRow(
		"SELECT payload, fetched_at FROM chat_messages WHERE chat_id = ?", chatID,
	).Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	var messages []api.ChatMessage
	if err := json.Unmarshal([]byte(payload), &messages); err != nil {
		return nil, time.Time{}, ErrMiss
	}
	return messages, time.Unix(fetched, 0), nil
}

// DropMessages removes the cached page for a chat, e.g. after leaving it.
func (s *Store) DropMessages(chatID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.Exec("DELETE FROM chat_messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}
