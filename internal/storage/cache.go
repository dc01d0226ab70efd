// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/nextgensoft/ragdesk/internal/model"
)

// ErrNotCached means the conversation has never been loaded on this
// machine.
var ErrNotCached = errors.New("conversation not in cache")

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	chat_id    TEXT PRIMARY KEY,
	project_id TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL,
	cached_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_project ON conversations(project_id);
`

// Cache is a sqlite-backed conversation store. Safe for concurrent use;
// database/sql serializes access.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure cache: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveConversation replaces the cached copy of a conversation.
func (c *Cache) SaveConversation(chat model.ChatWithMessages) error {
	payload, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT INTO conversations (chat_id, project_id, title, payload, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			project_id = excluded.project_id,
			title      = excluded.title,
			payload    = excluded.payload,
			cached_at  = excluded.cached_at
	`, chat.ID, chat.ProjectID, chat.Title, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	return nil
}

// LoadConversation returns the cached copy of a conversation.
func (c *Cache) LoadConversation(chatID string) (model.ChatWithMessages, error) {
	var payload string
	err := c.db.QueryRow(
		`SELECT payload FROM conversations WHERE chat_id = ?`, chatID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChatWithMessages{}, ErrNotCached
	}
	if err != nil {
		return model.ChatWithMessages{}, fmt.Errorf("read conversation: %w", err)
	}

	var chat model.ChatWithMessages
	if err := json.Unmarshal([]byte(payload), &chat); err != nil {
		return model.ChatWithMessages{}, fmt.Errorf("decode cached conversation: %w", err)
	}
	return chat, nil
}

// ListConversations returns cached chat metadata for a project, newest
// first. An empty projectID lists everything.
func (c *Cache) ListConversations(projectID string) ([]model.Chat, error) {
	query := `SELECT chat_id, project_id, title FROM conversations`
	args := []any{}
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY cached_at DESC`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var chats []model.Chat
	for rows.Next() {
		var chat model.Chat
		if err := rows.Scan(&chat.ID, &chat.ProjectID, &chat.Title); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// DeleteConversation drops one cached conversation.
func (c *Cache) DeleteConversation(chatID string) error {
	_, err := c.db.Exec(`DELETE FROM conversations WHERE chat_id = ?`, chatID)
	return err
}

// Prune removes entries older than the retention window.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := c.db.Exec(`DELETE FROM conversations WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
