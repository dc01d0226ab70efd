// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Project is a workspace holding a knowledge base and its chats.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"clerk_id,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
}

// Chat is a conversation scoped to a project.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ProjectID string    `json:"project_id"`
	OwnerID   string    `json:"clerk_id,omitempty"`
	CreatedAt Timestamp `json:"created_at,omitzero"`
}

// ChatWithMessages is the full conversation payload returned when a chat
// is opened: the chat record plus its complete message history.
type ChatWithMessages struct {
	Chat
	Messages []Message `json:"messages"`
}
