// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// optimisticPrefix marks messages inserted locally while a send is in
	// flight. Server IDs never use this prefix, so membership is decidable
	// from the ID alone.
	optimisticPrefix = "temp-"

	// syntheticPrefix marks assistant messages reconstructed client-side
	// from streamed tokens when the completion event carried no persisted
	// record.
	syntheticPrefix = "ai-"
)

// Citation points at the source passage an assistant message drew from.
type Citation struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
}

// Message is a single chat message.
type Message struct {
	ID        string     `json:"id"`
	ChatID    string     `json:"chat_id,omitempty"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt Timestamp  `json:"created_at,omitzero"`
}

// NewOptimisticMessage builds the locally-echoed user message shown while
// the send is in flight. Its ID lives in the "temp-" namespace and is
// replaced by the server's persisted record on completion.
func NewOptimisticMessage(content string) Message {
	return Message{
		ID:      optimisticPrefix + uuid.NewString(),
		Role:    RoleUser,
		Content: content,
	}
}

// NewSyntheticAssistantMessage builds an assistant message from locally
// accumulated stream tokens, used when the completion event omitted the
// persisted assistant record.
func NewSyntheticAssistantMessage(chatID, content string) Message {
	return Message{
		ID:      syntheticPrefix + uuid.NewString(),
		ChatID:  chatID,
		Role:    RoleAssistant,
		Content: content,
	}
}

// IsOptimisticID reports whether id names a locally-inserted optimistic
// message.
func IsOptimisticID(id string) bool {
	return strings.HasPrefix(id, optimisticPrefix)
}

// IsSyntheticID reports whether id names a client-synthesized assistant
// message.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, syntheticPrefix)
}

// IsOptimistic reports whether the message was inserted locally and not yet
// confirmed by the server.
func (m Message) IsOptimistic() bool {
	return IsOptimisticID(m.ID)
}
