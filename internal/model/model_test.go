// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimisticMessageIdentity(t *testing.T) {
	m := NewOptimisticMessage("what's in the lease?")

	assert.True(t, m.IsOptimistic())
	assert.True(t, IsOptimisticID(m.ID))
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "what's in the lease?", m.Content)

	// Two optimistic messages never collide.
	other := NewOptimisticMessage("again")
	assert.NotEqual(t, m.ID, other.ID)
}

func TestSyntheticAssistantMessage(t *testing.T) {
	m := NewSyntheticAssistantMessage("chat-1", "30 days' notice is required.")

	assert.True(t, IsSyntheticID(m.ID))
	assert.False(t, m.IsOptimistic())
	assert.Equal(t, RoleAssistant, m.Role)
	assert.Equal(t, "chat-1", m.ChatID)
}

func TestServerIDsOutsideLocalNamespaces(t *testing.T) {
	for _, id := range []string{"msg_0a1b2c3d", "7f9d2e10-1111-4222-8333-444455556666", "template-1"} {
		assert.False(t, IsOptimisticID(id), id)
	}
	// Prefix check is exact.
	assert.True(t, IsOptimisticID("temp-123"))
	assert.False(t, IsSyntheticID("air-quality"))
	assert.True(t, IsSyntheticID("ai-123"))
}

func TestChatWithMessagesDecoding(t *testing.T) {
	payload := `{
		"id": "chat-9",
		"title": "Lease questions",
		"project_id": "proj-1",
		"created_at": "2025-03-04T10:20:30Z",
		"messages": [
			{"id": "m1", "role": "user", "content": "hi", "created_at": "2025-03-04T10:20:31.123456"},
			{"id": "m2", "role": "assistant", "content": "hello", "citations": [{"filename": "lease.pdf", "page": 4}]}
		]
	}`

	var chat ChatWithMessages
	require.NoError(t, json.Unmarshal([]byte(payload), &chat))

	assert.Equal(t, "chat-9", chat.ID)
	assert.Equal(t, "proj-1", chat.ProjectID)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, RoleAssistant, chat.Messages[1].Role)
	require.Len(t, chat.Messages[1].Citations, 1)
	assert.Equal(t, "lease.pdf", chat.Messages[1].Citations[0].Filename)
	assert.Equal(t, 4, chat.Messages[1].Citations[0].Page)

	// Naive timestamps (no zone) still parse.
	assert.False(t, chat.Messages[0].CreatedAt.IsZero())
	// Missing timestamps decode to zero without error.
	assert.True(t, chat.Messages[1].CreatedAt.IsZero())
}

func TestTimestampNull(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"id":"m1","role":"user","content":"x","created_at":null}`), &m))
	assert.True(t, m.CreatedAt.IsZero())
}

func TestSettingsValidate(t *testing.T) {
	valid := ProjectSettings{
		EmbeddingModel:      "text-embedding-3-small",
		RAGStrategy:         "hybrid",
		AgentType:           "standard",
		ChunksPerSearch:     10,
		FinalContextSize:    5,
		SimilarityThreshold: 0.7,
		NumberOfQueries:     3,
		VectorWeight:        0.6,
		KeywordWeight:       0.4,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.SimilarityThreshold = 1.5
	assert.Error(t, bad.Validate())

	bad = valid
	bad.ChunksPerSearch = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.NumberOfQueries = 11
	assert.Error(t, bad.Validate())
}
