// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgensoft/ragdesk/internal/model"
)

func TestListProjects(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects", r.URL.Path)
		io.WriteString(w, `{"message": "ok", "data": [
			{"id": "p1", "name": "Leases", "created_at": "2025-02-01T08:00:00Z"},
			{"id": "p2", "name": "Contracts"}
		]}`)
	}))

	projects, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Leases", projects[0].Name)
	assert.False(t, projects[0].CreatedAt.IsZero())
}

func TestCreateChatSendsProjectID(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chats", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lease questions", body["title"])
		assert.Equal(t, "p1", body["project_id"])
		io.WriteString(w, `{"data": {"id": "c1", "title": "Lease questions", "project_id": "p1"}}`)
	}))

	chat, err := c.CreateChat(context.Background(), "p1", "Lease questions")
	require.NoError(t, err)
	assert.Equal(t, "c1", chat.ID)
}

func TestGetChatUnwrapsDoubleEnvelope(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": {"data": {
			"id": "c1", "title": "T", "project_id": "p1",
			"messages": [{"id": "m1", "role": "user", "content": "hi"}]
		}}}`)
	}))

	chat, err := c.GetChat(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", chat.ID)
	require.Len(t, chat.Messages, 1)
}

func TestGetChatMissingIDIsMalformed(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": {"messages": []}}`)
	}))

	_, err := c.GetChat(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrMalformedChat)
}

func TestUpdateSettingsValidatesLocally(t *testing.T) {
	hit := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))

	bad := model.ProjectSettings{ChunksPerSearch: 0}
	_, err := c.UpdateSettings(context.Background(), "p1", bad)
	require.Error(t, err)
	assert.False(t, hit, "invalid settings must not reach the server")
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/projects/p1/settings", r.URL.Path)
		var got model.ProjectSettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "hybrid", got.RAGStrategy)
		io.WriteString(w, `{"data": {"rag_strategy": "hybrid", "chunks_per_search": 10,
			"final_context_size": 5, "similarity_threshold": 0.7, "number_of_queries": 3,
			"vector_weight": 0.6, "keyword_weight": 0.4}}`)
	}))

	in := model.ProjectSettings{
		RAGStrategy: "hybrid", ChunksPerSearch: 10, FinalContextSize: 5,
		SimilarityThreshold: 0.7, NumberOfQueries: 3, VectorWeight: 0.6, KeywordWeight: 0.4,
	}
	out, err := c.UpdateSettings(context.Background(), "p1", in)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", out.RAGStrategy)
}

func TestListDocuments(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p1/files", r.URL.Path)
		io.WriteString(w, `{"data": [
			{"id": "d1", "filename": "lease.pdf", "processing_status": "completed"},
			{"id": "d2", "filename": "https://example.com", "processing_status": "processing", "source_url": "https://example.com"}
		]}`)
	}))

	docs, err := c.ListDocuments(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, model.ProcessingCompleted, docs[0].ProcessingStatus)
	assert.Equal(t, "https://example.com", docs[1].SourceURL)
}

func TestListChunks(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/p1/files/d1/chunks", r.URL.Path)
		io.WriteString(w, `{"data": [{"id": "ch1", "chunk_index": 0, "content": "Tenant shall give 30 days' notice."}]}`)
	}))

	chunks, err := c.ListChunks(context.Background(), "p1", "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "30 days")
}

func TestSendFeedback(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feedback", r.URL.Path)
		var fb model.Feedback
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fb))
		assert.Equal(t, "m2", fb.MessageID)
		assert.Equal(t, model.RatingNegative, fb.Rating)
		assert.Equal(t, "missed the citation", fb.Comment)
		io.WriteString(w, `{"message": "ok", "data": null}`)
	}))

	err := c.SendFeedback(context.Background(), model.Feedback{
		MessageID: "m2", Rating: model.RatingNegative, Comment: "missed the citation",
	})
	require.NoError(t, err)
}

func TestDeleteEndpoints(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		io.WriteString(w, `{"message": "deleted"}`)
	}))

	ctx := context.Background()
	require.NoError(t, c.DeleteProject(ctx, "p1"))
	require.NoError(t, c.DeleteChat(ctx, "c1"))
	require.NoError(t, c.DeleteDocument(ctx, "p1", "d1"))
	assert.Equal(t, []string{
		"/api/projects/p1",
		"/api/chats/c1",
		"/api/projects/p1/files/d1",
	}, paths)
}

func TestHealth(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		io.WriteString(w, `{"status": "ok"}`)
	}))
	require.NoError(t, c.Health(context.Background()))
}
