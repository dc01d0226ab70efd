// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgensoft/ragdesk/internal/model"
)

func leaseChat() model.ChatWithMessages {
	return model.ChatWithMessages{
		Chat: model.Chat{
			ID:        "c1",
			Title:     "Lease questions",
			ProjectID: "p1",
			CreatedAt: model.Timestamp{Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		},
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "How much notice must I give?"},
			{ID: "m2", Role: model.RoleAssistant, Content: "Your lease requires 30 days' notice.",
				Citations: []model.Citation{{Filename: "lease.pdf", Page: 4}}},
		},
	}
}

func TestMarkdownExportIncludesCitations(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(leaseChat())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Lease questions")
	assert.Contains(t, text, "### You")
	assert.Contains(t, text, "### Assistant")
	assert.Contains(t, text, "30 days' notice")
	assert.Contains(t, text, "Sources: lease.pdf p.4")
	assert.Contains(t, text, "project: p1")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false}
	out, err := NewMarkdownExporter(opts).Export(leaseChat())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "---\ntitle:")
}

func TestMarkdownExportRejectsEmpty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(model.ChatWithMessages{})
	assert.Error(t, err)
}

func TestJSONExportRoundTrips(t *testing.T) {
	out, err := NewJSONExporter().Export(leaseChat())
	require.NoError(t, err)

	var decoded model.ChatWithMessages
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "c1", decoded.ID)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, "lease.pdf", decoded.Messages[1].Citations[0].Filename)
}

func TestToFileSkipsOptimisticMessages(t *testing.T) {
	chat := leaseChat()
	chat.Messages = append(chat.Messages, model.NewOptimisticMessage("unsent draft"))

	dir := t.TempDir()
	path, err := ToFile(chat, NewMarkdownExporter(nil), &Options{OutputDir: dir, IncludeMetadata: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "unsent draft")
	assert.True(t, strings.HasPrefix(filepath.Base(path), "chat_Lease_questions_"))
	assert.True(t, strings.HasSuffix(path, ".md"))
}

func TestForFormat(t *testing.T) {
	e, err := ForFormat("md", nil)
	require.NoError(t, err)
	assert.Equal(t, ".md", e.FileExtension())

	e, err = ForFormat("json", nil)
	require.NoError(t, err)
	assert.Equal(t, ".json", e.FileExtension())

	_, err = ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b-c", sanitizeFilename("a b/c"))
	assert.Equal(t, "untitled", sanitizeFilename(""))
}
