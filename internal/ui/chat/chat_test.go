// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

type fakeBackend struct {
	chat model.ChatWithMessages
	// truncate drops the connection after one token, before done.
	truncate bool
}

func (f *fakeBackend) GetChat(ctx context.Context, chatID string) (model.ChatWithMessages, error) {
	return f.chat, nil
}

func (f *fakeBackend) StreamMessage(ctx context.Context, projectID, chatID, userID, content string, sink api.StreamSink) error {
	if f.truncate {
		sink.OnToken("partial")
		return nil
	}
	user := model.Message{ID: "m3", Role: model.RoleUser, Content: content}
	ai := model.Message{ID: "m4", Role: model.RoleAssistant, Content: "answer"}
	// Persist like the real server so the backstop reload sees the
	// exchange.
	f.chat.Messages = append(f.chat.Messages, user, ai)
	sink.OnDone(api.DoneEvent{UserMessage: &user, AIMessage: &ai})
	return nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	backend := &fakeBackend{chat: model.ChatWithMessages{
		Chat: model.Chat{ID: "c1", ProjectID: "p1", Title: "Lease questions"},
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "how much notice?"},
			{ID: "m2", Role: model.RoleAssistant, Content: "30 days",
				Citations: []model.Citation{{Filename: "lease.pdf", Page: 4}}},
		},
	}}
	session := chat.NewSession(backend, "p1", "c1", "user-1")
	m := New(context.Background(), nil, session, styles.New("dark"))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*Model)
}

func TestViewBeforeLoadShowsSpinner(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "Loading conversation")
}

func TestLoadedTranscriptRendersMessagesAndCitations(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.session.Load(context.Background()))

	updated, _ := m.Update(ChatLoadedMsg{Title: m.session.Title()})
	m = updated.(*Model)

	out := m.View()
	assert.Contains(t, out, "Lease questions")
	assert.Contains(t, out, "how much notice?")
	assert.Contains(t, out, "30 days")
	assert.Contains(t, out, "lease.pdf p.4")
}

func TestLoadErrorShowsPanel(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(ChatLoadErrMsg{Err: assert.AnError})
	m = updated.(*Model)
	assert.Contains(t, m.View(), "Could not load this conversation")
}

func TestEscGoesBackWhenIdle(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	assert.Nil(t, cmd)
	assert.False(t, m.Busy())
}

func TestStartSendShowsOptimisticMessageImmediately(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.session.Load(context.Background()))
	updated0, _ := m.Update(ChatLoadedMsg{Title: m.session.Title()})
	m = updated0.(*Model)

	m.input.SetValue("how much notice?")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.NotNil(t, cmd)
	assert.True(t, m.Busy())

	// The optimistic insert is synchronous: the transcript already shows
	// the message before the background command runs.
	assert.Contains(t, m.View(), "(sending...)")
}

func TestSendFinishedRepaintsAndUnlocksInput(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.session.Load(context.Background()))
	updated0, _ := m.Update(ChatLoadedMsg{Title: m.session.Title()})
	m = updated0.(*Model)

	m.input.SetValue("second question")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	require.NoError(t, m.session.SendPrepared(context.Background(), "second question"))
	updated, _ = m.Update(SendFinishedMsg{})
	m = updated.(*Model)

	assert.False(t, m.Busy())
	assert.Contains(t, m.View(), "answer")
	assert.NotContains(t, m.View(), "(sending...)")
}

// A stream that dies mid-answer must surface as an error toast, never
// as a silent success.
func TestTruncatedStreamShowsErrorToast(t *testing.T) {
	backend := &fakeBackend{
		chat:     model.ChatWithMessages{Chat: model.Chat{ID: "c1", ProjectID: "p1", Title: "Lease questions"}},
		truncate: true,
	}
	session := chat.NewSession(backend, "p1", "c1", "user-1")
	m := New(context.Background(), nil, session, styles.New("dark"))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(*Model)

	require.NoError(t, m.session.Load(context.Background()))
	updated, _ = m.Update(ChatLoadedMsg{Title: m.session.Title()})
	m = updated.(*Model)

	m.input.SetValue("still there?")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)

	err := m.session.SendPrepared(context.Background(), "still there?")
	require.ErrorIs(t, err, chat.ErrStreamTruncated)

	updated, _ = m.Update(SendFinishedMsg{Err: err})
	m = updated.(*Model)

	assert.False(t, m.Busy())
	assert.Contains(t, m.View(), "Connection lost before the answer finished.")
}

func TestStreamTickStopsWhenNotSending(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(StreamTickMsg{})
	assert.Nil(t, cmd)
}

func TestShortcutsSwitchWhileSending(t *testing.T) {
	m := newTestModel(t)
	idle := m.shortcuts()
	m.sending = true
	busy := m.shortcuts()
	assert.NotEqual(t, idle, busy)
	assert.Equal(t, "esc", busy[0].Key)
}

func TestFormatCitationsOmitsZeroPage(t *testing.T) {
	out := formatCitations([]model.Citation{
		{Filename: "lease.pdf", Page: 4},
		{Filename: "addendum.pdf"},
	})
	assert.Equal(t, "Sources: lease.pdf p.4, addendum.pdf", out)
}
