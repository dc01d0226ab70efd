// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
)

// fakeBackend scripts GetChat and StreamMessage.
type fakeBackend struct {
	chat      model.ChatWithMessages
	getErr    error
	getCalls  int
	streamErr error
	// honorCtx makes GetChat fail on a cancelled context, like the real
	// client would.
	honorCtx bool
	// script runs against the sink when StreamMessage is called.
	script func(sink api.StreamSink)
}

func (f *fakeBackend) GetChat(ctx context.Context, chatID string) (model.ChatWithMessages, error) {
	f.getCalls++
	if f.honorCtx && ctx.Err() != nil {
		return model.ChatWithMessages{}, ctx.Err()
	}
	if f.getErr != nil {
		return model.ChatWithMessages{}, f.getErr
	}
	return f.chat, nil
}

func (f *fakeBackend) StreamMessage(ctx context.Context, projectID, chatID, userID, content string, sink api.StreamSink) error {
	if f.script != nil {
		f.script(sink)
	}
	return f.streamErr
}

type fakeCache struct {
	saved map[string]model.ChatWithMessages
}

func newFakeCache() *fakeCache {
	return &fakeCache{saved: make(map[string]model.ChatWithMessages)}
}

func (f *fakeCache) SaveConversation(chat model.ChatWithMessages) error {
	f.saved[chat.ID] = chat
	return nil
}

func (f *fakeCache) LoadConversation(chatID string) (model.ChatWithMessages, error) {
	chat, ok := f.saved[chatID]
	if !ok {
		return model.ChatWithMessages{}, errors.New("not cached")
	}
	return chat, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func leaseChat(msgs ...model.Message) model.ChatWithMessages {
	return model.ChatWithMessages{
		Chat:     model.Chat{ID: "c1", Title: "Lease questions", ProjectID: "p1"},
		Messages: msgs,
	}
}

func TestLoadReplacesMessages(t *testing.T) {
	backend := &fakeBackend{chat: leaseChat(
		model.Message{ID: "m1", Role: model.RoleUser, Content: "hi"},
	)}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "Lease questions", s.Title())
	assert.False(t, s.FromCache())
	require.Len(t, s.Reconciler().Messages(), 1)
}

func TestLoadProjectMismatchIsNonFatal(t *testing.T) {
	backend := &fakeBackend{chat: leaseChat()}
	s := NewSession(backend, "other-project", "c1", "user_1", WithSessionLogger(quietLogger()))
	// Loads anyway; the backend owns authorization.
	require.NoError(t, s.Load(context.Background()))
}

func TestLoadFallsBackToCacheWhenOffline(t *testing.T) {
	cache := newFakeCache()
	cache.saved["c1"] = leaseChat(model.Message{ID: "m1", Role: model.RoleUser, Content: "cached"})

	backend := &fakeBackend{getErr: &api.APIError{Status: 0, Message: "connection refused"}}
	s := NewSession(backend, "p1", "c1", "user_1", WithCache(cache), WithSessionLogger(quietLogger()))

	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.FromCache())
	require.Len(t, s.Reconciler().Messages(), 1)
	assert.Equal(t, "cached", s.Reconciler().Messages()[0].Content)
}

func TestLoadServerErrorDoesNotUseCache(t *testing.T) {
	cache := newFakeCache()
	cache.saved["c1"] = leaseChat()

	// 404 is an answer from the server, not an outage.
	backend := &fakeBackend{getErr: &api.APIError{Status: 404, Message: "gone"}}
	s := NewSession(backend, "p1", "c1", "user_1", WithCache(cache), WithSessionLogger(quietLogger()))

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.False(t, s.FromCache())
}

func TestLoadWritesCacheBehind(t *testing.T) {
	cache := newFakeCache()
	backend := &fakeBackend{chat: leaseChat(model.Message{ID: "m1", Role: model.RoleUser, Content: "x"})}
	s := NewSession(backend, "p1", "c1", "user_1", WithCache(cache), WithSessionLogger(quietLogger()))

	require.NoError(t, s.Load(context.Background()))
	require.Contains(t, cache.saved, "c1")
	assert.Len(t, cache.saved["c1"].Messages, 1)
}

// End-to-end walk of the documented exchange: user asks about notice
// terms in an uploaded lease, the answer streams, and the persisted
// records replace the optimistic state.
func TestSendLeaseScenario(t *testing.T) {
	user := model.Message{ID: "m3", Role: model.RoleUser, Content: "How much notice must I give before moving out?"}
	ai := model.Message{
		ID: "m4", Role: model.RoleAssistant,
		Content:   "Your lease requires 30 days' written notice.",
		Citations: []model.Citation{{Filename: "lease.pdf", Page: 4}},
	}

	backend := &fakeBackend{
		chat: leaseChat(
			model.Message{ID: "m1", Role: model.RoleUser, Content: "earlier"},
			model.Message{ID: "m2", Role: model.RoleAssistant, Content: "earlier answer"},
		),
		script: func(sink api.StreamSink) {
			sink.OnStatus("searching")
			sink.OnStatus("generating")
			sink.OnToken("Your lease requires ")
			sink.OnToken("30 days' written notice.")
			sink.OnDone(api.DoneEvent{UserMessage: &user, AIMessage: &ai})
		},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))
	require.NoError(t, s.Load(context.Background()))
	loads := backend.getCalls

	// Reflect the send in the scripted reload payload.
	backend.chat = leaseChat(
		model.Message{ID: "m1", Role: model.RoleUser, Content: "earlier"},
		model.Message{ID: "m2", Role: model.RoleAssistant, Content: "earlier answer"},
		user, ai,
	)

	require.NoError(t, s.Send(context.Background(), user.Content))

	// Exactly one backstop reload.
	assert.Equal(t, loads+1, backend.getCalls)

	msgs := s.Reconciler().Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "m4", msgs[3].ID)
	require.Len(t, msgs[3].Citations, 1)
	assert.Equal(t, "lease.pdf", msgs[3].Citations[0].Filename)
	for _, m := range msgs {
		assert.False(t, m.IsOptimistic())
	}
	assert.False(t, s.Reconciler().NoReply())
}

func TestSendFailureStillReloadsOnce(t *testing.T) {
	backend := &fakeBackend{
		chat:      leaseChat(model.Message{ID: "m1", Role: model.RoleUser, Content: "confirmed"}),
		streamErr: &api.APIError{Status: 500, Message: "model crashed"},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))
	require.NoError(t, s.Load(context.Background()))
	loads := backend.getCalls

	err := s.Send(context.Background(), "q")
	assert.ErrorIs(t, err, api.ErrServerUnavailable)

	// Failure path also reloads, exactly once.
	assert.Equal(t, loads+1, backend.getCalls)

	// Confirmed message intact, optimistic gone.
	msgs := s.Reconciler().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
}

// A 401 on the initial send: the sink never sees an event and the list is
// unchanged except for optimistic removal.
func TestSendUnauthorized(t *testing.T) {
	backend := &fakeBackend{
		chat:      leaseChat(model.Message{ID: "m1", Role: model.RoleUser, Content: "confirmed"}),
		streamErr: &api.APIError{Status: 401, Message: "token expired"},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))
	require.NoError(t, s.Load(context.Background()))

	err := s.Send(context.Background(), "q")
	assert.ErrorIs(t, err, api.ErrAuthFailed)

	msgs := s.Reconciler().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, StateFailed, s.Reconciler().State())
}

// A stream that dies before the done event is a failure the caller must
// hear about, not a quiet success.
func TestSendStreamEndsWithoutDone(t *testing.T) {
	backend := &fakeBackend{
		chat: leaseChat(),
		script: func(sink api.StreamSink) {
			sink.OnToken("partial")
			// No done event; the connection just ended.
		},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))
	require.NoError(t, s.Load(context.Background()))
	loads := backend.getCalls

	err := s.Send(context.Background(), "q")
	assert.ErrorIs(t, err, ErrStreamTruncated)
	assert.Equal(t, StateFailed, s.Reconciler().State())
	assert.Equal(t, loads+1, backend.getCalls)
	assert.Empty(t, s.Reconciler().Messages())
}

// Cancelling a send must not skip the backstop reload: the reload runs on
// its own context so a partially-applied server-side write still shows up.
func TestSendCancelledStillReloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	confirmed := model.Message{ID: "m1", Role: model.RoleUser, Content: "confirmed"}
	backend := &fakeBackend{
		chat:      leaseChat(confirmed),
		honorCtx:  true,
		streamErr: context.Canceled,
		script: func(sink api.StreamSink) {
			cancel()
		},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))
	require.NoError(t, s.Load(context.Background()))
	loads := backend.getCalls

	// The server persisted the user message before the stream died; only
	// a successful reload can surface it.
	persisted := model.Message{ID: "m2", Role: model.RoleUser, Content: "q"}
	backend.chat = leaseChat(confirmed, persisted)

	err := s.Send(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, loads+1, backend.getCalls)
	msgs := s.Reconciler().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestSendRejectsOverlap(t *testing.T) {
	blocked := make(chan struct{})
	backend := &fakeBackend{
		chat: leaseChat(),
		script: func(sink api.StreamSink) {
			<-blocked
			sink.OnDone(api.DoneEvent{})
		},
	}
	s := NewSession(backend, "p1", "c1", "user_1", WithSessionLogger(quietLogger()))

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "first") }()

	// Wait until the first send is in flight.
	require.Eventually(t, s.Reconciler().Busy, 2*time.Second, time.Millisecond)

	err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInFlight)

	close(blocked)
	require.NoError(t, <-done)
}
