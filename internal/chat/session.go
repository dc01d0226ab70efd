// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/model"
)

// ErrStreamTruncated means the stream ended before a done event arrived,
// so the answer was cut off mid-flight.
var ErrStreamTruncated = errors.New("stream ended before the answer finished")

// reloadTimeout bounds the backstop reload, which runs on its own
// context so a cancelled send cannot skip it.
const reloadTimeout = 10 * time.Second

// Backend is the slice of the API client a session needs.
type Backend interface {
	GetChat(ctx context.Context, chatID string) (model.ChatWithMessages, error)
	StreamMessage(ctx context.Context, projectID, chatID, userID, content string, sink api.StreamSink) error
}

// Cache is an optional read-through store for conversations, used when
// the network is down. The server stays authoritative: entries are
// replaced wholesale after every successful load.
type Cache interface {
	SaveConversation(chat model.ChatWithMessages) error
	LoadConversation(chatID string) (model.ChatWithMessages, error)
}

// Session drives one open conversation: loading history, streaming sends
// through the reconciler, and the backstop reload after each send.
type Session struct {
	backend Backend
	cache   Cache
	logger  *slog.Logger

	projectID string
	userID    string
	rec       *Reconciler

	title     string
	fromCache bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCache enables the offline conversation cache.
func WithCache(c Cache) SessionOption {
	return func(s *Session) { s.cache = c }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a session for one conversation.
func NewSession(backend Backend, projectID, chatID, userID string, opts ...SessionOption) *Session {
	s := &Session{
		backend:   backend,
		logger:    slog.Default(),
		projectID: projectID,
		userID:    userID,
		rec:       NewReconciler(chatID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconciler exposes the underlying reconciler for UI bindings.
func (s *Session) Reconciler() *Reconciler {
	return s.rec
}

// Title returns the chat title from the last load.
func (s *Session) Title() string {
	return s.title
}

// FromCache reports whether the current messages came from the offline
// cache rather than the server.
func (s *Session) FromCache() bool {
	return s.fromCache
}

// Load fetches the conversation and replaces the local message list. If
// the server is unreachable and a cache is configured, the cached copy is
// served instead and FromCache reports true.
//
// A chat that belongs to a different project than the session loads
// anyway with a warning: the backend owns authorization, the client only
// flags the inconsistency.
func (s *Session) Load(ctx context.Context) error {
	chat, err := s.backend.GetChat(ctx, s.rec.ChatID())
	if err != nil {
		if s.cache != nil && isOffline(err) {
			cached, cerr := s.cache.LoadConversation(s.rec.ChatID())
			if cerr == nil {
				s.logger.Info("serving conversation from offline cache", "chat_id", s.rec.ChatID())
				s.applyLoad(cached, true)
				return nil
			}
		}
		return err
	}

	if s.projectID != "" && chat.ProjectID != "" && chat.ProjectID != s.projectID {
		s.logger.Warn("chat belongs to a different project",
			"chat_id", chat.ID, "chat_project", chat.ProjectID, "session_project", s.projectID)
	}

	s.applyLoad(chat, false)

	if s.cache != nil {
		if err := s.cache.SaveConversation(chat); err != nil {
			s.logger.Warn("conversation cache write failed", "chat_id", chat.ID, "error", err)
		}
	}
	return nil
}

func (s *Session) applyLoad(chat model.ChatWithMessages, fromCache bool) {
	s.title = chat.Title
	s.fromCache = fromCache
	s.rec.SetMessages(chat.Messages)
}

// Send runs one full streaming exchange: optimistic insert, stream decode
// into the reconciler, then the backstop reload. The reload happens on
// both success and failure, exactly once per send; a reload failure is
// logged but does not replace the send's own outcome.
func (s *Session) Send(ctx context.Context, content string) error {
	if _, err := s.rec.Begin(content); err != nil {
		return err
	}
	return s.SendPrepared(ctx, content)
}

// SendPrepared runs the streaming half of an exchange whose optimistic
// insert already happened via Reconciler.Begin. UIs use this to show the
// user's message on the very first paint before the request goes out.
func (s *Session) SendPrepared(ctx context.Context, content string) error {
	streamErr := s.backend.StreamMessage(ctx, s.projectID, s.rec.ChatID(), s.userID, content, s.rec)
	if streamErr == nil && s.rec.Busy() {
		// Stream ended without a done event; the caller must hear about
		// the cut-off answer, not a silent success.
		streamErr = ErrStreamTruncated
	}
	if streamErr != nil {
		s.rec.Fail(streamErr)
	}

	if s.rec.ConsumeReload() {
		// The send's context may already be cancelled; the reload still
		// has to run so a partial server-side write shows up.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
		defer cancel()
		if err := s.Load(rctx); err != nil {
			s.logger.Warn("backstop reload failed", "chat_id", s.rec.ChatID(), "error", err)
		}
	}
	return streamErr
}

// isOffline reports whether the failure means the server never answered,
// which is the only case the cache may stand in for.
func isOffline(err error) bool {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 0
	}
	return false
}
