// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/components"
	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

// Model is the conversation screen.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	session *chat.Session
	ctx     context.Context

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model
	markdown *components.MarkdownRenderer
	toast    components.Toast
	bar      components.StatusBar

	width  int
	height int

	loaded    bool
	loadErr   error
	sending   bool
	fromCache bool
	title     string

	// cancelSend aborts the in-flight streaming request.
	cancelSend context.CancelFunc

	showTimestamps bool
}

// Option configures the chat screen.
type Option func(*Model)

// WithTimestamps shows message times in the transcript.
func WithTimestamps(show bool) Option {
	return func(m *Model) { m.showTimestamps = show }
}

// New builds the chat screen for an open session.
func New(ctx context.Context, client *api.Client, session *chat.Session, theme *styles.Theme, opts ...Option) *Model {
	input := textarea.New()
	input.Placeholder = "Ask about your documents..."
	input.CharLimit = 4000
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &Model{
		theme:    theme,
		client:   client,
		session:  session,
		ctx:      ctx,
		viewport: viewport.New(80, 20),
		input:    input,
		spin:     spin,
		markdown: components.NewMarkdownRenderer(theme.GlamourStyle(), 78),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the conversation.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(loadChatCmd(m.ctx, m.session), m.spin.Tick)
}

// Busy reports whether a send is in flight.
func (m *Model) Busy() bool {
	return m.sending
}

// lastAssistantMessage returns the newest assistant message, if any.
func (m *Model) lastAssistantMessage() (model.Message, bool) {
	msgs := m.session.Reconciler().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAssistant {
			return msgs[i], true
		}
	}
	return model.Message{}, false
}
