// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/auth"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/components"
)

// BackMsg asks the parent screen to close the chat.
type BackMsg struct{}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.input.Height() - 4
		m.input.SetWidth(msg.Width - 2)
		m.markdown.SetWidth(msg.Width - 6)
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancelSend != nil {
				m.cancelSend()
			}
			return m, tea.Quit

		case "esc":
			if m.sending && m.cancelSend != nil {
				// Abort the in-flight send; the failure path cleans up.
				m.cancelSend()
				return m, nil
			}
			return m, func() tea.Msg { return BackMsg{} }

		case "enter":
			return m, m.startSend()

		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil

		case "f2", "f3":
			return m, m.rateLastAnswer(msg.String() == "f2")
		}

	case ChatLoadedMsg:
		m.loaded = true
		m.loadErr = nil
		m.title = msg.Title
		m.fromCache = msg.FromCache
		m.refreshTranscript()
		m.viewport.GotoBottom()
		if msg.FromCache {
			cmds = append(cmds, m.toast.Show(components.ToastWarning, "Offline: showing cached conversation."))
		}

	case ChatLoadErrMsg:
		m.loaded = true
		m.loadErr = msg.Err

	case SendFinishedMsg:
		m.sending = false
		m.cancelSend = nil
		m.input.Focus()
		m.refreshTranscript()
		m.viewport.GotoBottom()
		cmds = append(cmds, m.sendOutcomeToast(msg.Err))

	case StreamTickMsg:
		if m.sending {
			m.refreshTranscript()
			m.viewport.GotoBottom()
			cmds = append(cmds, streamTickCmd())
		}

	case FeedbackSentMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.toast.Show(components.ToastError, "Feedback failed: "+msg.Err.Error()))
		} else {
			cmds = append(cmds, m.toast.Show(components.ToastSuccess, "Thanks for the feedback."))
		}

	case components.ToastExpiredMsg:
		m.toast.Update(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.sending {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// startSend kicks off a streaming exchange unless one is already running
// or the input is empty.
func (m *Model) startSend() tea.Cmd {
	content := strings.TrimSpace(m.input.Value())
	if content == "" || m.sending {
		return nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelSend = cancel
	m.sending = true
	m.input.Reset()
	m.input.Blur()

	// Optimistic insert happens synchronously so the first paint already
	// shows the user's message.
	if _, err := m.session.Reconciler().Begin(content); err != nil {
		m.sending = false
		m.cancelSend = nil
		cancel()
		m.input.Focus()
		return m.toast.Show(components.ToastWarning, err.Error())
	}
	m.refreshTranscript()
	m.viewport.GotoBottom()

	return tea.Batch(
		resumeSendCmd(ctx, m.session, content),
		streamTickCmd(),
	)
}

// sendOutcomeToast translates the terminal send state into user feedback.
func (m *Model) sendOutcomeToast(err error) tea.Cmd {
	switch {
	case err == nil && m.session.Reconciler().NoReply():
		return m.toast.Show(components.ToastWarning, "No response received from the assistant.")
	case err == nil:
		return nil
	case errors.Is(err, chat.ErrStreamTruncated):
		return m.toast.Show(components.ToastError, "Connection lost before the answer finished.")
	case errors.Is(err, auth.ErrNotAuthenticated):
		return m.toast.Show(components.ToastError, "Not signed in. Run 'ragdesk login'.")
	case errors.Is(err, context.Canceled):
		return m.toast.Show(components.ToastInfo, "Send cancelled.")
	default:
		return m.toast.Show(components.ToastError, err.Error())
	}
}

func (m *Model) rateLastAnswer(positive bool) tea.Cmd {
	last, ok := m.lastAssistantMessage()
	if !ok || model.IsSyntheticID(last.ID) {
		// Synthesized messages have no server-side record to rate.
		return m.toast.Show(components.ToastWarning, "No rateable answer yet.")
	}
	rating := model.RatingPositive
	if !positive {
		rating = model.RatingNegative
	}
	return sendFeedbackCmd(m.ctx, m.client, last.ID, rating, "")
}

// resumeSendCmd continues a send whose optimistic insert already
// happened.
func resumeSendCmd(ctx context.Context, session *chat.Session, content string) tea.Cmd {
	return func() tea.Msg {
		return SendFinishedMsg{Err: session.SendPrepared(ctx, content)}
	}
}
