// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/api"
	"github.com/nextgensoft/ragdesk/internal/chat"
	"github.com/nextgensoft/ragdesk/internal/model"
)

// streamTick caps repaint frequency while tokens arrive.
const streamTick = time.Second / 30

// ChatLoadedMsg reports a finished conversation load.
type ChatLoadedMsg struct {
	Title     string
	FromCache bool
}

// ChatLoadErrMsg reports a failed conversation load.
type ChatLoadErrMsg struct {
	Err error
}

// SendFinishedMsg reports the end of a full send exchange, including the
// backstop reload.
type SendFinishedMsg struct {
	Err error
}

// StreamTickMsg drives transcript repaints while streaming.
type StreamTickMsg struct{}

// FeedbackSentMsg reports the result of a feedback post.
type FeedbackSentMsg struct {
	Rating string
	Err    error
}

func loadChatCmd(ctx context.Context, session *chat.Session) tea.Cmd {
	return func() tea.Msg {
		if err := session.Load(ctx); err != nil {
			return ChatLoadErrMsg{Err: err}
		}
		return ChatLoadedMsg{Title: session.Title(), FromCache: session.FromCache()}
	}
}

func streamTickCmd() tea.Cmd {
	return tea.Tick(streamTick, func(time.Time) tea.Msg {
		return StreamTickMsg{}
	})
}

func sendFeedbackCmd(ctx context.Context, client *api.Client, messageID, rating, comment string) tea.Cmd {
	return func() tea.Msg {
		err := client.SendFeedback(ctx, model.Feedback{
			MessageID: messageID,
			Rating:    rating,
			Comment:   comment,
		})
		return FeedbackSentMsg{Rating: rating, Err: err}
	}
}
