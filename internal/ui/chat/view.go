// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatui

import (
	"fmt"
	"strings"

	"github.com/nextgensoft/ragdesk/internal/model"
	"github.com/nextgensoft/ragdesk/internal/ui/components"
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.loaded {
		return fmt.Sprintf("\n  %s Loading conversation...\n", m.spin.View())
	}
	if m.loadErr != nil {
		return m.theme.ErrorPanel.Render(
			"Could not load this conversation.\n\n" + m.loadErr.Error() +
				"\n\nPress esc to go back.")
	}

	var b strings.Builder

	title := m.title
	if title == "" {
		title = "Conversation"
	}
	header := m.theme.Title.Render(title)
	if m.fromCache {
		header += "  " + m.theme.AgentStatus.Render("(offline copy)")
	}
	b.WriteString(header + "\n")

	b.WriteString(m.viewport.View() + "\n")

	if toast := m.toast.View(m.theme); toast != "" {
		b.WriteString(toast + "\n")
	}

	b.WriteString(m.theme.InputBox.Render(m.input.View()) + "\n")
	b.WriteString(m.bar.Render(m.theme, m.contextLine(), m.shortcuts()))

	return b.String()
}

// refreshTranscript re-renders the viewport content from the current
// reconciler snapshot.
func (m *Model) refreshTranscript() {
	msgs := m.session.Reconciler().Messages()

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
	}

	if m.sending {
		b.WriteString("\n" + m.renderStreaming())
	}

	m.viewport.SetContent(b.String())
}

func (m *Model) renderMessage(msg model.Message) string {
	var b strings.Builder

	label := m.theme.AssistantLabel.Render("Assistant")
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel.Render("You")
	}
	b.WriteString(label)

	if m.showTimestamps && !msg.CreatedAt.IsZero() {
		b.WriteString("  " + m.theme.MessageMeta.Render(msg.CreatedAt.Display()))
	}
	if msg.IsOptimistic() {
		b.WriteString("  " + m.theme.MessageMeta.Render("(sending...)"))
	}
	b.WriteString("\n")

	if msg.Role == model.RoleAssistant {
		b.WriteString(m.markdown.Render(msg.Content))
	} else {
		b.WriteString(msg.Content + "\n")
	}

	if len(msg.Citations) > 0 {
		b.WriteString(m.theme.Citation.Render(formatCitations(msg.Citations)) + "\n")
	}
	return b.String()
}

// renderStreaming shows the partial answer while tokens arrive, or the
// agent's status line before the first token.
func (m *Model) renderStreaming() string {
	rec := m.session.Reconciler()

	partial := rec.StreamingText()
	if partial != "" {
		return m.theme.AssistantLabel.Render("Assistant") + "\n" + partial + "\n"
	}

	status := rec.Status()
	if status == "" {
		status = "Thinking"
	}
	return m.spin.View() + " " + m.theme.AgentStatus.Render(status+"...")
}

func (m *Model) contextLine() string {
	if m.sending {
		return "streaming..."
	}
	if m.fromCache {
		return "offline"
	}
	return m.title
}

func (m *Model) shortcuts() []components.Shortcut {
	if m.sending {
		return []components.Shortcut{
			{Key: "esc", Desc: "cancel"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	}
	return []components.Shortcut{
		{Key: "enter", Desc: "send"},
		{Key: "f2/f3", Desc: "rate answer"},
		{Key: "pgup/pgdn", Desc: "scroll"},
		{Key: "esc", Desc: "back"},
	}
}

func formatCitations(cites []model.Citation) string {
	parts := make([]string, 0, len(cites))
	for _, c := range cites {
		if c.Page > 0 {
			parts = append(parts, fmt.Sprintf("%s p.%d", c.Filename, c.Page))
		} else {
			parts = append(parts, c.Filename)
		}
	}
	return "Sources: " + strings.Join(parts, ", ")
}
