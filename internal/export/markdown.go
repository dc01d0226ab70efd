// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/nextgensoft/ragdesk/internal/model"
)

// MarkdownExporter writes a readable transcript with YAML frontmatter,
// role headings, and citation footers.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(chat model.ChatWithMessages) ([]byte, error) {
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("conversation has no messages")
	}

	title := chat.Title
	if title == "" {
		title = "Conversation"
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(title)))
		if chat.ProjectID != "" {
			sb.WriteString(fmt.Sprintf("project: %s\n", chat.ProjectID))
		}
		if !chat.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("date: %s\n", chat.CreatedAt.Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(chat.Messages)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: ragdesk\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	for i, msg := range chat.Messages {
		label := "Assistant"
		if msg.Role == model.RoleUser {
			label = "You"
		}
		if e.options.IncludeTimestamps && !msg.CreatedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, msg.CreatedAt.Format("15:04:05")))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if len(msg.Citations) > 0 {
			sb.WriteString("> Sources: ")
			parts := make([]string, 0, len(msg.Citations))
			for _, c := range msg.Citations {
				if c.Page > 0 {
					parts = append(parts, fmt.Sprintf("%s p.%d", c.Filename, c.Page))
				} else {
					parts = append(parts, c.Filename)
				}
			}
			sb.WriteString(strings.Join(parts, ", "))
			sb.WriteString("\n\n")
		}

		if i < len(chat.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// escapeYAML quotes a frontmatter value when it contains characters YAML
// would misparse.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#{}[]|>&*!%\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
