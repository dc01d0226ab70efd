// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant replies. Renderers are cached per
// (style, width) because glamour construction is expensive relative to a
// repaint.
type MarkdownRenderer struct {
	mu       sync.Mutex
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer builds a renderer for the glamour style name
// ("dark" or "light") and wrap width.
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	return &MarkdownRenderer{style: style, width: width}
}

// SetWidth updates the wrap width; the underlying renderer is rebuilt
// lazily on the next Render.
func (m *MarkdownRenderer) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width != m.width {
		m.width = width
		m.renderer = nil
	}
}

// Render converts markdown to styled terminal output. On any failure the
// raw markdown comes back unchanged; a rendering bug must never hide the
// assistant's answer.
func (m *MarkdownRenderer) Render(markdown string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer == nil {
		width := m.width
		if width < 20 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return markdown
		}
		m.renderer = r
	}

	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
