// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nextgensoft/ragdesk/internal/ui/styles"
)

// ToastLevel selects the toast color.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

const toastDuration = 4 * time.Second

// ToastExpiredMsg clears a toast after its display window.
type ToastExpiredMsg struct {
	ID int
}

// Toast is a transient one-line notification. The zero value shows
// nothing.
type Toast struct {
	id      int
	level   ToastLevel
	message string
	visible bool
}

// Show replaces the current toast and returns the expiry command.
func (t *Toast) Show(level ToastLevel, message string) tea.Cmd {
	t.id++
	t.level = level
	t.message = message
	t.visible = true

	id := t.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Update handles expiry; stale expirations from replaced toasts are
// ignored.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(ToastExpiredMsg); ok && expired.ID == t.id {
		t.visible = false
	}
}

// Visible reports whether there is a toast to draw.
func (t *Toast) Visible() bool {
	return t.visible
}

// View renders the toast line, or an empty string.
func (t *Toast) View(theme *styles.Theme) string {
	if !t.visible {
		return ""
	}
	switch t.level {
	case ToastSuccess:
		return theme.ToastSuccess.Render(t.message)
	case ToastWarning:
		return theme.ToastWarning.Render(t.message)
	case ToastError:
		return theme.ToastError.Render(t.message)
	default:
		return theme.ToastInfo.Render(t.message)
	}
}
