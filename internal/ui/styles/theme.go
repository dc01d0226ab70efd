// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components shared by every screen. It detects
// the terminal's color capability once at startup.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	MessageMeta    lipgloss.Style
	Citation       lipgloss.Style
	AgentStatus    lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style

	InputBox   lipgloss.Style
	FormLabel  lipgloss.Style
	FormError  lipgloss.Style
	Panel      lipgloss.Style
	ErrorPanel lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	StatusCompleted  lipgloss.Style
	StatusProcessing lipgloss.Style
	StatusFailed     lipgloss.Style
}

// New builds the theme for the current terminal. The override forces a
// background assumption when the config says "dark" or "light"; "auto"
// asks termenv.
func New(override string) *Theme {
	output := termenv.DefaultOutput()

	isDark := output.HasDarkBackground()
	switch override {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: output.Profile,
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	t.Help = lipgloss.NewStyle().Foreground(TextFaint)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	t.MessageMeta = lipgloss.NewStyle().Foreground(TextFaint)
	t.Citation = lipgloss.NewStyle().Foreground(Accent).Italic(true)
	t.AgentStatus = lipgloss.NewStyle().Foreground(Warning).Italic(true)

	t.ListItem = lipgloss.NewStyle().Foreground(Text).PaddingLeft(2)
	t.ListSelected = lipgloss.NewStyle().Foreground(Primary).Bold(true).PaddingLeft(0)
	t.TabActive = lipgloss.NewStyle().Bold(true).Foreground(Primary).Underline(true).Padding(0, 1)
	t.TabInactive = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().Background(Surface).Foreground(TextMuted).Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Bold(true).Foreground(Text)
	t.StatusValue = lipgloss.NewStyle().Foreground(TextMuted)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.FormLabel = lipgloss.NewStyle().Bold(true).Foreground(Text)
	t.FormError = lipgloss.NewStyle().Foreground(Danger)
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	t.ErrorPanel = t.Panel.BorderForeground(Danger).Foreground(Danger)

	t.ToastInfo = lipgloss.NewStyle().Foreground(Text).Background(Surface).Padding(0, 1)
	t.ToastSuccess = lipgloss.NewStyle().Foreground(Success).Background(Surface).Padding(0, 1)
	t.ToastWarning = lipgloss.NewStyle().Foreground(Warning).Background(Surface).Padding(0, 1)
	t.ToastError = lipgloss.NewStyle().Foreground(Danger).Background(Surface).Padding(0, 1)

	t.StatusCompleted = lipgloss.NewStyle().Foreground(Success)
	t.StatusProcessing = lipgloss.NewStyle().Foreground(Warning)
	t.StatusFailed = lipgloss.NewStyle().Foreground(Danger)

	return t
}

// GlamourStyle maps the theme to a glamour standard style name.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
