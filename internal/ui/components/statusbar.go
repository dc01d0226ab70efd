// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/nextgensoft/ragdesk/internal/ui/styles"
	"github.com/nextgensoft/ragdesk/internal/util"
)

// StatusBar renders the bottom help/context line.
type StatusBar struct {
	Width int
}

// Shortcut is one key binding shown in the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// Render lays out context on the left and shortcuts on the right,
// truncating the context first when space runs out.
func (s StatusBar) Render(theme *styles.Theme, context string, shortcuts []Shortcut) string {
	var right []string
	for _, sc := range shortcuts {
		right = append(right, theme.StatusKey.Render(sc.Key)+" "+theme.StatusValue.Render(sc.Desc))
	}
	rightStr := strings.Join(right, "  ")

	width := s.Width
	if width <= 0 {
		width = 80
	}
	available := width - util.StringWidth(rightStr) - 3
	left := util.TruncateWidth(context, available)

	gap := width - util.StringWidth(left) - util.StringWidth(rightStr) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + rightStr)
}
