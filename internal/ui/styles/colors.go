// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive pairs pick the variant for the detected background.
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	Secondary = lipgloss.AdaptiveColor{Light: "#00867D", Dark: "#2AB3AA"}
	Accent    = lipgloss.AdaptiveColor{Light: "#C96F00", Dark: "#FFA657"}

	Text      = lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#E6E6F0"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#6E6E85", Dark: "#8B8B9E"}
	TextFaint = lipgloss.AdaptiveColor{Light: "#9999AA", Dark: "#5C5C6E"}

	Surface    = lipgloss.AdaptiveColor{Light: "#F4F4FA", Dark: "#232334"}
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#EAEAF2", Dark: "#1B1B28"}
	Border     = lipgloss.AdaptiveColor{Light: "#D4D4E0", Dark: "#3A3A4E"}

	Success = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	Warning = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	Danger  = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
)
