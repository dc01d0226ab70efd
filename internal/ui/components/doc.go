// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared widgets for the ragdesk TUI:
// markdown rendering, highlighted code blocks, toasts, and the status bar.
package components
