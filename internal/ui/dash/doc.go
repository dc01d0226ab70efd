// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dash is the project dashboard: the project list, the per-project
// detail screen with its chats, documents, and settings tabs, and the
// switcher that moves between them and into open conversations.
//
// Every server call runs on a tea.Cmd and reports back through a typed
// message carrying its own error, so a failed request surfaces as a toast
// instead of tearing the screen down.
package dash
