// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatui is the conversation screen.
//
// The transcript lives in a viewport above a textarea. Sends run through
// a chat.Session on a background command; while a send streams, a 30fps
// tick repaints the partial answer from the reconciler's snapshot, and
// Esc cancels the in-flight request. Assistant replies render as
// markdown with citation footers, and F2/F3 rate the latest answer.
package chatui
