// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat reconciles the local view of a conversation with the
// backend during a streaming send.
//
// A send moves through an explicit state machine: Idle -> Sending (an
// optimistic user message is inserted) -> Streaming (tokens arrive) ->
// Done or Failed. At most one optimistic message exists at a time, and
// both terminal states demand exactly one backstop reload of the
// conversation from the server, which callers claim with ConsumeReload.
//
// The Reconciler implements api.StreamSink, so it can be handed directly
// to Client.StreamMessage. Session wires the full exchange together for
// non-TUI callers.
package chat
