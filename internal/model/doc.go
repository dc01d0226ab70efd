// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the data types exchanged with the ragdesk backend:
// projects, chats, messages with citations, knowledge-base documents, and
// per-project retrieval settings.
//
// JSON field names follow the backend's wire format (snake_case). Message
// IDs fall into three namespaces: server-issued IDs, optimistic "temp-"
// IDs created locally while a send is in flight, and synthesized "ai-" IDs
// for assistant messages reconstructed from streamed tokens when the server
// omits the persisted record.
package model
