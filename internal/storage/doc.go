// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage is the offline conversation cache.
//
// Recently opened conversations are kept in a local sqlite database so a
// chat can still be read when the backend is unreachable. The server is
// always authoritative: every successful load replaces the cached copy
// wholesale, and nothing is ever written back to the server from here.
package storage
