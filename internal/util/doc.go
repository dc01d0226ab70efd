// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the ragdesk client.
//
// String helpers are rune- and width-aware so truncation never splits a
// UTF-8 sequence or miscounts double-width characters. File helpers write
// atomically (temp file, fsync, rename) so local state survives a crash.
package util
