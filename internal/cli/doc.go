// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses arguments and runs the non-TUI commands: login,
// status, one-shot questions, the chat REPL, and project, document,
// config, and cache management. Handlers follow one shape: HandleX(args
// Args) error, with main translating a returned error into the exit code.
package cli
