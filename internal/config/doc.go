// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the ragdesk configuration.
//
// Settings live in ~/.ragdesk/config.toml. Values resolve in three layers:
// built-in defaults, the TOML file, then RAGDESK_* environment variables.
// The file can be hot-reloaded through Watch, which the TUI uses to pick
// up edits without a restart. Logging setup also lives here since the log
// destination is itself configuration.
package config
