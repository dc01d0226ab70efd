// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth supplies the bearer token every backend call carries.
//
// Tokens are issued by the platform's identity provider and pasted into
// `ragdesk login`; this package only stores and serves them. The resolution
// order is: explicit --token flag, RAGDESK_TOKEN environment variable, then
// the encrypted on-disk keystore. A missing token surfaces as
// ErrNotAuthenticated before any network I/O happens.
package auth
