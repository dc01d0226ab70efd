// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the ragdesk backend.
//
// Client wraps every REST route with a typed method, normalizes the
// backend's {message, data} response envelope, and maps failures to a
// uniform error surface: *APIError carries the HTTP status (0 for network
// failures) and unwraps to sentinel errors such as ErrAuthFailed for
// errors.Is checks.
//
// Streaming sends use server-sent events. EventDecoder turns the byte
// stream into calls on a StreamSink independent of how the bytes were
// chunked in transit; the chat reconciler is the production sink.
//
// Document uploads are a three-step saga: request a presigned URL, PUT
// the raw bytes to object storage, confirm. There is no client-side
// compensation; the server garbage-collects unconfirmed uploads.
package api
