// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for status classes callers branch on.
var (
	// ErrAuthFailed covers 401 and 403: the token is missing, expired, or
	// not allowed to touch the resource.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited is a server 429.
	ErrRateLimited = errors.New("rate limited by server")

	// ErrNotFound is a server 404.
	ErrNotFound = errors.New("resource not found")

	// ErrServerUnavailable covers 5xx responses that survived retries.
	ErrServerUnavailable = errors.New("server unavailable")
)

// APIError is the uniform failure result for backend calls. Status 0 means
// the request never produced an HTTP response (DNS, refused connection,
// timeout); otherwise Status is the HTTP status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps status classes onto the sentinels so callers can use
// errors.Is without caring about exact codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 401 || e.Status == 403:
		return ErrAuthFailed
	case e.Status == 404:
		return ErrNotFound
	case e.Status == 429:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrServerUnavailable
	default:
		return nil
	}
}

// StreamError is an error event delivered inside an otherwise healthy
// event stream. The message is server-authored and shown to the user.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Message)
}

// ErrMalformedChat means a conversation payload decoded but carried no
// usable chat record.
var ErrMalformedChat = errors.New("malformed chat payload: missing id")
