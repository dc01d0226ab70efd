// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"os"
	"strings"
)

// ErrNotAuthenticated means no bearer token could be resolved. Callers
// short-circuit before any request is built.
var ErrNotAuthenticated = errors.New("not authenticated: run 'ragdesk login' or set RAGDESK_TOKEN")

// TokenEnvVar overrides the keystore when set.
const TokenEnvVar = "RAGDESK_TOKEN"

// TokenSource yields the bearer token for outgoing requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token, used for --token flags and tests.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}

// EnvToken reads the token from TokenEnvVar.
type EnvToken struct{}

func (EnvToken) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnvVar))
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Chain tries each source in order and returns the first token found.
// Only ErrNotAuthenticated moves resolution to the next source; real
// failures (for example a corrupt keystore) propagate immediately.
type Chain []TokenSource

func (c Chain) Token() (string, error) {
	for _, src := range c {
		token, err := src.Token()
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrNotAuthenticated) {
			return "", err
		}
	}
	return "", ErrNotAuthenticated
}

// DefaultSource resolves tokens the standard way: environment first, then
// the keystore under dir.
func DefaultSource(dir string) TokenSource {
	return Chain{EnvToken{}, NewKeystore(dir)}
}
