// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("abc").Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = StaticToken("").Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEnvToken(t *testing.T) {
	t.Setenv(TokenEnvVar, "  env-token  ")
	token, err := EnvToken{}.Token()
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)

	t.Setenv(TokenEnvVar, "")
	_, err = EnvToken{}.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestChainFallsThrough(t *testing.T) {
	chain := Chain{StaticToken(""), StaticToken("second")}
	token, err := chain.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	_, err = Chain{StaticToken(""), StaticToken("")}.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestKeystoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ks := NewKeystore(dir)

	require.NoError(t, ks.Save("sk_live_12345"))

	token, err := ks.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk_live_12345", token)

	// Token is not stored in the clear.
	raw, err := os.ReadFile(filepath.Join(dir, "token.enc"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk_live_12345")

	// Private perms on both files.
	for _, name := range []string{"token.enc", "keystore.secret"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), name)
	}
}

func TestKeystoreOverwrite(t *testing.T) {
	ks := NewKeystore(t.TempDir())
	require.NoError(t, ks.Save("first"))
	require.NoError(t, ks.Save("second"))

	token, err := ks.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestKeystoreMissingIsNotAuthenticated(t *testing.T) {
	ks := NewKeystore(t.TempDir())
	_, err := ks.Load()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestKeystoreTamperedTokenIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	ks := NewKeystore(dir)
	require.NoError(t, ks.Save("token"))

	path := filepath.Join(dir, "token.enc")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = ks.Load()
	assert.ErrorIs(t, err, ErrKeystoreCorrupt)
}

func TestKeystoreDelete(t *testing.T) {
	dir := t.TempDir()
	ks := NewKeystore(dir)
	require.NoError(t, ks.Save("token"))
	require.NoError(t, ks.Delete())
	_, err := ks.Load()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Deleting again is fine.
	require.NoError(t, ks.Delete())
}

func TestDefaultSourcePrefersEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewKeystore(dir).Save("stored"))

	t.Setenv(TokenEnvVar, "from-env")
	token, err := DefaultSource(dir).Token()
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	t.Setenv(TokenEnvVar, "")
	token, err = DefaultSource(dir).Token()
	require.NoError(t, err)
	assert.Equal(t, "stored", token)
}
