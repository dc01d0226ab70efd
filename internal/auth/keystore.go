// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"

	"github.com/nextgensoft/ragdesk/internal/util"
)

const (
	keystoreSecretFile = "keystore.secret"
	keystoreTokenFile  = "token.enc"

	keySize    = 32
	saltSize   = 32
	nonceSize  = 12
	kdfIters   = 600000
	secretSize = 32
)

// ErrKeystoreCorrupt means the token file exists but cannot be decrypted
// with the local secret. Re-running login replaces both files.
var ErrKeystoreCorrupt = errors.New("token keystore corrupt: run 'ragdesk login' again")

// Keystore stores the bearer token encrypted at rest under a directory,
// typically ~/.ragdesk. The AES-256-GCM key is derived with PBKDF2 from a
// random per-install secret kept alongside at mode 0600. This keeps the
// token out of plain-text files; it is not a defense against an attacker
// who can already read the user's home directory.
type Keystore struct {
	dir string
}

// NewKeystore returns a keystore rooted at dir.
func NewKeystore(dir string) *Keystore {
	return &Keystore{dir: dir}
}

// Token implements TokenSource. A missing keystore maps to
// ErrNotAuthenticated; a present but undecryptable one is an error.
func (k *Keystore) Token() (string, error) {
	return k.Load()
}

// Save encrypts and stores the token, creating the per-install secret on
// first use.
func (k *Keystore) Save(token string) error {
	secret, salt, err := k.loadOrCreateSecret()
	if err != nil {
		return err
	}
	defer zero(secret)

	gcm, err := newGCM(secret, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(token), nil)
	if err := util.AtomicWriteFileWithDir(k.tokenPath(), sealed, 0o600, 0o700); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Load decrypts and returns the stored token.
func (k *Keystore) Load() (string, error) {
	sealed, err := os.ReadFile(k.tokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	secret, salt, err := k.loadSecret()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrKeystoreCorrupt
		}
		return "", err
	}
	defer zero(secret)

	gcm, err := newGCM(secret, salt)
	if err != nil {
		return "", err
	}

	if len(sealed) < nonceSize {
		return "", ErrKeystoreCorrupt
	}
	plaintext, err := gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", ErrKeystoreCorrupt
	}
	return string(plaintext), nil
}

// Delete removes the stored token. Missing files are not an error.
func (k *Keystore) Delete() error {
	if err := os.Remove(k.tokenPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (k *Keystore) tokenPath() string {
	return filepath.Join(k.dir, keystoreTokenFile)
}

func (k *Keystore) secretPath() string {
	return filepath.Join(k.dir, keystoreSecretFile)
}

// loadSecret reads the per-install secret file: secretSize bytes of secret
// followed by saltSize bytes of salt.
func (k *Keystore) loadSecret() ([]byte, []byte, error) {
	data, err := os.ReadFile(k.secretPath())
	if err != nil {
		return nil, nil, err
	}
	if len(data) != secretSize+saltSize {
		return nil, nil, ErrKeystoreCorrupt
	}
	return data[:secretSize], data[secretSize:], nil
}

func (k *Keystore) loadOrCreateSecret() ([]byte, []byte, error) {
	secret, salt, err := k.loadSecret()
	if err == nil {
		return secret, salt, nil
	}
	if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrKeystoreCorrupt) {
		return nil, nil, err
	}

	data := make([]byte, secretSize+saltSize)
	if _, err := io.ReadFull(rand.Reader, data); err != nil {
		return nil, nil, fmt.Errorf("generate keystore secret: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(k.secretPath(), data, 0o600, 0o700); err != nil {
		return nil, nil, fmt.Errorf("write keystore secret: %w", err)
	}
	return data[:secretSize], data[secretSize:], nil
}

func newGCM(secret, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(secret, salt, kdfIters, keySize, sha256.New)
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
