// Package credentials stores per-user API keys encrypted at rest. A Manager
// wraps the metadata store with an XChaCha20-Poly1305 cipher; callers only
// ever see plaintext keys, the store only ever sees sealed blobs.
package credentials

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"golang.org/x/crypto/chacha20poly1305"
)

// Provider resolves and stores one API key per (user, service) pair. The
// engine and AI service take a Provider, never the concrete manager, so
// deployments can swap the backing store.
type Provider interface {
	Get(ctx context.Context, userID int64, service string) (string, error)
	Set(ctx context.Context, userID int64, service, rawKey string) error
}

// Manager is the metadata-store backed Provider.
type Manager struct {
	store *metadata.Store
	aead  cipher.AEAD
}

// NewManager derives a cipher key from the configured passphrase and returns
// a ready manager. An empty passphrase is refused.
func NewManager(store *metadata.Store, passphrase string) (*Manager, error) {
	if passphrase == "" {
		return nil, errors.New(ErrKeyMissing, "encryption passphrase is not configured", nil)
	}

	key := sha256.Sum256([]byte(passphrase))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, errors.New(ErrKeyInvalid, "failed to initialize cipher", err)
	}
	return &Manager{store: store, aead: aead}, nil
}

// Set seals the raw key and upserts it for (user, service).
func (m *Manager) Set(ctx context.Context, userID int64, service, rawKey string) error {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.New(ErrEncryptFailed, "failed to generate nonce", err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(rawKey), nil)
	encoded := base64.StdEncoding.EncodeToString(sealed)
	return m.store.UpsertCredential(ctx, userID, service, encoded)
}

// Get loads and opens the stored key for (user, service). A missing
// credential is reported before any decryption is attempted so callers can
// refuse AI work without a wasted round trip.
func (m *Manager) Get(ctx context.Context, userID int64, service string) (string, error) {
	cred, err := m.store.GetCredential(ctx, userID, service)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(cred.EncryptedKey)
	if err != nil {
		return "", errors.New(ErrDecryptFailed, "stored credential is not valid base64", err).
			AddContext("service", service)
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return "", errors.New(ErrDecryptFailed, "stored credential is truncated", nil).
			AddContext("service", service)
	}

	nonce, ciphertext := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	plaintext, err := m.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.New(ErrDecryptFailed, "failed to decrypt credential", err).
			AddContext("service", service)
	}
	return string(plaintext), nil
}
