package store

import (
	"crypto/rand"
	"encoding/base64"
	"os"

	"github.com/jrsteele09/go-auth-client/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	secretKeyBytes = 32
	nonceBytes     = 24
)

var DecryptionErr = errors.New("credential decryption failed")

// Encrypted wraps a Repo and encrypts token values at rest with
// XSalsa20-Poly1305 (nacl secretbox). The key lives in a 0600 file next to
// the store; losing the key is equivalent to logging out.
type Encrypted struct {
	inner  Repo
	secret [secretKeyBytes]byte
}

var _ Repo = (*Encrypted)(nil)

// NewEncrypted returns an encrypting Repo using the key at keyPath,
// generating the key file on first use.
func NewEncrypted(inner Repo, keyPath string) (*Encrypted, error) {
	key, err := getOrCreateSecretKey(keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "[NewEncrypted] secret key")
	}
	e := &Encrypted{inner: inner}
	copy(e.secret[:], key)
	return e, nil
}

func (e *Encrypted) Save(creds token.Credentials) error {
	var sealed token.Credentials
	var err error
	if creds.AccessToken() != "" {
		if sealed.Access, err = e.seal(creds.AccessToken()); err != nil {
			return errors.Wrap(err, "[Encrypted.Save] access token")
		}
	}
	if creds.RefreshToken() != "" {
		if sealed.Refresh, err = e.seal(creds.RefreshToken()); err != nil {
			return errors.Wrap(err, "[Encrypted.Save] refresh token")
		}
	}
	return e.inner.Save(sealed)
}

func (e *Encrypted) Load() (token.Credentials, error) {
	sealed, err := e.inner.Load()
	if err != nil {
		return token.Credentials{}, err
	}
	if !sealed.Complete() {
		return token.Credentials{}, nil
	}
	var creds token.Credentials
	if creds.Access, err = e.open(sealed.AccessToken()); err != nil {
		return token.Credentials{}, errors.Wrap(err, "[Encrypted.Load] access token")
	}
	if creds.Refresh, err = e.open(sealed.RefreshToken()); err != nil {
		return token.Credentials{}, errors.Wrap(err, "[Encrypted.Load] refresh token")
	}
	return creds, nil
}

func (e *Encrypted) Clear() error {
	return e.inner.Clear()
}

// seal encrypts a token value as base64(nonce || ciphertext).
func (e *Encrypted) seal(plaintext string) (string, error) {
	var nonce [nonceBytes]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &e.secret)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *Encrypted) open(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(DecryptionErr, err.Error())
	}
	if len(sealed) < nonceBytes {
		return "", DecryptionErr
	}
	var nonce [nonceBytes]byte
	copy(nonce[:], sealed[:nonceBytes])
	opened, ok := secretbox.Open(nil, sealed[nonceBytes:], &nonce, &e.secret)
	if !ok {
		return "", DecryptionErr
	}
	return string(opened), nil
}

// getOrCreateSecretKey loads the base64 key file, generating it when missing.
func getOrCreateSecretKey(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		key, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			return nil, errors.Wrap(err, "decode key file")
		}
		if len(key) != secretKeyBytes {
			return nil, errors.Errorf("invalid key length: %d (expected %d)", len(key), secretKeyBytes)
		}
		return key, nil
	}

	key := make([]byte, secretKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, errors.Wrap(err, "write key file")
	}
	return key, nil
}
