// Package cryptox implements the field cipher used to protect secret profile
// fields before they leave the device.
//
// Envelopes are AES-256-GCM: a fresh random 12-byte nonce is generated per
// call and prepended to the sealed ciphertext, and the whole blob is base64
// encoded so it can travel as an ordinary string field.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// The key is derived from a passphrase embedded in the client. Both ends must
// derive the same key, so the passphrase ships with the build; this gives no
// confidentiality against anyone holding the binary.
const (
	defaultPassphrase = "progitman-field-key-2024"
	keySalt           = "progitman-field-salt"
)

var ErrMalformedEnvelope = errors.New("malformed envelope")

// Cipher encrypts and decrypts individual string fields.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher whose AES-256 key is derived from passphrase with
// argon2id and a fixed salt.
func New(passphrase string) (*Cipher, error) {
	key := argon2.IDKey([]byte(passphrase), []byte(keySalt), 1, 64*1024, 4, 32)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// NewDefault builds a Cipher with the process-embedded passphrase.
func NewDefault() (*Cipher, error) {
	return New(defaultPassphrase)
}

// Encrypt seals plaintext into an opaque envelope. Two calls with the same
// plaintext never produce the same envelope because the nonce is freshly
// generated each time.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. It returns an error when the
// envelope cannot be parsed or the authentication tag does not verify;
// callers are expected to degrade ("field unavailable") rather than fail.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	ns := c.aead.NonceSize()
	if len(data) < ns {
		return "", ErrMalformedEnvelope
	}

	plaintext, err := c.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("open envelope: %w", err)
	}

	return string(plaintext), nil
}
