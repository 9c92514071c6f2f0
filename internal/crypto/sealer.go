// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// selfKeyedSealer is the private implementation of [Sealer] built on
// ChaCha20-Poly1305. Each Seal call draws a fresh 256-bit key and a fresh
// nonce from the OS CSPRNG and prepends both to the ciphertext:
//
//	blob = key (32 bytes) ‖ nonce (12 bytes) ‖ ciphertext
type selfKeyedSealer struct{}

// NewSealer constructs a [Sealer] ready for use. The implementation is
// stateless, so a single instance can be shared freely.
func NewSealer() Sealer {
	return &selfKeyedSealer{}
}

// Seal implements [Sealer].
func (s *selfKeyedSealer) Seal(plaintext []byte) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	blob := make([]byte, 0, len(key)+len(nonce)+len(plaintext)+aead.Overhead())
	blob = append(blob, key...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, plaintext, nil)

	return blob, nil
}

// Open implements [Sealer]. It splits the blob into key, nonce and
// ciphertext and decrypts. An authentication failure means the blob was
// corrupted or truncated somewhere between export and import.
func (s *selfKeyedSealer) Open(blob []byte) ([]byte, error) {
	headerLen := chacha20poly1305.KeySize + chacha20poly1305.NonceSize
	if len(blob) < headerLen {
		return nil, fmt.Errorf("sealed blob too short")
	}

	key := blob[:chacha20poly1305.KeySize]
	nonce := blob[chacha20poly1305.KeySize:headerLen]
	ciphertext := blob[headerLen:]

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
