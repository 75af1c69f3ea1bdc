// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-confidential.
//
// go-confidential is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package confidential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-confidential/pkg/storage"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 32
	nonceSize = 12

	// Argon2id parameters: time=1, memory=64MB, threads=4, keyLen=32
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Store is the confidential store: it persists opaque payloads through a
// storage.Backend and handles their encryption at rest. Every payload is
// sealed with AES-256-GCM under a key derived from the master passphrase
// via Argon2id, with a fresh salt and nonce per write.
//
// Wire format: [salt][nonce][ciphertext+tag], salt bound as additional
// authenticated data.
type Store struct {
	backend    storage.Backend
	passphrase []byte
}

// NewStore creates a confidential store over the given backend. The master
// passphrase must be non-empty; it is the single secret from which all
// at-rest encryption keys are derived.
func NewStore(backend storage.Backend, passphrase []byte) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: storage backend required", ErrStoreUnavailable)
	}
	if len(passphrase) == 0 {
		return nil, ErrPassphraseRequired
	}

	pass := make([]byte, len(passphrase))
	copy(pass, passphrase)

	return &Store{
		backend:    backend,
		passphrase: pass,
	}, nil
}

// Load retrieves and decrypts the payload stored under the identity.
// Returns storage.ErrNotFound (wrapped) if nothing has been stored, so
// callers can distinguish absence from failure with errors.Is.
func (s *Store) Load(identity string) ([]byte, error) {
	if identity == "" {
		return nil, ErrInvalidIdentity
	}

	sealed, err := s.backend.Get(identity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	payload, err := s.open(sealed)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// Save encrypts the payload and stores it under the identity, overwriting
// any previous payload.
func (s *Store) Save(identity string, payload []byte) error {
	if identity == "" {
		return ErrInvalidIdentity
	}

	sealed, err := s.seal(payload)
	if err != nil {
		return err
	}

	if err := s.backend.Put(identity, sealed, storage.DefaultOptions()); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Exists reports whether a payload is stored under the identity.
func (s *Store) Exists(identity string) (bool, error) {
	exists, err := s.backend.Exists(identity)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return exists, nil
}

// List returns the identities stored with the given prefix.
func (s *Store) List(prefix string) ([]string, error) {
	identities, err := s.backend.List(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return identities, nil
}

// seal encrypts a payload with a passphrase-derived key.
func (s *Store) seal(payload []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: failed to generate salt: %v", ErrStoreUnavailable, err)
	}

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: failed to generate nonce: %v", ErrStoreUnavailable, err)
	}

	ciphertext := gcm.Seal(nil, nonce, payload, salt)

	sealed := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	sealed = append(sealed, salt...)
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)

	return sealed, nil
}

// open decrypts a sealed payload. Any authentication failure is reported as
// ErrCorruptPayload; the plaintext is never partially returned.
func (s *Store) open(sealed []byte) ([]byte, error) {
	// Minimum size: 32 (salt) + 12 (nonce) + 16 (tag)
	if len(sealed) < saltSize+nonceSize+16 {
		return nil, fmt.Errorf("%w: sealed payload too short (%d bytes)", ErrCorruptPayload, len(sealed))
	}

	salt := sealed[0:saltSize]
	nonce := sealed[saltSize : saltSize+nonceSize]
	ciphertext := sealed[saltSize+nonceSize:]

	gcm, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	payload, err := gcm.Open(nil, nonce, ciphertext, salt)
	if err != nil {
		return nil, ErrCorruptPayload
	}

	return payload, nil
}

// aead builds the AES-256-GCM cipher for the given salt.
func (s *Store) aead(salt []byte) (cipher.AEAD, error) {
	derivedKey := argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher: %v", ErrStoreUnavailable, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCM: %v", ErrStoreUnavailable, err)
	}

	return gcm, nil
}
