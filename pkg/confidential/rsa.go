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
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeremyhahn/go-confidential/pkg/encoding"
	"github.com/jeremyhahn/go-confidential/pkg/encoding/jwk"
	"github.com/jeremyhahn/go-confidential/pkg/metrics"
	"github.com/jeremyhahn/go-confidential/pkg/storage"
)

// keySize is the fixed RSA modulus length. This is a policy constant, not
// a configurable input.
const keySize = 2048

// RSAKey is a lazily materialized RSA key pair held as a confidential
// credential. The pair is generated on first use, persisted as PKCS#8 DER
// through the confidential store, and cached in memory for the lifetime of
// the instance. Concurrent first access results in exactly one
// generation-or-load event.
//
// The private key never crosses the public API. Use SignatureKey (or
// another subtype in this package) for operations that consume it.
type RSAKey struct {
	Key
	mu   sync.RWMutex
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewRSAKey creates an RSA confidential key bound to the given store and
// identity. No I/O is performed; the key pair is materialized on first use.
func NewRSAKey(store *Store, identity string) (*RSAKey, error) {
	base, err := newKey(store, identity)
	if err != nil {
		return nil, err
	}
	return &RSAKey{Key: base}, nil
}

// privateKey returns the cached private key, materializing it on first use.
//
// This accessor is unexported on purpose: instead of exposing the private
// key, subtypes in this package define operations that use it in a specific
// way, such as SignatureKey. The check-load-or-generate-and-store sequence
// runs under the write lock so concurrent first access performs exactly one
// generation or load and exactly one store write; a failed attempt leaves
// the key unloaded and safe to retry.
func (k *RSAKey) privateKey() (*rsa.PrivateKey, error) {
	k.mu.RLock()
	if k.priv != nil {
		defer k.mu.RUnlock()
		return k.priv, nil
	}
	k.mu.RUnlock()

	k.mu.Lock()
	defer k.mu.Unlock()

	// Another caller may have won the race while we waited for the lock.
	if k.priv != nil {
		return k.priv, nil
	}

	payload, err := k.load()
	switch {
	case err == nil:
		return k.materialize(payload)
	case errors.Is(err, storage.ErrNotFound):
		return k.generate()
	default:
		return nil, err
	}
}

// materialize decodes a persisted PKCS#8 payload and rebuilds the public
// key from the modulus and public exponent embedded in the private key's
// CRT form. The persisted private key is the single source of truth; the
// public half is never stored separately, so the two cannot drift.
func (k *RSAKey) materialize(payload []byte) (*rsa.PrivateKey, error) {
	start := time.Now()

	priv, err := encoding.DecodePKCS8(payload, nil)
	if err != nil {
		metrics.RecordOperation(metrics.OpLoad, metrics.StatusError)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptKey, k.ID(), err)
	}

	k.priv = priv
	k.pub = &rsa.PublicKey{N: priv.N, E: priv.E}

	metrics.RecordOperation(metrics.OpLoad, metrics.StatusSuccess)
	metrics.RecordDuration(metrics.OpLoad, start)
	metrics.KeysLoaded.Inc()
	return k.priv, nil
}

// generate produces a fresh RSA-2048 key pair, persists its PKCS#8 encoding
// and verifies the stored payload reads back bit-for-bit before caching
// anything. Either both halves are cached and the blob is stored, or the
// state stays unloaded.
func (k *RSAKey) generate() (*rsa.PrivateKey, error) {
	start := time.Now()

	priv, err := rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerate, metrics.StatusError)
		return nil, fmt.Errorf("%w: %s: %v", ErrGenerationFailure, k.ID(), err)
	}

	der, err := encoding.EncodePKCS8(priv)
	if err != nil {
		metrics.RecordOperation(metrics.OpGenerate, metrics.StatusError)
		return nil, fmt.Errorf("%w: %s: %v", ErrGenerationFailure, k.ID(), err)
	}

	if err := k.save(der); err != nil {
		metrics.RecordOperation(metrics.OpStore, metrics.StatusError)
		return nil, err
	}

	// Read-back verification: the key is unusable if its persisted form
	// does not survive a round trip through the store.
	stored, err := k.load()
	if err != nil {
		metrics.RecordOperation(metrics.OpStore, metrics.StatusError)
		return nil, fmt.Errorf("%w: %s: post-store verification read failed: %v", ErrStoreUnavailable, k.ID(), err)
	}
	if !bytes.Equal(stored, der) {
		metrics.RecordOperation(metrics.OpStore, metrics.StatusError)
		return nil, fmt.Errorf("%w: %s: post-store verification mismatch", ErrStoreUnavailable, k.ID())
	}

	k.priv = priv
	k.pub = &rsa.PublicKey{N: priv.N, E: priv.E}

	metrics.RecordOperation(metrics.OpGenerate, metrics.StatusSuccess)
	metrics.RecordOperation(metrics.OpStore, metrics.StatusSuccess)
	metrics.RecordDuration(metrics.OpGenerate, start)
	metrics.KeysLoaded.Inc()
	return k.priv, nil
}

// PublicKey returns the public half of the key pair, materializing the pair
// on first use. It has no failure mode of its own beyond materialization.
func (k *RSAKey) PublicKey() (*rsa.PublicKey, error) {
	if _, err := k.privateKey(); err != nil {
		return nil, err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.pub, nil
}

// EncodedPublicKey returns the public key's PKIX DER encoding rendered as a
// base64 string, for embedding in text-based configuration or protocol
// messages. Repeated calls return the identical string.
func (k *RSAKey) EncodedPublicKey() (string, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return "", err
	}

	encoded, err := encoding.EncodePublicKeyBase64(pub)
	if err != nil {
		metrics.RecordOperation(metrics.OpExport, metrics.StatusError)
		return "", err
	}

	metrics.RecordOperation(metrics.OpExport, metrics.StatusSuccess)
	return encoded, nil
}

// Fingerprint returns the hex-encoded SHA-256 digest of the public key's
// PKIX DER encoding.
func (k *RSAKey) Fingerprint() (string, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return "", err
	}
	return encoding.PublicKeyFingerprint(pub)
}

// JWK exports the public key as an RFC 7517 JSON Web Key with the key's
// identity as the kid.
func (k *RSAKey) JWK() (*jwk.JWK, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	return jwk.FromPublicKey(pub, k.ID())
}
