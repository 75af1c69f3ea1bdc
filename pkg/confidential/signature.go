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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-confidential/pkg/metrics"
)

// SignatureKey is a confidential RSA key used to produce digital
// signatures. It is the canonical example of a trusted subtype: it consumes
// the private key through the package-scoped accessor and exposes only the
// signature, never the key itself.
type SignatureKey struct {
	*RSAKey
}

// NewSignatureKey creates a signature key bound to the given store and
// identity.
func NewSignatureKey(store *Store, identity string) (*SignatureKey, error) {
	rsaKey, err := NewRSAKey(store, identity)
	if err != nil {
		return nil, err
	}
	return &SignatureKey{RSAKey: rsaKey}, nil
}

// Sign computes a SHA256withRSA (PKCS#1 v1.5) signature over the message
// and returns it base64-encoded.
func (k *SignatureKey) Sign(message []byte) (string, error) {
	priv, err := k.privateKey()
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		metrics.RecordOperation(metrics.OpSign, metrics.StatusError)
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	metrics.RecordOperation(metrics.OpSign, metrics.StatusSuccess)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a base64-encoded SHA256withRSA signature over the message
// against this key's public half. Returns ErrInvalidSignature on mismatch.
func (k *SignatureKey) Verify(message []byte, signature string) error {
	pub, err := k.PublicKey()
	if err != nil {
		return err
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		metrics.RecordOperation(metrics.OpVerify, metrics.StatusError)
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	digest := sha256.Sum256(message)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		metrics.RecordOperation(metrics.OpVerify, metrics.StatusError)
		return ErrInvalidSignature
	}

	metrics.RecordOperation(metrics.OpVerify, metrics.StatusSuccess)
	return nil
}

// Signer returns a crypto.Signer backed by this key. The concrete type
// keeps the private key unexported, so handing out the Signer does not
// widen the encapsulation boundary beyond the ability to sign.
func (k *SignatureKey) Signer() (crypto.Signer, error) {
	priv, err := k.privateKey()
	if err != nil {
		return nil, err
	}
	return &signer{priv: priv}, nil
}

// signer adapts a confidential private key to crypto.Signer.
type signer struct {
	priv *rsa.PrivateKey
}

// Public returns the public key corresponding to the private key.
func (s *signer) Public() crypto.PublicKey {
	return &s.priv.PublicKey
}

// Sign signs the digest with the wrapped private key.
func (s *signer) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return s.priv.Sign(rand, digest, opts)
}
