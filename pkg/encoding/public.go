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

package encoding

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// EncodePublicKeyPKIX encodes an RSA public key to PKIX DER
// (SubjectPublicKeyInfo: algorithm-tagged modulus + exponent).
func EncodePublicKeyPKIX(publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, ErrInvalidPublicKey
	}

	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PKIX public key: %w", err)
	}

	return der, nil
}

// DecodePublicKeyPKIX decodes PKIX DER to an RSA public key.
func DecodePublicKeyPKIX(data []byte) (*rsa.PublicKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	parsed, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	rsaPub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key (%T)", ErrInvalidPublicKey, parsed)
	}

	return rsaPub, nil
}

// EncodePublicKeyBase64 renders an RSA public key as the base64 text form of
// its PKIX DER encoding, suitable for embedding in text-based configuration
// or protocol messages.
func EncodePublicKeyBase64(publicKey *rsa.PublicKey) (string, error) {
	der, err := EncodePublicKeyPKIX(publicKey)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// PublicKeyFingerprint returns the hex-encoded SHA-256 digest of the public
// key's PKIX DER encoding.
func PublicKeyFingerprint(publicKey *rsa.PublicKey) (string, error) {
	der, err := EncodePublicKeyPKIX(publicKey)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(der)
	return hex.EncodeToString(digest[:]), nil
}
