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

// Package encoding provides the standard wire encodings used by the
// confidential key store: PKCS#8 DER for private keys, PKIX DER for public
// keys, PEM armoring for both, and the base64 public export format.
// Only RSA keys are supported; the confidential key lifecycle is RSA-only.
package encoding

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/youmark/pkcs8"
)

// EncodePKCS8 encodes an RSA private key to unencrypted PKCS#8 DER.
// This is the sole persisted representation of a confidential key; the
// public half is always reconstructed from it.
func EncodePKCS8(privateKey *rsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}

	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode PKCS#8: %w", err)
	}

	return der, nil
}

// DecodePKCS8 decodes PKCS#8 DER to an RSA private key. If password is
// non-empty, the data is treated as an encrypted PKCS#8 structure and
// decrypted first (PBES2, via youmark/pkcs8). Keys of any other algorithm
// are rejected with ErrInvalidPrivateKey.
func DecodePKCS8(data []byte, password []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	var parsed any
	var err error
	if len(password) > 0 {
		parsed, err = pkcs8.ParsePKCS8PrivateKey(data, password)
	} else {
		parsed, err = x509.ParsePKCS8PrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key (%T)", ErrInvalidPrivateKey, parsed)
	}

	// Validate the CRT parameters; the public key is derived from them.
	if err := rsaKey.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return rsaKey, nil
}
