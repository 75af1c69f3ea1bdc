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

// Package jwk renders RSA public keys as JSON Web Keys (RFC 7517).
// Only the public half is ever exported; private-key JWK fields are
// deliberately absent from the type.
package jwk

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidPublicKey is returned when a public key is nil or malformed.
var ErrInvalidPublicKey = errors.New("jwk: invalid public key")

// JWK represents the RSA public key subset of RFC 7517.
type JWK struct {
	Kty string `json:"kty"`           // Key Type (always "RSA")
	Use string `json:"use,omitempty"` // Public Key Use (sig, enc)
	Kid string `json:"kid,omitempty"` // Key ID

	// RSA public key fields (RFC 7518 Section 6.3.1)
	N string `json:"n"` // Modulus (base64url)
	E string `json:"e"` // Exponent (base64url)
}

// FromPublicKey converts an RSA public key to a JWK. The kid is optional
// and typically set to the key's identity within the confidential store.
func FromPublicKey(publicKey *rsa.PublicKey, kid string) (*JWK, error) {
	if publicKey == nil || publicKey.N == nil {
		return nil, ErrInvalidPublicKey
	}

	return &JWK{
		Kty: "RSA",
		Kid: kid,
		N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes()),
	}, nil
}

// ToPublicKey converts the JWK back to an RSA public key.
func (j *JWK) ToPublicKey() (*rsa.PublicKey, error) {
	if j.Kty != "RSA" {
		return nil, fmt.Errorf("%w: unsupported key type %q", ErrInvalidPublicKey, j.Kty)
	}

	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, fmt.Errorf("%w: bad modulus: %v", ErrInvalidPublicKey, err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, fmt.Errorf("%w: bad exponent: %v", ErrInvalidPublicKey, err)
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, fmt.Errorf("%w: exponent out of range", ErrInvalidPublicKey)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}

// Marshal renders the JWK as compact JSON.
func (j *JWK) Marshal() ([]byte, error) {
	return json.Marshal(j)
}
