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
	"bytes"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
)

// PEM block types
const (
	PEMTypePrivateKey          = "PRIVATE KEY"
	PEMTypeEncryptedPrivateKey = "ENCRYPTED PRIVATE KEY"
	PEMTypePublicKey           = "PUBLIC KEY"
)

// EncodePublicKeyPEM encodes an RSA public key to PEM format.
func EncodePublicKeyPEM(publicKey *rsa.PublicKey) ([]byte, error) {
	der, err := EncodePublicKeyPKIX(publicKey)
	if err != nil {
		return nil, err
	}

	block := &pem.Block{
		Type:  PEMTypePublicKey,
		Bytes: der,
	}

	var buf bytes.Buffer
	if err := pem.Encode(&buf, block); err != nil {
		return nil, fmt.Errorf("failed to encode PEM: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodePrivateKeyPEM decodes a PEM-armored private key. Encrypted PKCS#8
// blocks require a password; unencrypted blocks must pass an empty one.
func DecodePrivateKeyPEM(data []byte, password []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMEncoding
	}

	if block.Type == PEMTypeEncryptedPrivateKey && len(password) == 0 {
		return nil, ErrPasswordRequired
	}

	return DecodePKCS8(block.Bytes, password)
}
