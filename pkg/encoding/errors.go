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

import "errors"

var (
	// ErrInvalidData is returned when input data is empty or malformed.
	ErrInvalidData = errors.New("encoding: invalid data")

	// ErrInvalidPrivateKey is returned when a private key is nil or not RSA.
	ErrInvalidPrivateKey = errors.New("encoding: invalid private key")

	// ErrInvalidPublicKey is returned when a public key is nil or not RSA.
	ErrInvalidPublicKey = errors.New("encoding: invalid public key")

	// ErrInvalidPEMEncoding is returned when PEM data cannot be decoded.
	ErrInvalidPEMEncoding = errors.New("encoding: invalid PEM encoding")

	// ErrPasswordRequired is returned when an encrypted key is decoded
	// without a password.
	ErrPasswordRequired = errors.New("encoding: password required for encrypted key")
)
