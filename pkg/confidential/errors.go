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

import "errors"

var (
	// ErrStoreUnavailable indicates the blob store failed to read or write
	// a payload. The key state is unchanged; the caller may retry.
	ErrStoreUnavailable = errors.New("confidential: store unavailable")

	// ErrCorruptKey indicates stored bytes could not be interpreted as an
	// RSA private key. This signals data corruption or format
	// incompatibility; there is no automatic repair.
	ErrCorruptKey = errors.New("confidential: corrupt persisted key")

	// ErrCorruptPayload indicates an at-rest payload failed authenticated
	// decryption: either the master passphrase is wrong or the stored
	// bytes were tampered with.
	ErrCorruptPayload = errors.New("confidential: corrupt payload or wrong passphrase")

	// ErrGenerationFailure indicates the cryptographic provider could not
	// produce a key pair.
	ErrGenerationFailure = errors.New("confidential: key generation failed")

	// ErrInvalidIdentity indicates an empty or malformed identity string.
	ErrInvalidIdentity = errors.New("confidential: invalid identity")

	// ErrPassphraseRequired indicates a store was constructed without a
	// master passphrase.
	ErrPassphraseRequired = errors.New("confidential: master passphrase required")

	// ErrInvalidSignature indicates a signature did not verify against the
	// public key.
	ErrInvalidSignature = errors.New("confidential: invalid signature")
)
