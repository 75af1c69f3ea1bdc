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

// Package confidential manages long-lived secret credentials persisted
// through an encrypted blob store.
//
// The central type is RSAKey: a lazily materialized RSA-2048 key pair that
// is generated exactly once per identity, persisted as PKCS#8 DER, cached
// in memory thereafter, and never handed out through the public API. Only
// derived operations cross the package boundary: PublicKey,
// EncodedPublicKey, Fingerprint, JWK export, and signing via SignatureKey.
//
// The raw private key is reachable only through the unexported privateKey
// accessor, so trusted subtypes must live in this package. This is the
// encapsulation boundary: code outside the package cannot obtain, copy, or
// serialize the private half under any circumstance, and nothing in this
// package logs key material.
package confidential
