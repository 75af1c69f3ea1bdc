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
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicKeyPKIXRoundTrip verifies public key DER encode/decode.
func TestPublicKeyPKIXRoundTrip(t *testing.T) {
	priv := testRSAKey(t)

	der, err := EncodePublicKeyPKIX(&priv.PublicKey)
	require.NoError(t, err)

	decoded, err := DecodePublicKeyPKIX(der)
	require.NoError(t, err)
	assert.Equal(t, 0, priv.PublicKey.N.Cmp(decoded.N))
	assert.Equal(t, priv.PublicKey.E, decoded.E)
}

// TestEncodePublicKeyBase64 verifies the base64 export is valid standard
// base64 of the PKIX DER and stable across calls.
func TestEncodePublicKeyBase64(t *testing.T) {
	priv := testRSAKey(t)

	encoded, err := EncodePublicKeyBase64(&priv.PublicKey)
	require.NoError(t, err)

	der, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	decoded, err := DecodePublicKeyPKIX(der)
	require.NoError(t, err)
	assert.Equal(t, 0, priv.PublicKey.N.Cmp(decoded.N))

	again, err := EncodePublicKeyBase64(&priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, encoded, again)
}

// TestPublicKeyFingerprint verifies fingerprints are stable and distinct.
func TestPublicKeyFingerprint(t *testing.T) {
	a := testRSAKey(t)
	b := testRSAKey(t)

	fpA, err := PublicKeyFingerprint(&a.PublicKey)
	require.NoError(t, err)
	assert.Len(t, fpA, 64) // hex SHA-256

	fpA2, err := PublicKeyFingerprint(&a.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, fpA, fpA2)

	fpB, err := PublicKeyFingerprint(&b.PublicKey)
	require.NoError(t, err)
	assert.NotEqual(t, fpA, fpB)
}

// TestPEM verifies PEM armoring of public keys and decoding of private
// keys, including the password-required error for encrypted blocks.
func TestPEM(t *testing.T) {
	priv := testRSAKey(t)

	pemData, err := EncodePublicKeyPEM(&priv.PublicKey)
	require.NoError(t, err)
	assert.Contains(t, string(pemData), "BEGIN PUBLIC KEY")

	_, err = DecodePrivateKeyPEM([]byte("not pem"), nil)
	assert.ErrorIs(t, err, ErrInvalidPEMEncoding)

	_, err = DecodePrivateKeyPEM(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestNilPublicKey(t *testing.T) {
	_, err := EncodePublicKeyPKIX(nil)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
	_, err = EncodePublicKeyBase64(nil)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}
