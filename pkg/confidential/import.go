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
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-confidential/pkg/encoding"
)

// ImportRSAKey seals an externally generated PEM private key into the store
// under the identity. Encrypted PKCS#8 input requires the password. The key
// is re-encoded as unencrypted PKCS#8 DER; at-rest confidentiality is the
// store's responsibility.
//
// Import refuses to overwrite an existing identity: a confidential key is
// created exactly once, and replacing one silently would orphan every
// signature and export derived from it.
func ImportRSAKey(store *Store, identity string, pemData []byte, password []byte) error {
	base, err := newKey(store, identity)
	if err != nil {
		return err
	}

	exists, err := store.Exists(identity)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: identity %q already holds a key", ErrInvalidIdentity, identity)
	}

	priv, err := encoding.DecodePrivateKeyPEM(pemData, password)
	if err != nil {
		if errors.Is(err, encoding.ErrPasswordRequired) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrCorruptKey, identity, err)
	}

	der, err := encoding.EncodePKCS8(priv)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptKey, identity, err)
	}

	return base.save(der)
}
