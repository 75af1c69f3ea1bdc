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
	"fmt"
	"strings"
)

// Key is the common base of every confidential key: an immutable identity
// bound to the store that persists it. It performs no I/O at construction.
type Key struct {
	identity string
	store    *Store
}

// newKey validates the identity and binds it to the store.
func newKey(store *Store, identity string) (Key, error) {
	if store == nil {
		return Key{}, fmt.Errorf("%w: store required", ErrStoreUnavailable)
	}
	if identity == "" || strings.ContainsAny(identity, `/\`) {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}
	return Key{
		identity: identity,
		store:    store,
	}, nil
}

// ID returns the identity naming this key within the confidential store.
func (k *Key) ID() string {
	return k.identity
}

// load fetches this key's persisted payload from the store.
// Absence is signalled by storage.ErrNotFound.
func (k *Key) load() ([]byte, error) {
	return k.store.Load(k.identity)
}

// save persists this key's payload to the store.
func (k *Key) save(payload []byte) error {
	return k.store.Save(k.identity, payload)
}

// ComposeIdentity builds an identity string from a namespace (typically the
// owning component's name) and a short name, e.g. "instance-identity.rsa".
func ComposeIdentity(namespace, shortName string) string {
	return namespace + "." + shortName
}
