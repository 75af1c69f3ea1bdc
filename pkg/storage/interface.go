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

// Package storage defines the blob store contract consumed by the
// confidential store. A backend persists opaque byte payloads keyed by an
// identity string; durability and availability are the backend's problem,
// confidentiality of the payload is the caller's.
package storage

import (
	"io/fs"
)

// Backend defines the interface for blob storage backends.
// All implementations must be thread-safe.
type Backend interface {
	// Get retrieves the payload stored under the given identity.
	// Returns ErrNotFound if nothing has been stored.
	Get(identity string) ([]byte, error)

	// Put stores the payload under the given identity with optional
	// metadata. An existing payload is overwritten.
	Put(identity string, payload []byte, opts *Options) error

	// Delete removes the payload stored under the given identity.
	// Returns ErrNotFound if nothing has been stored.
	Delete(identity string) error

	// List returns all identities with the given prefix, sorted.
	// An empty prefix returns every identity.
	List(prefix string) ([]string, error)

	// Exists reports whether a payload is stored under the identity.
	Exists(identity string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Options contains optional parameters for storage operations.
type Options struct {
	// Permissions sets the file permissions for file-based backends.
	Permissions fs.FileMode
}

// DefaultOptions returns Options with sensible defaults for secret material.
func DefaultOptions() *Options {
	return &Options{
		Permissions: 0600, // Read/write for owner only
	}
}
