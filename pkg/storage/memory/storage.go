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

// Package memory provides an in-memory implementation of the storage.Backend
// interface. It uses a map with RWMutex for thread-safe operations and makes
// defensive copies of all byte slices to prevent external modification.
// Intended for tests and ephemeral stores; nothing survives the process.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-confidential/pkg/storage"
)

// Storage is an in-memory implementation of storage.Backend.
type Storage struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	closed bool
}

// New creates a new in-memory storage backend.
func New() storage.Backend {
	return &Storage{
		blobs: make(map[string][]byte),
	}
}

// Get retrieves the payload stored under the given identity.
// Returns storage.ErrNotFound if nothing has been stored and
// storage.ErrClosed if the backend has been closed.
// The returned byte slice is a defensive copy and safe to modify.
func (s *Storage) Get(identity string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	payload, exists := s.blobs[identity]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]byte, len(payload))
	copy(result, payload)
	return result, nil
}

// Put stores the payload under the given identity, overwriting any existing
// payload. The Options parameter is accepted for interface compatibility.
// The payload is defensively copied to prevent external modification.
func (s *Storage) Put(identity string, payload []byte, opts *storage.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	if identity == "" {
		return storage.ErrInvalidIdentity
	}

	payloadCopy := make([]byte, len(payload))
	copy(payloadCopy, payload)
	s.blobs[identity] = payloadCopy

	return nil
}

// Delete removes the payload stored under the given identity.
// Returns storage.ErrNotFound if nothing has been stored.
func (s *Storage) Delete(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	if _, exists := s.blobs[identity]; !exists {
		return storage.ErrNotFound
	}

	delete(s.blobs, identity)
	return nil
}

// List returns all identities with the given prefix in sorted order.
func (s *Storage) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	var identities []string
	for identity := range s.blobs {
		if prefix == "" || strings.HasPrefix(identity, prefix) {
			identities = append(identities, identity)
		}
	}

	sort.Strings(identities)
	return identities, nil
}

// Exists reports whether a payload is stored under the identity.
func (s *Storage) Exists(identity string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, storage.ErrClosed
	}

	_, exists := s.blobs[identity]
	return exists, nil
}

// Close marks the backend as closed. After calling Close, all other
// operations return storage.ErrClosed. Close is idempotent.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.blobs = nil

	return nil
}
