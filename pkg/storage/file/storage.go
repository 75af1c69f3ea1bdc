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

// Package file provides a file-based implementation of the storage.Backend
// interface. Each identity maps to a single file inside the root directory,
// mirroring how a secrets directory is laid out on disk: one secret per file,
// owner-only permissions.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-confidential/pkg/storage"
)

const (
	// Directory permissions (owner rwx only)
	defaultDirPerms = 0700

	// Secret file permissions (owner rw only)
	defaultFilePerms = 0600
)

// FileStorage is a file-based implementation of storage.Backend.
// It stores each payload as a file named after its identity and is
// thread-safe.
type FileStorage struct {
	mu      sync.RWMutex
	rootDir string
}

// New creates a new FileStorage rooted at the specified directory.
// The root directory is created with 0700 permissions if it doesn't exist.
func New(rootDir string) (storage.Backend, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("file storage: root directory cannot be empty")
	}

	if err := os.MkdirAll(rootDir, defaultDirPerms); err != nil {
		return nil, fmt.Errorf("file storage: failed to create root directory: %w", err)
	}

	return &FileStorage{
		rootDir: rootDir,
	}, nil
}

// Get retrieves the payload stored under the given identity.
// Returns storage.ErrNotFound if the identity has never been stored.
func (f *FileStorage) Get(identity string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, err := f.identityToPath(identity)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("file storage: failed to read %q: %w", identity, err)
	}

	return payload, nil
}

// Put stores the payload under the given identity, overwriting any existing
// file. Files are written with 0600 permissions unless opts overrides them.
func (f *FileStorage) Put(identity string, payload []byte, opts *storage.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.identityToPath(identity)
	if err != nil {
		return err
	}

	perms := os.FileMode(defaultFilePerms)
	if opts != nil && opts.Permissions != 0 {
		perms = opts.Permissions
	}

	if err := os.WriteFile(path, payload, perms); err != nil {
		return fmt.Errorf("file storage: failed to write %q: %w", identity, err)
	}

	return nil
}

// Delete removes the payload stored under the given identity.
// Returns storage.ErrNotFound if the identity has never been stored.
func (f *FileStorage) Delete(identity string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.identityToPath(identity)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("file storage: failed to stat %q: %w", identity, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("file storage: failed to delete %q: %w", identity, err)
	}

	return nil
}

// List returns all identities with the given prefix in sorted order.
func (f *FileStorage) List(prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.rootDir)
	if err != nil {
		return nil, fmt.Errorf("file storage: failed to list root directory: %w", err)
	}

	identities := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if prefix == "" || strings.HasPrefix(entry.Name(), prefix) {
			identities = append(identities, entry.Name())
		}
	}

	sort.Strings(identities)
	return identities, nil
}

// Exists reports whether a payload is stored under the identity.
func (f *FileStorage) Exists(identity string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, err := f.identityToPath(identity)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("file storage: failed to stat %q: %w", identity, err)
	}

	return true, nil
}

// Close releases resources held by the backend. FileStorage holds no open
// handles between operations, so Close is a no-op.
func (f *FileStorage) Close() error {
	return nil
}

// identityToPath validates the identity and maps it to an absolute path
// inside the root directory. Identities that are empty or would escape the
// root (path separators, dot segments) are rejected.
func (f *FileStorage) identityToPath(identity string) (string, error) {
	if identity == "" || identity == "." || identity == ".." {
		return "", storage.ErrInvalidIdentity
	}
	if strings.ContainsAny(identity, `/\`) {
		return "", storage.ErrInvalidIdentity
	}
	return filepath.Join(f.rootDir, identity), nil
}
