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

package file

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-confidential/pkg/storage"
)

func newTestStorage(t *testing.T) storage.Backend {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

// TestNew verifies root directory creation and the empty-root error.
func TestNew(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("New(\"\") should fail")
	}

	root := filepath.Join(t.TempDir(), "nested", "secrets")
	if _, err := New(root); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root directory not created: %v", err)
	}
	if perms := info.Mode().Perm(); perms != 0700 {
		t.Errorf("root directory permissions = %o, want 0700", perms)
	}
}

// TestPutGet verifies round trips through the filesystem.
func TestPutGet(t *testing.T) {
	store := newTestStorage(t)

	payload := []byte{0x30, 0x82, 0x01, 0x00}
	if err := store.Put("instance-identity.rsa", payload, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get("instance-identity.rsa")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Get() = %v, want %v", got, payload)
	}
}

// TestFilePermissions verifies secret files are written owner-only.
func TestFilePermissions(t *testing.T) {
	root := t.TempDir()
	store, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := store.Put("secret", []byte("x"), storage.DefaultOptions()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "secret"))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perms := info.Mode().Perm(); perms != 0600 {
		t.Errorf("file permissions = %o, want 0600", perms)
	}
}

// TestGetNotFound verifies missing identities map to ErrNotFound.
func TestGetNotFound(t *testing.T) {
	store := newTestStorage(t)

	if _, err := store.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// TestInvalidIdentities verifies path traversal attempts are rejected.
func TestInvalidIdentities(t *testing.T) {
	store := newTestStorage(t)

	tests := []string{"", ".", "..", "../escape", "a/b", `a\b`}
	for _, identity := range tests {
		t.Run(identity, func(t *testing.T) {
			if err := store.Put(identity, []byte("x"), nil); !errors.Is(err, storage.ErrInvalidIdentity) {
				t.Errorf("Put(%q) error = %v, want ErrInvalidIdentity", identity, err)
			}
			if _, err := store.Get(identity); !errors.Is(err, storage.ErrInvalidIdentity) {
				t.Errorf("Get(%q) error = %v, want ErrInvalidIdentity", identity, err)
			}
		})
	}
}

// TestDelete verifies Delete removes the underlying file.
func TestDelete(t *testing.T) {
	store := newTestStorage(t)

	if err := store.Put("id", []byte("x"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete("id"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete("id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := store.Get("id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

// TestListExists verifies directory listing and existence checks.
func TestListExists(t *testing.T) {
	store := newTestStorage(t)

	for _, identity := range []string{"app.signing", "app.identity", "other"} {
		if err := store.Put(identity, []byte("x"), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", identity, err)
		}
	}

	identities, err := store.List("app.")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(identities) != 2 || identities[0] != "app.identity" || identities[1] != "app.signing" {
		t.Errorf("List(\"app.\") = %v, want [app.identity app.signing]", identities)
	}

	exists, err := store.Exists("other")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for stored identity")
	}
}

// TestPersistence verifies payloads survive across backend instances.
func TestPersistence(t *testing.T) {
	root := t.TempDir()

	first, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := first.Put("id", []byte("durable"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := New(root)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := second.Get("id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("durable")) {
		t.Errorf("Get() = %q, want %q", got, "durable")
	}
}
