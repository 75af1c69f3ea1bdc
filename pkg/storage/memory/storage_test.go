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

package memory

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jeremyhahn/go-confidential/pkg/storage"
)

// TestNew verifies that New() creates a valid storage backend.
func TestNew(t *testing.T) {
	store := New()
	if store == nil {
		t.Fatal("New() returned nil")
	}

	var _ storage.Backend = store

	// Should start empty
	identities, err := store.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(identities) != 0 {
		t.Errorf("New store should be empty, got %d identities", len(identities))
	}
}

// TestPutGet verifies basic Put and Get operations.
func TestPutGet(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		payload  []byte
	}{
		{
			name:     "simple payload",
			identity: "instance-identity.rsa",
			payload:  []byte("payload"),
		},
		{
			name:     "empty payload",
			identity: "empty",
			payload:  []byte{},
		},
		{
			name:     "binary payload",
			identity: "binary",
			payload:  []byte{0x00, 0x01, 0x02, 0xFF},
		},
	}

	store := New()
	defer store.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Put(tt.identity, tt.payload, nil); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := store.Get(tt.identity)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("Get() = %v, want %v", got, tt.payload)
			}
		})
	}
}

// TestGetNotFound verifies Get on a missing identity.
func TestGetNotFound(t *testing.T) {
	store := New()
	defer store.Close()

	_, err := store.Get("missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

// TestPutEmptyIdentity verifies empty identities are rejected.
func TestPutEmptyIdentity(t *testing.T) {
	store := New()
	defer store.Close()

	if err := store.Put("", []byte("x"), nil); !errors.Is(err, storage.ErrInvalidIdentity) {
		t.Errorf("Put() error = %v, want ErrInvalidIdentity", err)
	}
}

// TestDefensiveCopies verifies stored and returned slices are isolated from
// the caller's.
func TestDefensiveCopies(t *testing.T) {
	store := New()
	defer store.Close()

	payload := []byte("original")
	if err := store.Put("id", payload, nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	payload[0] = 'X'

	got, err := store.Get("id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, []byte("original")) {
		t.Errorf("stored payload mutated through caller's slice: %q", got)
	}

	got[0] = 'Y'
	got2, _ := store.Get("id")
	if !bytes.Equal(got2, []byte("original")) {
		t.Errorf("stored payload mutated through returned slice: %q", got2)
	}
}

// TestDelete verifies Delete removes payloads and errors on missing ones.
func TestDelete(t *testing.T) {
	store := New()
	defer store.Close()

	if err := store.Put("id", []byte("x"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete("id"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete("id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// TestListPrefix verifies prefix filtering and sorted output.
func TestListPrefix(t *testing.T) {
	store := New()
	defer store.Close()

	for _, identity := range []string{"b.rsa", "a.rsa", "other"} {
		if err := store.Put(identity, []byte("x"), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", identity, err)
		}
	}

	identities, err := store.List("")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"a.rsa", "b.rsa", "other"}
	if len(identities) != len(want) {
		t.Fatalf("List() = %v, want %v", identities, want)
	}
	for i := range want {
		if identities[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, identities[i], want[i])
		}
	}

	filtered, err := store.List("a.")
	if err != nil {
		t.Fatalf("List(prefix) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0] != "a.rsa" {
		t.Errorf("List(\"a.\") = %v, want [a.rsa]", filtered)
	}
}

// TestExists verifies Exists reporting.
func TestExists(t *testing.T) {
	store := New()
	defer store.Close()

	exists, err := store.Exists("id")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing identity")
	}

	if err := store.Put("id", []byte("x"), nil); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	exists, err = store.Exists("id")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for stored identity")
	}
}

// TestClosed verifies operations fail after Close.
func TestClosed(t *testing.T) {
	store := New()
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := store.Get("id"); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
	if err := store.Put("id", []byte("x"), nil); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Put() after Close error = %v, want ErrClosed", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

// TestConcurrentAccess verifies thread safety under concurrent writers and
// readers.
func TestConcurrentAccess(t *testing.T) {
	store := New()
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			identity := fmt.Sprintf("id-%d", n)
			for j := 0; j < 100; j++ {
				if err := store.Put(identity, []byte{byte(j)}, nil); err != nil {
					t.Errorf("Put() error = %v", err)
					return
				}
				if _, err := store.Get(identity); err != nil {
					t.Errorf("Get() error = %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
