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

package storage

import "errors"

var (
	// ErrNotFound is returned when no payload is stored under the
	// requested identity.
	ErrNotFound = errors.New("storage: not found")

	// ErrClosed is returned when an operation is attempted on a backend
	// that has been closed.
	ErrClosed = errors.New("storage: backend closed")

	// ErrInvalidIdentity is returned when an identity is empty or would
	// escape the backend's namespace.
	ErrInvalidIdentity = errors.New("storage: invalid identity")
)
