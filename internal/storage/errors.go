// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"errors"

	"github.com/pipecrm/pipecrm-go/internal/model"
)

var (
	// ErrAllBackendsFailed is returned when every backend in the priority
	// chain was skipped or failed. It is the only storage error that should
	// surface to the HTTP layer as a 500.
	ErrAllBackendsFailed = errors.New("all storage backends failed")

	// ErrDuplicateEmail is returned by backends that enforce per-kind email
	// uniqueness (best effort; enforcement differs by backend).
	ErrDuplicateEmail = errors.New("email already in use")
)

// isDomainError reports whether an error is the caller's fault rather than
// a backend failure. Domain errors never demote a backend and never fall
// through to the next one: the next backend would reject the same input.
func isDomainError(err error) bool {
	return errors.Is(err, model.ErrInvalid) || errors.Is(err, ErrDuplicateEmail)
}
