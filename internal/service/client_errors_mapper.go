// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
)

// mapAdapterError translates the adapter's transport error into the sync
// layer taxonomy. Anything that is not an explicit rejection by the store is
// a transport failure.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTransport),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput):
		return err

	case errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrForbidden):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)

	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case errors.Is(err, adapter.ErrBadRequest):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return fmt.Errorf("%w: %w", ErrTransport, err)
}
