// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware and the request
// decoders. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoUserIDInContext is returned when a protected handler runs without
	// the user id the auth middleware stores.
	ErrNoUserIDInContext = errors.New("no user ID in request context")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrNoOwner is returned when a collection query omits the owner.
	ErrNoOwner = errors.New("owner query parameter is required")

	errHijackNotSupported = errors.New("response writer does not support hijacking")
)
