package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")

	// ErrUnexpectedResponse is returned when the store answers with a 2xx
	// status but a body the client cannot use.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrFeedClosed is returned by a feed whose connection was dropped by
	// the store.
	ErrFeedClosed = errors.New("change feed closed")
)
