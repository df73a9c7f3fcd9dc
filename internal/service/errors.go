package service

import "errors"

// Error taxonomy of the client sync layer. Every public operation fails with
// exactly one of these (wrapped with details), matched with [errors.Is].
var (
	// ErrTransport is returned when a remote call failed or timed out and no
	// local fallback could serve the request.
	ErrTransport = errors.New("remote store unavailable")

	// ErrUnauthorized is returned when a document's owner does not match the
	// caller or the store rejected the credentials. It is never recovered.
	ErrUnauthorized = errors.New("access to another user's data")

	// ErrNotFound is returned when the target of a mutation does not exist.
	ErrNotFound = errors.New("list not found")

	// ErrPersistence is returned by the durable mirror. The sync layer logs
	// and swallows it.
	ErrPersistence = errors.New("failed to persist snapshot")

	// ErrInvalidInput is returned when a mutation carries data that fails
	// validation.
	ErrInvalidInput = errors.New("invalid data provided")

	// ErrNoUserID is returned when no user identifier can be derived from
	// the configured credentials.
	ErrNoUserID = errors.New("no user ID available")
)

// Document server errors. ErrNotFound and ErrInvalidInput are shared with
// the client taxonomy.
var (
	// ErrForbidden is returned when the caller addresses a document or an
	// owner query that belongs to another user.
	ErrForbidden = errors.New("document belongs to another user")

	ErrVersionIsNotSpecified = errors.New("version is not specified")
	ErrTokenIsExpired        = errors.New("token is expired")
	ErrInvalidToken          = errors.New("token is invalid")
	ErrTokenCreationFailed   = errors.New("token creation failed")
)
