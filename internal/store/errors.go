package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDocumentNotFound is returned when a query, update or delete targets
	// a document that does not exist in the given collection.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrDocumentExists is returned when an insert collides with an
	// existing document identifier.
	ErrDocumentExists = errors.New("document already exists")

	// ErrStoreClosed is returned by a key-value store used after Close.
	ErrStoreClosed = errors.New("store is closed")

	// ErrUnknownBackend is returned when the configured mirror backend is
	// neither sqlite nor bolt.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result set
	// fails mid-way.
	ErrScanningRows = errors.New("failed to scan rows")
)
