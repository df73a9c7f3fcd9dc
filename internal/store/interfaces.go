package store

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValueStore is the durable local store of the client: string values
// keyed by string. Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the stored value and true, or "" and false if the key is
	// absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the underlying database.
	Close() error
}

// DocumentRepository persists the documents of the reference document
// server.
type DocumentRepository interface {
	// FindByOwner returns every document of collection owned by owner.
	FindByOwner(ctx context.Context, collection, owner string) ([]models.Document, error)
	// FindByID returns the document or [ErrDocumentNotFound].
	FindByID(ctx context.Context, collection, id string) (models.Document, error)
	// Insert stores a new document. doc.ID, CreatedAt and UpdatedAt must be set.
	Insert(ctx context.Context, collection string, doc models.Document) error
	// Update applies patch and returns the stored result or [ErrDocumentNotFound].
	Update(ctx context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error)
	// Delete removes the document or returns [ErrDocumentNotFound].
	Delete(ctx context.Context, collection, id string) error
}
