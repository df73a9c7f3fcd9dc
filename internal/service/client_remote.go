package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

// RemoteSyncClient issues CRUD operations against the remote document store
// on behalf of one user and normalizes documents into Lists. Every document
// it reads is checked against the caller's identifier before it is trusted.
// It never touches the cache.
type RemoteSyncClient struct {
	store adapter.DocumentStore
}

// NewRemoteSyncClient wraps store.
func NewRemoteSyncClient(store adapter.DocumentStore) *RemoteSyncClient {
	return &RemoteSyncClient{store: store}
}

// FetchAll returns the full Snapshot of userID.
func (c *RemoteSyncClient) FetchAll(ctx context.Context, userID string) (models.Snapshot, error) {
	docs, err := c.store.FetchAll(ctx, userID)
	if err != nil {
		return nil, mapAdapterError(err)
	}

	return toSnapshot(ctx, userID, docs)
}

// FetchOne returns the List with id. The boolean is false if it does not
// exist; a List owned by someone else is an [ErrUnauthorized].
func (c *RemoteSyncClient) FetchOne(ctx context.Context, userID, id string) (models.List, bool, error) {
	doc, found, err := c.store.FetchOne(ctx, id)
	if err != nil {
		return models.List{}, false, mapAdapterError(err)
	}
	if !found {
		return models.List{}, false, nil
	}
	if err = checkOwner(ctx, userID, doc); err != nil {
		return models.List{}, false, err
	}

	return doc.ToList(), true, nil
}

// Create stores l for userID and returns the identifier assigned by the store.
// l.ID is ignored.
func (c *RemoteSyncClient) Create(ctx context.Context, userID string, l models.List) (string, error) {
	id, err := c.store.Create(ctx, models.NewDocument(userID, l))
	if err != nil {
		return "", mapAdapterError(err)
	}
	return id, nil
}

// Update merges upd into the List after verifying the caller owns it.
func (c *RemoteSyncClient) Update(ctx context.Context, userID, id string, upd models.ListUpdate) error {
	if err := c.verify(ctx, userID, id); err != nil {
		return err
	}

	if err := c.store.Update(ctx, id, models.DocumentPatch{ListUpdate: upd}); err != nil {
		return mapAdapterError(err)
	}
	return nil
}

// Delete removes the List after verifying the caller owns it.
func (c *RemoteSyncClient) Delete(ctx context.Context, userID, id string) error {
	if err := c.verify(ctx, userID, id); err != nil {
		return err
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return mapAdapterError(err)
	}
	return nil
}

func (c *RemoteSyncClient) verify(ctx context.Context, userID, id string) error {
	_, found, err := c.FetchOne(ctx, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func checkOwner(ctx context.Context, userID string, doc models.Document) error {
	if doc.UserID == userID {
		return nil
	}

	logger.FromContext(ctx).Error().
		Str("func", "checkOwner").
		Str("user_id", userID).
		Str("list_id", doc.ID).
		Str("owner_id", doc.UserID).
		Msg("document owner mismatch")
	return fmt.Errorf("%w: document %s", ErrUnauthorized, doc.ID)
}

// toSnapshot normalizes a result set. A single foreign document rejects the
// whole set.
func toSnapshot(ctx context.Context, userID string, docs []models.Document) (models.Snapshot, error) {
	snap := make(models.Snapshot, 0, len(docs))
	for _, doc := range docs {
		if err := checkOwner(ctx, userID, doc); err != nil {
			return nil, err
		}
		snap = append(snap, doc.ToList())
	}
	return snap, nil
}
