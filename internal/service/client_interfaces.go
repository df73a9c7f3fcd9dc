package service

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// ListService is the client-side entry point used by the UI: reads go
// through the two cache tiers, mutations are applied optimistically and
// either committed or rolled back before the call returns.
type ListService interface {
	// GetUserItems returns the Snapshot of userID. With useCache a fresh
	// memory entry is returned without network access; otherwise a
	// non-stale mirror snapshot is returned while a background refresh
	// runs. Without a usable cache tier the remote store is queried and the
	// result installed in both tiers. If that fails, any mirror snapshot is
	// returned regardless of its age; authorization errors are always
	// surfaced.
	GetUserItems(ctx context.Context, userID string, useCache bool) (models.Snapshot, error)

	// GetItem returns one List, from the cache if present, else from the
	// remote store.
	GetItem(ctx context.Context, userID, listID string) (models.List, error)

	// CreateItem inserts draft under a temporary id, creates it remotely and
	// replaces the temporary id with the assigned one. On failure the
	// temporary list is removed.
	CreateItem(ctx context.Context, userID string, draft models.List) (models.List, error)

	// DeleteItem removes the List and reinserts it if the remote delete
	// fails.
	DeleteItem(ctx context.Context, userID, listID string) error

	// UpdateItem applies upd and restores the previous field values if the
	// remote update fails.
	UpdateItem(ctx context.Context, userID, listID string, upd models.ListUpdate) (models.List, error)

	// AddChildItem appends a new line item to the List.
	AddChildItem(ctx context.Context, userID, listID, title string, price float64) (models.LineItem, error)

	// RemoveChildItem removes a line item from the List.
	RemoveChildItem(ctx context.Context, userID, listID, childID string) error

	// UpdateChildItem replaces title and price of an existing line item.
	UpdateChildItem(ctx context.Context, userID, listID string, item models.LineItem) error

	// Logout drops the memory cache of userID. The mirror is kept.
	Logout(userID string)

	// Close waits for background refreshes to finish.
	Close()
}

// Reconciler subscribes to the remote change feed of a user.
type Reconciler interface {
	// Subscribe installs every pushed Snapshot into both cache tiers and then
	// passes it to onChange, in the order the store emitted them. onChange
	// is never called after [Subscription.Close] returns and must not call
	// Close itself. A user has at most one live subscription.
	Subscribe(ctx context.Context, userID string, onChange func(models.Snapshot)) (*Subscription, error)
}

// IdentityProvider yields the identifier of the signed-in user.
type IdentityProvider interface {
	UserID() (string, error)
}

// RefreshJob defines the contract for a background worker that periodically
// reloads the user's Snapshot from the remote store.
type RefreshJob interface {
	// Start launches the background goroutine. Any previously running job
	// is stopped first.
	Start(ctx context.Context)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
