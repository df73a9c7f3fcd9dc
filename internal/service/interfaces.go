package service

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// DocumentService is the business layer of the document server. Every
// method acts on behalf of userID and refuses documents owned by someone
// else with [ErrForbidden].
type DocumentService interface {
	// List returns the documents of owner. owner must equal userID.
	List(ctx context.Context, userID, collection, owner string) ([]models.Document, error)
	Get(ctx context.Context, userID, collection, id string) (models.Document, error)
	// Create stores doc and returns the identifier it was assigned.
	Create(ctx context.Context, userID, collection string, doc models.Document) (string, error)
	Update(ctx context.Context, userID, collection, id string, patch models.DocumentPatch) (models.Document, error)
	Delete(ctx context.Context, userID, collection, id string) error

	// Subscribe registers a change feed over owner's documents. The current
	// result set is queued before Subscribe returns; later sets follow in
	// commit order. cancel releases the subscription.
	Subscribe(ctx context.Context, userID, collection, owner string) (changes <-chan models.ChangeSet, cancel func(), err error)
}

type AuthService interface {
	// IssueToken signs a token whose subject is userID.
	IssueToken(ctx context.Context, userID string) (models.Token, error)
	// ParseToken verifies tokenString and returns its claims.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.VersionResponse
}
