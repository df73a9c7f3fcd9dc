package service

import (
	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
)

// ClientServices groups the client-side sync layer. Cache and Mirror are
// shared by the list service and the reconciler.
type ClientServices struct {
	Identity   IdentityProvider
	Cache      *SyncContext
	Mirror     *DurableMirror
	Lists      ListService
	Reconciler Reconciler
}

func NewClientServices(kv store.KeyValueStore, documents adapter.DocumentStore, token string, cfg config.ClientCache, log *logger.Logger) *ClientServices {
	mirror := NewDurableMirror(kv, cfg.MirrorNamespace, cfg.MirrorStaleAfter)
	cache := NewSyncContext(mirror, cfg.TTL)

	return &ClientServices{
		Identity:   NewTokenIdentityProvider(token),
		Cache:      cache,
		Mirror:     mirror,
		Lists:      NewListService(cache, mirror, NewRemoteSyncClient(documents), log),
		Reconciler: NewReconciler(documents, cache, log),
	}
}

// NewRefreshJob returns the periodic refresh of userID.
func (s *ClientServices) RefreshJobFor(userID string, cfg config.ClientWorkers) RefreshJob {
	return NewRefreshJob(s.Lists, userID, cfg.RefreshInterval)
}
