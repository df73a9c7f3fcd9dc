package client

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/models"
)

// subscriptionWorker keeps the realtime subscription of one user open for as
// long as the worker runs.
type subscriptionWorker struct {
	reconciler service.Reconciler
	userID     string
	onChange   func(models.Snapshot)

	mu  sync.Mutex
	sub *service.Subscription
}

func newSubscriptionWorker(reconciler service.Reconciler, userID string, onChange func(models.Snapshot)) *subscriptionWorker {
	return &subscriptionWorker{reconciler: reconciler, userID: userID, onChange: onChange}
}

// Start subscribes once. A rejected subscription is logged and the client
// keeps working from the refresh job and the mirror.
func (w *subscriptionWorker) Start(ctx context.Context) {
	sub, err := w.reconciler.Subscribe(ctx, w.userID, w.onChange)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*subscriptionWorker.Start").
			Str("user_id", w.userID).
			Msg("realtime updates unavailable")
		return
	}

	w.mu.Lock()
	w.sub = sub
	w.mu.Unlock()
}

// Stop closes the subscription; no callback runs after it returns.
func (w *subscriptionWorker) Stop() {
	w.mu.Lock()
	sub := w.sub
	w.sub = nil
	w.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
}
