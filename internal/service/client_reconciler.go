package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

const (
	resubscribeMinDelay = time.Second
	resubscribeMaxDelay = 30 * time.Second
)

type reconciler struct {
	store adapter.DocumentStore
	cache *SyncContext

	minDelay time.Duration
	maxDelay time.Duration

	// one live subscription per user
	mu     sync.Mutex
	active map[string]*Subscription

	logger *logger.Logger
}

// NewReconciler returns a [Reconciler] that installs pushed snapshots into
// cache.
func NewReconciler(store adapter.DocumentStore, cache *SyncContext, logger *logger.Logger) Reconciler {
	return &reconciler{
		store:    store,
		cache:    cache,
		minDelay: resubscribeMinDelay,
		maxDelay: resubscribeMaxDelay,
		active:   make(map[string]*Subscription),
		logger:   logger,
	}
}

// Subscription is the teardown handle of a realtime subscription.
type Subscription struct {
	userID   string
	onChange func(models.Snapshot)

	mu     sync.Mutex
	closed bool
	feed   adapter.Feed

	// cancel aborts a resubscribe dial that is still in progress
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Subscribe implements [Reconciler]. The first connection is made
// synchronously so a rejected subscription is reported to the caller. If the
// feed drops later, it is re-established with exponential backoff until the
// subscription is closed or the store rejects the credentials.
//
// A user has at most one live subscription. A second Subscribe for the same
// user fails with ErrInvalidInput until the first one is closed or gives up.
func (r *reconciler) Subscribe(ctx context.Context, userID string, onChange func(models.Snapshot)) (*Subscription, error) {
	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		userID:   userID,
		onChange: onChange,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if !r.register(sub) {
		cancel()
		return nil, fmt.Errorf("%w: user %s is already subscribed", ErrInvalidInput, userID)
	}

	feed, err := r.store.Subscribe(ctx, userID)
	if err != nil {
		r.release(sub)
		cancel()
		return nil, mapAdapterError(err)
	}
	sub.feed = feed

	sub.wg.Add(1)
	go r.run(runCtx, sub, feed)

	return sub, nil
}

func (r *reconciler) register(sub *Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[sub.userID]; ok {
		return false
	}
	r.active[sub.userID] = sub
	return true
}

func (r *reconciler) release(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active[sub.userID] == sub {
		delete(r.active, sub.userID)
	}
}

func (r *reconciler) run(ctx context.Context, sub *Subscription, feed adapter.Feed) {
	defer sub.wg.Done()
	defer r.release(sub)
	log := logger.FromContext(ctx)

	delay := r.minDelay
	for {
		received := r.consume(ctx, sub, feed)
		_ = feed.Close()

		if sub.stopped(ctx) {
			return
		}
		if received {
			delay = r.minDelay
		}

		log.Warn().Err(feed.Err()).
			Str("func", "reconciler.run").
			Str("user_id", sub.userID).
			Dur("retry_in", delay).
			Msg("change feed dropped")

		for {
			select {
			case <-sub.done:
				return
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, r.maxDelay)

			next, err := r.store.Subscribe(ctx, sub.userID)
			if err == nil {
				feed = next
				if !sub.setFeed(next) {
					_ = next.Close()
					return
				}
				break
			}
			err = mapAdapterError(err)
			if errors.Is(err, ErrUnauthorized) {
				log.Err(err).
					Str("func", "reconciler.run").
					Str("user_id", sub.userID).
					Msg("change feed rejected, giving up")
				return
			}
			log.Warn().Err(err).
				Str("func", "reconciler.run").
				Str("user_id", sub.userID).
				Dur("retry_in", delay).
				Msg("failed to resubscribe")
		}
	}
}

// consume applies change sets until the feed ends. It reports whether at
// least one set was applied.
func (r *reconciler) consume(ctx context.Context, sub *Subscription, feed adapter.Feed) bool {
	log := logger.FromContext(ctx)
	received := false

	for {
		select {
		case <-sub.done:
			return received
		case <-ctx.Done():
			return received
		case cs, ok := <-feed.Changes():
			if !ok {
				return received
			}

			if cs.Owner != "" && cs.Owner != sub.userID {
				log.Error().
					Str("func", "reconciler.consume").
					Str("user_id", sub.userID).
					Str("owner_id", cs.Owner).
					Msg("ignoring change set of another user")
				continue
			}
			snap, err := toSnapshot(ctx, sub.userID, cs.Documents)
			if err != nil {
				continue
			}

			received = true
			r.cache.Set(ctx, sub.userID, snap)
			sub.deliver(snap)
		}
	}
}

func (s *Subscription) deliver(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.onChange == nil {
		return
	}
	s.onChange(snap.Clone())
}

func (s *Subscription) setFeed(feed adapter.Feed) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.feed = feed
	return true
}

func (s *Subscription) stopped(ctx context.Context) bool {
	select {
	case <-s.done:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Close stops delivery and releases the feed. Once it returns the callback
// will not run again. It is safe to call more than once but must not be
// called from the callback.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		// waits for an in-progress callback
		s.mu.Lock()
		s.closed = true
		feed := s.feed
		s.mu.Unlock()

		close(s.done)
		s.cancel()
		err = feed.Close()
		s.wg.Wait()
	})
	return err
}
