// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

// SyncContext owns the memory tier of the client cache: one Snapshot per
// user with the time it was last refreshed from an authoritative source.
//
// Every read-modify-write of a user's entry runs under a single mutex and
// never spans remote or storage I/O. Writes to the durable mirror happen
// after the lock is released, in the order the memory entries were produced.
//
// A per-user epoch counts authoritative replacements (remote reads and push
// notifications). Optimistic mutations remember the epoch they started in and
// only roll back while it is unchanged, so server state always wins over a
// restoration computed from older data. Invalidate also advances the epoch and
// records it, so mutations started before a logout never resolve into the
// cache.
type SyncContext struct {
	mu          sync.Mutex
	entries     map[string]models.CacheEntry
	epochs      map[string]uint64
	invalidated map[string]uint64 // user -> epoch set by the last Invalidate
	refreshing  map[string]bool
	pending     map[string]map[string]struct{} // user -> in-flight temporary ids

	// persistence ordering
	persistMu sync.Mutex
	seq       map[string]uint64
	persisted map[string]uint64

	mirror *DurableMirror
	ttl    time.Duration
	now    func() time.Time
}

// NewSyncContext returns an empty cache whose entries stay valid for ttl and
// are mirrored into mirror. mirror may be nil.
func NewSyncContext(mirror *DurableMirror, ttl time.Duration) *SyncContext {
	return &SyncContext{
		entries:     make(map[string]models.CacheEntry),
		epochs:      make(map[string]uint64),
		invalidated: make(map[string]uint64),
		refreshing:  make(map[string]bool),
		pending:     make(map[string]map[string]struct{}),
		seq:         make(map[string]uint64),
		persisted:   make(map[string]uint64),
		mirror:      mirror,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Get returns a copy of the user's cache entry, valid or not.
func (c *SyncContext) Get(userID string) (models.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return models.CacheEntry{}, false
	}
	entry.Snapshot = entry.Snapshot.Clone()
	return entry, true
}

// Fresh returns the user's Snapshot if the entry is still within the TTL.
func (c *SyncContext) Fresh(userID string) (models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok || !entry.Valid(c.now(), c.ttl) {
		return nil, false
	}
	return entry.Snapshot.Clone(), true
}

// Set installs snap as the authoritative Snapshot of the user: the entry is
// stamped with the current time, the epoch advances and the mirror is
// overwritten. Mirror failures are logged by the mirror and ignored here.
func (c *SyncContext) Set(ctx context.Context, userID string, snap models.Snapshot) {
	c.mu.Lock()
	snap = snap.Clone()
	c.entries[userID] = models.CacheEntry{Snapshot: snap, RefreshedAt: c.now()}
	c.epochs[userID]++
	seq := c.nextSeqLocked(userID)
	toPersist := snap.Clone()
	c.mu.Unlock()

	c.persist(ctx, userID, seq, toPersist)
}

// Invalidate drops the memory entry of the user. The durable mirror is kept
// as the offline fallback.
func (c *SyncContext) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	delete(c.pending, userID)
	c.epochs[userID]++
	c.invalidated[userID] = c.epochs[userID]
}

// seed installs snap without a freshness stamp when the user has no entry
// yet. Used to expose a mirror snapshot to mutations; it never counts as
// fresh and never overrides newer memory state.
func (c *SyncContext) seed(userID string, snap models.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[userID]; ok {
		return
	}
	c.entries[userID] = models.CacheEntry{Snapshot: snap.Clone()}
}

// apply runs fn over the user's current Snapshot as one critical section and
// stores the result without touching the freshness stamp. It returns the
// epoch the change was applied in.
func (c *SyncContext) apply(userID string, fn func(models.Snapshot) (models.Snapshot, error)) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[userID]
	next, err := fn(entry.Snapshot.Clone())
	if err != nil {
		return 0, err
	}
	entry.Snapshot = next
	c.entries[userID] = entry

	return c.epochs[userID], nil
}

// commit resolves a successful remote write of a mutation started in epoch.
// fn runs over the current Snapshot; replaced tells it whether an
// authoritative replacement happened since epoch. The entry is stamped and
// mirrored. A remote write is authoritative for freshness, but it does not
// advance the epoch: other pending mutations may still roll back their own
// fields.
//
// Nothing is touched if the entry was invalidated after the mutation started.
// commit reports whether the entry was updated.
func (c *SyncContext) commit(
	ctx context.Context,
	userID string,
	epoch uint64,
	fn func(snap models.Snapshot, replaced bool) models.Snapshot,
) bool {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	if !ok || c.invalidated[userID] > epoch {
		c.mu.Unlock()
		return false
	}
	snap := entry.Snapshot.Clone()
	if fn != nil {
		snap = fn(snap, c.epochs[userID] != epoch)
	}
	c.entries[userID] = models.CacheEntry{Snapshot: snap, RefreshedAt: c.now()}
	seq := c.nextSeqLocked(userID)
	toPersist := snap.Clone()
	c.mu.Unlock()

	c.persist(ctx, userID, seq, toPersist)
	return true
}

// rollback runs fn over the current Snapshot only if no authoritative
// replacement happened since epoch. It reports whether fn was applied.
func (c *SyncContext) rollback(userID string, epoch uint64, fn func(models.Snapshot) models.Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epochs[userID] != epoch {
		return false
	}
	entry, ok := c.entries[userID]
	if !ok {
		return false
	}
	entry.Snapshot = fn(entry.Snapshot.Clone())
	c.entries[userID] = entry
	return true
}

// addPending registers a temporary id of an in-flight create.
func (c *SyncContext) addPending(userID, tempID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, ok := c.pending[userID]
	if !ok {
		ids = make(map[string]struct{})
		c.pending[userID] = ids
	}
	ids[tempID] = struct{}{}
}

// dropTemp resolves a failed create: tempID is unregistered and every list
// carrying a temporary id that no in-flight create owns is removed. Server
// state never contains temporary ids, so this runs regardless of the epoch.
func (c *SyncContext) dropTemp(userID, tempID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending[userID], tempID)
	entry, ok := c.entries[userID]
	if !ok {
		return
	}

	inFlight := c.pending[userID]
	entry.Snapshot = entry.Snapshot.Without(func(l models.List) bool {
		if !models.IsTempID(l.ID) {
			return false
		}
		_, keep := inFlight[l.ID]
		return !keep
	})
	c.entries[userID] = entry
}

// resolvePending unregisters tempID after its create succeeded.
func (c *SyncContext) resolvePending(userID, tempID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending[userID], tempID)
}

// beginRefresh marks a background refresh of the user as running. It returns
// false if one is already in flight.
func (c *SyncContext) beginRefresh(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refreshing[userID] {
		return false
	}
	c.refreshing[userID] = true
	return true
}

func (c *SyncContext) endRefresh(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.refreshing, userID)
}

func (c *SyncContext) nextSeqLocked(userID string) uint64 {
	c.seq[userID]++
	return c.seq[userID]
}

// persist writes snap to the mirror unless a newer write for the user already
// landed.
func (c *SyncContext) persist(ctx context.Context, userID string, seq uint64, snap models.Snapshot) {
	if c.mirror == nil {
		return
	}

	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	if seq <= c.persisted[userID] {
		logger.FromContext(ctx).Debug().
			Str("func", "SyncContext.persist").
			Str("user_id", userID).
			Msg("skipping outdated mirror write")
		return
	}
	c.persisted[userID] = seq

	// best effort: failures are already logged by the mirror
	_ = c.mirror.Save(ctx, userID, snap)
}
