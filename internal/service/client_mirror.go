package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

// DurableMirror keeps the last known Snapshot of every user in the local
// key-value store so the client can start warm and work offline.
type DurableMirror struct {
	kv        store.KeyValueStore
	namespace string
	maxAge    time.Duration
	now       func() time.Time
}

// NewDurableMirror returns a mirror over kv. Entries are keyed
// "<namespace>-<userId>" and count as stale after maxAge.
func NewDurableMirror(kv store.KeyValueStore, namespace string, maxAge time.Duration) *DurableMirror {
	return &DurableMirror{
		kv:        kv,
		namespace: namespace,
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Key returns the store key of the user's record.
func (m *DurableMirror) Key(userID string) string {
	return m.namespace + "-" + userID
}

// Load returns the user's Snapshot if a record exists and is not older than
// the staleness bound.
func (m *DurableMirror) Load(ctx context.Context, userID string) (models.Snapshot, bool) {
	record, ok := m.read(ctx, userID)
	if !ok || record.Stale(m.now(), m.maxAge) {
		return nil, false
	}
	return record.Items, true
}

// LoadAny returns the user's Snapshot regardless of its age. It is the last
// resort of the read path when the remote store is unreachable.
func (m *DurableMirror) LoadAny(ctx context.Context, userID string) (models.Snapshot, bool) {
	record, ok := m.read(ctx, userID)
	if !ok {
		return nil, false
	}
	return record.Items, true
}

// Save overwrites the user's record with snap stamped with the current time.
// Failures are logged at warn level and returned wrapped in [ErrPersistence];
// callers treat them as non-fatal.
func (m *DurableMirror) Save(ctx context.Context, userID string, snap models.Snapshot) error {
	log := logger.FromContext(ctx)

	if snap == nil {
		snap = models.Snapshot{}
	}
	payload, err := json.Marshal(models.MirrorRecord{Items: snap, WrittenAt: m.now().UTC()})
	if err != nil {
		log.Warn().Err(err).Str("func", "DurableMirror.Save").Str("user_id", userID).Msg("failed to encode snapshot")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = m.kv.Set(ctx, m.Key(userID), string(payload)); err != nil {
		log.Warn().Err(err).Str("func", "DurableMirror.Save").Str("user_id", userID).Msg("failed to persist snapshot")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

// Remove deletes the user's record.
func (m *DurableMirror) Remove(ctx context.Context, userID string) error {
	if err := m.kv.Remove(ctx, m.Key(userID)); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "DurableMirror.Remove").Str("user_id", userID).Msg("failed to remove snapshot")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// read treats unreadable or corrupt records as absent.
func (m *DurableMirror) read(ctx context.Context, userID string) (models.MirrorRecord, bool) {
	log := logger.FromContext(ctx)

	raw, found, err := m.kv.Get(ctx, m.Key(userID))
	if err != nil {
		log.Warn().Err(err).Str("func", "DurableMirror.read").Str("user_id", userID).Msg("failed to read snapshot")
		return models.MirrorRecord{}, false
	}
	if !found {
		return models.MirrorRecord{}, false
	}

	var record models.MirrorRecord
	if err = json.Unmarshal([]byte(raw), &record); err != nil {
		log.Warn().Err(err).Str("func", "DurableMirror.read").Str("user_id", userID).Msg("ignoring corrupt snapshot")
		return models.MirrorRecord{}, false
	}
	if record.Items == nil {
		record.Items = models.Snapshot{}
	}

	return record, true
}
