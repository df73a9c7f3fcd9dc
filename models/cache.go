// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CacheEntry pairs a Snapshot with the time it was last refreshed from an
// authoritative source.
type CacheEntry struct {
	Snapshot    Snapshot
	RefreshedAt time.Time
}

// Valid reports whether the entry is still fresh at now for the given ttl.
// An entry that was never stamped is never valid.
func (e CacheEntry) Valid(now time.Time, ttl time.Duration) bool {
	if e.RefreshedAt.IsZero() {
		return false
	}
	return now.Sub(e.RefreshedAt) < ttl
}

// MirrorRecord is the JSON form of a Snapshot in the durable local mirror.
type MirrorRecord struct {
	Items     Snapshot  `json:"items"`
	WrittenAt time.Time `json:"writtenAt"`
}

// Stale reports whether the record is older than maxAge at now.
func (r MirrorRecord) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.WrittenAt) > maxAge
}
