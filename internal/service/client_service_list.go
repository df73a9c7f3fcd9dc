// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/internal/validators"
	"github.com/MKhiriev/go-list-keeper/models"
)

type listService struct {
	cache     *SyncContext
	mirror    *DurableMirror
	remote    *RemoteSyncClient
	validator validators.Validator
	ids       *utils.UUIDGenerator

	// concurrent foreground fetches of one user share a remote call
	fetches singleflight.Group
	wg      sync.WaitGroup

	now    func() time.Time
	logger *logger.Logger
}

// NewListService wires the read path and the optimistic mutations over the
// given cache tiers and remote client.
func NewListService(cache *SyncContext, mirror *DurableMirror, remote *RemoteSyncClient, logger *logger.Logger) ListService {
	return &listService{
		cache:     cache,
		mirror:    mirror,
		remote:    remote,
		validator: validators.NewListValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    logger,
	}
}

func (s *listService) GetUserItems(ctx context.Context, userID string, useCache bool) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, ErrNoUserID
	}

	if useCache {
		if snap, ok := s.cache.Fresh(userID); ok {
			return snap, nil
		}

		if snap, ok := s.mirror.Load(ctx, userID); ok {
			s.cache.seed(userID, snap)
			s.refreshInBackground(ctx, userID)
			return snap, nil
		}
	}

	snap, err := s.fetch(ctx, userID)
	if err == nil {
		return snap, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		return nil, err
	}

	if fallback, ok := s.mirror.LoadAny(ctx, userID); ok {
		log.Warn().Err(err).
			Str("func", "listService.GetUserItems").
			Str("user_id", userID).
			Msg("remote fetch failed, serving mirror snapshot")
		return fallback, nil
	}

	log.Err(err).
		Str("func", "listService.GetUserItems").
		Str("user_id", userID).
		Msg("remote fetch failed and no mirror snapshot exists")
	return nil, err
}

// fetch loads the Snapshot from the remote store and installs it into both
// tiers.
func (s *listService) fetch(ctx context.Context, userID string) (models.Snapshot, error) {
	v, err, _ := s.fetches.Do(userID, func() (any, error) {
		snap, err := s.remote.FetchAll(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, userID, snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	// shared between callers
	return v.(models.Snapshot).Clone(), nil
}

// refreshInBackground starts at most one refresh per user. The caller's
// cancellation does not abort it.
func (s *listService) refreshInBackground(ctx context.Context, userID string) {
	if !s.cache.beginRefresh(userID) {
		return
	}

	bgCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.cache.endRefresh(userID)

		if _, err := s.fetch(bgCtx, userID); err != nil {
			logger.FromContext(bgCtx).Warn().Err(err).
				Str("func", "listService.refreshInBackground").
				Str("user_id", userID).
				Msg("background refresh failed")
		}
	}()
}

func (s *listService) GetItem(ctx context.Context, userID, listID string) (models.List, error) {
	if entry, ok := s.cache.Get(userID); ok {
		if l, found := entry.Snapshot.Get(listID); found {
			return l, nil
		}
	}
	if models.IsTempID(listID) {
		return models.List{}, fmt.Errorf("%w: %s", ErrNotFound, listID)
	}

	l, found, err := s.remote.FetchOne(ctx, userID, listID)
	if err != nil {
		return models.List{}, err
	}
	if !found {
		return models.List{}, fmt.Errorf("%w: %s", ErrNotFound, listID)
	}
	return l, nil
}

func (s *listService) Logout(userID string) {
	s.cache.Invalidate(userID)
}

func (s *listService) Close() {
	s.wg.Wait()
}

// ensureSnapshot makes sure the memory tier holds an entry for the user so a
// mutation has something to apply to.
func (s *listService) ensureSnapshot(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrNoUserID
	}
	if _, ok := s.cache.Get(userID); ok {
		return nil
	}

	snap, err := s.GetUserItems(ctx, userID, true)
	if err != nil {
		return err
	}
	// a fallback snapshot is not installed by the read path
	s.cache.seed(userID, snap)
	return nil
}
