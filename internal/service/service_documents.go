// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/internal/validators"
	"github.com/MKhiriev/go-list-keeper/models"
)

type documentService struct {
	repository store.DocumentRepository
	validator  validators.Validator
	ids        *utils.UUIDGenerator
	broker     *changeBroker

	// writeMu serializes writes with the publish that follows them, so
	// subscribers observe change sets in commit order.
	writeMu sync.Mutex

	now    func() time.Time
	logger *logger.Logger
}

// NewDocumentService builds the document server business layer over
// repository.
func NewDocumentService(repository store.DocumentRepository, logger *logger.Logger) DocumentService {
	return &documentService{
		repository: repository,
		validator:  validators.NewListValidator(),
		ids:        utils.NewUUIDGenerator(),
		broker:     newChangeBroker(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

func (s *documentService) List(ctx context.Context, userID, collection, owner string) ([]models.Document, error) {
	if owner != userID {
		s.logForbidden(ctx, "documentService.List", userID, owner)
		return nil, ErrForbidden
	}

	docs, err := s.repository.FindByOwner(ctx, collection, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, userID, collection, id string) (models.Document, error) {
	doc, err := s.find(ctx, collection, id)
	if err != nil {
		return models.Document{}, err
	}
	if doc.UserID != userID {
		s.logForbidden(ctx, "documentService.Get", userID, doc.UserID)
		return models.Document{}, ErrForbidden
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, userID, collection string, doc models.Document) (string, error) {
	log := logger.FromContext(ctx)

	if doc.UserID == "" {
		doc.UserID = userID
	}
	if doc.UserID != userID {
		s.logForbidden(ctx, "documentService.Create", userID, doc.UserID)
		return "", ErrForbidden
	}
	if doc.ChildItems == nil {
		doc.ChildItems = []models.LineItem{}
	}
	if err := s.validator.Validate(ctx, doc); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now()
	doc.ID = s.ids.Generate()
	doc.CreatedAt = &now
	doc.UpdatedAt = &now

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repository.Insert(ctx, collection, doc); err != nil {
		log.Err(err).Str("func", "documentService.Create").Str("user_id", userID).Msg("insert failed")
		return "", fmt.Errorf("error creating document: %w", err)
	}

	s.publish(ctx, collection, userID)
	return doc.ID, nil
}

func (s *documentService) Update(ctx context.Context, userID, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, patch.ListUpdate); err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.Get(ctx, userID, collection, id); err != nil {
		return models.Document{}, err
	}

	now := s.now()
	patch.UpdatedAt = &now
	doc, err := s.repository.Update(ctx, collection, id, patch)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "documentService.Update").Str("document_id", id).Msg("update failed")
		return models.Document{}, fmt.Errorf("error updating document: %w", err)
	}

	s.publish(ctx, collection, userID)
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, userID, collection, id string) error {
	log := logger.FromContext(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.Get(ctx, userID, collection, id); err != nil {
		return err
	}

	err := s.repository.Delete(ctx, collection, id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "documentService.Delete").Str("document_id", id).Msg("delete failed")
		return fmt.Errorf("error deleting document: %w", err)
	}

	s.publish(ctx, collection, userID)
	return nil
}

func (s *documentService) Subscribe(ctx context.Context, userID, collection, owner string) (<-chan models.ChangeSet, func(), error) {
	if owner != userID {
		s.logForbidden(ctx, "documentService.Subscribe", userID, owner)
		return nil, nil, ErrForbidden
	}

	// no write may slip between the initial read and the registration
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	docs, err := s.repository.FindByOwner(ctx, collection, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading initial result set: %w", err)
	}

	changes, cancel := s.broker.subscribe(collection, owner, models.ChangeSet{Owner: owner, Documents: docs})
	return changes, cancel, nil
}

func (s *documentService) find(ctx context.Context, collection, id string) (models.Document, error) {
	doc, err := s.repository.FindByID(ctx, collection, id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("error reading document: %w", err)
	}
	return doc, nil
}

// publish must be called with writeMu held. A failed read is logged and
// skipped: subscribers receive the next successful set.
func (s *documentService) publish(ctx context.Context, collection, owner string) {
	if s.broker.subscribers(collection, owner) == 0 {
		return
	}

	docs, err := s.repository.FindByOwner(context.WithoutCancel(ctx), collection, owner)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "documentService.publish").
			Str("collection", collection).
			Str("owner_id", owner).
			Msg("failed to read change set, subscribers not notified")
		return
	}

	s.broker.publish(collection, models.ChangeSet{Owner: owner, Documents: docs})
}

func (s *documentService) logForbidden(ctx context.Context, fn, userID, owner string) {
	logger.FromContext(ctx).Warn().
		Str("func", fn).
		Str("user_id", userID).
		Str("owner_id", owner).
		Msg("access to another user's documents")
}
