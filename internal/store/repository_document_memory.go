package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/models"
)

// memoryDocumentRepository is the [DocumentRepository] used when the server
// runs without a database. Contents are lost on restart.
type memoryDocumentRepository struct {
	mu          sync.RWMutex
	collections map[string]map[string]models.Document
}

// NewMemoryDocumentRepository returns an empty in-memory repository.
func NewMemoryDocumentRepository() DocumentRepository {
	return &memoryDocumentRepository{
		collections: make(map[string]map[string]models.Document),
	}
}

func (r *memoryDocumentRepository) FindByOwner(_ context.Context, collection, owner string) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]models.Document, 0)
	for _, doc := range r.collections[collection] {
		if doc.UserID == owner {
			docs = append(docs, cloneDocument(doc))
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		ci, cj := timeOf(docs[i].CreatedAt), timeOf(docs[j].CreatedAt)
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return docs[i].ID < docs[j].ID
	})

	return docs, nil
}

func (r *memoryDocumentRepository) FindByID(_ context.Context, collection, id string) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.collections[collection][id]
	if !ok {
		return models.Document{}, ErrDocumentNotFound
	}
	return cloneDocument(doc), nil
}

func (r *memoryDocumentRepository) Insert(_ context.Context, collection string, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs, ok := r.collections[collection]
	if !ok {
		docs = make(map[string]models.Document)
		r.collections[collection] = docs
	}
	if _, exists := docs[doc.ID]; exists {
		return ErrDocumentExists
	}

	docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (r *memoryDocumentRepository) Update(_ context.Context, collection, id string, patch models.DocumentPatch) (models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.collections[collection][id]
	if !ok {
		return models.Document{}, ErrDocumentNotFound
	}

	if patch.UpdatedAt == nil {
		now := time.Now().UTC()
		patch.UpdatedAt = &now
	}
	doc = patch.Apply(doc)
	r.collections[collection][id] = doc

	return cloneDocument(doc), nil
}

func (r *memoryDocumentRepository) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection][id]; !ok {
		return ErrDocumentNotFound
	}
	delete(r.collections[collection], id)
	return nil
}

func cloneDocument(doc models.Document) models.Document {
	items := make([]models.LineItem, len(doc.ChildItems))
	copy(items, doc.ChildItems)
	doc.ChildItems = items
	return doc
}

func timeOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
