// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote document store.
//
// The primary abstraction is [DocumentStore], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPDocumentStore]) whose change feed is carried over a
// websocket.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// DocumentStore is the remote document collection the client synchronizes
// with. Every document carries the identifier of its owner; implementations
// are responsible for serialisation, authentication headers and mapping
// transport-level errors to the sentinel values defined in this package.
type DocumentStore interface {
	// FetchAll returns every document owned by owner.
	FetchAll(ctx context.Context, owner string) ([]models.Document, error)

	// FetchOne returns the document with the given id. The boolean is false
	// if the document does not exist.
	FetchOne(ctx context.Context, id string) (models.Document, bool, error)

	// Create stores doc and returns the identifier assigned by the store.
	Create(ctx context.Context, doc models.Document) (string, error)

	// Update merges patch into the stored document.
	Update(ctx context.Context, id string, patch models.DocumentPatch) error

	// Delete removes the document.
	Delete(ctx context.Context, id string) error

	// Subscribe opens a push feed over the documents of owner. The store
	// emits the full current result set once on connect and again after
	// every change.
	Subscribe(ctx context.Context, owner string) (Feed, error)
}

// Feed is an open change subscription.
type Feed interface {
	// Changes delivers result sets in the order the store emitted them. The
	// channel is closed when the feed ends.
	Changes() <-chan models.ChangeSet

	// Err reports why the feed ended. It is nil while the feed is open and
	// after a Close initiated by the caller.
	Err() error

	// Close stops the feed. It is safe to call more than once.
	Close() error
}
