// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-list-keeper/models"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// UI is the front end driven by [App].
type UI interface {
	// Run blocks until the user quits or ctx is cancelled.
	Run(ctx context.Context) error

	// Notify delivers a snapshot pushed by the server. It may be called from
	// any goroutine.
	Notify(snapshot models.Snapshot)
}
