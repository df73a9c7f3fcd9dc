package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/workers"
)

type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	userID   string

	logger *logger.Logger
}

// NewApp prepares the client of userID. Workers are registered so that the
// subscription stops before the refresh job.
func NewApp(services *service.ClientServices, userID string, ui UI, cfg config.ClientWorkers, log *logger.Logger) (*App, error) {
	if userID == "" {
		return nil, fmt.Errorf("client app: %w", service.ErrNoUserID)
	}

	return &App{
		services: services,
		ui:       ui,
		workers: workers.New(
			services.RefreshJobFor(userID, cfg),
			newSubscriptionWorker(services.Reconciler, userID, ui.Notify),
		),
		userID: userID,
		logger: log.ForUser(userID),
	}, nil
}

// Run starts the workers, blocks in the UI and tears everything down once
// the UI returns. The subscription is closed first so the UI receives no
// further pushes during shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(a.logger.WithContext(ctx))
	defer cancel()

	a.logger.Info().Msg("client started")
	a.workers.Start(ctx)

	uiErr := a.ui.Run(ctx)

	a.workers.Stop()
	a.services.Lists.Close()
	a.logger.Info().Msg("client stopped")

	if uiErr != nil {
		return fmt.Errorf("ui: %w", uiErr)
	}
	return nil
}
