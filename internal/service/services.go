package service

import (
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

// Services groups the business layer of the document server.
type Services struct {
	DocumentService DocumentService
	AuthService     AuthService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		DocumentService: NewDocumentService(storages.DocumentRepository, logger),
		AuthService:     NewAuthService(cfg.App, logger),
		AppInfoService:  appInfo,
	}, nil
}
