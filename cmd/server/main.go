package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/handler"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/server"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	log := logger.NewLogger("go-list-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	// identity management is out of scope: tokens are issued from the command line
	if cfg.App.IssueTokenFor != "" {
		token, err := service.NewAuthService(cfg.App, log).IssueToken(ctx, cfg.App.IssueTokenFor)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.SignedString)
		return
	}

	printBuildInfo(build)

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
