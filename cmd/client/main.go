package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/client"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/internal/tui"
	"github.com/MKhiriev/go-list-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("go-list-client", cfg.App.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	documents, err := adapter.NewHTTPDocumentStore(cfg.Adapter, cfg.App.Token, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create document store adapter")
	}

	mirrorStore, err := store.NewMirrorStore(ctx, cfg.Storage.Mirror, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create mirror store")
	}
	defer mirrorStore.Close()

	services := service.NewClientServices(mirrorStore, documents, cfg.App.Token, cfg.Cache, log)

	userID, err := services.Identity.UserID()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot determine user from token")
	}

	ui := tui.New(services.Lists, userID, build, log)

	app, err := client.NewApp(services, userID, ui, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		fmt.Fprintln(os.Stderr, err)
	}
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.BuildVersion())
	fmt.Printf("Build date: %s\n", build.BuildDate())
	fmt.Printf("Build commit: %s\n", build.BuildCommit())
}
