package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	idleTimeout              = 2 * time.Minute
	shutdownTimeout          = 10 * time.Second
)

type httpServer struct {
	server *http.Server

	// cancelled on shutdown so hijacked subscribe connections end too
	baseCtx    context.Context
	cancelBase context.CancelFunc

	logger *logger.Logger
}

// newHTTPServer configures router behind cfg.HTTPAddress. cfg.RequestTimeout
// bounds reading request headers; there is no write timeout because
// subscribe connections stay open.
func newHTTPServer(router http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	readHeaderTimeout := cfg.RequestTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &httpServer{
		baseCtx:    baseCtx,
		cancelBase: cancel,
		logger:     logger,
	}
	s.server = &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	s.server.RegisterOnShutdown(cancel)

	return s
}

// RunServer returns once the server is shut down or fails to listen.
func (h *httpServer) RunServer() error {
	h.logger.Info().Str("address", h.server.Addr).Msg("HTTP server listening")
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Err(err).Str("func", "*httpServer.RunServer").Msg("HTTP server ListenAndServe failed")
		return err
	}
	return nil
}

func (h *httpServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		// ошибки закрытия Listener
		h.logger.Err(err).Str("func", "*httpServer.Shutdown").Msg("HTTP server Shutdown")
	}
	h.cancelBase()
}
