package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
)

type Handler struct {
	services *service.Services
	upgrader websocket.Upgrader

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the client is a native program, not a browser
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}
