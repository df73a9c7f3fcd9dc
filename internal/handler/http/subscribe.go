package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPongTimeout  = 60 * time.Second
	feedPingInterval = 50 * time.Second
)

// GET /api/collections/{collection}/subscribe?owner={userID}
//
// The subscription is registered before the upgrade, so a rejected owner is
// answered with a plain 403. Afterwards the full result set is pushed on
// connect and after every committed change until either side closes.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := userIDFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "*Handler.subscribe", err)
		return
	}
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeServiceError(w, r, "*Handler.subscribe", ErrNoOwner)
		return
	}

	changes, cancel, err := h.services.DocumentService.Subscribe(r.Context(), userID, chi.URLParam(r, "collection"), owner)
	if err != nil {
		writeServiceError(w, r, "*Handler.subscribe", err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already answered the request
		log.Err(err).Str("func", "*Handler.subscribe").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// the client never sends data; reading detects its close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			log.Debug().Str("func", "*Handler.subscribe").Msg("subscriber disconnected")
			return

		// server shutdown
		case <-r.Context().Done():
			closeFeed(conn, websocket.CloseGoingAway)
			return

		case cs, ok := <-changes:
			if !ok {
				closeFeed(conn, websocket.CloseGoingAway)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(cs); err != nil {
				log.Warn().Err(err).Str("func", "*Handler.subscribe").Msg("failed to push change set")
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteTimeout)); err != nil {
				return
			}
		}
	}
}

func closeFeed(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(feedWriteTimeout))
}
