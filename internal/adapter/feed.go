package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

const feedCloseTimeout = time.Second

// websocketFeed reads change sets pushed by the store over a websocket.
type websocketFeed struct {
	conn    *websocket.Conn
	changes chan models.ChangeSet
	done    chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error

	logger *logger.Logger
}

// Subscribe implements [DocumentStore]. It dials
// /api/collections/{collection}/subscribe?owner={owner} with the bearer
// token in the handshake. A rejected handshake is mapped like any other HTTP
// answer, so an owner mismatch surfaces as [ErrForbidden].
func (h *httpDocumentStore) Subscribe(ctx context.Context, owner string) (Feed, error) {
	u, err := url.Parse(h.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/collections/" + url.PathEscape(h.collection) + "/subscribe"
	u.RawQuery = url.Values{"owner": []string{owner}}.Encode()

	header := http.Header{}
	if h.token != "" {
		header.Set("Authorization", "Bearer "+h.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return nil, mapStatus(resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("subscribe request: %w", err)
	}

	feed := &websocketFeed{
		conn:    conn,
		changes: make(chan models.ChangeSet),
		done:    make(chan struct{}),
		logger:  h.logger,
	}
	go feed.readLoop()

	return feed, nil
}

func (f *websocketFeed) readLoop() {
	defer close(f.changes)

	for {
		var cs models.ChangeSet
		if err := f.conn.ReadJSON(&cs); err != nil {
			select {
			case <-f.done:
				// closed by us
			default:
				f.setErr(err)
			}
			return
		}

		select {
		case f.changes <- cs:
		case <-f.done:
			return
		}
	}
}

func (f *websocketFeed) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		f.err = ErrFeedClosed
		return
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		f.err = fmt.Errorf("%w: %w", ErrFeedClosed, err)
		return
	}
	f.err = fmt.Errorf("read change set: %w", err)
}

// Changes implements [Feed].
func (f *websocketFeed) Changes() <-chan models.ChangeSet {
	return f.changes
}

// Err implements [Feed].
func (f *websocketFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close implements [Feed]. It sends a close frame and drops the connection,
// which unblocks the read loop.
func (f *websocketFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if writeErr := f.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(feedCloseTimeout)); writeErr != nil {
			f.logger.Debug().Err(writeErr).Str("func", "websocketFeed.Close").Msg("failed to send close frame")
		}
		err = f.conn.Close()
	})
	return err
}
