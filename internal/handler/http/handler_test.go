package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/store"
	"github.com/MKhiriev/go-list-keeper/models"
)

const (
	testCollection = "shopping-list-items"
	testUser       = "user-1"
	otherUser      = "user-2"
	testSignKey    = "handler-test-key"
	testIssuer     = "go-list-keeper-test"
)

// testServer собирает полноценный роутер поверх in-memory репозитория.
type testServer struct {
	handler  *Handler
	router   http.Handler
	services *service.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.ServerConfig{
		App: config.ServerApp{
			TokenSignKey:  testSignKey,
			TokenIssuer:   testIssuer,
			TokenDuration: time.Hour,
			Version:       "v1.2.3",
		},
	}
	storages := &store.Storages{DocumentRepository: store.NewMemoryDocumentRepository()}
	build := models.NewAppBuildInfo("v1.2.3", "2026-01-01", "abc123")

	services, err := service.NewServices(storages, cfg, build, logger.Nop())
	require.NoError(t, err)

	h := NewHandler(services, logger.Nop())
	return &testServer{handler: h, router: h.Init(), services: services}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.services.AuthService.IssueToken(context.Background(), userID)
	require.NoError(t, err)
	return tok.SignedString
}

// do выполняет запрос от имени userID (без заголовка, если userID пуст).
func (s *testServer) do(t *testing.T, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, userID))
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func documentsURL(suffix string) string {
	return "/api/collections/" + testCollection + "/documents" + suffix
}

// handler без сервисов для тестов отдельных middleware
func newBareHandler() *Handler {
	return &Handler{logger: logger.Nop()}
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
