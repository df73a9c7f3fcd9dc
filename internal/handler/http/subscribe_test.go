package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/models"
)

const feedTimeout = 2 * time.Second

func subscribeURL(base, owner string) string {
	return "ws" + strings.TrimPrefix(base, "http") + "/api/collections/" + testCollection + "/subscribe?owner=" + owner
}

func dialFeed(t *testing.T, srv *testServer, base, userID, owner string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if userID != "" {
		header.Set("Authorization", "Bearer "+srv.token(t, userID))
	}
	return websocket.DefaultDialer.Dial(subscribeURL(base, owner), header)
}

func readChangeSet(t *testing.T, conn *websocket.Conn) models.ChangeSet {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(feedTimeout)))
	var cs models.ChangeSet
	require.NoError(t, conn.ReadJSON(&cs))
	return cs
}

func TestSubscribe_InitialSetThenChanges(t *testing.T) {
	srv := newTestServer(t)
	existing := srv.createAs(t, testUser, groceries())

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	conn, _, err := dialFeed(t, srv, ts.URL, testUser, testUser)
	require.NoError(t, err)
	defer conn.Close()

	initial := readChangeSet(t, conn)
	assert.Equal(t, testUser, initial.Owner)
	require.Len(t, initial.Documents, 1)
	assert.Equal(t, existing, initial.Documents[0].ID)

	created := srv.createAs(t, testUser, models.Document{Name: "Pharmacy", Quantity: 1})
	afterCreate := readChangeSet(t, conn)
	require.Len(t, afterCreate.Documents, 2)
	assert.Equal(t, created, afterCreate.Documents[1].ID)

	rr := srv.do(t, http.MethodDelete, documentsURL("/"+existing), testUser, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	afterDelete := readChangeSet(t, conn)
	require.Len(t, afterDelete.Documents, 1)
	assert.Equal(t, created, afterDelete.Documents[0].ID)
}

// Изменения другого пользователя в ленту не попадают.
func TestSubscribe_OtherOwnersChangesAreNotPushed(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	conn, _, err := dialFeed(t, srv, ts.URL, testUser, testUser)
	require.NoError(t, err)
	defer conn.Close()

	assert.Empty(t, readChangeSet(t, conn).Documents)

	srv.createAs(t, otherUser, groceries())
	own := srv.createAs(t, testUser, groceries())

	next := readChangeSet(t, conn)
	require.Len(t, next.Documents, 1)
	assert.Equal(t, own, next.Documents[0].ID)
}

func TestSubscribe_RejectedBeforeUpgrade(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	tests := []struct {
		name       string
		userID     string
		owner      string
		wantStatus int
	}{
		{"no token", "", testUser, http.StatusUnauthorized},
		{"foreign owner", testUser, otherUser, http.StatusForbidden},
		{"missing owner", testUser, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := dialFeed(t, srv, ts.URL, tt.userID, tt.owner)
			if conn != nil {
				_ = conn.Close()
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
