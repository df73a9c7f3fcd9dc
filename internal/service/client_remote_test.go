package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/mock"
	"github.com/MKhiriev/go-list-keeper/models"
)

func newRemoteWithMock(t *testing.T) (*RemoteSyncClient, *mock.MockDocumentStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mock.NewMockDocumentStore(ctrl)
	return NewRemoteSyncClient(store), store
}

// ── FetchAll ─────────────────────────────────────────────────────────────────

func TestRemoteSyncClient_FetchAll_Normalizes(t *testing.T) {
	remote, store := newRemoteWithMock(t)
	store.EXPECT().FetchAll(gomock.Any(), testUser).Return([]models.Document{
		doc("a1", testUser, "Groceries"),
		{ID: "a2", UserID: testUser, Name: "No items"},
	}, nil)

	snap, err := remote.FetchAll(testContext(), testUser)

	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, list("a1", "Groceries"), snap[0])
	assert.NotNil(t, snap[1].ChildItems, "line items are never nil after normalization")
}

func TestRemoteSyncClient_FetchAll_ForeignDocumentRejectsSet(t *testing.T) {
	remote, store := newRemoteWithMock(t)
	store.EXPECT().FetchAll(gomock.Any(), testUser).Return([]models.Document{
		doc("a1", testUser, "Mine"),
		doc("b1", "intruder", "Theirs"),
	}, nil)

	snap, err := remote.FetchAll(testContext(), testUser)

	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemoteSyncClient_FetchAll_TransportError(t *testing.T) {
	remote, store := newRemoteWithMock(t)
	store.EXPECT().FetchAll(gomock.Any(), testUser).Return(nil, errors.New("connection refused"))

	_, err := remote.FetchAll(testContext(), testUser)

	assert.ErrorIs(t, err, ErrTransport)
}

// ── FetchOne ─────────────────────────────────────────────────────────────────

func TestRemoteSyncClient_FetchOne(t *testing.T) {
	tests := []struct {
		name      string
		doc       models.Document
		found     bool
		wantFound bool
		wantErr   error
	}{
		{name: "own document", doc: doc("a1", testUser, "Groceries"), found: true, wantFound: true},
		{name: "absent", found: false, wantFound: false},
		{name: "foreign document", doc: doc("a1", "intruder", "Theirs"), found: true, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, store := newRemoteWithMock(t)
			store.EXPECT().FetchOne(gomock.Any(), "a1").Return(tt.doc, tt.found, nil)

			l, found, err := remote.FetchOne(testContext(), testUser, "a1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			if found {
				assert.Equal(t, "Groceries", l.Name)
			}
		})
	}
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestRemoteSyncClient_Create_SendsOwnerAndDropsID(t *testing.T) {
	remote, store := newRemoteWithMock(t)
	draft := list("temp-x", "Milk")

	store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, d models.Document) (string, error) {
			assert.Empty(t, d.ID)
			assert.Equal(t, testUser, d.UserID)
			assert.Equal(t, "Milk", d.Name)
			return "real-1", nil
		})

	id, err := remote.Create(testContext(), testUser, draft)

	require.NoError(t, err)
	assert.Equal(t, "real-1", id)
}

// ── Update / Delete ─────────────────────────────────────────────────────────

func TestRemoteSyncClient_Update_VerifiesOwnerFirst(t *testing.T) {
	name := "Renamed"
	upd := models.ListUpdate{Name: &name}

	t.Run("own document is patched", func(t *testing.T) {
		remote, store := newRemoteWithMock(t)
		gomock.InOrder(
			store.EXPECT().FetchOne(gomock.Any(), "a1").Return(doc("a1", testUser, "Groceries"), true, nil),
			store.EXPECT().Update(gomock.Any(), "a1", models.DocumentPatch{ListUpdate: upd}).Return(nil),
		)

		require.NoError(t, remote.Update(testContext(), testUser, "a1", upd))
	})

	t.Run("foreign document is never patched", func(t *testing.T) {
		remote, store := newRemoteWithMock(t)
		store.EXPECT().FetchOne(gomock.Any(), "a1").Return(doc("a1", "intruder", "Theirs"), true, nil)

		err := remote.Update(testContext(), testUser, "a1", upd)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("absent document", func(t *testing.T) {
		remote, store := newRemoteWithMock(t)
		store.EXPECT().FetchOne(gomock.Any(), "a1").Return(models.Document{}, false, nil)

		err := remote.Update(testContext(), testUser, "a1", upd)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoteSyncClient_Delete(t *testing.T) {
	remote, store := newRemoteWithMock(t)
	gomock.InOrder(
		store.EXPECT().FetchOne(gomock.Any(), "a1").Return(doc("a1", testUser, "Groceries"), true, nil),
		store.EXPECT().Delete(gomock.Any(), "a1").Return(adapter.ErrBadGateway),
	)

	err := remote.Delete(testContext(), testUser, "a1")

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, adapter.ErrBadGateway)
}

// ── mapAdapterError ──────────────────────────────────────────────────────────

func TestMapAdapterError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "unauthorized", in: adapter.ErrUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", in: adapter.ErrForbidden, want: ErrUnauthorized},
		{name: "not found", in: adapter.ErrNotFound, want: ErrNotFound},
		{name: "bad request", in: adapter.ErrBadRequest, want: ErrInvalidInput},
		{name: "server error", in: adapter.ErrInternalServerError, want: ErrTransport},
		{name: "unexpected response", in: adapter.ErrUnexpectedResponse, want: ErrTransport},
		{name: "anything else", in: errors.New("dial tcp: timeout"), want: ErrTransport},
		{name: "already mapped", in: ErrNotFound, want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAdapterError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}
