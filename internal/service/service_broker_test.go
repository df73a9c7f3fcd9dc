package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/models"
)

func TestChangeBroker_SlowReaderGetsLatest(t *testing.T) {
	b := newChangeBroker()
	ch, cancel := b.subscribe("c", "alice", models.ChangeSet{Owner: "alice"})
	defer cancel()

	for i := range 3 {
		b.publish("c", models.ChangeSet{Owner: "alice", Documents: make([]models.Document, i+1)})
	}

	latest := <-ch
	assert.Len(t, latest.Documents, 3)

	select {
	case cs := <-ch:
		t.Fatalf("unexpected extra set %+v", cs)
	default:
	}
}

func TestChangeBroker_RoutesByCollectionAndOwner(t *testing.T) {
	b := newChangeBroker()
	alice, cancelAlice := b.subscribe("c", "alice", models.ChangeSet{Owner: "alice"})
	defer cancelAlice()
	otherCollection, cancelOther := b.subscribe("d", "alice", models.ChangeSet{Owner: "alice"})
	defer cancelOther()
	<-alice
	<-otherCollection

	b.publish("c", models.ChangeSet{Owner: "bob"})
	b.publish("c", models.ChangeSet{Owner: "alice", Documents: []models.Document{{ID: "1"}}})

	got := <-alice
	assert.Equal(t, "1", got.Documents[0].ID)
	assert.Empty(t, otherCollection)
}

func TestChangeBroker_CancelUnregisters(t *testing.T) {
	b := newChangeBroker()
	ch, cancel := b.subscribe("c", "alice", models.ChangeSet{Owner: "alice"})
	require.Equal(t, 1, b.subscribers("c", "alice"))

	cancel()
	assert.Equal(t, 0, b.subscribers("c", "alice"))
	assert.NotPanics(t, func() { b.publish("c", models.ChangeSet{Owner: "alice"}) })

	// первый снимок остаётся в буфере, затем канал закрыт
	<-ch
	_, ok := <-ch
	assert.False(t, ok)
}
