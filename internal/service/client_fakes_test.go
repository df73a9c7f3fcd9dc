package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/models"
)

const testUser = "user-1"

func testContext() context.Context {
	nop := zerolog.Nop()
	return nop.WithContext(context.Background())
}

// ── memKV ────────────────────────────────────────────────────────────────────

// memKV: потокобезопасное хранилище в памяти вместо sqlite/bolt.
type memKV struct {
	mu     sync.Mutex
	values map[string]string
	sets   atomic.Int64
	setErr error
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets.Add(1)
	m.values[key] = value
	return nil
}

func (m *memKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memKV) Close() error { return nil }

// ── fakeStore ────────────────────────────────────────────────────────────────

type hook struct {
	entered chan struct{}
	release chan struct{}
}

// fakeStore is an in-memory remote document store. Operations can be held
// mid-flight with hold to observe the pending state.
type fakeStore struct {
	mu     sync.Mutex
	docs   map[string]models.Document
	order  []string
	nextID int
	hooks  map[string]*hook
	feeds  []*fakeFeed

	fetchAllCalls atomic.Int64

	fetchAllErr  error
	createErr    error
	updateErr    error
	deleteErr    error
	subscribeErr error
}

func newFakeStore(docs ...models.Document) *fakeStore {
	s := &fakeStore{
		docs:  make(map[string]models.Document),
		hooks: make(map[string]*hook),
	}
	for _, d := range docs {
		s.docs[d.ID] = d
		s.order = append(s.order, d.ID)
	}
	return s
}

// hold blocks the next call of op until release is called.
func (s *fakeStore) hold(op string) (entered <-chan struct{}, release func()) {
	h := &hook{entered: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.hooks[op] = h
	s.mu.Unlock()

	var once sync.Once
	return h.entered, func() { once.Do(func() { close(h.release) }) }
}

func (s *fakeStore) wait(op string) {
	s.mu.Lock()
	h, ok := s.hooks[op]
	delete(s.hooks, op)
	s.mu.Unlock()

	if ok {
		close(h.entered)
		<-h.release
	}
}

func (s *fakeStore) setErr(target *error, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*target = err
}

func (s *fakeStore) FetchAll(_ context.Context, owner string) ([]models.Document, error) {
	s.fetchAllCalls.Add(1)
	s.wait("fetchAll")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchAllErr != nil {
		return nil, s.fetchAllErr
	}
	return s.ownedLocked(owner), nil
}

func (s *fakeStore) FetchOne(_ context.Context, id string) (models.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	return doc, ok, nil
}

func (s *fakeStore) Create(_ context.Context, doc models.Document) (string, error) {
	s.wait("create")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.nextID++
	doc.ID = fmt.Sprintf("doc-%d", s.nextID)
	now := time.Now()
	doc.CreatedAt, doc.UpdatedAt = &now, &now
	s.docs[doc.ID] = doc
	s.order = append(s.order, doc.ID)
	return doc.ID, nil
}

func (s *fakeStore) Update(_ context.Context, id string, patch models.DocumentPatch) error {
	s.wait("update")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	doc, ok := s.docs[id]
	if !ok {
		return adapter.ErrNotFound
	}
	s.docs[id] = patch.Apply(doc)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.wait("delete")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.docs[id]; !ok {
		return adapter.ErrNotFound
	}
	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

func (s *fakeStore) Subscribe(_ context.Context, owner string) (adapter.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	f := newFakeFeed()
	s.feeds = append(s.feeds, f)
	return f, nil
}

func (s *fakeStore) feed(i int) *fakeFeed {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.feeds) {
		return nil
	}
	return s.feeds[i]
}

func (s *fakeStore) feedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.feeds)
}

func (s *fakeStore) ownedLocked(owner string) []models.Document {
	out := make([]models.Document, 0, len(s.order))
	for _, id := range s.order {
		if d := s.docs[id]; d.UserID == owner {
			out = append(out, d)
		}
	}
	return out
}

// ── fakeFeed ─────────────────────────────────────────────────────────────────

type fakeFeed struct {
	mu      sync.Mutex
	changes chan models.ChangeSet
	closed  bool
	err     error
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{changes: make(chan models.ChangeSet, 16)}
}

func (f *fakeFeed) Changes() <-chan models.ChangeSet { return f.changes }

func (f *fakeFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.changes)
	}
	return nil
}

func (f *fakeFeed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// push emits a change set; it is dropped after Close.
func (f *fakeFeed) push(cs models.ChangeSet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.changes <- cs
	}
}

// drop simulates the server ending the feed.
func (f *fakeFeed) drop(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.err = err
		f.closed = true
		close(f.changes)
	}
}

// ── fixtures ─────────────────────────────────────────────────────────────────

func doc(id, owner, name string, items ...models.LineItem) models.Document {
	if items == nil {
		items = []models.LineItem{}
	}
	return models.Document{ID: id, UserID: owner, Name: name, Quantity: 1, ChildItems: items}
}

func list(id, name string, items ...models.LineItem) models.List {
	if items == nil {
		items = []models.LineItem{}
	}
	return models.List{ID: id, Name: name, Quantity: 1, ChildItems: items}
}

type clientFixture struct {
	kv     *memKV
	store  *fakeStore
	mirror *DurableMirror
	cache  *SyncContext
	lists  *listService
}

func newClientFixture(t *testing.T, docs ...models.Document) *clientFixture {
	t.Helper()

	kv := newMemKV()
	store := newFakeStore(docs...)
	mirror := NewDurableMirror(kv, "shopping-list-items", time.Hour)
	cache := NewSyncContext(mirror, 5*time.Minute)
	lists, ok := NewListService(cache, mirror, NewRemoteSyncClient(store), logger.Nop()).(*listService)
	require.True(t, ok)
	t.Cleanup(lists.Close)

	return &clientFixture{kv: kv, store: store, mirror: mirror, cache: cache, lists: lists}
}

// cached returns the memory snapshot of testUser.
func (f *clientFixture) cached(t *testing.T) models.Snapshot {
	t.Helper()
	entry, ok := f.cache.Get(testUser)
	require.True(t, ok, "memory cache has no entry")
	return entry.Snapshot
}

// mirrored returns the mirror snapshot of testUser regardless of age.
func (f *clientFixture) mirrored(t *testing.T) models.Snapshot {
	t.Helper()
	snap, ok := f.mirror.LoadAny(testContext(), testUser)
	require.True(t, ok, "mirror has no record")
	return snap
}
