package service

import (
	"sync"

	"github.com/MKhiriev/go-list-keeper/models"
)

type feedKey struct {
	collection string
	owner      string
}

// changeBroker fans out change sets to the subscribers of one
// (collection, owner) query. Each subscriber has a one-slot buffer: a slow
// reader skips intermediate sets and always ends up with the latest one.
type changeBroker struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[feedKey]map[uint64]chan models.ChangeSet
}

func newChangeBroker() *changeBroker {
	return &changeBroker{subs: make(map[feedKey]map[uint64]chan models.ChangeSet)}
}

// subscribe registers a subscriber and queues initial on its channel. The
// returned cancel closes the channel and is safe to call more than once.
func (b *changeBroker) subscribe(collection, owner string, initial models.ChangeSet) (<-chan models.ChangeSet, func()) {
	key := feedKey{collection: collection, owner: owner}
	ch := make(chan models.ChangeSet, 1)
	ch <- initial

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[key] == nil {
		b.subs[key] = make(map[uint64]chan models.ChangeSet)
	}
	b.subs[key][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[key], id)
			if len(b.subs[key]) == 0 {
				delete(b.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// publish delivers set to every subscriber of (collection, set.Owner),
// replacing a set that has not been read yet.
func (b *changeBroker) publish(collection string, set models.ChangeSet) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[feedKey{collection: collection, owner: set.Owner}] {
		select {
		case ch <- set:
			continue
		default:
		}
		// drop the stale set
		select {
		case <-ch:
		default:
		}
		ch <- set
	}
}

func (b *changeBroker) subscribers(collection, owner string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[feedKey{collection: collection, owner: owner}])
}
