package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/internal/validators"
	"github.com/MKhiriev/go-list-keeper/models"
)

type mutationState int

const (
	statePending mutationState = iota
	stateCommitted
	stateRolledBack
)

func (s mutationState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateCommitted:
		return "committed"
	case stateRolledBack:
		return "rolled back"
	}
	return "unknown"
}

const (
	opCreate      = "create"
	opDelete      = "delete"
	opUpdate      = "update"
	opAddChild    = "add child"
	opRemoveChild = "remove child"
	opEditChild   = "edit child"
)

// rollback is captured when a mutation starts and consumed only by that
// mutation's own resolution.
type rollback struct {
	listID string

	// update-like mutations: previous values of the changed fields
	previous models.ListUpdate

	// delete: the removed list and where it was
	removed models.List
	index   int
}

// restore puts the captured state back into snap.
func (r rollback) restore(op string, snap models.Snapshot) models.Snapshot {
	if op == opDelete {
		if snap.Find(r.removed.ID) >= 0 {
			return snap
		}
		idx := min(r.index, len(snap))
		return slices.Insert(snap, idx, r.removed.Clone())
	}

	if i := snap.Find(r.listID); i >= 0 {
		snap[i] = r.previous.Apply(snap[i])
	}
	return snap
}

type mutation struct {
	op     string
	userID string
	epoch  uint64
	state  mutationState
	undo   rollback
}

func (m *mutation) log(ctx context.Context, err error) {
	log := logger.FromContext(ctx)
	ev := log.Debug()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("func", "listService.mutate").
		Str("op", m.op).
		Str("user_id", m.userID).
		Str("list_id", m.undo.listID).
		Stringer("state", m.state).
		Msg("mutation resolved")
}

func (s *listService) CreateItem(ctx context.Context, userID string, draft models.List) (models.List, error) {
	draft = draft.Clone()
	if err := s.validator.Validate(ctx, draft); err != nil {
		return models.List{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.ensureSnapshot(ctx, userID); err != nil {
		return models.List{}, err
	}

	tempID := s.ids.TempID()
	pendingList := draft.Clone()
	pendingList.ID = tempID

	m := &mutation{op: opCreate, userID: userID, state: statePending, undo: rollback{listID: tempID}}
	epoch, err := s.cache.apply(userID, func(snap models.Snapshot) (models.Snapshot, error) {
		return append(snap, pendingList), nil
	})
	if err != nil {
		return models.List{}, err
	}
	m.epoch = epoch
	s.cache.addPending(userID, tempID)

	id, err := s.remote.Create(context.WithoutCancel(ctx), userID, draft)
	if err != nil {
		s.cache.dropTemp(userID, tempID)
		m.state = stateRolledBack
		m.log(ctx, err)
		return models.List{}, err
	}

	created := draft.Clone()
	created.ID = id
	s.cache.commit(ctx, userID, m.epoch, func(snap models.Snapshot, _ bool) models.Snapshot {
		if i := snap.Find(tempID); i >= 0 {
			snap[i].ID = id
			return snap
		}
		// a push replaced the snapshot in the meantime
		if snap.Find(id) < 0 {
			snap = append(snap, created.Clone())
		}
		return snap
	})
	s.cache.resolvePending(userID, tempID)
	m.state = stateCommitted
	m.undo.listID = id
	m.log(ctx, nil)

	return created, nil
}

func (s *listService) DeleteItem(ctx context.Context, userID, listID string) error {
	if err := s.ensureSnapshot(ctx, userID); err != nil {
		return err
	}
	if models.IsTempID(listID) {
		return fmt.Errorf("%w: list %s is still being created", ErrInvalidInput, listID)
	}

	m := &mutation{op: opDelete, userID: userID, state: statePending, undo: rollback{listID: listID}}
	epoch, err := s.cache.apply(userID, func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.Find(listID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, listID)
		}
		m.undo.removed = snap[i].Clone()
		m.undo.index = i
		return slices.Delete(snap, i, i+1), nil
	})
	if err != nil {
		return err
	}
	m.epoch = epoch

	if err = s.remote.Delete(context.WithoutCancel(ctx), userID, listID); err != nil {
		s.cache.rollback(userID, m.epoch, func(snap models.Snapshot) models.Snapshot {
			return m.undo.restore(m.op, snap)
		})
		m.state = stateRolledBack
		m.log(ctx, err)
		return err
	}

	// the remote store no longer has the list, whatever was restored meanwhile
	s.cache.commit(ctx, userID, m.epoch, func(snap models.Snapshot, _ bool) models.Snapshot {
		return snap.Without(func(l models.List) bool { return l.ID == listID })
	})
	m.state = stateCommitted
	m.log(ctx, nil)
	return nil
}

func (s *listService) UpdateItem(ctx context.Context, userID, listID string, upd models.ListUpdate) (models.List, error) {
	if err := s.validator.Validate(ctx, upd); err != nil {
		return models.List{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.updateList(ctx, opUpdate, userID, listID, func(models.List) (models.ListUpdate, error) {
		return upd, nil
	})
}

func (s *listService) AddChildItem(ctx context.Context, userID, listID, title string, price float64) (models.LineItem, error) {
	item := models.LineItem{Title: title, Price: price}
	if err := s.validator.Validate(ctx, item, validators.FieldTitle, validators.FieldPrice); err != nil {
		return models.LineItem{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	_, err := s.updateList(ctx, opAddChild, userID, listID, func(l models.List) (models.ListUpdate, error) {
		now := s.now()
		item.ID = utils.ChildItemID(title, now)
		for l.FindChild(item.ID) >= 0 {
			now = now.Add(time.Millisecond)
			item.ID = utils.ChildItemID(title, now)
		}
		items := append(slices.Clone(l.ChildItems), item)
		return models.ListUpdate{ChildItems: &items}, nil
	})
	if err != nil {
		return models.LineItem{}, err
	}
	return item, nil
}

func (s *listService) RemoveChildItem(ctx context.Context, userID, listID, childID string) error {
	_, err := s.updateList(ctx, opRemoveChild, userID, listID, func(l models.List) (models.ListUpdate, error) {
		i := l.FindChild(childID)
		if i < 0 {
			return models.ListUpdate{}, fmt.Errorf("%w: item %s", ErrNotFound, childID)
		}
		items := slices.Delete(slices.Clone(l.ChildItems), i, i+1)
		return models.ListUpdate{ChildItems: &items}, nil
	})
	return err
}

func (s *listService) UpdateChildItem(ctx context.Context, userID, listID string, item models.LineItem) error {
	if err := s.validator.Validate(ctx, item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	_, err := s.updateList(ctx, opEditChild, userID, listID, func(l models.List) (models.ListUpdate, error) {
		i := l.FindChild(item.ID)
		if i < 0 {
			return models.ListUpdate{}, fmt.Errorf("%w: item %s", ErrNotFound, item.ID)
		}
		items := slices.Clone(l.ChildItems)
		items[i] = item
		return models.ListUpdate{ChildItems: &items}, nil
	})
	return err
}

// updateList is the capture-and-restore path shared by updates and every
// child item operation. build derives the update from the cached List inside
// the critical section.
func (s *listService) updateList(
	ctx context.Context,
	op, userID, listID string,
	build func(models.List) (models.ListUpdate, error),
) (models.List, error) {
	if err := s.ensureSnapshot(ctx, userID); err != nil {
		return models.List{}, err
	}
	if models.IsTempID(listID) {
		return models.List{}, fmt.Errorf("%w: list %s is still being created", ErrInvalidInput, listID)
	}

	var (
		upd     models.ListUpdate
		updated models.List
	)
	m := &mutation{op: op, userID: userID, state: statePending, undo: rollback{listID: listID}}
	epoch, err := s.cache.apply(userID, func(snap models.Snapshot) (models.Snapshot, error) {
		i := snap.Find(listID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, listID)
		}
		var buildErr error
		if upd, buildErr = build(snap[i]); buildErr != nil {
			return nil, buildErr
		}
		m.undo.previous = upd.Capture(snap[i])
		snap[i] = upd.Apply(snap[i])
		updated = snap[i].Clone()
		return snap, nil
	})
	if err != nil {
		return models.List{}, err
	}
	m.epoch = epoch

	if err = s.remote.Update(context.WithoutCancel(ctx), userID, listID, upd); err != nil {
		s.cache.rollback(userID, m.epoch, func(snap models.Snapshot) models.Snapshot {
			return m.undo.restore(m.op, snap)
		})
		m.state = stateRolledBack
		m.log(ctx, err)
		return models.List{}, err
	}

	// last resolved wins: re-apply over restorations of earlier failed
	// mutations, unless the server replaced the snapshot in the meantime
	s.cache.commit(ctx, userID, m.epoch, func(snap models.Snapshot, replaced bool) models.Snapshot {
		if i := snap.Find(listID); i >= 0 && !replaced {
			snap[i] = upd.Apply(snap[i])
		}
		return snap
	})
	m.state = stateCommitted
	m.log(ctx, nil)
	return updated, nil
}
