// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// TempIDPrefix marks a List identifier assigned on the client while its
// create request is still in flight.
const TempIDPrefix = "temp-"

// IsTempID reports whether id carries the temporary identifier prefix.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// LineItem is a child entry of a [List]. It has no identity outside of its
// parent document.
type LineItem struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// List is a user-owned collection container as the client sees it.
type List struct {
	// ID is assigned by the remote store. While a create is in flight it
	// holds a temporary identifier (see [IsTempID]).
	ID string `json:"id"`

	// Name is the display name shown in the list overview.
	Name string `json:"name"`

	// Quantity is the default count of the list.
	Quantity int `json:"quantity"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// ChildItems holds the nested line items. Never nil after normalization.
	ChildItems []LineItem `json:"childItems"`
}

// Clone returns a deep copy of l so callers can mutate it freely.
func (l List) Clone() List {
	cp := l
	cp.ChildItems = make([]LineItem, len(l.ChildItems))
	copy(cp.ChildItems, l.ChildItems)
	return cp
}

// FindChild returns the index of the line item with the given id or -1.
func (l List) FindChild(id string) int {
	for i, item := range l.ChildItems {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot is the full set of Lists owned by one user. It is always replaced
// as a whole, never merged.
type Snapshot []List

// Clone returns a deep copy of the snapshot. A nil snapshot clones into an
// empty one.
func (s Snapshot) Clone() Snapshot {
	cp := make(Snapshot, len(s))
	for i, l := range s {
		cp[i] = l.Clone()
	}
	return cp
}

// Find returns the index of the List with the given id or -1.
func (s Snapshot) Find(id string) int {
	for i, l := range s {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the List with the given id.
func (s Snapshot) Get(id string) (List, bool) {
	i := s.Find(id)
	if i < 0 {
		return List{}, false
	}
	return s[i].Clone(), true
}

// Without returns a copy of the snapshot with every List matching drop removed.
func (s Snapshot) Without(drop func(List) bool) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, l := range s {
		if drop(l) {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}

// ListUpdate carries a partial update of a List. Nil fields are untouched.
type ListUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Quantity    *int        `json:"quantity,omitempty"`
	Description *string     `json:"description,omitempty"`
	ChildItems  *[]LineItem `json:"childItems,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u ListUpdate) IsEmpty() bool {
	return u.Name == nil && u.Quantity == nil && u.Description == nil && u.ChildItems == nil
}

// Apply returns a copy of l with the non-nil fields of u applied.
func (u ListUpdate) Apply(l List) List {
	out := l.Clone()
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Quantity != nil {
		out.Quantity = *u.Quantity
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.ChildItems != nil {
		items := make([]LineItem, len(*u.ChildItems))
		copy(items, *u.ChildItems)
		out.ChildItems = items
	}
	return out
}

// Capture returns an update holding the current values in l of exactly the
// fields set in u. Applying the result undoes u.
func (u ListUpdate) Capture(l List) ListUpdate {
	var prev ListUpdate
	if u.Name != nil {
		name := l.Name
		prev.Name = &name
	}
	if u.Quantity != nil {
		q := l.Quantity
		prev.Quantity = &q
	}
	if u.Description != nil {
		d := l.Description
		prev.Description = &d
	}
	if u.ChildItems != nil {
		items := l.Clone().ChildItems
		prev.ChildItems = &items
	}
	return prev
}
