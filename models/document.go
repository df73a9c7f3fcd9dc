// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Document is a List as it is stored in the remote document store. Every
// document carries the identifier of the user that owns it.
type Document struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	Description string     `json:"description,omitempty"`
	ChildItems  []LineItem `json:"childItems"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// NewDocument builds the document body sent on create. The identifier and the
// timestamps are left for the remote store to assign.
func NewDocument(userID string, l List) Document {
	l = l.Clone()
	return Document{
		UserID:      userID,
		Name:        l.Name,
		Quantity:    l.Quantity,
		Description: l.Description,
		ChildItems:  l.ChildItems,
	}
}

// ToList normalizes the document into the local List shape. Server-side
// timestamps and the owner field are dropped.
func (d Document) ToList() List {
	items := make([]LineItem, len(d.ChildItems))
	copy(items, d.ChildItems)
	return List{
		ID:          d.ID,
		Name:        d.Name,
		Quantity:    d.Quantity,
		Description: d.Description,
		ChildItems:  items,
	}
}

// DocumentPatch is the body of a partial document update. Nil fields are
// left untouched by the store.
type DocumentPatch struct {
	ListUpdate
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Apply returns a copy of d with the patch applied.
func (p DocumentPatch) Apply(d Document) Document {
	l := p.ListUpdate.Apply(d.ToList())
	d.Name = l.Name
	d.Quantity = l.Quantity
	d.Description = l.Description
	d.ChildItems = l.ChildItems
	if p.UpdatedAt != nil {
		ts := *p.UpdatedAt
		d.UpdatedAt = &ts
	}
	return d
}

// CreatedResponse is returned by the remote store after a successful create.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ChangeSet is one push notification of the change feed: the full current
// result set of the subscribed query.
type ChangeSet struct {
	Owner     string     `json:"owner"`
	Documents []Document `json:"documents"`
}
