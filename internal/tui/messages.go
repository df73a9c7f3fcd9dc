package tui

import "github.com/MKhiriev/go-list-keeper/models"

// snapshotMsg is a server push.
type snapshotMsg struct {
	items models.Snapshot
}

type loadedMsg struct {
	items models.Snapshot
	err   error
}

// opDoneMsg ends a create, update or delete. status is shown on success.
type opDoneMsg struct {
	status string
	err    error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
