// Package tui is the terminal front end of the list client.
//
// It is a single bubbletea program: a list screen, a detail screen with the
// line items of one list, input forms and a few overlays. All data access
// goes through [service.ListService]; server pushes arrive through
// [TUI.Notify].
package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/models"
)

type TUI struct {
	lists  service.ListService
	userID string
	build  models.AppBuildInfo

	mu      sync.Mutex
	program *tea.Program

	logger *logger.Logger
}

func New(lists service.ListService, userID string, build models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		lists:  lists,
		userID: userID,
		build:  build,
		logger: logger,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	p := tea.NewProgram(newModel(ctx, t.lists, t.userID, t.build), tea.WithAltScreen(), tea.WithContext(ctx))

	t.mu.Lock()
	t.program = p
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("ui stopped with error")
	}
	return err
}

// Notify hands a server snapshot to the running program. Without a running
// program the snapshot is dropped: the list screen loads its own on start.
func (t *TUI) Notify(snapshot models.Snapshot) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()

	if p == nil {
		return
	}
	p.Send(snapshotMsg{items: snapshot})
}
