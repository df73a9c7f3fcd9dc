// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// journalWorker пишет события старта и остановки в общий журнал.
type journalWorker struct {
	id      int
	journal *[]string
	ctx     context.Context
}

func (j *journalWorker) Start(ctx context.Context) {
	j.ctx = ctx
	*j.journal = append(*j.journal, fmt.Sprintf("start %d", j.id))
}

func (j *journalWorker) Stop() {
	*j.journal = append(*j.journal, fmt.Sprintf("stop %d", j.id))
}

func newJournal(n int) (*Workers, *[]string, []*journalWorker) {
	journal := &[]string{}
	list := make([]*journalWorker, n)
	ws := make([]Worker, n)
	for i := range n {
		list[i] = &journalWorker{id: i + 1, journal: journal}
		ws[i] = list[i]
	}
	return New(ws...), journal, list
}

func TestWorkers_StartInOrderStopInReverse(t *testing.T) {
	ws, journal, _ := newJournal(3)

	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"start 1", "start 2", "start 3", "stop 3", "stop 2", "stop 1"}, *journal)
}

func TestWorkers_PassesContext(t *testing.T) {
	ws, _, list := newJournal(2)
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "app")

	ws.Start(ctx)
	defer ws.Stop()

	for _, w := range list {
		assert.Equal(t, "app", w.ctx.Value(ctxKey{}))
	}
}

func TestWorkers_RepeatedCallsAreIgnored(t *testing.T) {
	ws, journal, _ := newJournal(1)

	ws.Stop() // ещё не запущены
	ws.Start(context.Background())
	ws.Start(context.Background())
	ws.Stop()
	ws.Stop()

	assert.Equal(t, []string{"start 1", "stop 1"}, *journal)
}

func TestWorkers_Restart(t *testing.T) {
	ws, journal, _ := newJournal(1)

	ws.Start(context.Background())
	ws.Stop()
	ws.Start(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"start 1", "stop 1", "start 1", "stop 1"}, *journal)
}

func TestWorkers_Empty(t *testing.T) {
	ws := New()

	assert.NotPanics(t, func() {
		ws.Start(context.Background())
		ws.Stop()
	})
}
