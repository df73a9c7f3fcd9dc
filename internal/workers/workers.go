package workers

import (
	"context"
	"sync"
)

type Workers struct {
	workers []Worker

	mu      sync.Mutex
	started bool
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Start starts every worker once; repeated calls are ignored until Stop.
func (w *Workers) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	w.started = true

	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse order.
func (w *Workers) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.started = false

	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
