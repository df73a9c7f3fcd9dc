package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

const defaultRefreshInterval = 5 * time.Minute

type refreshJob struct {
	lists    ListService
	userID   string
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a refreshJob that reloads userID's Snapshot from the
// remote store every interval, bypassing the cache. If interval is zero or
// negative it defaults to 5 minutes. The job is idle until Start is called.
func NewRefreshJob(lists ListService, userID string, interval time.Duration) RefreshJob {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &refreshJob{lists: lists, userID: userID, interval: interval}
}

// Start implements RefreshJob. It stops any previously running job, then
// launches a background goroutine that refreshes every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *refreshJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.lists.GetUserItems(jobCtx, j.userID, false); err != nil {
					logger.FromContext(jobCtx).Warn().Err(err).
						Str("func", "refreshJob.Start").
						Str("user_id", j.userID).
						Msg("periodic refresh failed")
				}
			}
		}
	}()
}

// Stop implements RefreshJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
