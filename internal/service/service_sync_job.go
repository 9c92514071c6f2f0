package service

import (
	"context"
	"sync"
	"time"
)

type syncJob struct {
	orch Orchestrator

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that calls orch.RunCycle on a ticker. The
// job is idle until Start is called.
func NewSyncJob(orch Orchestrator) SyncJob {
	return &syncJob{orch: orch}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a background goroutine that runs a cycle every interval. If
// interval is zero or negative it defaults to 15 seconds. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				// Rejections are part of normal operation here: disabled
				// means sync is switched off, busy means a manual trigger
				// beat the ticker. The orchestrator logs real failures.
				_, _ = j.orch.RunCycle(jobCtx)
			}
		}
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the
// job is not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
