package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandres/counttrack/models"
)

// spyOrchestrator counts RunCycle calls.
type spyOrchestrator struct {
	calls atomic.Int64
	err   error
}

func (s *spyOrchestrator) RunCycle(context.Context) (models.SyncSummary, error) {
	s.calls.Add(1)
	return models.SyncSummary{}, s.err
}

func (s *spyOrchestrator) InitialSync(context.Context, models.InitialSyncMode) (models.SyncSummary, error) {
	return models.SyncSummary{}, nil
}

func (s *spyOrchestrator) State() models.SyncState      { return models.StateIdle }
func (s *spyOrchestrator) LastError() string            { return "" }
func (s *spyOrchestrator) RefreshState(context.Context) {}
func (s *spyOrchestrator) Shutdown()                    {}

func TestSyncJob_Start_RunsCycles(t *testing.T) {
	spy := &spyOrchestrator{}
	job := NewSyncJob(spy)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "expected several ticks, got %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spyOrchestrator{}
	job := NewSyncJob(spy)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	callsLater := spy.calls.Load()

	assert.Equal(t, callsAfterStop, callsLater, "no ticks may run after Stop")
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(&spyOrchestrator{})

	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_Restart_ReplacesPreviousRun(t *testing.T) {
	spy := &spyOrchestrator{}
	job := NewSyncJob(spy)
	ctx := context.Background()

	job.Start(ctx, 10*time.Millisecond)
	job.Start(ctx, 10*time.Millisecond) // must stop the first run, not leak it
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	require.Greater(t, spy.calls.Load(), int64(0))
}

func TestSyncJob_ContextCancelStopsTicks(t *testing.T) {
	spy := &spyOrchestrator{}
	job := NewSyncJob(spy)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	callsAfterCancel := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterCancel, spy.calls.Load())

	job.Stop()
}
