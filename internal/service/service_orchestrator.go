// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/store"
	"github.com/avandres/counttrack/models"
)

// orchestrator drives sync cycles against the remote store and owns the
// sync state machine. All triggers — the periodic scheduler tick, the
// manual HTTP trigger and initial sync — funnel through the same mutex,
// so at most one cycle is in flight regardless of how many goroutines
// ask for one.
type orchestrator struct {
	settings  store.SettingsRepository
	changelog store.ChangelogRepository
	records   store.RecordRepository
	gateway   adapter.RemoteGateway
	resolver  Resolver
	logger    *logger.Logger

	// cycleMu is the single in-flight guard. TryLock keeps rejected
	// triggers from blocking: a second trigger returns ErrSyncBusy
	// immediately and causes no network activity.
	cycleMu sync.Mutex

	stateMu      sync.RWMutex
	state        models.SyncState
	lastErr      error
	shuttingDown bool
}

// NewOrchestrator constructs an [Orchestrator]. The initial state is
// disabled until the first RefreshState or cycle observes an enabled,
// valid configuration.
func NewOrchestrator(
	storages *store.Storages,
	gateway adapter.RemoteGateway,
	resolver Resolver,
	log *logger.Logger,
) Orchestrator {
	return &orchestrator{
		settings:  storages.Settings,
		changelog: storages.Changelog,
		records:   storages.Records,
		gateway:   gateway,
		resolver:  resolver,
		logger:    log,
		state:     models.StateDisabled,
	}
}

// State implements [Orchestrator].
func (o *orchestrator) State() models.SyncState {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.state
}

// LastError implements [Orchestrator].
func (o *orchestrator) LastError() string {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	if o.lastErr == nil {
		return ""
	}
	return o.lastErr.Error()
}

// Shutdown implements [Orchestrator].
func (o *orchestrator) Shutdown() {
	o.stateMu.Lock()
	o.shuttingDown = true
	o.stateMu.Unlock()
}

// RefreshState implements [Orchestrator]. It only moves between resting
// states; a running cycle owns the state until it finishes.
func (o *orchestrator) RefreshState(ctx context.Context) {
	if o.State() == models.StateSyncing {
		return
	}

	cfg, err := o.settings.Get(ctx)
	if err != nil {
		o.logger.Err(err).Str("func", "orchestrator.RefreshState").Msg("failed to read sync settings")
		return
	}

	switch {
	case !cfg.Enabled || !cfg.IsConfigured():
		o.setState(models.StateDisabled, nil)
	case o.State() == models.StateDisabled:
		// enabled + configured, waking from disabled
		o.setState(models.StateIdle, nil)
	}
}

// RunCycle implements [Orchestrator]. One cycle, in order: re-read
// config, collect local changes, push, pull, reconcile, advance the
// watermark. The watermark only moves after both push and pull fully
// succeed, so no partial cycle is ever reported as success.
func (o *orchestrator) RunCycle(ctx context.Context) (models.SyncSummary, error) {
	if err := o.acquireCycle(); err != nil {
		return models.SyncSummary{}, err
	}
	defer o.cycleMu.Unlock()

	cfg, err := o.checkConfig(ctx)
	if err != nil {
		return models.SyncSummary{}, err
	}

	log := o.logger.GetChildLogger()
	ctx = log.WithContext(ctx)

	o.setState(models.StateSyncing, nil)
	log.Info().Str("func", "orchestrator.RunCycle").Msg("sync cycle started")

	summary, err := o.cycle(ctx, cfg)
	if err != nil {
		o.fail(err)
		return summary, err
	}

	o.setState(models.StateIdle, nil)
	log.Info().
		Str("func", "orchestrator.RunCycle").
		Int("pushed", summary.Pushed).
		Int("pulled", summary.Pulled).
		Msg("sync cycle finished")

	return summary, nil
}

func (o *orchestrator) cycle(ctx context.Context, cfg models.SyncConfig) (models.SyncSummary, error) {
	since := watermark(cfg)

	local, err := o.changelog.CollectSince(ctx, since, cfg.InstanceID)
	if err != nil {
		return models.SyncSummary{}, fmt.Errorf("collect local changes: %w", err)
	}

	pushed, err := o.gateway.Push(ctx, cfg, local)
	if err != nil {
		// Stop before pulling: the watermark stays put, so nothing
		// unpushed gets marked as synced. Push is idempotent, so whatever
		// the remote already accepted is safe to re-send next cycle.
		return models.SyncSummary{}, fmt.Errorf("push: %w", err)
	}

	pulled, err := o.gateway.Pull(ctx, cfg, since)
	if err != nil {
		return models.SyncSummary{Pushed: pushed}, fmt.Errorf("pull: %w", err)
	}

	if err = o.reconcile(ctx, pulled); err != nil {
		return models.SyncSummary{Pushed: pushed}, err
	}

	latest := since
	latest = latestTimestamp(latest, local)
	latest = latestTimestamp(latest, pulled)
	if err = o.advanceWatermark(ctx, cfg, latest); err != nil {
		return models.SyncSummary{Pushed: pushed, Pulled: len(pulled)}, err
	}

	return models.SyncSummary{Pushed: pushed, Pulled: len(pulled)}, nil
}

// reconcile runs the conflict policy over pulled records and applies the
// winners locally. Records arrive ordered by UpdatedAt ascending.
func (o *orchestrator) reconcile(ctx context.Context, pulled []models.ChangeRecord) error {
	log := logger.FromContext(ctx)

	for _, remote := range pulled {
		local, found, err := o.records.Get(ctx, remote.Table, remote.RecordID)
		if err != nil {
			return fmt.Errorf("read local record %s/%s: %w", remote.Table, remote.RecordID, err)
		}

		if found && !o.resolver.RemoteWins(local, remote) {
			log.Debug().
				Str("func", "orchestrator.reconcile").
				Str("table", remote.Table).
				Str("record_id", remote.RecordID).
				Msg("local version wins, remote change skipped")
			continue
		}

		if err = o.records.Apply(ctx, remote); err != nil {
			// The offending record is reported, not silently dropped.
			return fmt.Errorf("apply %s/%s: %w", remote.Table, remote.RecordID, err)
		}
	}

	return nil
}

// InitialSync implements [Orchestrator].
func (o *orchestrator) InitialSync(ctx context.Context, mode models.InitialSyncMode) (models.SyncSummary, error) {
	if !models.ValidInitialSyncMode(mode) {
		return models.SyncSummary{}, fmt.Errorf("%w: %q", ErrUnknownInitialSyncMode, mode)
	}

	if err := o.acquireCycle(); err != nil {
		return models.SyncSummary{}, err
	}
	defer o.cycleMu.Unlock()

	cfg, err := o.checkConfig(ctx)
	if err != nil {
		return models.SyncSummary{}, err
	}

	log := o.logger.GetChildLogger()
	ctx = log.WithContext(ctx)

	o.setState(models.StateSyncing, nil)
	log.Info().Str("func", "orchestrator.InitialSync").Str("mode", string(mode)).Msg("initial sync started")

	var summary models.SyncSummary
	switch mode {
	case models.InitialPush:
		summary, err = o.initialPush(ctx, cfg)
	case models.InitialPull:
		summary, err = o.initialPull(ctx, cfg)
	case models.InitialMerge:
		summary, err = o.initialMerge(ctx, cfg)
	}

	if err != nil {
		o.fail(err)
		return summary, err
	}

	o.setState(models.StateIdle, nil)
	log.Info().
		Str("func", "orchestrator.InitialSync").
		Str("mode", string(mode)).
		Int("pushed", summary.Pushed).
		Int("pulled", summary.Pulled).
		Msg("initial sync finished")

	return summary, nil
}

// initialPush sends the full local data set, ignoring the remote.
func (o *orchestrator) initialPush(ctx context.Context, cfg models.SyncConfig) (models.SyncSummary, error) {
	all, err := o.records.ListAll(ctx)
	if err != nil {
		return models.SyncSummary{}, fmt.Errorf("list local records: %w", err)
	}

	pushed, err := o.gateway.Push(ctx, cfg, all)
	if err != nil {
		return models.SyncSummary{}, fmt.Errorf("push: %w", err)
	}

	latest := latestTimestamp(watermark(cfg), all)
	if err = o.advanceWatermark(ctx, cfg, latest); err != nil {
		return models.SyncSummary{Pushed: pushed}, err
	}

	return models.SyncSummary{Pushed: pushed}, nil
}

// initialPull overwrites the local data set with the full remote one.
func (o *orchestrator) initialPull(ctx context.Context, cfg models.SyncConfig) (models.SyncSummary, error) {
	remote, err := o.gateway.Pull(ctx, cfg, time.Time{})
	if err != nil {
		return models.SyncSummary{}, fmt.Errorf("pull: %w", err)
	}

	if err = o.records.ReplaceAll(ctx, remote); err != nil {
		return models.SyncSummary{}, fmt.Errorf("replace local records: %w", err)
	}

	latest := latestTimestamp(time.Time{}, remote)
	if err = o.advanceWatermark(ctx, cfg, latest); err != nil {
		return models.SyncSummary{Pulled: len(remote)}, err
	}

	return models.SyncSummary{Pulled: len(remote)}, nil
}

// initialMerge reconciles the full table set in both directions: remote
// winners are applied locally, then the merged local set is pushed. The
// remote applies pushes with the same last-write-wins rule, so re-sending
// records the remote already has newer versions of is harmless.
func (o *orchestrator) initialMerge(ctx context.Context, cfg models.SyncConfig) (models.SyncSummary, error) {
	remote, err := o.gateway.Pull(ctx, cfg, time.Time{})
	if err != nil {
		return models.SyncSummary{}, fmt.Errorf("pull: %w", err)
	}

	if err = o.reconcile(ctx, remote); err != nil {
		return models.SyncSummary{Pulled: len(remote)}, err
	}

	all, err := o.records.ListAll(ctx)
	if err != nil {
		return models.SyncSummary{Pulled: len(remote)}, fmt.Errorf("list local records: %w", err)
	}

	pushed, err := o.gateway.Push(ctx, cfg, all)
	if err != nil {
		return models.SyncSummary{Pulled: len(remote)}, fmt.Errorf("push: %w", err)
	}

	latest := watermark(cfg)
	latest = latestTimestamp(latest, remote)
	latest = latestTimestamp(latest, all)
	if err = o.advanceWatermark(ctx, cfg, latest); err != nil {
		return models.SyncSummary{Pushed: pushed, Pulled: len(remote)}, err
	}

	return models.SyncSummary{Pushed: pushed, Pulled: len(remote)}, nil
}

// acquireCycle enforces the single in-flight guard.
func (o *orchestrator) acquireCycle() error {
	o.stateMu.RLock()
	shuttingDown := o.shuttingDown
	o.stateMu.RUnlock()
	if shuttingDown {
		return ErrShuttingDown
	}

	if !o.cycleMu.TryLock() {
		return ErrSyncBusy
	}
	return nil
}

// checkConfig re-reads the configuration at the start of every cycle
// instead of caching it: an update that flips enablement or credentials
// invalidates whatever a previous cycle believed.
//
// Must be called with cycleMu held; on error the caller releases it via
// its deferred unlock.
func (o *orchestrator) checkConfig(ctx context.Context) (models.SyncConfig, error) {
	cfg, err := o.settings.Get(ctx)
	if err != nil {
		return models.SyncConfig{}, fmt.Errorf("read sync settings: %w", err)
	}

	if !cfg.Enabled {
		o.setState(models.StateDisabled, nil)
		return models.SyncConfig{}, ErrSyncDisabled
	}
	if !cfg.IsConfigured() {
		o.setState(models.StateDisabled, nil)
		return models.SyncConfig{}, ErrNotConfigured
	}

	return cfg, nil
}

// advanceWatermark persists the new lastSyncAt. Monotonic: never moves
// backwards, and never called unless the whole cycle succeeded.
func (o *orchestrator) advanceWatermark(ctx context.Context, cfg models.SyncConfig, latest time.Time) error {
	if latest.IsZero() || (cfg.LastSyncAt != nil && !latest.After(*cfg.LastSyncAt)) {
		return nil
	}

	if _, err := o.settings.Update(ctx, models.SyncConfigUpdate{LastSyncAt: &latest}); err != nil {
		return fmt.Errorf("advance watermark: %w", err)
	}
	return nil
}

// fail records the failure and picks the failure state: connectivity
// problems land in offline (the next tick retries on its own), anything
// else lands in error and waits for the user.
func (o *orchestrator) fail(err error) {
	state := models.StateError
	if errors.Is(err, adapter.ErrConnectivity) {
		state = models.StateOffline
	}

	o.logger.Err(err).
		Str("func", "orchestrator.fail").
		Str("state", string(state)).
		Msg("sync cycle failed")

	o.setState(state, err)
}

func (o *orchestrator) setState(state models.SyncState, err error) {
	o.stateMu.Lock()
	o.state = state
	o.lastErr = err
	o.stateMu.Unlock()
}

func watermark(cfg models.SyncConfig) time.Time {
	if cfg.LastSyncAt == nil {
		return time.Time{}
	}
	return *cfg.LastSyncAt
}

func latestTimestamp(base time.Time, records []models.ChangeRecord) time.Time {
	latest := base
	for _, rec := range records {
		if rec.UpdatedAt.After(latest) {
			latest = rec.UpdatedAt
		}
	}
	return latest
}
