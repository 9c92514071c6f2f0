package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/mock"
	"github.com/avandres/counttrack/models"
)

func TestStatusService_Snapshot(t *testing.T) {
	ctx := context.Background()
	lastSync := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	cfg := models.SyncConfig{
		Enabled:    true,
		InstanceID: "instance-aaa",
		LastSyncAt: &lastSync,
	}

	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	changelog := mock.NewMockChangelogRepository(ctrl)
	orch := mock.NewMockOrchestrator(ctrl)

	settings.EXPECT().Get(ctx).Return(cfg, nil)
	changelog.EXPECT().PendingCount(ctx, lastSync, "instance-aaa").Return(3, nil)
	orch.EXPECT().State().Return(models.StateIdle)
	orch.EXPECT().LastError().Return("")

	svc := NewStatusService(settings, changelog, orch, logger.Nop())

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSnapshot{
		Enabled:      true,
		State:        models.StateIdle,
		InstanceID:   "instance-aaa",
		LastSyncAt:   &lastSync,
		PendingCount: 3,
	}, snap)
}

func TestStatusService_Snapshot_NeverSynced(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	changelog := mock.NewMockChangelogRepository(ctrl)
	orch := mock.NewMockOrchestrator(ctrl)

	settings.EXPECT().Get(ctx).Return(models.SyncConfig{InstanceID: "instance-aaa"}, nil)
	// A nil watermark means "everything is pending": the count starts at
	// the zero time.
	changelog.EXPECT().PendingCount(ctx, time.Time{}, "instance-aaa").Return(12, nil)
	orch.EXPECT().State().Return(models.StateDisabled)
	orch.EXPECT().LastError().Return("")

	svc := NewStatusService(settings, changelog, orch, logger.Nop())

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Enabled)
	assert.Nil(t, snap.LastSyncAt)
	assert.Equal(t, 12, snap.PendingCount)
	assert.Equal(t, models.StateDisabled, snap.State)
}
