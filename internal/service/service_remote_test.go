package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/mock"
	"github.com/avandres/counttrack/models"
)

func newRemoteService(t *testing.T) (*mock.MockSettingsRepository, *mock.MockRemoteGateway, RemoteService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	gateway := mock.NewMockRemoteGateway(ctrl)
	return settings, gateway, NewRemoteService(settings, gateway, logger.Nop())
}

func TestRemoteService_TestConnection(t *testing.T) {
	ctx := context.Background()
	cfg := configFixture()

	settings, gateway, svc := newRemoteService(t)
	settings.EXPECT().Get(ctx).Return(cfg, nil)
	gateway.EXPECT().TestConnection(ctx, cfg).Return(true, "connected, key valid until 2027-01-01", nil)

	ok, message, err := svc.TestConnection(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, message, "connected")
}

func TestRemoteService_TestConnection_NotConfigured(t *testing.T) {
	ctx := context.Background()

	settings, _, svc := newRemoteService(t)
	settings.EXPECT().Get(ctx).Return(models.SyncConfig{}, nil)

	_, _, err := svc.TestConnection(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRemoteService_VerifySchema(t *testing.T) {
	ctx := context.Background()
	cfg := configFixture()

	settings, gateway, svc := newRemoteService(t)
	settings.EXPECT().Get(ctx).Return(cfg, nil)
	gateway.EXPECT().VerifySchema(ctx, cfg).Return(true, "created 1 table, added 0 columns", nil)

	ok, message, err := svc.VerifySchema(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, message)
}

func TestRemoteService_VerifySchema_AuthFailure(t *testing.T) {
	ctx := context.Background()
	cfg := configFixture()

	settings, gateway, svc := newRemoteService(t)
	settings.EXPECT().Get(ctx).Return(cfg, nil)
	gateway.EXPECT().VerifySchema(ctx, cfg).Return(false, "", adapter.ErrAuth)

	ok, _, err := svc.VerifySchema(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, adapter.ErrAuth)
}
