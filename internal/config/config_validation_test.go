package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, defaultDBPath, cfg.Storage.DBPath)
	assert.Equal(t, defaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, defaultNetworkTimeout, cfg.Sync.NetworkTimeout)
	assert.Equal(t, defaultRequestTimeout, cfg.Server.RequestTimeout)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Server:  Server{HTTPAddress: "0.0.0.0:7777"},
		Storage: Storage{DBPath: "/data/ct.db"},
		Sync:    Sync{Interval: time.Minute, NetworkTimeout: 3 * time.Second},
	}
	cfg.applyDefaults()

	assert.Equal(t, "0.0.0.0:7777", cfg.Server.HTTPAddress)
	assert.Equal(t, "/data/ct.db", cfg.Storage.DBPath)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 3*time.Second, cfg.Sync.NetworkTimeout)
}

func TestValidate(t *testing.T) {
	valid := &Config{}
	valid.applyDefaults()
	require.NoError(t, valid.validate())

	noStorage := &Config{}
	noStorage.applyDefaults()
	noStorage.Storage.DBPath = ""
	assert.ErrorIs(t, noStorage.validate(), ErrInvalidStorageConfigs)

	noServer := &Config{}
	noServer.applyDefaults()
	noServer.Server.HTTPAddress = ""
	assert.ErrorIs(t, noServer.validate(), ErrInvalidServerConfigs)

	badSync := &Config{}
	badSync.applyDefaults()
	badSync.Sync.Interval = -time.Second
	assert.ErrorIs(t, badSync.validate(), ErrInvalidSyncConfigs)
}
