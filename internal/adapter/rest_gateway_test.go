package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

func testGateway(t *testing.T) RemoteGateway {
	t.Helper()
	return NewRemoteGateway(GatewayConfig{Timeout: 2 * time.Second}, logger.Nop())
}

func testConfig(endpoint string) models.SyncConfig {
	return models.SyncConfig{
		Enabled:        true,
		RemoteEndpoint: endpoint,
		RestrictedKey:  "test-key",
		ElevatedKey:    "elevated-key",
		DatabaseDSN:    "postgres://example.invalid/ct",
		InstanceID:     "instance-a",
	}
}

func TestTestConnection_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ping", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ok, msg, err := testGateway(t).TestConnection(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, msg, "connected")
}

func TestTestConnection_AuthRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ok, _, err := testGateway(t).TestConnection(context.Background(), testConfig(srv.URL))
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrAuth)
}

func TestTestConnection_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	ok, _, err := testGateway(t).TestConnection(context.Background(), testConfig(srv.URL))
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrConnectivity)
}

func TestPush_SendsBatchAndReportsAccepted(t *testing.T) {
	var received pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/changes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pushResponse{Accepted: received.Length})
	}))
	defer srv.Close()

	records := []models.ChangeRecord{
		{Table: "clients", RecordID: "c-1", Op: models.OpCreate, Payload: json.RawMessage(`{"name":"Acme"}`), UpdatedAt: time.Now(), Origin: "instance-a"},
		{Table: "invoices", RecordID: "i-1", Op: models.OpDelete, UpdatedAt: time.Now(), Origin: "instance-a", Deleted: true},
	}

	accepted, err := testGateway(t).Push(context.Background(), testConfig(srv.URL), records)
	require.NoError(t, err)
	assert.Equal(t, 2, accepted)
	assert.Equal(t, 2, received.Length)
	assert.Len(t, received.Records, 2)
}

func TestPush_EmptyBatchSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty batch")
	}))
	defer srv.Close()

	accepted, err := testGateway(t).Push(context.Background(), testConfig(srv.URL), nil)
	require.NoError(t, err)
	assert.Zero(t, accepted)
}

func TestPull_PassesWatermarkAndExcludesOwnOrigin(t *testing.T) {
	since := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, since.Format(time.RFC3339Nano), r.URL.Query().Get("since"))
		assert.Equal(t, "instance-a", r.URL.Query().Get("exclude_origin"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pullResponse{
			Records: []models.ChangeRecord{
				{Table: "clients", RecordID: "c-9", Op: models.OpUpdate, UpdatedAt: since.Add(time.Minute), Origin: "instance-b"},
			},
			Length: 1,
		})
	}))
	defer srv.Close()

	records, err := testGateway(t).Pull(context.Background(), testConfig(srv.URL), since)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c-9", records[0].RecordID)
	assert.Equal(t, "instance-b", records[0].Origin)
}

func TestPull_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testGateway(t).Pull(context.Background(), testConfig(srv.URL), time.Time{})
	require.ErrorIs(t, err, ErrRemote)
}
