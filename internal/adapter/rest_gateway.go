// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/models"
)

// GatewayConfig carries process-level settings of the gateway. Connection
// settings (endpoint, keys) arrive per call inside models.SyncConfig.
type GatewayConfig struct {
	// Timeout bounds every remote call. A timeout is classified as a
	// connectivity failure, not an error.
	Timeout time.Duration
}

// restGateway is the HTTP implementation of [RemoteGateway]'s data plane.
// Schema verification lives in schema_pg.go and goes straight to the
// remote database, because the REST surface only exposes data operations.
type restGateway struct {
	client  *resty.Client
	timeout time.Duration
	logger  *logger.Logger
}

// NewRemoteGateway constructs a [RemoteGateway] with the given settings.
func NewRemoteGateway(cfg GatewayConfig, log *logger.Logger) RemoteGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cli := resty.New().SetTimeout(cfg.Timeout)

	return &restGateway{client: cli, timeout: cfg.Timeout, logger: log}
}

// pushRequest is the wire payload of a push batch.
type pushRequest struct {
	Records []models.ChangeRecord `json:"records"`
	Length  int                   `json:"length"`
}

// pushResponse reports how many records the remote accepted.
type pushResponse struct {
	Accepted int `json:"accepted"`
}

// pullResponse is the wire payload of a pull.
type pullResponse struct {
	Records []models.ChangeRecord `json:"records"`
	Length  int                   `json:"length"`
}

// TestConnection implements [RemoteGateway].
func (g *restGateway) TestConnection(ctx context.Context, cfg models.SyncConfig) (bool, string, error) {
	log := logger.FromContext(ctx)

	resp, err := g.request(ctx, cfg).Get(endpoint(cfg, "/api/ping"))
	if err != nil {
		classified := classifyTransportError(err)
		log.Err(classified).Str("func", "restGateway.TestConnection").Msg("ping failed")
		return false, "remote store unreachable", classified
	}
	if err = mapHTTPError(resp); err != nil {
		return false, "remote store refused the connection test", err
	}

	return true, fmt.Sprintf("connected; %s", describeCredential(cfg.RestrictedKey)), nil
}

// Push implements [RemoteGateway].
func (g *restGateway) Push(ctx context.Context, cfg models.SyncConfig, records []models.ChangeRecord) (int, error) {
	log := logger.FromContext(ctx)

	if len(records) == 0 {
		return 0, nil
	}

	var result pushResponse
	resp, err := g.request(ctx, cfg).
		SetBody(pushRequest{Records: records, Length: len(records)}).
		SetResult(&result).
		Post(endpoint(cfg, "/api/changes"))
	if err != nil {
		classified := classifyTransportError(err)
		log.Err(classified).Str("func", "restGateway.Push").Int("records", len(records)).Msg("push failed in transport")
		return 0, classified
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "restGateway.Push").Int("records", len(records)).Msg("remote rejected push")
		return 0, err
	}

	log.Debug().Str("func", "restGateway.Push").Int("accepted", result.Accepted).Msg("push accepted")
	return result.Accepted, nil
}

// Pull implements [RemoteGateway].
func (g *restGateway) Pull(ctx context.Context, cfg models.SyncConfig, since time.Time) ([]models.ChangeRecord, error) {
	log := logger.FromContext(ctx)

	var result pullResponse
	resp, err := g.request(ctx, cfg).
		SetQueryParam("since", since.UTC().Format(time.RFC3339Nano)).
		SetQueryParam("exclude_origin", cfg.InstanceID).
		SetResult(&result).
		Get(endpoint(cfg, "/api/changes"))
	if err != nil {
		classified := classifyTransportError(err)
		log.Err(classified).Str("func", "restGateway.Pull").Msg("pull failed in transport")
		return nil, classified
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "restGateway.Pull").Msg("remote rejected pull")
		return nil, err
	}

	log.Debug().Str("func", "restGateway.Pull").Int("records", len(result.Records)).Msg("pull complete")
	return result.Records, nil
}

func (g *restGateway) request(ctx context.Context, cfg models.SyncConfig) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Api-Key", cfg.RestrictedKey).
		SetHeader("X-Instance-Id", cfg.InstanceID)
}

func endpoint(cfg models.SyncConfig, path string) string {
	return strings.TrimRight(cfg.RemoteEndpoint, "/") + path
}
