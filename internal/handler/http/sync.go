// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avand Res

package http

import (
	"encoding/json"
	"net/http"

	"github.com/avandres/counttrack/internal/logger"
	"github.com/avandres/counttrack/internal/utils"
	"github.com/avandres/counttrack/models"
)

// checkResponse is the body of the connection test and schema verify
// endpoints. Failure of the check itself (unreachable, rejected key) is a
// 200 with ok=false and the reason in message; only transport to the
// local API or an internal fault produces a non-2xx status.
type checkResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type initialSyncRequest struct {
	Mode models.InitialSyncMode `json:"mode"`
}

type portableConfigResponse struct {
	Portable string `json:"portable"`
}

type importConfigRequest struct {
	Portable string `json:"portable"`
}

func (h *Handler) getSyncConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	cfg, err := h.services.ConfigService.GetRedacted(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncConfig").Msg("error reading sync config")
		http.Error(w, "error reading sync config", statusFromError(err))
		return
	}

	utils.WriteJSON(w, cfg, http.StatusOK)
}

func (h *Handler) updateSyncConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var upd models.SyncConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Err(err).Str("func", "*Handler.updateSyncConfig").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cfg, err := h.services.ConfigService.Update(ctx, upd)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateSyncConfig").Msg("error updating sync config")
		http.Error(w, "error updating sync config", statusFromError(err))
		return
	}

	utils.WriteJSON(w, cfg.Redacted(), http.StatusOK)
}

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	snapshot, err := h.services.StatusService.Snapshot(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStatus").Msg("error building status snapshot")
		http.Error(w, "error building status snapshot", statusFromError(err))
		return
	}

	utils.WriteJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	summary, err := h.services.Orchestrator.RunCycle(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runSync").Msg("sync cycle failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, summary, http.StatusOK)
}

func (h *Handler) runInitialSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request initialSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.runInitialSync").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	summary, err := h.services.Orchestrator.InitialSync(ctx, request.Mode)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runInitialSync").Msg("initial sync failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, summary, http.StatusOK)
}

func (h *Handler) testConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ok, message, err := h.services.RemoteService.TestConnection(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.testConnection").Msg("connection test failed")
		utils.WriteJSON(w, checkResponse{OK: false, Message: err.Error()}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, checkResponse{OK: ok, Message: message}, http.StatusOK)
}

func (h *Handler) verifySchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	ok, message, err := h.services.RemoteService.VerifySchema(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.verifySchema").Msg("schema verification failed")
		utils.WriteJSON(w, checkResponse{OK: false, Message: err.Error()}, http.StatusOK)
		return
	}

	utils.WriteJSON(w, checkResponse{OK: ok, Message: message}, http.StatusOK)
}

func (h *Handler) exportConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	portable, err := h.services.ConfigService.Export(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.exportConfig").Msg("error exporting sync config")
		http.Error(w, "error exporting sync config", statusFromError(err))
		return
	}

	utils.WriteJSON(w, portableConfigResponse{Portable: portable}, http.StatusOK)
}

func (h *Handler) importConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request importConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Str("func", "*Handler.importConfig").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cfg, err := h.services.ConfigService.Import(ctx, request.Portable)
	if err != nil {
		log.Err(err).Str("func", "*Handler.importConfig").Msg("error importing sync config")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, cfg.Redacted(), http.StatusOK)
}
