package http

import (
	"errors"
	"net/http"

	"github.com/avandres/counttrack/internal/adapter"
	"github.com/avandres/counttrack/internal/service"
	"github.com/avandres/counttrack/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrSyncBusy:               http.StatusConflict,
	service.ErrSyncDisabled:           http.StatusConflict,
	service.ErrNotConfigured:          http.StatusPreconditionFailed,
	service.ErrShuttingDown:           http.StatusServiceUnavailable,
	service.ErrUnknownInitialSyncMode: http.StatusBadRequest,
	service.ErrMalformedConfig:        http.StatusBadRequest,
	service.ErrUnsupportedVersion:     http.StatusBadRequest,
	service.ErrDecodeFailure:          http.StatusUnprocessableEntity,

	adapter.ErrConnectivity: http.StatusServiceUnavailable,
	adapter.ErrAuth:         http.StatusBadGateway,
	adapter.ErrSchema:       http.StatusBadGateway,
	adapter.ErrRemote:       http.StatusBadGateway,

	store.ErrUnknownTable:       http.StatusBadRequest,
	store.ErrSettingsNotSaved:   http.StatusInternalServerError,
	store.ErrApply:              http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
