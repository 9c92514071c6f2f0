package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapHTTPError converts a non-2xx response from the remote data plane into
// one of the adapter failure classes.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", ErrAuth, resp.StatusCode(), body)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: http %d: %s", ErrConnectivity, resp.StatusCode(), body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrRemote, resp.StatusCode(), body)
	}
}

// classifyTransportError wraps a transport-level failure (no HTTP response
// was received) into a failure class. Timeouts, DNS errors and refused
// connections are all connectivity: a later retry may fix them without
// user action.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		// resty surfaces url.Error for dial failures, which implements
		// net.Error and is caught above; anything left is connectivity too
		// (the request never reached the remote).
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
}

// classifyPgError wraps a failure from the schema plane. Authentication
// and privilege problems are auth failures; everything else from the
// connection path is connectivity; SQL-level failures are schema failures.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if isPgAuthCode(pgErr.Code) {
			return fmt.Errorf("%w: %s", ErrAuth, pgErr.Message)
		}
		return fmt.Errorf("%w: %s (%s)", ErrSchema, pgErr.Message, pgErr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	return fmt.Errorf("%w: %w", ErrConnectivity, err)
}

func isPgAuthCode(code string) bool {
	switch code {
	case pgerrcode.InvalidPassword,
		pgerrcode.InvalidAuthorizationSpecification,
		pgerrcode.InsufficientPrivilege:
		return true
	}
	return false
}
