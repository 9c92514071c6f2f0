package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/avandres/counttrack/internal/config"
	"github.com/avandres/counttrack/internal/logger"
)

// server runs the local HTTP boundary and shuts it down on SIGINT,
// SIGTERM or SIGQUIT. The onShutdown hook runs before the HTTP listener
// closes so background work (the sync scheduler, a cycle in flight) can
// wind down first.
type server struct {
	httpServer *httpServer
	onShutdown func()
	logger     *logger.Logger
}

func NewServer(handler http.Handler, cfg config.Server, onShutdown func(), logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handler, cfg, logger),
		onShutdown: onShutdown,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")
}

func (s *server) Shutdown() {
	if s.onShutdown != nil {
		s.onShutdown()
	}

	s.httpServer.Shutdown()
}
