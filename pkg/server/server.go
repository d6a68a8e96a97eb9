/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server.go
Description: HTTP server for the PyPI Inspector. Wires the route table to the
registry client, artifact fetcher, and fallback decoder, and runs the listener
with graceful shutdown.
*/

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/pypi-inspector/pkg/charset"
	"github.com/kleascm/pypi-inspector/pkg/distribution"
	"github.com/kleascm/pypi-inspector/pkg/logging"
	"github.com/kleascm/pypi-inspector/pkg/pypi"
)

// DefaultFilesHost is the production artifact host.
const DefaultFilesHost = "https://files.pythonhosted.org"

// Config holds the server wiring.
type Config struct {
	Addr      string
	FilesHost string
	Client    *pypi.Client
	Fetcher   distribution.Fetcher
	Engine    *charset.Engine
	Logger    *logrus.Logger
	Access    *logging.Logger
}

// Server serves the inspector pages.
type Server struct {
	addr      string
	filesHost string
	client    *pypi.Client
	fetcher   distribution.Fetcher
	engine    *charset.Engine
	logger    *logrus.Logger
	access    *logging.Logger
	cache     distCache
}

// New creates a server from its wiring. Client, Fetcher and Engine are
// required; the remaining fields have working defaults.
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, errors.New("server: registry client is required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("server: artifact fetcher is required")
	}
	if cfg.Engine == nil {
		return nil, errors.New("server: decode engine is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.FilesHost == "" {
		cfg.FilesHost = DefaultFilesHost
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Access == nil {
		cfg.Access = logging.Wrap(cfg.Logger)
	}
	return &Server{
		addr:      cfg.Addr,
		filesHost: cfg.FilesHost,
		client:    cfg.Client,
		fetcher:   cfg.Fetcher,
		engine:    cfg.Engine,
		logger:    cfg.Logger,
		access:    cfg.Access,
		cache:     distCache{entries: make(map[string][]byte)},
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /project/{project}/{$}", s.handleVersions)
	mux.HandleFunc("GET /project/{project}/{version}/{$}", s.handleDistributions)
	mux.HandleFunc("GET /project/{project}/{version}/packages/{first}/{second}/{rest}/{distname}/{$}", s.handleDistribution)
	mux.HandleFunc("GET /project/{project}/{version}/packages/{first}/{second}/{rest}/{distname}/{filepath...}", s.handleFile)
	mux.HandleFunc("GET /_health/{$}", s.handleHealth)
	mux.HandleFunc("GET /robots.txt", s.handleRobots)

	return s.withRequestLogging(mux)
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("Server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
