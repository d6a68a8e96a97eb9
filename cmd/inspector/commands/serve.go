/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: serve.go
Description: Serve command implementation for the PyPI Inspector. Wires the
decode engine, registry client, and artifact fetcher into the HTTP server and
runs it with graceful shutdown on SIGINT and SIGTERM.
*/

package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/pypi-inspector/pkg/charset"
	"github.com/kleascm/pypi-inspector/pkg/distribution"
	"github.com/kleascm/pypi-inspector/pkg/logging"
	"github.com/kleascm/pypi-inspector/pkg/pypi"
	"github.com/kleascm/pypi-inspector/pkg/server"
)

// RunServe runs the inspector web service
func RunServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create the file-backed logger
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    logging.LogFormat(viper.GetString("log_format")),
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  viper.GetInt("log_max_files"),
		MaxSize:   viper.GetInt64("log_max_size"),
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	log := logger.GetLogger()

	// The decode engine validates its candidate registry at startup.
	// A bad registry is a deployment fault, not a per-request error.
	engine, err := charset.NewDefaultEngine()
	if err != nil {
		return fmt.Errorf("failed to create decode engine: %w", err)
	}
	engine.SetLogger(log)

	fetchTimeout := viper.GetDuration("fetch_timeout")
	client := pypi.NewClient(viper.GetString("index_url"), fetchTimeout)
	client.SetLogger(log)

	fetcher := distribution.NewHTTPFetcher(fetchTimeout)
	fetcher.SetLogger(logger)

	srv, err := server.New(server.Config{
		Addr:      viper.GetString("addr"),
		FilesHost: viper.GetString("files_host"),
		Client:    client,
		Fetcher:   fetcher,
		Engine:    engine,
		Logger:    log,
		Access:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	// Rotate and prune the log directory on the way out.
	manager := logging.NewLogManager(
		viper.GetString("log_dir"),
		viper.GetInt("log_max_files"),
		viper.GetInt64("log_max_size"),
		viper.GetBool("log_compress"),
	)
	if err := manager.RotateLogs(); err != nil {
		logger.Warning("Failed to rotate logs", map[string]interface{}{"error": err.Error()})
	}
	if err := manager.CleanupOldLogs(); err != nil {
		logger.Warning("Failed to clean up logs", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server stopped")
	return nil
}
