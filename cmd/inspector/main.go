/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the PyPI Inspector. Provides the
serve command for running the web interface and the view command for decoding
local files, with configuration management and advanced logging capabilities.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/pypi-inspector/cmd/inspector/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Server configuration
	listenAddr   string
	indexURL     string
	filesHost    string
	fetchTimeout time.Duration

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "pypi-inspector",
		Short: "PyPI Inspector - Browse the contents of packages published on PyPI",
		Long: `PyPI Inspector is a web service for inspecting the contents of packages
published on PyPI. It lists a project's releases and distribution files, opens
wheel and sdist archives, and renders individual files through a fallback
decoder that recovers text from legacy encodings.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))

	// Add serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspector web service",
		Long: `Run the inspector web service. The server lists projects, releases, and
distribution files from the index, and renders archive members through the
fallback decoder. It shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: commands.RunServe,
	}

	// Add serve command flags
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&indexURL, "index-url", "https://pypi.org", "Base URL of the package index")
	serveCmd.Flags().StringVar(&filesHost, "files-host", "https://files.pythonhosted.org", "Base URL of the artifact host")
	serveCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 60*time.Second, "Timeout for artifact downloads")

	// Bind flags to viper
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("index_url", serveCmd.Flags().Lookup("index-url"))
	viper.BindPFlag("files_host", serveCmd.Flags().Lookup("files-host"))
	viper.BindPFlag("fetch_timeout", serveCmd.Flags().Lookup("fetch-timeout"))

	rootCmd.AddCommand(serveCmd)

	// Add view command
	viewCmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Decode a local file through the fallback decoder",
		Long: `Decode a local file through the fallback decoder and print the recovered
text along with the encoding that accepted it. Binary files are reported as
unsupported.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunView,
	}

	// Add view command flags
	viewCmd.Flags().Bool("details", false, "Print file details instead of contents")
	viper.BindPFlag("details", viewCmd.Flags().Lookup("details"))

	rootCmd.AddCommand(viewCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
