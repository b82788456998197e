package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/plane-mcp/internal/logging"
	planeserver "github.com/HendryAvila/plane-mcp/internal/server"
	"github.com/HendryAvila/plane-mcp/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// stdout carries the MCP stream; everything else goes to stderr.
		logger := logging.Setup(os.Stderr, cfg.LogLevel)
		logger.Info("starting plane-mcp",
			"base_url", cfg.BaseURL,
			"workspace", cfg.Workspace,
			"api_key", logging.MaskSecret(cfg.APIKey),
		)
		if cfg.APIKey == "" {
			logger.Warn("PLANE_API_KEY is not set; every Plane call will fail with an authentication error")
		}

		s, cleanup, err := planeserver.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		defer cleanup()

		go checkForUpdates(cmd.Context())

		return server.ServeStdio(s)
	},
}

// checkForUpdates prints a notice to stderr when a newer release exists.
func checkForUpdates(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := updater.CheckVersion(ctx, planeserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
