package main

import (
	"github.com/spf13/cobra"

	"github.com/HendryAvila/plane-mcp/internal/config"
)

var (
	configFile string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "plane-mcp",
	Short: "MCP server for the Plane issue tracker",
	Long: `plane-mcp exposes Plane tickets to MCP hosts over stdio.

Tickets are addressed by display ID (e.g. SBS-123) and workflow states by
name. Settings come from PLANE_* environment variables, an optional .env
file and an optional plane-mcp.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./plane-mcp.yaml or ~/.plane-mcp/plane-mcp.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides PLANE_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings from the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
