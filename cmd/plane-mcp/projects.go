package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/plane-mcp/internal/projects"
	"github.com/HendryAvila/plane-mcp/internal/tools"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Print the known Plane projects and their states as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		registry, err := projects.Default()
		if cfg.ProjectsFile != "" {
			registry, err = projects.LoadFile(cfg.ProjectsFile)
		}
		if err != nil {
			return fmt.Errorf("loading project table: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tools.SummarizeProjects(registry))
	},
}
