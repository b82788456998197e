package main

import (
	"fmt"

	"github.com/spf13/cobra"

	planeserver "github.com/HendryAvila/plane-mcp/internal/server"
	"github.com/HendryAvila/plane-mcp/internal/updater"
)

var checkLatest bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the plane-mcp version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "plane-mcp v%s\n", planeserver.Version)
		if !checkLatest {
			return nil
		}

		result := updater.CheckVersion(cmd.Context(), planeserver.Version)
		switch {
		case result.LatestVersion == "":
			fmt.Fprintln(out, "Could not reach GitHub to check for updates.")
		case result.UpdateAvailable:
			fmt.Fprintf(out, "Update available: v%s\nRelease: %s\n", result.LatestVersion, result.ReleaseURL)
		default:
			fmt.Fprintln(out, "Already at the latest version.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "query GitHub for a newer release")
}
