// plane-mcp: MCP server for the Plane issue tracker.
//
// It lets any MCP host (Claude Desktop, Cursor, VS Code Copilot, ...) read
// and edit Plane tickets by their display ID (SBS-123) and state name.
//
// Usage:
//
//	plane-mcp serve              # Start MCP server (stdio transport)
//	plane-mcp projects           # Print the known projects as JSON
//	plane-mcp version --check    # Print the version and look for updates
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
