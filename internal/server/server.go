// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the concrete Plane client, the
// tracker service and the optional journal, then injects them into the
// tools, prompts and resources. No business logic lives here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/plane-mcp/internal/config"
	"github.com/HendryAvila/plane-mcp/internal/journal"
	"github.com/HendryAvila/plane-mcp/internal/plane"
	"github.com/HendryAvila/plane-mcp/internal/projects"
	"github.com/HendryAvila/plane-mcp/internal/prompts"
	"github.com/HendryAvila/plane-mcp/internal/resources"
	"github.com/HendryAvila/plane-mcp/internal/tools"
	"github.com/HendryAvila/plane-mcp/internal/tracker"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every tool, prompt and resource
// registered.
//
// The returned cleanup function closes the journal and must be called on
// shutdown. It is always non-nil and safe to call even when the journal
// is disabled or failed to open.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := loadRegistry(cfg.ProjectsFile)
	if err != nil {
		return nil, noop, fmt.Errorf("loading project table: %w", err)
	}

	client := plane.NewClient(plane.Config{
		BaseURL:   cfg.BaseURL,
		Workspace: cfg.Workspace,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.Timeout,
		UserAgent: "plane-mcp/" + Version,
	})
	svc := tracker.NewService(registry, client)

	s := server.NewMCPServer(
		"plane-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(registry)),
		server.WithToolHandlerMiddleware(logToolCalls(logger)),
	)

	// --- Activity journal ---
	//
	// Optional subsystem: when it cannot open, the Plane tools keep working
	// and plane_recent_activity is not registered.

	cleanup := noop
	var observer tools.ActivityObserver
	if cfg.Journal.Enabled {
		store, jerr := journal.New(journal.Config{DataDir: cfg.Journal.Dir, Version: Version})
		if jerr != nil {
			logger.Warn("journal disabled", "dir", cfg.Journal.Dir, "err", jerr)
		} else {
			cleanup = func() {
				if err := store.Close(); err != nil {
					logger.Warn("journal close", "err", err)
				}
			}
			// Assigned only when non-nil so the interface never holds a typed nil.
			if bridge := tools.NewJournalBridge(store, logger); bridge != nil {
				observer = bridge
			}
			activityTool := tools.NewRecentActivityTool(store)
			s.AddTool(activityTool.Definition(), activityTool.Handle)
		}
	}

	registerPlaneTools(s, svc, registry, observer)

	// --- Prompts ---

	briefPrompt := prompts.NewBriefPrompt()
	s.AddPrompt(briefPrompt.Definition(), briefPrompt.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(registry)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)

	logger.Info("server ready",
		"version", Version,
		"workspace", cfg.Workspace,
		"projects", strings.Join(registry.Codes(), ","),
		"journal", observer != nil,
	)

	return s, cleanup, nil
}

// noop is the default cleanup when the journal is not open.
func noop() {}

func loadRegistry(path string) (*projects.Registry, error) {
	if path == "" {
		return projects.Default()
	}
	return projects.LoadFile(path)
}

// registerPlaneTools registers the issue, comment, link and project tools.
func registerPlaneTools(s *server.MCPServer, svc tools.Tracker, registry *projects.Registry, observer tools.ActivityObserver) {
	codes := registry.Codes()

	// --- Issues ---
	listIssues := tools.NewListIssuesTool(svc, codes)
	s.AddTool(listIssues.Definition(), listIssues.Handle)

	getIssue := tools.NewGetIssueTool(svc)
	s.AddTool(getIssue.Definition(), getIssue.Handle)

	createIssue := tools.NewCreateIssueTool(svc, codes, observer)
	s.AddTool(createIssue.Definition(), createIssue.Handle)

	updateIssue := tools.NewUpdateIssueTool(svc, observer)
	s.AddTool(updateIssue.Definition(), updateIssue.Handle)

	deleteIssue := tools.NewDeleteIssueTool(svc, observer)
	s.AddTool(deleteIssue.Definition(), deleteIssue.Handle)

	// --- Comments ---
	listComments := tools.NewListCommentsTool(svc)
	s.AddTool(listComments.Definition(), listComments.Handle)

	addComment := tools.NewAddCommentTool(svc, observer)
	s.AddTool(addComment.Definition(), addComment.Handle)

	// --- Links ---
	listLinks := tools.NewListLinksTool(svc)
	s.AddTool(listLinks.Definition(), listLinks.Handle)

	addLink := tools.NewAddLinkTool(svc, observer)
	s.AddTool(addLink.Definition(), addLink.Handle)

	// --- Project table ---
	projectsTool := tools.NewProjectsTool(registry)
	s.AddTool(projectsTool.Definition(), projectsTool.Handle)
}

// logToolCalls logs every tool call with its duration and outcome.
func logToolCalls(logger *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)

			attrs := []any{"tool", req.Params.Name, "duration", time.Since(start)}
			switch {
			case err != nil:
				logger.Error("tool call failed", append(attrs, "err", err)...)
			case res != nil && res.IsError:
				logger.Info("tool call returned error", attrs...)
			default:
				logger.Debug("tool call", attrs...)
			}
			return res, err
		}
	}
}

func serverInstructions(registry *projects.Registry) string {
	return fmt.Sprintf(`You have access to plane-mcp, a bridge to the Plane issue tracker.

## TICKETS

Tickets are addressed by their display ID: PROJECT-NUMBER (e.g. SBS-123).
Known project codes: %s. Call plane_list_projects for their workflow states.

## STATES

States are always given and returned by NAME (e.g. "Todo", "In Progress").
Names are project-specific and case-sensitive. An unknown state name is
rejected with the list of valid names; pick one of those and retry.

## TOOLS

Read:
- plane_list_issues: issues of one project, optionally filtered by state and priority
- plane_get_issue: full details of one ticket
- plane_list_comments, plane_list_links: discussion and external links of a ticket
- plane_list_projects: the known projects and their states

Write:
- plane_create_issue: new ticket (defaults: state "Todo", priority "none")
- plane_update_issue: change only the fields you pass; pass null for a date to clear it
- plane_add_comment: HTML comment on a ticket
- plane_add_link: attach a URL to a ticket
- plane_delete_issue: permanent; confirm with the user first

## ERRORS

Failures come back as tool errors starting with one of:
"Not Found:", "Authentication Failed:", "Validation Error:", "Plane API Error:",
"Invalid input:" or "Error:". Authentication failures mean PLANE_API_KEY is
missing or wrong; tell the user instead of retrying.`, strings.Join(registry.Codes(), ", "))
}
