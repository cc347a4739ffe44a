// Package server exposes the orchestrator over MCP. This is the composition
// root: it builds the concrete store, monitor and registry, wires them into
// the orchestrator, and registers one tool per orchestrator verb. No
// business logic lives here.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/launcher"
	"github.com/burrowtool/burrow/internal/orchestrator"
	"github.com/burrowtool/burrow/internal/procmon"
	"github.com/burrowtool/burrow/internal/worktree"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server for the repository at repoPath with the spawn,
// cleanup and list tools registered.
//
// The returned cleanup function closes the debug log and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(repoPath string, cfg *config.Config) (*server.MCPServer, func(), error) {
	store, err := worktree.New(repoPath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open repository: %w", err)
	}

	logger := orchestrator.NopLogger()
	if cfg.Logging.Debug {
		logger = orchestrator.NewDebugLoggerForRepo(repoPath)
	}

	orch := orchestrator.New(
		store,
		procmon.NewMonitor(repoPath),
		launcher.NewRegistry(),
		logger,
	)

	s := server.NewMCPServer(
		"burrow",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	spawnTool := NewSpawnTool(orch, cfg)
	s.AddTool(spawnTool.Definition(), spawnTool.Handle)

	cleanupTool := NewCleanupTool(orch)
	s.AddTool(cleanupTool.Definition(), cleanupTool.Handle)

	listTool := NewListTool(orch)
	s.AddTool(listTool.Definition(), listTool.Handle)

	// Stdout belongs to the MCP transport; warnings go to stderr.
	cleanup := func() {
		if err := logger.Close(); err != nil {
			log.Printf("WARNING: debug log close: %v", err)
		}
	}
	return s, cleanup, nil
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// serverInstructions tells the client how to use the tools together.
func serverInstructions() string {
	return `Burrow manages subagents working in isolated git worktrees.

Use spawn_subagent to hand a task to a coding agent: it creates a branch
and a sibling worktree, then starts the agent there with your prompt.
Use list_worktrees to see every worktree and the agents running in each.
Use cleanup_worktree when a task is done: it terminates the worktree's
agents, removes the worktree, and optionally deletes its branch.

Worktrees are created next to the repository, so parallel subagents never
touch each other's files.`
}
