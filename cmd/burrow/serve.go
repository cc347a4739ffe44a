package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the spawn/list/cleanup tools over MCP on stdio",
	Long: `Run burrow as an MCP server on stdin/stdout.

Clients get three tools: spawn_subagent, list_worktrees and
cleanup_worktree, all operating on the repository containing the current
directory. Register burrow in your client's MCP config with:

  {"command": "burrow", "args": ["serve"]}`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	repoPath, err := findGitRoot(cwd)
	if err != nil {
		return fmt.Errorf("find git repository: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	s, cleanup, err := server.New(repoPath, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return server.ServeStdio(s)
}
