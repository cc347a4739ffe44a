package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/launcher"
	"github.com/burrowtool/burrow/internal/orchestrator"
	"github.com/burrowtool/burrow/internal/procmon"
	"github.com/burrowtool/burrow/internal/worktree"
)

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Subagent orchestrator for git worktrees",
	Long: `Burrow hands tasks to coding agents, each isolated in its own git
worktree on its own branch, so parallel agents never touch each other's
files.

Core capabilities:
- Spawns agents in sibling worktrees created from any base branch
- Tracks agent processes per worktree, including which ones it started
- Tears worktrees down cleanly, terminating agents and pruning branches
- Serves the same operations to MCP clients over stdio`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildOrchestrator assembles the orchestrator for the repository
// containing the current directory. The returned cleanup function closes
// the debug log.
func buildOrchestrator() (*orchestrator.Orchestrator, *config.Config, func(), error) {
	noop := func() {}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, noop, fmt.Errorf("get working directory: %w", err)
	}
	repoPath, err := findGitRoot(cwd)
	if err != nil {
		return nil, nil, noop, fmt.Errorf("find git repository: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, noop, fmt.Errorf("load config: %w", err)
	}

	store, err := worktree.New(repoPath)
	if err != nil {
		return nil, nil, noop, err
	}

	logger := orchestrator.NopLogger()
	if cfg.Logging.Debug {
		logger = orchestrator.NewDebugLoggerForRepo(repoPath)
	}

	orch := orchestrator.New(store, procmon.NewMonitor(repoPath), launcher.NewRegistry(), logger)
	cleanup := func() { logger.Close() }
	return orch, cfg, cleanup, nil
}

// findGitRoot finds the root of the git repository starting from the given
// directory.
func findGitRoot(startDir string) (string, error) {
	dir := startDir
	for {
		// .git is a directory in a normal checkout and a file in a linked
		// worktree; both mark a repository root.
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a git repository")
		}
		dir = parent
	}
}
