package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/orchestrator"
)

var (
	cleanupKill         bool
	cleanupForce        bool
	cleanupRemoveBranch bool
	cleanupYes          bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <worktree>",
	Short: "Remove a worktree and optionally its branch",
	Long: `Remove a worktree, optionally terminating its agents first and
deleting its branch afterwards.

The worktree argument is a directory name (resolved next to the
repository) or an absolute path.

Examples:
  burrow cleanup feature-x                     # Remove the worktree only
  burrow cleanup feature-x --kill              # Terminate its agents first
  burrow cleanup feature-x --remove-branch -y  # Also delete the branch, no prompt
  burrow cleanup feature-x --force             # SIGKILL agents, discard changes`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupKill, "kill", "k", false, "Terminate agents running in the worktree first")
	cleanupCmd.Flags().BoolVarP(&cleanupForce, "force", "f", false, "SIGKILL agents and remove the worktree despite uncommitted changes")
	cleanupCmd.Flags().BoolVar(&cleanupRemoveBranch, "remove-branch", false, "Also delete the worktree's branch")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "Skip confirmation prompt")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	orch, _, cleanup, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer cleanup()

	if !cleanupYes {
		fmt.Printf("Remove worktree %q", args[0])
		if cleanupRemoveBranch {
			fmt.Print(" and its branch")
		}
		fmt.Print("? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cleanup cancelled.")
			return nil
		}
	}

	result, err := orch.CleanupWorktree(cmd.Context(), orchestrator.CleanupRequest{
		WorktreeNameOrPath: args[0],
		KillAgents:         cleanupKill,
		Force:              cleanupForce,
		RemoveBranch:       cleanupRemoveBranch,
	})
	if err != nil {
		return err
	}

	color.Green("%s", result)
	return nil
}
