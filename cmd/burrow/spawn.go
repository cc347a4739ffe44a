package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/burrowtool/burrow/internal/orchestrator"
)

var (
	spawnBase     string
	spawnDir      string
	spawnAgent    string
	spawnNoWindow bool
	spawnNoWait   bool
	spawnDetach   bool
	spawnOpts     []string
)

var spawnCmd = &cobra.Command{
	Use:   "spawn <branch> <prompt...>",
	Short: "Create a worktree and launch an agent in it",
	Long: `Create a branch and a sibling worktree, then start a coding agent
there with the given prompt.

The branch is created from --base, or from the current branch when --base
is omitted. If the branch already exists it is checked out into the new
worktree instead of failing, so retrying a spawn converges.

Examples:
  burrow spawn feature-x "add retry logic to the fetcher"
  burrow spawn fix-123 --base main --agent claude "fix issue 123"
  burrow spawn exp-1 --detach "run the benchmark suite"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSpawn,
}

func init() {
	spawnCmd.Flags().StringVarP(&spawnBase, "base", "b", "", "Base branch to fork from (default: current branch)")
	spawnCmd.Flags().StringVarP(&spawnDir, "dir", "d", "", "Worktree directory name (default: branch name)")
	spawnCmd.Flags().StringVarP(&spawnAgent, "agent", "a", "", "Agent type to launch (default: from config)")
	spawnCmd.Flags().BoolVar(&spawnNoWindow, "no-window", false, "Do not ask the agent for a new window")
	spawnCmd.Flags().BoolVar(&spawnNoWait, "no-wait", false, "Do not block until the agent exits")
	spawnCmd.Flags().BoolVar(&spawnDetach, "detach", false, "Leave the agent running after burrow exits")
	spawnCmd.Flags().StringSliceVarP(&spawnOpts, "opt", "o", nil, "Extra agent flag as key=value (repeatable)")
}

func runSpawn(cmd *cobra.Command, args []string) error {
	orch, cfg, cleanup, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := cfg.AgentOptions()
	if spawnNoWindow {
		opts.NewWindow = false
	}
	if spawnNoWait {
		opts.Wait = false
	}
	if spawnDetach {
		opts.Detach = true
	}
	for _, kv := range spawnOpts {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			return fmt.Errorf("invalid --opt %q, expected key=value", kv)
		}
		if opts.CustomOptions == nil {
			opts.CustomOptions = make(map[string]string)
		}
		opts.CustomOptions[key] = value
	}

	agentType := spawnAgent
	if agentType == "" {
		agentType = cfg.Defaults.Agent
	}
	base := spawnBase
	if base == "" {
		base = cfg.Defaults.BaseBranch
	}

	result, err := orch.SpawnSubagent(cmd.Context(), orchestrator.SpawnRequest{
		BranchName: args[0],
		BaseBranch: base,
		DirName:    spawnDir,
		Prompt:     strings.Join(args[1:], " "),
		AgentType:  agentType,
		Options:    opts,
	})
	if err != nil {
		return err
	}

	color.Green("%s", result)
	return nil
}
