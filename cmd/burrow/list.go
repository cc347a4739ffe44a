package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/burrowtool/burrow/internal/orchestrator"
	"github.com/burrowtool/burrow/internal/procmon"
	"github.com/burrowtool/burrow/pkg/models"
)

var (
	listNoAgents bool
	listAll      bool
	listWaiting  bool
	listOutput   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List worktrees and the agents running in them",
	Long: `List the repository's worktrees together with the agent processes
working in each one.

By default only agents spawned by burrow are shown; --all widens the view
to every recognized agent process on the machine.

Examples:
  burrow list                 # Worktrees with burrow's own agents
  burrow list --all           # Include agents burrow did not start
  burrow list --waiting       # Only agents sitting at a terminal
  burrow list --output yaml   # Machine-readable output`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listNoAgents, "no-agents", false, "List worktrees only, skip the process scan")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include agents not spawned by burrow")
	listCmd.Flags().BoolVar(&listWaiting, "waiting", false, "Only show agents attached to a terminal")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format: text or yaml")
}

var (
	worktreeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	agentStyle    = lipgloss.NewStyle().PaddingLeft(2)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	waitingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func runList(cmd *cobra.Command, args []string) error {
	orch, cfg, cleanup, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer cleanup()

	onlyOurs := cfg.Monitor.OnlyOurs
	if listAll {
		onlyOurs = false
	}
	onlyWaiting := cfg.Monitor.OnlyWaiting
	if listWaiting {
		onlyWaiting = true
	}

	statuses, err := orch.ListWorktrees(cmd.Context(), orchestrator.ListRequest{
		IncludeAgents: !listNoAgents,
		Filter: procmon.Filter{
			OnlyOurs:    onlyOurs,
			OnlyWaiting: onlyWaiting,
		},
	})
	if err != nil {
		return err
	}

	switch listOutput {
	case "yaml":
		data, err := yaml.Marshal(statuses)
		if err != nil {
			return fmt.Errorf("encode listing: %w", err)
		}
		fmt.Print(string(data))
		return nil
	case "text":
		renderStatuses(statuses)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", listOutput)
	}
}

func renderStatuses(statuses []models.WorktreeStatus) {
	if len(statuses) == 0 {
		fmt.Println("No worktrees found.")
		return
	}

	for _, status := range statuses {
		line := worktreeStyle.Render(status.Worktree.Path)
		if status.Worktree.Branch != "" {
			line += " " + branchStyle.Render("["+status.Worktree.Branch+"]")
		} else {
			line += " " + dimStyle.Render("(detached)")
		}
		if status.Worktree.Commit != "" {
			line += " " + dimStyle.Render(shortCommit(status.Worktree.Commit))
		}
		fmt.Println(line)

		for _, agent := range status.Agents {
			detail := fmt.Sprintf("%s (pid %d, cpu %.1f%%, mem %s)",
				agent.Name, agent.PID, agent.CPUUsage, formatBytes(agent.MemoryUsage))
			if agent.WaitingForInput {
				detail += " " + waitingStyle.Render("waiting for input")
			}
			if agent.SpawnedByUs {
				detail += " " + dimStyle.Render("(ours)")
			}
			fmt.Println(agentStyle.Render(detail))
		}
	}
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
