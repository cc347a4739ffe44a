package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Show registered agent types and the running agent population",
	Long: `Show every registered agent type with its availability and version,
followed by a summary of agent processes currently running on this
machine.`,
	RunE: runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	orch, _, cleanup, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("Registered agents:")
	for _, info := range orch.DescribeAgents(cmd.Context()) {
		status := color.RedString("unavailable")
		if info.Available {
			status = color.GreenString("available")
			if info.Version != "" {
				status += fmt.Sprintf(" (%s)", info.Version)
			}
		}
		fmt.Printf("  %-14s %s  %s\n", info.Name, status, info.Description)
	}

	summary, err := orch.SummarizeAgents(cmd.Context())
	if err != nil {
		return fmt.Errorf("summarize agents: %w", err)
	}

	fmt.Println()
	fmt.Printf("Running agents: %d (%d spawned by burrow, %d waiting for input)\n",
		summary.TotalAgents, summary.SpawnedByUs, summary.WaitingForInput)
	if summary.TotalAgents > 0 {
		fmt.Printf("Total usage: %.1f%% cpu, %s memory\n",
			summary.TotalCPUUsage, formatBytes(summary.TotalMemory))
		for name, count := range summary.AgentTypes {
			fmt.Printf("  %-14s %d\n", name, count)
		}
	}
	return nil
}
