// Package orchestrator sequences worktree, process and launcher operations
// into the high-level verbs the CLI and server expose: spawn a subagent,
// clean up a worktree, list worktrees with their agents.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/burrowtool/burrow/internal/launcher"
	"github.com/burrowtool/burrow/internal/procmon"
	"github.com/burrowtool/burrow/pkg/models"
)

// WorktreeStore is the slice of worktree management the orchestrator needs.
type WorktreeStore interface {
	ResolvePath(nameOrPath string) string
	Create(ctx context.Context, branchName, baseBranch, dirName string) (string, error)
	List(ctx context.Context) ([]models.WorktreeRecord, error)
	Remove(ctx context.Context, path string, force bool) error
	RemoveBranch(ctx context.Context, name string) error
	Prune(ctx context.Context) error
}

// AgentMonitor is the slice of process inspection the orchestrator needs.
type AgentMonitor interface {
	ListMatching(ctx context.Context, filter procmon.Filter) ([]models.AgentProcessRecord, error)
	Signal(pid int, force bool) bool
	Summarize(ctx context.Context) (models.AgentSummary, error)
}

// AgentRegistry resolves agent type names to spawners.
type AgentRegistry interface {
	Get(name string) (launcher.Spawner, error)
	DescribeAll(ctx context.Context) []models.AgentInfo
}

// Orchestrator wires the store, monitor and registry together.
type Orchestrator struct {
	store    WorktreeStore
	monitor  AgentMonitor
	registry AgentRegistry
	logger   *DebugLogger
}

// New creates an Orchestrator. A nil logger disables debug tracing.
func New(store WorktreeStore, monitor AgentMonitor, registry AgentRegistry, logger *DebugLogger) *Orchestrator {
	if logger == nil {
		logger = NopLogger()
	}
	return &Orchestrator{store: store, monitor: monitor, registry: registry, logger: logger}
}

// SpawnRequest describes one subagent to start.
type SpawnRequest struct {
	// BranchName is the branch to create (or reattach) for the worktree.
	BranchName string
	// BaseBranch is the branch to fork from; empty means the current branch.
	BaseBranch string
	// DirName overrides the worktree directory name; empty means BranchName.
	DirName string
	// Prompt is the task description delivered to the agent's stdin.
	Prompt string
	// AgentType names the registered agent; empty picks the default.
	AgentType string
	// Options tune how the agent is launched.
	Options models.AgentOptions
}

// SpawnSubagent creates the branch and worktree, then launches the agent
// inside it. A spawn failure after worktree creation is returned as-is and
// the worktree stays on disk: the caller may retry the spawn or inspect the
// worktree, and Create converges on retry.
func (o *Orchestrator) SpawnSubagent(ctx context.Context, req SpawnRequest) (string, error) {
	opID := uuid.New().String()[:8]
	o.logger.Log("[%s] spawn requested: branch=%q base=%q agent=%q", opID, req.BranchName, req.BaseBranch, req.AgentType)

	spawner, err := o.registry.Get(req.AgentType)
	if err != nil {
		return "", err
	}

	worktreePath, err := o.store.Create(ctx, req.BranchName, req.BaseBranch, req.DirName)
	if err != nil {
		o.logger.Log("[%s] worktree creation failed: %v", opID, err)
		return "", err
	}
	o.logger.Log("[%s] worktree ready at %s", opID, worktreePath)

	if err := spawner.Spawn(ctx, worktreePath, req.Prompt, req.Options); err != nil {
		o.logger.Log("[%s] agent spawn failed, worktree kept at %s: %v", opID, worktreePath, err)
		return "", fmt.Errorf("spawn %s in %s: %w", spawner.Name(), worktreePath, err)
	}

	o.logger.Log("[%s] agent %s running in %s", opID, spawner.Name(), worktreePath)
	return fmt.Sprintf("spawned %s agent in worktree %s (branch %s)", spawner.Name(), worktreePath, req.BranchName), nil
}

// CleanupRequest describes one worktree teardown.
type CleanupRequest struct {
	// WorktreeNameOrPath is a worktree directory name or absolute path.
	WorktreeNameOrPath string
	// KillAgents terminates agents running in the worktree before removal.
	KillAgents bool
	// Force uses SIGKILL for agents and forces worktree removal.
	Force bool
	// RemoveBranch also deletes the worktree's branch after removal.
	RemoveBranch bool
}

// CleanupWorktree tears a worktree down. Agent kills are best-effort,
// worktree removal is fatal on failure, and branch deletion failures are
// reported in the result message without undoing the removal.
func (o *Orchestrator) CleanupWorktree(ctx context.Context, req CleanupRequest) (string, error) {
	opID := uuid.New().String()[:8]
	path := o.store.ResolvePath(req.WorktreeNameOrPath)
	o.logger.Log("[%s] cleanup requested: %s (kill=%v force=%v branch=%v)", opID, path, req.KillAgents, req.Force, req.RemoveBranch)

	branch := o.findBranch(ctx, path)

	killed := 0
	if req.KillAgents {
		agents, err := o.monitor.ListMatching(ctx, procmon.Filter{WorktreePaths: []string{path}})
		if err != nil {
			o.logger.Log("[%s] agent listing failed, continuing without kills: %v", opID, err)
		}
		for _, agent := range agents {
			if o.monitor.Signal(agent.PID, req.Force) {
				killed++
				o.logger.Log("[%s] signalled %s (pid %d)", opID, agent.Name, agent.PID)
			}
		}
	}

	if err := o.store.Remove(ctx, path, req.Force); err != nil {
		o.logger.Log("[%s] worktree removal failed: %v", opID, err)
		return "", err
	}
	o.logger.Log("[%s] worktree removed: %s", opID, path)

	result := fmt.Sprintf("removed worktree %s (terminated %d agents)", path, killed)
	if req.RemoveBranch {
		switch {
		case branch == "":
			result += "; branch unknown, not removed"
		default:
			if err := o.store.RemoveBranch(ctx, branch); err != nil {
				o.logger.Log("[%s] branch removal failed: %v", opID, err)
				result += fmt.Sprintf("; branch %s not removed: %v", branch, err)
			} else {
				result += fmt.Sprintf("; branch %s removed", branch)
			}
		}
	}

	if err := o.store.Prune(ctx); err != nil {
		o.logger.Log("[%s] prune failed: %v", opID, err)
	}

	return result, nil
}

// findBranch looks up the branch checked out at path, if the worktree is
// still registered. Empty when unknown.
func (o *Orchestrator) findBranch(ctx context.Context, path string) string {
	records, err := o.store.List(ctx)
	if err != nil {
		return ""
	}
	for _, rec := range records {
		if rec.Path == path {
			return rec.Branch
		}
	}
	return ""
}

// ListRequest controls the worktree listing.
type ListRequest struct {
	// IncludeAgents attaches the agents running inside each worktree.
	IncludeAgents bool
	// Filter narrows which agents are attached.
	Filter procmon.Filter
}

// ListWorktrees enumerates worktrees, optionally joined with the agents
// whose working directory sits under each worktree's path.
func (o *Orchestrator) ListWorktrees(ctx context.Context, req ListRequest) ([]models.WorktreeStatus, error) {
	records, err := o.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var agents []models.AgentProcessRecord
	if req.IncludeAgents {
		agents, err = o.monitor.ListMatching(ctx, req.Filter)
		if err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
	}

	statuses := make([]models.WorktreeStatus, 0, len(records))
	for _, rec := range records {
		status := models.WorktreeStatus{Worktree: rec}
		for _, agent := range agents {
			if agent.Cwd == rec.Path || strings.HasPrefix(agent.Cwd, rec.Path+"/") {
				status.Agents = append(status.Agents, agent)
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// SummarizeAgents aggregates the current agent population.
func (o *Orchestrator) SummarizeAgents(ctx context.Context) (models.AgentSummary, error) {
	return o.monitor.Summarize(ctx)
}

// DescribeAgents reports the registered agent types and their availability.
func (o *Orchestrator) DescribeAgents(ctx context.Context) []models.AgentInfo {
	return o.registry.DescribeAll(ctx)
}
