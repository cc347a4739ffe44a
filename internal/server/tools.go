package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/burrowtool/burrow/internal/config"
	"github.com/burrowtool/burrow/internal/orchestrator"
	"github.com/burrowtool/burrow/internal/procmon"
	"github.com/burrowtool/burrow/pkg/models"
)

// SpawnTool exposes subagent spawning as an MCP tool.
type SpawnTool struct {
	orch *orchestrator.Orchestrator
	cfg  *config.Config
}

// NewSpawnTool creates the spawn_subagent tool.
func NewSpawnTool(orch *orchestrator.Orchestrator, cfg *config.Config) *SpawnTool {
	return &SpawnTool{orch: orch, cfg: cfg}
}

// Definition describes the spawn_subagent tool schema.
func (t *SpawnTool) Definition() mcp.Tool {
	return mcp.NewTool("spawn_subagent",
		mcp.WithDescription("Create a git worktree on a new branch and launch a coding agent in it with the given prompt. The worktree is created as a sibling directory of the repository."),
		mcp.WithString("branch_name",
			mcp.Required(),
			mcp.Description("Branch to create for the worktree. An existing branch is checked out instead of failing."),
		),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Task description delivered to the agent's stdin."),
		),
		mcp.WithString("base_branch",
			mcp.Description("Branch to fork from. Defaults to the repository's current branch."),
		),
		mcp.WithString("worktree_dir",
			mcp.Description("Directory name for the worktree. Defaults to the branch name."),
		),
		mcp.WithString("agent_type",
			mcp.Description("Registered agent type to launch. Defaults to cursor-agent."),
		),
		mcp.WithObject("agent_options",
			mcp.Description("Launch options: new_window (default true), wait (default true), detach (default false), custom_options (map of extra flag names to values)."),
		),
	)
}

// Handle runs one spawn request.
func (t *SpawnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	branchName, err := req.RequireString("branch_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spawnReq := orchestrator.SpawnRequest{
		BranchName: branchName,
		BaseBranch: req.GetString("base_branch", t.cfg.Defaults.BaseBranch),
		DirName:    req.GetString("worktree_dir", ""),
		Prompt:     prompt,
		AgentType:  req.GetString("agent_type", t.cfg.Defaults.Agent),
		Options:    t.parseAgentOptions(req),
	}

	result, err := t.orch.SpawnSubagent(ctx, spawnReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

// parseAgentOptions reads the optional agent_options object, falling back
// to the configured launch defaults field by field.
func (t *SpawnTool) parseAgentOptions(req mcp.CallToolRequest) models.AgentOptions {
	opts := t.cfg.AgentOptions()

	raw, ok := req.GetArguments()["agent_options"].(map[string]interface{})
	if !ok {
		return opts
	}
	if v, ok := raw["new_window"].(bool); ok {
		opts.NewWindow = v
	}
	if v, ok := raw["wait"].(bool); ok {
		opts.Wait = v
	}
	if v, ok := raw["detach"].(bool); ok {
		opts.Detach = v
	}
	if custom, ok := raw["custom_options"].(map[string]interface{}); ok {
		opts.CustomOptions = make(map[string]string, len(custom))
		for k, v := range custom {
			opts.CustomOptions[k] = fmt.Sprintf("%v", v)
		}
	}
	return opts
}

// CleanupTool exposes worktree teardown as an MCP tool.
type CleanupTool struct {
	orch *orchestrator.Orchestrator
}

// NewCleanupTool creates the cleanup_worktree tool.
func NewCleanupTool(orch *orchestrator.Orchestrator) *CleanupTool {
	return &CleanupTool{orch: orch}
}

// Definition describes the cleanup_worktree tool schema.
func (t *CleanupTool) Definition() mcp.Tool {
	return mcp.NewTool("cleanup_worktree",
		mcp.WithDescription("Remove a worktree, optionally terminating its agents and deleting its branch. Irreversible once the worktree is removed."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("worktree_name_or_path",
			mcp.Required(),
			mcp.Description("Worktree directory name (resolved as a repository sibling) or absolute path."),
		),
		mcp.WithBoolean("kill_agents",
			mcp.Description("Terminate agents running in the worktree first. Default false."),
		),
		mcp.WithBoolean("force",
			mcp.Description("Use SIGKILL for agents and force worktree removal past uncommitted changes. Default false."),
		),
		mcp.WithBoolean("remove_branch",
			mcp.Description("Also delete the worktree's branch. Default false."),
		),
	)
}

// Handle runs one cleanup request.
func (t *CleanupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nameOrPath, err := req.RequireString("worktree_name_or_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.orch.CleanupWorktree(ctx, orchestrator.CleanupRequest{
		WorktreeNameOrPath: nameOrPath,
		KillAgents:         req.GetBool("kill_agents", false),
		Force:              req.GetBool("force", false),
		RemoveBranch:       req.GetBool("remove_branch", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result), nil
}

// ListTool exposes the worktree + agent listing as an MCP tool.
type ListTool struct {
	orch *orchestrator.Orchestrator
}

// NewListTool creates the list_worktrees tool.
func NewListTool(orch *orchestrator.Orchestrator) *ListTool {
	return &ListTool{orch: orch}
}

// Definition describes the list_worktrees tool schema.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_worktrees",
		mcp.WithDescription("List the repository's worktrees, optionally with the agent processes running in each."),
		mcp.WithBoolean("include_agents",
			mcp.Description("Attach running agents to each worktree. Default true."),
		),
		mcp.WithBoolean("only_our_agents",
			mcp.Description("Only include agents spawned by this server. Default true."),
		),
		mcp.WithBoolean("only_waiting_agents",
			mcp.Description("Only include agents attached to a terminal, i.e. likely waiting for input. Default false."),
		),
		mcp.WithArray("agent_types",
			mcp.Description("Only include agents whose name matches one of these types."),
		),
		mcp.WithArray("worktree_paths",
			mcp.Description("Only include agents whose worktree path contains one of these substrings."),
		),
	)
}

// Handle runs one listing request. The response is a JSON array of
// worktrees, each with its branch, commit and matched agents.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listReq := orchestrator.ListRequest{
		IncludeAgents: req.GetBool("include_agents", true),
		Filter: procmon.Filter{
			OnlyOurs:      req.GetBool("only_our_agents", true),
			OnlyWaiting:   req.GetBool("only_waiting_agents", false),
			AgentTypes:    stringSlice(req.GetArguments()["agent_types"]),
			WorktreePaths: stringSlice(req.GetArguments()["worktree_paths"]),
		},
	}

	statuses, err := t.orch.ListWorktrees(ctx, listReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode listing: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringSlice coerces a JSON array argument into []string, skipping
// non-string elements.
func stringSlice(raw interface{}) []string {
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
