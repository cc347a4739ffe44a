// Package launcher starts coding agent processes inside worktrees. Each
// agent type is a Spawner; the Registry maps type names to spawners so new
// agents plug in without touching callers.
package launcher

import (
	"context"

	"github.com/burrowtool/burrow/pkg/models"
)

// Spawner launches one kind of coding agent.
type Spawner interface {
	// Name returns the agent type name used for registry lookup.
	Name() string
	// Available reports whether the agent can be spawned on this host.
	Available(ctx context.Context) bool
	// Spawn starts the agent in worktreePath and delivers prompt on its
	// stdin. Honors opts.Wait and opts.Detach; a non-zero exit under Wait
	// surfaces as *ProcessExitError.
	Spawn(ctx context.Context, worktreePath, prompt string, opts models.AgentOptions) error
	// Describe returns metadata about the agent, including availability
	// and, best-effort, its version.
	Describe(ctx context.Context) models.AgentInfo
}
