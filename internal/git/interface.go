// Package git provides an interface for git operations.
package git

import "context"

// RepoOperations defines the interface for repository-level queries.
type RepoOperations interface {
	// CurrentBranch returns the name of the currently checked-out branch.
	CurrentBranch(ctx context.Context) (string, error)
}

// BranchOperations defines the interface for git branch operations.
type BranchOperations interface {
	// BranchExists returns true if the local branch exists.
	BranchExists(ctx context.Context, name string) (bool, error)
	// RemoteBranchExists returns true if any remote has the branch.
	RemoteBranchExists(ctx context.Context, name string) (bool, error)
	// CreateBranchAt creates a new branch pointing at the given base ref.
	CreateBranchAt(ctx context.Context, name, base string) error
	// DeleteBranch deletes the specified branch (force delete).
	DeleteBranch(ctx context.Context, name string) error
}

// WorktreeOperations defines the interface for git worktree operations.
type WorktreeOperations interface {
	// WorktreeAdd registers a new worktree at path checked out on branch.
	WorktreeAdd(ctx context.Context, path, branch string) error
	// WorktreeListPorcelain returns the raw porcelain listing output.
	WorktreeListPorcelain(ctx context.Context) (string, error)
	// WorktreeRemove removes the worktree at the given path, optionally with force.
	WorktreeRemove(ctx context.Context, path string, force bool) error
	// WorktreePrune removes stale worktree administrative entries.
	WorktreePrune(ctx context.Context) error
}

// Runner defines the complete interface for git operations.
// Consumers should prefer the focused interfaces when possible.
type Runner interface {
	RepoOperations
	BranchOperations
	WorktreeOperations
	// Run executes an arbitrary git command and returns its trimmed output.
	Run(ctx context.Context, args ...string) (string, error)
}
