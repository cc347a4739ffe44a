package worktree

import "errors"

// Sentinel errors for worktree and branch operations. Callers match with
// errors.Is; the wrapped message carries git's own diagnostics.
var (
	// ErrNotAGitRepository indicates the configured root is not a git repository.
	ErrNotAGitRepository = errors.New("not a git repository")
	// ErrInvalidBranchName indicates an empty or unusable branch name.
	ErrInvalidBranchName = errors.New("invalid branch name")
	// ErrBaseBranchNotFound indicates the requested base branch exists
	// neither locally nor on any remote.
	ErrBaseBranchNotFound = errors.New("base branch not found")
	// ErrVCSQuery indicates the repository metadata could not be read.
	ErrVCSQuery = errors.New("git query failed")
	// ErrWorktreeNotFound indicates the path is not a registered worktree.
	ErrWorktreeNotFound = errors.New("worktree not found")
	// ErrRemovalBlocked indicates filesystem state (permissions, uncommitted
	// changes) prevented worktree removal.
	ErrRemovalBlocked = errors.New("worktree removal blocked")
	// ErrBranchNotFound indicates the branch does not exist locally.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrBranchCheckedOut indicates the branch is checked out in a worktree
	// and cannot be deleted.
	ErrBranchCheckedOut = errors.New("branch is checked out")
	// ErrNoParentDirectory indicates the repository root has no parent
	// directory to host sibling worktrees.
	ErrNoParentDirectory = errors.New("repository has no parent directory")
)
