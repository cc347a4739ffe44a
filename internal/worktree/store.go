// Package worktree translates worktree lifecycle operations into git
// primitives. The repository itself is the only source of truth: every
// listing is recomputed from `git worktree list` rather than cached.
package worktree

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/burrowtool/burrow/internal/git"
	"github.com/burrowtool/burrow/pkg/models"
)

// Store manages worktree and branch state for one repository. Worktrees are
// created as sibling directories under the repository's parent.
type Store struct {
	repoPath string
	git      git.Runner
}

// New creates a Store for the repository at repoPath. Fails with
// ErrNotAGitRepository if the path is not inside a git repository.
func New(repoPath string) (*Store, error) {
	if !git.IsRepository(repoPath) {
		return nil, fmt.Errorf("%w: %s", ErrNotAGitRepository, repoPath)
	}
	return &Store{repoPath: repoPath, git: git.NewRunner(repoPath)}, nil
}

// NewWithRunner creates a Store with a custom git runner (for testing).
// Repository validation is skipped.
func NewWithRunner(repoPath string, runner git.Runner) *Store {
	return &Store{repoPath: repoPath, git: runner}
}

// ResolvePath turns a worktree name or path into an absolute path. Bare
// names resolve to a sibling directory of the repository.
func (s *Store) ResolvePath(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) {
		return filepath.Clean(nameOrPath)
	}
	return filepath.Join(filepath.Dir(s.repoPath), nameOrPath)
}

// Create creates a branch + worktree pair and returns the worktree path.
//
// The base branch resolves from the explicit baseBranch argument, falling
// back to the repository's current branch. If branchName already exists
// locally, the existing branch is checked out into the new worktree instead
// of failing, so retried spawn calls converge. If the worktree directory
// already exists on disk, its path is returned as-is — callers must not
// assume the returned path is freshly empty.
func (s *Store) Create(ctx context.Context, branchName, baseBranch, dirName string) (string, error) {
	if branchName == "" {
		return "", ErrInvalidBranchName
	}

	parent := filepath.Dir(s.repoPath)
	if parent == s.repoPath {
		return "", fmt.Errorf("%w: %s", ErrNoParentDirectory, s.repoPath)
	}

	base, err := s.resolveBase(ctx, baseBranch)
	if err != nil {
		return "", err
	}

	exists, err := s.git.BranchExists(ctx, branchName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVCSQuery, err)
	}
	if exists {
		log.Printf("[worktree] branch %q already exists, checking it out instead of creating", branchName)
	} else {
		if err := s.git.CreateBranchAt(ctx, branchName, base); err != nil {
			return "", fmt.Errorf("create branch %q from %q: %w", branchName, base, err)
		}
	}

	if dirName == "" {
		dirName = branchName
	}
	worktreePath := filepath.Join(parent, dirName)

	if _, err := os.Stat(worktreePath); err == nil {
		log.Printf("[worktree] directory already exists, reusing: %s", worktreePath)
		return worktreePath, nil
	}

	if err := s.git.WorktreeAdd(ctx, worktreePath, branchName); err != nil {
		return "", fmt.Errorf("add worktree at %s: %w", worktreePath, err)
	}
	return worktreePath, nil
}

// resolveBase picks the base branch for Create. An explicit base must exist
// locally or on a remote; an empty base resolves to the current branch.
func (s *Store) resolveBase(ctx context.Context, baseBranch string) (string, error) {
	if baseBranch == "" {
		current, err := s.git.CurrentBranch(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: determine current branch: %v", ErrVCSQuery, err)
		}
		return current, nil
	}

	local, err := s.git.BranchExists(ctx, baseBranch)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVCSQuery, err)
	}
	if local {
		return baseBranch, nil
	}
	remote, err := s.git.RemoteBranchExists(ctx, baseBranch)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVCSQuery, err)
	}
	if !remote {
		return "", fmt.Errorf("%w: %q", ErrBaseBranchNotFound, baseBranch)
	}
	return baseBranch, nil
}

// List enumerates all worktrees of the repository in git's native order.
func (s *Store) List(ctx context.Context) ([]models.WorktreeRecord, error) {
	output, err := s.git.WorktreeListPorcelain(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVCSQuery, err)
	}
	return parseWorktreeList(output), nil
}

// parseWorktreeList parses the output of `git worktree list --porcelain`.
// Each stanza starts with a "worktree " line; "HEAD " and "branch " lines
// are optional (detached worktrees carry no branch line).
func parseWorktreeList(output string) []models.WorktreeRecord {
	var records []models.WorktreeRecord
	var current *models.WorktreeRecord

	flush := func() {
		if current != nil {
			records = append(records, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &models.WorktreeRecord{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD ") && current != nil:
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch ") && current != nil:
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		}
	}
	flush()

	return records
}

// Remove unregisters and deletes the worktree at the given path. The branch
// is left alone; branch deletion is a separate, explicitly requested step.
func (s *Store) Remove(ctx context.Context, path string, force bool) error {
	if err := s.git.WorktreeRemove(ctx, path, force); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "is not a working tree") {
			return fmt.Errorf("%w: %s", ErrWorktreeNotFound, path)
		}
		// Uncommitted changes, locked worktrees and permission problems all
		// surface here; keep git's stderr so the caller can see which.
		return fmt.Errorf("%w: %v", ErrRemovalBlocked, err)
	}
	return nil
}

// RemoveBranch force-deletes a local branch. Fails with ErrBranchCheckedOut
// when the branch is still checked out in any worktree.
func (s *Store) RemoveBranch(ctx context.Context, name string) error {
	exists, err := s.git.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVCSQuery, err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", ErrBranchNotFound, name)
	}

	if err := s.git.DeleteBranch(ctx, name); err != nil {
		if strings.Contains(err.Error(), "checked out at") {
			return fmt.Errorf("%w: %q", ErrBranchCheckedOut, name)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	return nil
}

// Prune clears stale worktree administrative entries. Best effort: errors
// are returned for logging but never block cleanup.
func (s *Store) Prune(ctx context.Context) error {
	return s.git.WorktreePrune(ctx)
}
