package models

// WorktreeRecord describes one git worktree as reported by the repository.
// Records are recomputed from `git worktree list --porcelain` on every
// listing; nothing here is persisted by burrow itself.
type WorktreeRecord struct {
	// Path is the absolute filesystem path of the worktree.
	Path string `json:"path" yaml:"path"`
	// Branch is the checked-out branch name, empty for a detached HEAD.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	// Commit is the commit the worktree currently points at, when known.
	Commit string `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// WorktreeStatus pairs a worktree with the agent processes currently
// associated with it. Agents is nil when agent inspection was not requested.
type WorktreeStatus struct {
	Worktree WorktreeRecord       `json:"worktree" yaml:"worktree"`
	Agents   []AgentProcessRecord `json:"agents,omitempty" yaml:"agents,omitempty"`
}
