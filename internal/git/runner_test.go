package git

import "testing"

func TestIsRepositoryFalseForPlainDirectory(t *testing.T) {
	if IsRepository(t.TempDir()) {
		t.Error("IsRepository() = true for an empty temp directory")
	}
}

func TestNewRunnerKeepsRepoPath(t *testing.T) {
	r := NewRunner("/some/repo")
	if r.repoPath != "/some/repo" {
		t.Errorf("repoPath = %q, want /some/repo", r.repoPath)
	}
}
