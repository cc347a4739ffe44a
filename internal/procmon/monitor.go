package procmon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/burrowtool/burrow/pkg/models"
)

// agentNames is the substring allow-list for classifying a process as a
// coding agent or editor. Matched case-insensitively against the process
// name only, so "Cursor Helper" matches "cursor" but a shell running a
// script under a "code" directory does not. Agents hiding behind an
// interpreter name (a node-wrapped CLI reports as "node") are missed;
// that false negative is a known limit of name-based matching.
var agentNames = []string{
	"cursor", "cursor-agent", "code", "vim", "nvim", "emacs", "sublime",
	"zed", "lapce", "helix", "kakoune", "webstorm", "intellij", "pycharm",
	"goland", "fleet", "claude", "codex", "gemini", "opencode", "amp",
	"aider",
}

// spawnMarkers are command-line tokens our own launcher always passes.
// A process counts as ours only when its cwd is a sibling worktree AND
// one of these appears in its argv.
var spawnMarkers = []string{"--new-window", "--wait", "cursor-agent"}

// Filter narrows a snapshot to the caller's interest. Zero value matches
// every classified agent.
type Filter struct {
	// OnlyOurs keeps only processes we spawned ourselves.
	OnlyOurs bool
	// OnlyWaiting keeps only processes attached to a terminal stdin.
	OnlyWaiting bool
	// AgentTypes keeps processes whose name matches any entry exactly
	// (case-insensitive). Empty means all types.
	AgentTypes []string
	// WorktreePaths keeps processes whose worktree path contains any entry
	// as a substring. Empty means all worktrees.
	WorktreePaths []string
}

// Monitor classifies live processes against one repository. Every query
// re-reads the process table; nothing is retained between calls.
type Monitor struct {
	repoPath string
	platform Platform
}

// NewMonitor creates a Monitor for the repository at repoPath using the
// OS-native platform backend.
func NewMonitor(repoPath string) *Monitor {
	return &Monitor{repoPath: filepath.Clean(repoPath), platform: defaultPlatform()}
}

// NewMonitorWithPlatform creates a Monitor with a custom platform backend
// (for testing).
func NewMonitorWithPlatform(repoPath string, platform Platform) *Monitor {
	return &Monitor{repoPath: filepath.Clean(repoPath), platform: platform}
}

// Snapshot walks the process table and returns every process classified as
// an agent, sorted by PID. Per-process read failures are skipped: processes
// exit at any time and partial visibility is expected.
func (m *Monitor) Snapshot(ctx context.Context) ([]models.AgentProcessRecord, error) {
	pids, err := m.platform.ListPIDs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var records []models.AgentProcessRecord
	for _, pid := range pids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, ok := m.classify(pid)
		if ok {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].PID < records[j].PID })
	return records, nil
}

// classify reads one process and decides whether it is an agent. ok is
// false for non-agents and for processes that vanished mid-read.
func (m *Monitor) classify(pid int) (models.AgentProcessRecord, bool) {
	name, err := m.platform.ReadName(pid)
	if err != nil {
		return models.AgentProcessRecord{}, false
	}
	if !isAgentProcess(name) {
		return models.AgentProcessRecord{}, false
	}
	cmdline, err := m.platform.ReadCmdline(pid)
	if err != nil {
		return models.AgentProcessRecord{}, false
	}

	rec := models.AgentProcessRecord{
		PID:  pid,
		Name: name,
		Cmd:  cmdline,
	}

	// Cwd, stdin and stats are best-effort: permission failures or a racing
	// exit degrade the record instead of dropping it.
	if cwd, err := m.platform.ReadCwd(pid); err == nil {
		rec.Cwd = cwd
	}
	if stdin, err := m.platform.ReadStdin(pid); err == nil {
		rec.WaitingForInput = strings.Contains(stdin, "pts") || strings.Contains(stdin, "tty")
	}
	if stats, err := m.platform.ReadStats(pid); err == nil {
		rec.CPUUsage = stats.CPUPercent
		rec.MemoryUsage = stats.MemoryBytes
		rec.StartTime = stats.StartTime
	}

	if rec.Cwd != "" && m.isWorktreeSibling(rec.Cwd) {
		rec.WorktreePath = rec.Cwd
		rec.SpawnedByUs = hasSpawnMarker(cmdline)
	}

	return rec, true
}

// isAgentProcess matches the executable name against the agent allow-list,
// case-insensitively and by substring. The command line is deliberately
// not consulted: argv routinely carries paths and file names that collide
// with allow-list entries, and a misclassified process would be a kill
// target during cleanup.
func isAgentProcess(name string) bool {
	lower := strings.ToLower(name)
	for _, agent := range agentNames {
		if strings.Contains(lower, agent) {
			return true
		}
	}
	return false
}

// isWorktreeSibling reports whether dir sits next to the repository, i.e.
// shares the repository's parent directory without being the repository.
func (m *Monitor) isWorktreeSibling(dir string) bool {
	dir = filepath.Clean(dir)
	if dir == m.repoPath {
		return false
	}
	return filepath.Dir(dir) == filepath.Dir(m.repoPath)
}

// hasSpawnMarker reports whether argv carries one of our launcher's tokens.
func hasSpawnMarker(cmdline []string) bool {
	for _, arg := range cmdline {
		for _, marker := range spawnMarkers {
			if strings.Contains(arg, marker) {
				return true
			}
		}
	}
	return false
}

// ListMatching takes a fresh snapshot and returns the records passing the
// filter, still sorted by PID.
func (m *Monitor) ListMatching(ctx context.Context, filter Filter) ([]models.AgentProcessRecord, error) {
	records, err := m.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var matched []models.AgentProcessRecord
	for _, rec := range records {
		if filter.OnlyOurs && !rec.SpawnedByUs {
			continue
		}
		if filter.OnlyWaiting && !rec.WaitingForInput {
			continue
		}
		if len(filter.AgentTypes) > 0 && !matchesType(rec.Name, filter.AgentTypes) {
			continue
		}
		if len(filter.WorktreePaths) > 0 && !matchesWorktree(rec.WorktreePath, filter.WorktreePaths) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

func matchesType(name string, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(name, t) {
			return true
		}
	}
	return false
}

func matchesWorktree(path string, wanted []string) bool {
	for _, w := range wanted {
		if strings.Contains(path, w) {
			return true
		}
	}
	return false
}

// Signal sends SIGTERM (or SIGKILL when force is set) to a process.
// Returns whether the signal was delivered; a dead or foreign PID yields
// false, never an error, so bulk kills keep going.
func (m *Monitor) Signal(pid int, force bool) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	sig := syscall.SIGTERM
	if force {
		sig = syscall.SIGKILL
	}
	if err := proc.Signal(sig); err != nil {
		log.Printf("[procmon] signal %v to pid %d failed: %v", sig, pid, err)
		return false
	}
	return true
}

// Summarize takes a fresh snapshot and folds it into aggregate counts.
func (m *Monitor) Summarize(ctx context.Context) (models.AgentSummary, error) {
	records, err := m.Snapshot(ctx)
	if err != nil {
		return models.AgentSummary{}, err
	}

	summary := models.AgentSummary{AgentTypes: make(map[string]int)}
	for _, rec := range records {
		summary.TotalAgents++
		if rec.WaitingForInput {
			summary.WaitingForInput++
		}
		if rec.SpawnedByUs {
			summary.SpawnedByUs++
		}
		summary.TotalCPUUsage += rec.CPUUsage
		summary.TotalMemory += rec.MemoryUsage
		summary.AgentTypes[rec.Name]++
	}
	return summary, nil
}
