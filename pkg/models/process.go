package models

// AgentProcessRecord is a point-in-time view of one OS process classified
// as a coding agent. PIDs are recycled by the OS: a record identifies a
// process only within the snapshot that produced it, never across time.
type AgentProcessRecord struct {
	// PID is the OS process identifier.
	PID int `json:"pid" yaml:"pid"`
	// Name is the process's display name (executable base name).
	Name string `json:"name" yaml:"name"`
	// Cmd is the full command line of the process.
	Cmd []string `json:"cmd" yaml:"cmd"`
	// Cwd is the process's working directory.
	Cwd string `json:"cwd" yaml:"cwd"`
	// WaitingForInput reports whether the process appears to be reading
	// from an interactive terminal. Best effort; false when undeterminable.
	WaitingForInput bool `json:"waiting_for_input" yaml:"waiting_for_input"`
	// CPUUsage is the CPU usage percentage at snapshot time.
	CPUUsage float64 `json:"cpu_usage" yaml:"cpu_usage"`
	// MemoryUsage is resident memory in bytes.
	MemoryUsage uint64 `json:"memory_usage" yaml:"memory_usage"`
	// StartTime is the process start time in seconds since the epoch.
	StartTime int64 `json:"start_time" yaml:"start_time"`
	// SpawnedByUs reports whether the process looks like one burrow
	// launched: worktree-associated cwd plus a recognized marker flag.
	SpawnedByUs bool `json:"spawned_by_us" yaml:"spawned_by_us"`
	// WorktreePath is the worktree the process is working in, if its cwd
	// matches one; independent of SpawnedByUs.
	WorktreePath string `json:"worktree_path,omitempty" yaml:"worktree_path,omitempty"`
}

// AgentSummary holds aggregate counters folded over one snapshot of agent
// process records. Derived on demand, never stored.
type AgentSummary struct {
	TotalAgents     int            `json:"total_agents" yaml:"total_agents"`
	WaitingForInput int            `json:"waiting_for_input" yaml:"waiting_for_input"`
	SpawnedByUs     int            `json:"spawned_by_us" yaml:"spawned_by_us"`
	TotalCPUUsage   float64        `json:"total_cpu_usage" yaml:"total_cpu_usage"`
	TotalMemory     uint64         `json:"total_memory_usage" yaml:"total_memory_usage"`
	AgentTypes      map[string]int `json:"agent_types" yaml:"agent_types"`
}
