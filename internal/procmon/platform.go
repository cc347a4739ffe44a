// Package procmon produces point-in-time classified views of the OS
// process table. Nothing is cached between snapshots: the process table is
// the source of truth, and every query re-reads it.
package procmon

// ProcStats carries per-process resource usage at snapshot time.
type ProcStats struct {
	// CPUPercent is the process's CPU usage percentage. On Linux this is
	// the average over the process lifetime, not an instantaneous sample.
	CPUPercent float64
	// MemoryBytes is resident set size in bytes.
	MemoryBytes uint64
	// StartTime is the process start time in seconds since the epoch.
	StartTime int64
}

// Platform abstracts OS-specific process table introspection. All methods
// are best-effort: a process may exit between ListPIDs and a follow-up
// read, so callers treat per-PID failures as "skip", not errors.
type Platform interface {
	// ListPIDs returns the PIDs of all visible processes.
	ListPIDs() ([]int, error)
	// ReadName returns the executable base name of a process.
	ReadName(pid int) (string, error)
	// ReadCmdline returns the full command line of a process.
	ReadCmdline(pid int) ([]string, error)
	// ReadCwd returns the working directory of a process.
	ReadCwd(pid int) (string, error)
	// ReadStdin returns what the process's stdin file descriptor resolves
	// to (e.g. "/dev/pts/3"), or an error when undeterminable.
	ReadStdin(pid int) (string, error)
	// ReadStats returns resource usage for a process.
	ReadStats(pid int) (ProcStats, error)
}
