//go:build linux

package procmon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultPlatform returns the /proc-backed platform implementation.
func defaultPlatform() Platform {
	return &linuxPlatform{clkTck: 100, pageSize: int64(os.Getpagesize())}
}

// linuxPlatform reads the process table from procfs.
type linuxPlatform struct {
	clkTck   int64
	pageSize int64

	bootTimeOnce sync.Once
	bootTime     int64
}

// Verify linuxPlatform implements Platform at compile time.
var _ Platform = (*linuxPlatform)(nil)

// ListPIDs returns the PIDs of all visible processes.
func (l *linuxPlatform) ListPIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}
	var pids []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

// ReadName returns the executable base name from /proc/{pid}/comm.
func (l *linuxPlatform) ReadName(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadCmdline returns the null-delimited command line of a process.
func (l *linuxPlatform) ReadCmdline(pid int) ([]string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) == 1 && parts[0] == "" {
		return nil, nil
	}
	return parts, nil
}

// ReadCwd returns the working directory via the /proc/{pid}/cwd symlink.
func (l *linuxPlatform) ReadCwd(pid int) (string, error) {
	return os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
}

// ReadStdin returns the target of the /proc/{pid}/fd/0 symlink.
func (l *linuxPlatform) ReadStdin(pid int) (string, error) {
	return os.Readlink(fmt.Sprintf("/proc/%d/fd/0", pid))
}

// ReadStats parses /proc/{pid}/stat for CPU time, memory and start time.
func (l *linuxPlatform) ReadStats(pid int) (ProcStats, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return ProcStats{}, err
	}

	// The comm field is parenthesised and may contain spaces; fields are
	// positional only after the closing paren.
	raw := string(data)
	end := strings.LastIndexByte(raw, ')')
	if end < 0 || end+2 > len(raw) {
		return ProcStats{}, fmt.Errorf("malformed stat for pid %d", pid)
	}
	fields := strings.Fields(raw[end+2:])
	// Indices relative to the field after comm: utime=11, stime=12,
	// starttime=19, rss=21.
	if len(fields) < 22 {
		return ProcStats{}, fmt.Errorf("short stat for pid %d", pid)
	}

	utime, _ := strconv.ParseInt(fields[11], 10, 64)
	stime, _ := strconv.ParseInt(fields[12], 10, 64)
	startTicks, _ := strconv.ParseInt(fields[19], 10, 64)
	rssPages, _ := strconv.ParseInt(fields[21], 10, 64)

	start := l.readBootTime() + startTicks/l.clkTck
	elapsed := time.Now().Unix() - start
	var cpu float64
	if elapsed > 0 {
		cpu = float64(utime+stime) / float64(l.clkTck) / float64(elapsed) * 100
	}

	return ProcStats{
		CPUPercent:  cpu,
		MemoryBytes: uint64(rssPages * l.pageSize),
		StartTime:   start,
	}, nil
}

// readBootTime reads the btime line from /proc/stat once.
func (l *linuxPlatform) readBootTime() int64 {
	l.bootTimeOnce.Do(func() {
		data, err := os.ReadFile("/proc/stat")
		if err != nil {
			return
		}
		for _, line := range strings.Split(string(data), "\n") {
			if rest, ok := strings.CutPrefix(line, "btime "); ok {
				l.bootTime, _ = strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
				return
			}
		}
	})
	return l.bootTime
}
