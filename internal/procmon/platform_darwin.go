//go:build darwin

package procmon

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// defaultPlatform returns the ps/lsof-backed platform implementation.
// macOS has no procfs, so everything here shells out and degrades
// gracefully when a tool or permission is missing.
func defaultPlatform() Platform {
	return &darwinPlatform{}
}

type darwinPlatform struct{}

// Verify darwinPlatform implements Platform at compile time.
var _ Platform = (*darwinPlatform)(nil)

// ListPIDs returns the PIDs of all visible processes.
func (d *darwinPlatform) ListPIDs() ([]int, error) {
	out, err := exec.Command("ps", "-axo", "pid=").Output()
	if err != nil {
		return nil, fmt.Errorf("ps: %w", err)
	}
	var pids []int
	for _, line := range strings.Split(string(out), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// ReadName returns the executable base name of a process.
func (d *darwinPlatform) ReadName(pid int) (string, error) {
	out, err := d.ps(pid, "comm=")
	if err != nil {
		return "", err
	}
	if i := strings.LastIndexByte(out, '/'); i >= 0 {
		out = out[i+1:]
	}
	return out, nil
}

// ReadCmdline returns the full command line of a process.
func (d *darwinPlatform) ReadCmdline(pid int) ([]string, error) {
	out, err := d.ps(pid, "command=")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Fields(out), nil
}

// ReadCwd returns the working directory via lsof's cwd descriptor.
func (d *darwinPlatform) ReadCwd(pid int) (string, error) {
	out, err := exec.Command("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn").Output()
	if err != nil {
		return "", fmt.Errorf("lsof cwd for pid %d: %w", pid, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "n"); ok {
			return rest, nil
		}
	}
	return "", fmt.Errorf("no cwd reported for pid %d", pid)
}

// ReadStdin returns what fd 0 resolves to, via lsof.
func (d *darwinPlatform) ReadStdin(pid int) (string, error) {
	out, err := exec.Command("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "0", "-Fn").Output()
	if err != nil {
		return "", fmt.Errorf("lsof fd 0 for pid %d: %w", pid, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "n"); ok {
			return rest, nil
		}
	}
	return "", fmt.Errorf("no stdin reported for pid %d", pid)
}

// ReadStats returns CPU, memory and start time from ps.
func (d *darwinPlatform) ReadStats(pid int) (ProcStats, error) {
	out, err := d.ps(pid, "%cpu=,rss=,lstart=")
	if err != nil {
		return ProcStats{}, err
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return ProcStats{}, fmt.Errorf("short ps output for pid %d", pid)
	}
	cpu, _ := strconv.ParseFloat(fields[0], 64)
	rssKB, _ := strconv.ParseUint(fields[1], 10, 64)

	var start int64
	if len(fields) >= 7 {
		if t, err := parseLstart(fields[2:7]); err == nil {
			start = t
		}
	}

	return ProcStats{CPUPercent: cpu, MemoryBytes: rssKB * 1024, StartTime: start}, nil
}

// parseLstart parses the five-field lstart timestamp ps prints, e.g.
// "Mon Jan  2 15:04:05 2006", in the local timezone.
func parseLstart(fields []string) (int64, error) {
	t, err := time.ParseInLocation("Mon Jan 2 15:04:05 2006", strings.Join(fields, " "), time.Local)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// ps runs ps for a single pid with the given output format.
func (d *darwinPlatform) ps(pid int, format string) (string, error) {
	out, err := exec.Command("ps", "-p", strconv.Itoa(pid), "-o", format).Output()
	if err != nil {
		return "", fmt.Errorf("ps for pid %d: %w", pid, err)
	}
	return strings.TrimSpace(string(out)), nil
}
