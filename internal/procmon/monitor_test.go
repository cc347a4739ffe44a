package procmon

import (
	"context"
	"errors"
	"testing"
)

// fakeProc is one process entry served by fakePlatform.
type fakeProc struct {
	name    string
	cmdline []string
	cwd     string
	stdin   string
	stats   ProcStats
}

type fakePlatform struct {
	procs map[int]fakeProc
}

var errNoSuchProc = errors.New("no such process")

func (f *fakePlatform) ListPIDs() ([]int, error) {
	pids := make([]int, 0, len(f.procs))
	for pid := range f.procs {
		pids = append(pids, pid)
	}
	return pids, nil
}

func (f *fakePlatform) lookup(pid int) (fakeProc, error) {
	p, ok := f.procs[pid]
	if !ok {
		return fakeProc{}, errNoSuchProc
	}
	return p, nil
}

func (f *fakePlatform) ReadName(pid int) (string, error) {
	p, err := f.lookup(pid)
	return p.name, err
}

func (f *fakePlatform) ReadCmdline(pid int) ([]string, error) {
	p, err := f.lookup(pid)
	return p.cmdline, err
}

func (f *fakePlatform) ReadCwd(pid int) (string, error) {
	p, err := f.lookup(pid)
	if err != nil {
		return "", err
	}
	if p.cwd == "" {
		return "", errNoSuchProc
	}
	return p.cwd, nil
}

func (f *fakePlatform) ReadStdin(pid int) (string, error) {
	p, err := f.lookup(pid)
	if err != nil {
		return "", err
	}
	if p.stdin == "" {
		return "", errNoSuchProc
	}
	return p.stdin, nil
}

func (f *fakePlatform) ReadStats(pid int) (ProcStats, error) {
	p, err := f.lookup(pid)
	return p.stats, err
}

const testRepo = "/home/user/project"

func newTestMonitor(procs map[int]fakeProc) *Monitor {
	return NewMonitorWithPlatform(testRepo, &fakePlatform{procs: procs})
}

func TestSnapshotClassifiesAgents(t *testing.T) {
	m := newTestMonitor(map[int]fakeProc{
		100: {name: "nvim", cmdline: []string{"nvim", "main.go"}, cwd: "/home/user/elsewhere"},
		101: {name: "postgres", cmdline: []string{"postgres", "-D", "/var/lib/pg"}},
		102: {name: "cursor-agent", cmdline: []string{"cursor-agent", "--wait"}, cwd: "/home/user/feature-x"},
	})

	records, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (postgres excluded)", len(records))
	}
	// Sorted by PID.
	if records[0].PID != 100 || records[1].PID != 102 {
		t.Errorf("pids = [%d %d], want [100 102]", records[0].PID, records[1].PID)
	}
}

func TestClassificationIgnoresCommandLineTokens(t *testing.T) {
	// Only the executable name decides classification. Argv routinely
	// carries paths and file names that collide with allow-list entries;
	// those processes would become kill targets during cleanup.
	m := newTestMonitor(map[int]fakeProc{
		900: {name: "bash", cmdline: []string{"bash", "/home/user/code/build.sh"}, cwd: "/home/user/feature-x"},
		901: {name: "tail", cmdline: []string{"tail", "-f", "/var/log/ampere.log"}, cwd: "/home/user/feature-x"},
		// The flip side: an agent hiding behind an interpreter name is
		// missed. Known limit of name-based matching.
		902: {name: "node", cmdline: []string{"node", "/usr/bin/cursor-agent"}, cwd: "/home/user/feature-x"},
	})

	records, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none classified", records)
	}
}

func TestSnapshotMatchIsCaseInsensitive(t *testing.T) {
	m := newTestMonitor(map[int]fakeProc{
		200: {name: "Cursor Helper", cmdline: []string{"/Applications/Cursor.app/Helper"}},
	})

	records, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}

func TestWaitingForInputDefaultsFalse(t *testing.T) {
	m := newTestMonitor(map[int]fakeProc{
		// stdin unreadable: must classify as not waiting, not error out.
		300: {name: "claude", cmdline: []string{"claude"}},
		301: {name: "claude", cmdline: []string{"claude"}, stdin: "/dev/pts/3"},
		302: {name: "claude", cmdline: []string{"claude"}, stdin: "/dev/null"},
	})

	records, err := m.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	waiting := map[int]bool{}
	for _, rec := range records {
		waiting[rec.PID] = rec.WaitingForInput
	}
	if waiting[300] {
		t.Error("pid 300 with unreadable stdin should not be waiting")
	}
	if !waiting[301] {
		t.Error("pid 301 on a pts should be waiting")
	}
	if waiting[302] {
		t.Error("pid 302 on /dev/null should not be waiting")
	}
}

func TestSpawnedByUsNeedsSiblingCwdAndMarker(t *testing.T) {
	tests := []struct {
		name string
		proc fakeProc
		want bool
	}{
		{
			"sibling cwd with marker",
			fakeProc{name: "cursor-agent", cmdline: []string{"cursor-agent", "--new-window", "/home/user/feature-x"}, cwd: "/home/user/feature-x"},
			true,
		},
		{
			"sibling cwd without marker",
			fakeProc{name: "nvim", cmdline: []string{"nvim", "."}, cwd: "/home/user/feature-x"},
			false,
		},
		{
			"marker but unrelated cwd",
			fakeProc{name: "cursor-agent", cmdline: []string{"cursor-agent", "--new-window", "/somewhere"}, cwd: "/somewhere/else"},
			false,
		},
		{
			"marker but cwd is the repository itself",
			fakeProc{name: "cursor-agent", cmdline: []string{"cursor-agent", "--wait"}, cwd: testRepo},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMonitor(map[int]fakeProc{400: tt.proc})
			records, err := m.Snapshot(context.Background())
			if err != nil {
				t.Fatalf("Snapshot() error = %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("len(records) = %d, want 1", len(records))
			}
			if records[0].SpawnedByUs != tt.want {
				t.Errorf("SpawnedByUs = %v, want %v", records[0].SpawnedByUs, tt.want)
			}
		})
	}
}

func TestListMatchingIsSubsetOfUnfiltered(t *testing.T) {
	procs := map[int]fakeProc{
		500: {name: "cursor-agent", cmdline: []string{"cursor-agent", "--wait", "/home/user/a"}, cwd: "/home/user/a", stdin: "/dev/pts/1"},
		501: {name: "nvim", cmdline: []string{"nvim"}, cwd: "/home/user/b"},
		502: {name: "claude", cmdline: []string{"claude"}, cwd: "/tmp", stdin: "/dev/tty0"},
	}
	m := newTestMonitor(procs)

	all, err := m.ListMatching(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListMatching() error = %v", err)
	}
	allPIDs := map[int]bool{}
	for _, rec := range all {
		allPIDs[rec.PID] = true
	}

	filters := []Filter{
		{OnlyOurs: true},
		{OnlyWaiting: true},
		{AgentTypes: []string{"claude"}},
		{WorktreePaths: []string{"user/a"}},
		{OnlyOurs: true, OnlyWaiting: true},
	}
	for _, filter := range filters {
		matched, err := m.ListMatching(context.Background(), filter)
		if err != nil {
			t.Fatalf("ListMatching(%+v) error = %v", filter, err)
		}
		if len(matched) > len(all) {
			t.Errorf("filter %+v returned more records than unfiltered", filter)
		}
		for _, rec := range matched {
			if !allPIDs[rec.PID] {
				t.Errorf("filter %+v produced pid %d absent from unfiltered listing", filter, rec.PID)
			}
		}
	}
}

func TestListMatchingWorktreeSubstring(t *testing.T) {
	m := newTestMonitor(map[int]fakeProc{
		600: {name: "cursor-agent", cmdline: []string{"cursor-agent", "--wait"}, cwd: "/home/user/feature-x"},
		601: {name: "cursor-agent", cmdline: []string{"cursor-agent", "--wait"}, cwd: "/home/user/other"},
	})

	// Substring containment, not exact equality.
	matched, err := m.ListMatching(context.Background(), Filter{WorktreePaths: []string{"feature"}})
	if err != nil {
		t.Fatalf("ListMatching() error = %v", err)
	}
	if len(matched) != 1 || matched[0].PID != 600 {
		t.Errorf("matched = %+v, want only pid 600", matched)
	}
}

func TestSignalNonexistentProcess(t *testing.T) {
	m := newTestMonitor(nil)

	// PID that cannot exist.
	if m.Signal(1<<30, false) {
		t.Error("Signal() on nonexistent pid = true, want false")
	}
	if m.Signal(1<<30, true) {
		t.Error("Signal(force) on nonexistent pid = true, want false")
	}
}

func TestSummarize(t *testing.T) {
	m := newTestMonitor(map[int]fakeProc{
		700: {
			name:    "cursor-agent",
			cmdline: []string{"cursor-agent", "--wait", "/home/user/a"},
			cwd:     "/home/user/a",
			stdin:   "/dev/pts/2",
			stats:   ProcStats{CPUPercent: 10, MemoryBytes: 1 << 20},
		},
		701: {
			name:    "nvim",
			cmdline: []string{"nvim"},
			cwd:     "/etc",
			stats:   ProcStats{CPUPercent: 5, MemoryBytes: 1 << 19},
		},
		702: {
			name:    "nvim",
			cmdline: []string{"nvim"},
			cwd:     "/etc",
			stats:   ProcStats{CPUPercent: 2, MemoryBytes: 1 << 19},
		},
	})

	summary, err := m.Summarize(context.Background())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.TotalAgents != 3 {
		t.Errorf("TotalAgents = %d, want 3", summary.TotalAgents)
	}
	if summary.WaitingForInput != 1 {
		t.Errorf("WaitingForInput = %d, want 1", summary.WaitingForInput)
	}
	if summary.SpawnedByUs != 1 {
		t.Errorf("SpawnedByUs = %d, want 1", summary.SpawnedByUs)
	}
	if summary.TotalCPUUsage != 17 {
		t.Errorf("TotalCPUUsage = %v, want 17", summary.TotalCPUUsage)
	}
	if summary.TotalMemory != 1<<20+1<<20 {
		t.Errorf("TotalMemory = %d, want %d", summary.TotalMemory, 1<<20+1<<20)
	}
	if summary.AgentTypes["nvim"] != 2 || summary.AgentTypes["cursor-agent"] != 1 {
		t.Errorf("AgentTypes = %v", summary.AgentTypes)
	}
}
