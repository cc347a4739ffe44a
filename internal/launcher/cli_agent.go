package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sort"
	"strings"

	"github.com/burrowtool/burrow/pkg/models"
)

// cliAgent spawns any agent that follows the common CLI contract: run the
// binary in the worktree, pass options as flags, read the prompt on stdin.
type cliAgent struct {
	name        string
	binary      string
	description string
}

// Verify cliAgent implements Spawner at compile time.
var _ Spawner = (*cliAgent)(nil)

// NewCursorAgent returns the spawner for Cursor's headless CLI agent.
func NewCursorAgent() Spawner {
	return &cliAgent{
		name:        "cursor-agent",
		binary:      "cursor-agent",
		description: "Cursor headless CLI agent",
	}
}

// NewClaudeAgent returns the spawner for the Claude CLI agent.
func NewClaudeAgent() Spawner {
	return &cliAgent{
		name:        "claude",
		binary:      "claude",
		description: "Claude CLI agent",
	}
}

func (a *cliAgent) Name() string {
	return a.name
}

func (a *cliAgent) Available(ctx context.Context) bool {
	_, err := exec.LookPath(a.binary)
	return err == nil
}

// Describe reports availability plus, when the binary is present, its
// version string from `--version`.
func (a *cliAgent) Describe(ctx context.Context) models.AgentInfo {
	info := models.AgentInfo{
		Name:        a.name,
		Available:   a.Available(ctx),
		Description: a.description,
	}
	if !info.Available {
		return info
	}
	info.Version = "unknown"
	out, err := exec.CommandContext(ctx, a.binary, "--version").Output()
	if err == nil {
		version := strings.TrimSpace(string(out))
		if i := strings.IndexByte(version, '\n'); i >= 0 {
			version = version[:i]
		}
		if version != "" {
			info.Version = version
		}
	}
	return info
}

// Spawn starts the agent in worktreePath and writes prompt to its stdin.
// With opts.Wait the call blocks until the agent exits; with opts.Detach
// the agent keeps running after we return and its exit is only logged.
func (a *cliAgent) Spawn(ctx context.Context, worktreePath, prompt string, opts models.AgentOptions) error {
	if !a.Available(ctx) {
		return fmt.Errorf("%w: %s", ErrAgentUnavailable, a.binary)
	}

	// Plain exec.Command on purpose: a detached agent must outlive ctx.
	cmd := exec.Command(a.binary, buildArgs(worktreePath, opts)...)
	cmd.Dir = worktreePath

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", a.binary, err)
	}
	log.Printf("[launcher] started %s (pid %d) in %s", a.name, cmd.Process.Pid, worktreePath)

	if err := writePrompt(stdin, prompt); err != nil {
		// The agent may still run fine reading a truncated prompt; report
		// the delivery failure rather than killing it.
		return fmt.Errorf("deliver prompt to %s: %w", a.name, err)
	}

	if opts.Detach {
		go func() {
			if err := cmd.Wait(); err != nil {
				log.Printf("[launcher] detached %s (pid %d) exited: %v", a.name, cmd.Process.Pid, err)
				return
			}
			log.Printf("[launcher] detached %s (pid %d) exited cleanly", a.name, cmd.Process.Pid)
		}()
		return nil
	}

	if !opts.Wait {
		// Reap in the background so the child never zombies.
		go func() { _ = cmd.Wait() }()
		return nil
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait for %s: %w", a.binary, err)
	}
	return nil
}

// writePrompt delivers the prompt followed by a newline and closes the
// pipe so line-buffered agents see EOF.
func writePrompt(stdin io.WriteCloser, prompt string) error {
	defer stdin.Close()
	if prompt == "" {
		return nil
	}
	if _, err := io.WriteString(stdin, prompt+"\n"); err != nil {
		return err
	}
	return nil
}

// buildArgs assembles the agent's argv: window and wait flags, custom
// options in sorted key order for a stable command line, then the
// worktree path.
func buildArgs(worktreePath string, opts models.AgentOptions) []string {
	var args []string
	if opts.NewWindow {
		args = append(args, "--new-window")
	}
	if opts.Wait {
		args = append(args, "--wait")
	}

	keys := make([]string, 0, len(opts.CustomOptions))
	for k := range opts.CustomOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--"+k)
		if v := opts.CustomOptions[k]; v != "" {
			args = append(args, v)
		}
	}

	return append(args, worktreePath)
}
