package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrAgentUnavailable indicates the agent's binary is not on PATH.
	ErrAgentUnavailable = errors.New("agent binary not available")
	// ErrUnknownAgentType indicates no spawner is registered under the
	// requested name.
	ErrUnknownAgentType = errors.New("unknown agent type")
)

// ProcessExitError reports a spawned agent that ran and exited non-zero.
// Distinct from spawn failures: the process existed, did work, and failed.
type ProcessExitError struct {
	Code int
}

func (e *ProcessExitError) Error() string {
	return fmt.Sprintf("agent process exited with code %d", e.Code)
}
