package models

// AgentOptions controls how a launched agent process behaves. Constructed
// per spawn call and consumed immediately.
type AgentOptions struct {
	// NewWindow asks the agent to open a new window or instance.
	NewWindow bool `json:"new_window" yaml:"new_window"`
	// Wait blocks the spawn call until the agent process exits.
	Wait bool `json:"wait" yaml:"wait"`
	// Detach returns as soon as the process has started; exit monitoring
	// continues on a background goroutine whose outcome is only logged.
	Detach bool `json:"detach" yaml:"detach"`
	// CustomOptions are extra flags passed through to the agent binary as
	// `--key value` pairs, in sorted key order.
	CustomOptions map[string]string `json:"custom_options,omitempty" yaml:"custom_options,omitempty"`
}

// DefaultAgentOptions returns the option set used when a caller supplies none.
func DefaultAgentOptions() AgentOptions {
	return AgentOptions{
		NewWindow: true,
		Wait:      true,
		Detach:    false,
	}
}

// AgentInfo describes one registered agent variant.
type AgentInfo struct {
	// Name is the registry name of the variant.
	Name string `json:"name" yaml:"name"`
	// Available reports whether the agent binary resolves on PATH.
	Available bool `json:"available" yaml:"available"`
	// Version is a best-effort parsed version string, or a placeholder.
	Version string `json:"version" yaml:"version"`
	// Description is a human-readable description of the agent.
	Description string `json:"description" yaml:"description"`
}
