package launcher

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/burrowtool/burrow/pkg/models"
)

// DefaultAgentType is the agent used when the caller names none.
const DefaultAgentType = "cursor-agent"

// Registry maps agent type names to spawners. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	spawners map[string]Spawner
}

// NewRegistry returns a registry preloaded with the built-in agents.
func NewRegistry() *Registry {
	r := &Registry{spawners: make(map[string]Spawner)}
	r.Register(NewCursorAgent())
	r.Register(NewClaudeAgent())
	return r
}

// Register adds or replaces the spawner for its type name.
func (r *Registry) Register(s Spawner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawners[s.Name()] = s
}

// Get returns the spawner for the named agent type. An empty name resolves
// to DefaultAgentType.
func (r *Registry) Get(name string) (Spawner, error) {
	if name == "" {
		name = DefaultAgentType
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spawners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgentType, name)
	}
	return s, nil
}

// Names returns the registered agent type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.spawners))
	for name := range r.spawners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescribeAll returns metadata for every registered agent, ordered by name.
func (r *Registry) DescribeAll(ctx context.Context) []models.AgentInfo {
	infos := make([]models.AgentInfo, 0, len(r.Names()))
	for _, name := range r.Names() {
		r.mu.RLock()
		s := r.spawners[name]
		r.mu.RUnlock()
		infos = append(infos, s.Describe(ctx))
	}
	return infos
}
