package launcher

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/burrowtool/burrow/pkg/models"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts models.AgentOptions
		want []string
	}{
		{
			"defaults",
			models.DefaultAgentOptions(),
			[]string{"--new-window", "--wait", "/wt"},
		},
		{
			"no flags",
			models.AgentOptions{},
			[]string{"/wt"},
		},
		{
			"custom options in sorted key order",
			models.AgentOptions{
				Wait: true,
				CustomOptions: map[string]string{
					"model":   "fast",
					"approve": "always",
				},
			},
			[]string{"--wait", "--approve", "always", "--model", "fast", "/wt"},
		},
		{
			"valueless custom option",
			models.AgentOptions{
				CustomOptions: map[string]string{"verbose": ""},
			},
			[]string{"--verbose", "/wt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildArgs("/wt", tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableMissingBinary(t *testing.T) {
	agent := &cliAgent{name: "ghost", binary: "definitely-not-a-real-binary-burrow"}
	if agent.Available(context.Background()) {
		t.Error("Available() = true for missing binary")
	}
}

func TestSpawnMissingBinary(t *testing.T) {
	agent := &cliAgent{name: "ghost", binary: "definitely-not-a-real-binary-burrow"}
	err := agent.Spawn(context.Background(), t.TempDir(), "do things", models.AgentOptions{})
	if !errors.Is(err, ErrAgentUnavailable) {
		t.Errorf("Spawn() error = %v, want ErrAgentUnavailable", err)
	}
}

func TestSpawnWaitsForCleanExit(t *testing.T) {
	// `true` ignores its arguments and exits 0.
	agent := &cliAgent{name: "true", binary: "true"}
	err := agent.Spawn(context.Background(), t.TempDir(), "", models.AgentOptions{Wait: true})
	if err != nil {
		t.Errorf("Spawn() error = %v", err)
	}
}

func TestSpawnReportsNonZeroExit(t *testing.T) {
	agent := &cliAgent{name: "false", binary: "false"}
	err := agent.Spawn(context.Background(), t.TempDir(), "", models.AgentOptions{Wait: true})

	var exitErr *ProcessExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Spawn() error = %v, want *ProcessExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
}

func TestSpawnDetachReturnsImmediately(t *testing.T) {
	// sleep would block for 10s if detach waited on it.
	agent := &cliAgent{name: "sleep", binary: "sleep"}
	err := agent.Spawn(context.Background(), t.TempDir(), "", models.AgentOptions{
		Detach:        true,
		CustomOptions: nil,
	})
	// sleep exits 1 on bad args but detach never surfaces exit status.
	if err != nil {
		t.Errorf("Spawn() error = %v", err)
	}
}

func TestDescribeMissingBinary(t *testing.T) {
	agent := &cliAgent{name: "ghost", binary: "definitely-not-a-real-binary-burrow", description: "test agent"}
	info := agent.Describe(context.Background())

	if info.Available {
		t.Error("Describe().Available = true for missing binary")
	}
	if info.Version != "" {
		t.Errorf("Describe().Version = %q, want empty", info.Version)
	}
	if info.Name != "ghost" || info.Description != "test agent" {
		t.Errorf("Describe() = %+v", info)
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("cursor-agent")
	if err != nil {
		t.Fatalf("Get(cursor-agent) error = %v", err)
	}
	if s.Name() != "cursor-agent" {
		t.Errorf("Name() = %q, want cursor-agent", s.Name())
	}
}

func TestRegistryGetEmptyNameUsesDefault(t *testing.T) {
	r := NewRegistry()

	s, err := r.Get("")
	if err != nil {
		t.Fatalf("Get(\"\") error = %v", err)
	}
	if s.Name() != DefaultAgentType {
		t.Errorf("Name() = %q, want %q", s.Name(), DefaultAgentType)
	}
}

func TestRegistryGetUnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("nonexistent")
	if !errors.Is(err, ErrUnknownAgentType) {
		t.Errorf("Get() error = %v, want ErrUnknownAgentType", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()

	want := []string{"claude", "cursor-agent"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&cliAgent{name: "cursor-agent", binary: "echo", description: "replacement"})

	s, err := r.Get("cursor-agent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.Describe(context.Background()).Description != "replacement" {
		t.Error("Register() did not replace existing spawner")
	}
}
