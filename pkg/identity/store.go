package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
)

// ConfigStore is the global, user-scoped configuration of the target tool.
type ConfigStore interface {
	// Get returns the value for key and whether it is set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// GitConfigStore reads and writes `git config --global`.
type GitConfigStore struct {
	runner runner.Runner
	git    string
}

// NewGitConfigStore creates a store that shells out to git.
func NewGitConfigStore(r runner.Runner) *GitConfigStore {
	return &GitConfigStore{runner: r, git: "git"}
}

// Get implements ConfigStore. git exits 1 when the key is unset.
func (s *GitConfigStore) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := s.runner.Run(ctx, types.NewCommand(s.git, "config", "--global", "--get", key))
	if err != nil {
		return "", false, err
	}
	switch res.ExitCode {
	case 0:
		return res.StdoutString(), true, nil
	case 1:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("git config --get %s exited with status %d: %s", key, res.ExitCode, res.StderrString())
	}
}

// Set implements ConfigStore.
func (s *GitConfigStore) Set(ctx context.Context, key, value string) error {
	res, err := s.runner.Run(ctx, types.NewCommand(s.git, "config", "--global", key, value))
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("git config %s exited with status %d: %s", key, res.ExitCode, res.StderrString())
	}
	return nil
}

// MemoryStore is an in-memory ConfigStore.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	writes int
	// FailSet makes Set return this error when non-nil.
	FailSet error
}

// NewMemoryStore creates a store seeded with initial values.
func NewMemoryStore(initial map[string]string) *MemoryStore {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryStore{values: values}
}

// Get implements ConfigStore.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements ConfigStore.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Writes returns how many Set calls succeeded.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
