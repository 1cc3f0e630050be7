// Package session persists shell state between runs.
//
// A session records the trainee's position in the simulator: the current
// node, whether the shell is elevated, and the id of the active scenario.
// State lives in the XDG state directory as YAML and is written with an
// atomic rename, so an interrupted save never corrupts the file. The
// Manager is safe for concurrent use.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Manager loads and saves session state.
type Manager struct {
	appName string
	path    string
	state   *State
	mu      sync.RWMutex
}

// State is everything a session carries across restarts.
type State struct {
	// CurrentNode is the node the shell prompt is "on".
	CurrentNode string `yaml:"current_node,omitempty"`

	// IsRoot records whether the trainee had elevated the shell.
	IsRoot bool `yaml:"is_root,omitempty"`

	// ActiveScenario is the id of the scenario context in use, or "".
	ActiveScenario string `yaml:"active_scenario,omitempty"`

	// LastCommand and its timestamp, for the greeting line.
	LastCommand     string    `yaml:"last_command,omitempty"`
	LastCommandTime time.Time `yaml:"last_command_time,omitempty"`

	LastModified time.Time `yaml:"last_modified,omitempty"`
}

// NewManager creates a session manager for the named application. A missing
// state file is not an error; defaults apply until the first Save.
func NewManager(appName string) (*Manager, error) {
	m := &Manager{
		appName: appName,
		path:    filepath.Join(xdg.StateHome, appName, "session.yaml"),
		state:   &State{},
	}

	if err := m.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}
	return m, nil
}

// Load reads session state from disk.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	m.state = &st
	return nil
}

// Save writes session state to disk with an atomic rename.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	m.state.LastModified = time.Now()

	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}
	return nil
}

// Path returns the session file location.
func (m *Manager) Path() string { return m.path }

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.state
}

// SetCurrentNode records the node the shell is on.
func (m *Manager) SetCurrentNode(node string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentNode = node
}

// SetRoot records whether the shell is elevated.
func (m *Manager) SetRoot(isRoot bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsRoot = isRoot
}

// SetActiveScenario records the active scenario id ("" for none).
func (m *Manager) SetActiveScenario(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ActiveScenario = id
}

// SetLastCommand records the most recent command line.
func (m *Manager) SetLastCommand(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastCommand = line
	m.state.LastCommandTime = time.Now()
}

// Reset discards the in-memory state. The file is untouched until Save.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &State{}
}
