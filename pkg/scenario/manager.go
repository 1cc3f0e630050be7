package scenario

import (
	"sort"
	"sync"

	"github.com/fleetsim/fleetsim/pkg/cluster"
)

// Manager is the registry of scenario contexts plus a single optional
// active context. It is constructed explicitly and injected into callers;
// there is no package-level instance. At most one context is active at any
// time.
type Manager struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	activeID string
}

// NewManager creates an empty scenario manager.
func NewManager() *Manager {
	return &Manager{contexts: make(map[string]*Context)}
}

// CreateContext builds a new isolated context from a base snapshot,
// overwriting any prior context with the same id. Contexts are never built
// from another context's live cluster, only from an externally supplied
// base, which is what guarantees scenario-to-scenario isolation.
func (m *Manager) CreateContext(id string, base *cluster.Config) *Context {
	ctx := NewContext(id, base)
	m.mu.Lock()
	m.contexts[id] = ctx
	m.mu.Unlock()
	return ctx
}

// GetContext returns the context with the given id, or nil.
func (m *Manager) GetContext(id string) *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contexts[id]
}

// DeleteContext removes a context. Deleting the active context clears the
// active id; nothing is auto-selected in its place.
func (m *Manager) DeleteContext(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contexts[id]; !ok {
		return false
	}
	delete(m.contexts, id)
	if m.activeID == id {
		m.activeID = ""
	}
	return true
}

// SetActive marks the context with the given id as active. An empty id
// clears the active context. Returns false when the id is unknown.
func (m *Manager) SetActive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		m.activeID = ""
		return true
	}
	if _, ok := m.contexts[id]; !ok {
		return false
	}
	m.activeID = id
	return true
}

// Active returns the active context, or nil when none is set.
func (m *Manager) Active() *Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeID == "" {
		return nil
	}
	return m.contexts[m.activeID]
}

// ActiveID returns the active context id, or "".
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID
}

// IDs returns all context ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.contexts))
	for id := range m.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearAll drops every context and unsets the active id.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts = make(map[string]*Context)
	m.activeID = ""
}
