package simulator

import (
	"fmt"
	"sync"
	"time"

	"github.com/fleetsim/fleetsim/pkg/cluster"
)

// Store holds the shared default world: the cluster state every session
// without an isolated scenario reads and writes. Unlike scenario contexts
// it can be touched from multiple sessions, so access is lock-guarded.
type Store struct {
	mu      sync.RWMutex
	cluster *cluster.Config
}

// NewStore creates a store owning a deep copy of the given cluster.
func NewStore(base *cluster.Config) *Store {
	return &Store{cluster: base.Clone()}
}

// Cluster returns the store's live cluster.
func (s *Store) Cluster() *cluster.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cluster
}

// Reset replaces the store's state with a deep copy of the given cluster.
func (s *Store) Reset(base *cluster.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cluster = base.Clone()
}

// UpdateGPU applies a partial update to one GPU in the shared world.
func (s *Store) UpdateGPU(nodeID string, index int, update cluster.GPUUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.cluster.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	update.Apply(g)
	return nil
}

// AddXIDError records a simulated XID fault in the shared world.
func (s *Store) AddXIDError(nodeID string, index, code int, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.cluster.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	g.XIDErrors = append(g.XIDErrors, cluster.XIDError{
		Code:      code,
		Timestamp: time.Now(),
		Message:   message,
	})
	return nil
}

// UpdateNodeHealth sets a node's health in the shared world.
func (s *Store) UpdateNodeHealth(nodeID string, health cluster.HealthStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.cluster.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.Health = health
	return nil
}

// SetMIGMode enables or disables MIG on one GPU in the shared world.
func (s *Store) SetMIGMode(nodeID string, index int, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.cluster.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	g.MIG.Enabled = enabled
	if !enabled {
		g.MIG.Instances = nil
	}
	return nil
}

// SetSlurmState sets a node's scheduler state in the shared world.
func (s *Store) SetSlurmState(nodeID, state, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.cluster.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.SlurmState = state
	n.SlurmReason = reason
	return nil
}

// SetNICLink sets an adapter's link state in the shared world.
func (s *Store) SetNICLink(nodeID, nic string, up bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.cluster.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	for i := range n.NICs {
		if n.NICs[i].Name == nic {
			n.NICs[i].LinkUp = up
			return nil
		}
	}
	return fmt.Errorf("adapter %q on node %q not found", nic, nodeID)
}

// SetBMCPower sets a node's chassis power state in the shared world.
func (s *Store) SetBMCPower(nodeID, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.cluster.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.BMC.PowerState = state
	return nil
}
