// Package scenario provides isolated cluster snapshots for training
// sessions.
//
// Each Context owns an exclusive deep copy of a cluster configuration.
// Nothing in a context's cluster graph is reachable from the base snapshot,
// from the shared store, or from any other context. Isolation is a
// property of construction, not a locking discipline. A monotonic mutation
// counter lets callers poll "did anything change" without deep comparison.
package scenario

import (
	"fmt"
	"time"

	"github.com/fleetsim/fleetsim/pkg/cluster"
)

// Context is one training session's private view of the fleet.
type Context struct {
	id            string
	base          *cluster.Config
	working       *cluster.Config
	mutationCount int
}

// NewContext deep-copies the base cluster twice: once as the reset anchor
// and once as the working state. Later mutation of the caller's base never
// leaks in.
func NewContext(id string, base *cluster.Config) *Context {
	return &Context{
		id:      id,
		base:    base.Clone(),
		working: base.Clone(),
	}
}

// ID returns the context's identifier.
func (c *Context) ID() string { return c.id }

// Cluster returns the context's working cluster.
func (c *Context) Cluster() *cluster.Config { return c.working }

// MutationCount returns the number of mutating calls since creation or the
// last reset. Read-only calls never change it.
func (c *Context) MutationCount() int { return c.mutationCount }

// GPU returns the GPU with the given index on the given node, or nil.
func (c *Context) GPU(nodeID string, index int) *cluster.GPU {
	return c.working.GPU(nodeID, index)
}

// Reset re-clones the originally captured base cluster and zeroes the
// mutation counter.
func (c *Context) Reset() {
	c.working = c.base.Clone()
	c.mutationCount = 0
}

// UpdateGPU applies a partial update to one GPU. Each call counts as
// exactly one mutation regardless of how many fields change.
func (c *Context) UpdateGPU(nodeID string, index int, update cluster.GPUUpdate) error {
	g := c.working.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	update.Apply(g)
	c.mutationCount++
	return nil
}

// AddXIDError records a simulated XID fault on one GPU.
func (c *Context) AddXIDError(nodeID string, index, code int, message string) error {
	g := c.working.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	g.XIDErrors = append(g.XIDErrors, cluster.XIDError{
		Code:      code,
		Timestamp: time.Now(),
		Message:   message,
	})
	c.mutationCount++
	return nil
}

// UpdateNodeHealth sets a node's health status.
func (c *Context) UpdateNodeHealth(nodeID string, health cluster.HealthStatus) error {
	n := c.working.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.Health = health
	c.mutationCount++
	return nil
}

// SetMIGMode enables or disables MIG on one GPU. Disabling clears any
// configured instances.
func (c *Context) SetMIGMode(nodeID string, index int, enabled bool) error {
	g := c.working.GPU(nodeID, index)
	if g == nil {
		return fmt.Errorf("gpu %d on node %q not found", index, nodeID)
	}
	g.MIG.Enabled = enabled
	if !enabled {
		g.MIG.Instances = nil
	}
	c.mutationCount++
	return nil
}

// SetSlurmState sets a node's scheduler state and reason.
func (c *Context) SetSlurmState(nodeID, state, reason string) error {
	n := c.working.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.SlurmState = state
	n.SlurmReason = reason
	c.mutationCount++
	return nil
}

// SetNICLink sets a network adapter's link state.
func (c *Context) SetNICLink(nodeID, nic string, up bool) error {
	n := c.working.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	for i := range n.NICs {
		if n.NICs[i].Name == nic {
			n.NICs[i].LinkUp = up
			c.mutationCount++
			return nil
		}
	}
	return fmt.Errorf("adapter %q on node %q not found", nic, nodeID)
}

// SetBMCPower sets a node's BMC chassis power state.
func (c *Context) SetBMCPower(nodeID, state string) error {
	n := c.working.Node(nodeID)
	if n == nil {
		return fmt.Errorf("node %q not found", nodeID)
	}
	n.BMC.PowerState = state
	c.mutationCount++
	return nil
}
