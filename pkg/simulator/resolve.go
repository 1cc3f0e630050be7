package simulator

import "github.com/fleetsim/fleetsim/pkg/cluster"

// StateSource identifies which state a resolution landed on. The priority
// order is load-bearing: an explicit per-call override beats an active
// scenario, which beats the shared default world.
type StateSource int

const (
	SourceGlobal StateSource = iota
	SourceScenario
	SourceExplicit
)

func (s StateSource) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceScenario:
		return "scenario"
	default:
		return "global"
	}
}

// ResolveSource reports which state a context resolves to, without
// touching it.
func ResolveSource(ctx *Context) StateSource {
	switch {
	case ctx.Cluster != nil:
		return SourceExplicit
	case ctx.Scenario != nil:
		return SourceScenario
	default:
		return SourceGlobal
	}
}

// ResolveCluster returns the cluster a command should read, following the
// priority chain. Returns nil only when the context carries no state at
// all.
func ResolveCluster(ctx *Context) *cluster.Config {
	switch ResolveSource(ctx) {
	case SourceExplicit:
		return ctx.Cluster
	case SourceScenario:
		return ctx.Scenario.Cluster()
	default:
		if ctx.Store == nil {
			return nil
		}
		return ctx.Store.Cluster()
	}
}

// ResolveNode resolves the cluster, then looks up one node by id or
// hostname. An empty id falls back to the context's current node.
func ResolveNode(ctx *Context, id string) *cluster.Node {
	c := ResolveCluster(ctx)
	if c == nil {
		return nil
	}
	if id == "" {
		id = ctx.CurrentNode
	}
	return c.Node(id)
}

// ResolveAllNodes returns every node in the resolved cluster.
func ResolveAllNodes(ctx *Context) []*cluster.Node {
	c := ResolveCluster(ctx)
	if c == nil {
		return nil
	}
	nodes := make([]*cluster.Node, len(c.Nodes))
	for i := range c.Nodes {
		nodes[i] = &c.Nodes[i]
	}
	return nodes
}

// ResolveMutator returns the single write sink for this invocation: the
// scenario context when one is attached, otherwise the shared store.
// Exactly one sink is returned per call, so writes can never be split
// between isolated and shared state. An explicit read override does not
// redirect writes.
func ResolveMutator(ctx *Context) Mutator {
	if ctx.Scenario != nil {
		return ctx.Scenario
	}
	if ctx.Store == nil {
		return nil
	}
	return ctx.Store
}
