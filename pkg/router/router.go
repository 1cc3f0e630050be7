// Package router maps base command names to their simulators.
//
// Resolution is a pure O(1) lookup with no fallback or fuzzy behavior;
// typo correction happens upstream, before routing, so routing stays
// deterministic. A later registration for a name silently overrides the
// earlier one, which supports hot-swapping tool implementations.
package router

import (
	"sort"

	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// Router is the command-name dispatch table.
type Router struct {
	handlers map[string]simulator.Simulator
}

// New creates an empty router.
func New() *Router {
	return &Router{handlers: make(map[string]simulator.Simulator)}
}

// Register binds a name to a simulator. Last write wins.
func (r *Router) Register(name string, sim simulator.Simulator) {
	r.handlers[name] = sim
}

// RegisterMany binds several names to the same simulator (e.g. the slurm
// family: sinfo, squeue, scontrol).
func (r *Router) RegisterMany(names []string, sim simulator.Simulator) {
	for _, name := range names {
		r.handlers[name] = sim
	}
}

// Resolve returns the simulator for a name, or nil.
func (r *Router) Resolve(name string) simulator.Simulator {
	return r.handlers[name]
}

// Has reports whether a name is routable.
func (r *Router) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
