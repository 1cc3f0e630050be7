// Package interp wires the engine together: a raw line is parsed, routed to
// a simulator, checked against the registry for typos and privilege, and
// executed against the resolved state sink.
//
// The interpreter owns no state itself. The registry, router, and engines
// are injected, and each Run call receives the caller's execution context.
// All user-facing failures come back as results with non-zero exit codes,
// never as errors.
package interp

import (
	"fmt"

	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/privilege"
	"github.com/fleetsim/fleetsim/pkg/registry"
	"github.com/fleetsim/fleetsim/pkg/router"
	"github.com/fleetsim/fleetsim/pkg/simulator"
	"github.com/fleetsim/fleetsim/pkg/suggest"
)

// Interpreter runs raw command lines against the simulated fleet.
type Interpreter struct {
	registry  *registry.Registry
	router    *router.Router
	suggest   *suggest.Engine
	privilege *privilege.Engine
}

// New creates an interpreter over a registry and a populated router.
func New(reg *registry.Registry, rt *router.Router) *Interpreter {
	return &Interpreter{
		registry:  reg,
		router:    rt,
		suggest:   suggest.NewEngine(reg),
		privilege: privilege.NewEngine(reg),
	}
}

// Registry exposes the interpreter's registry for help surfaces.
func (in *Interpreter) Registry() *registry.Registry { return in.registry }

// Run executes one command line to completion and returns its result.
func (in *Interpreter) Run(line string, ctx *simulator.Context) *simulator.Result {
	cmd := parser.Parse(line)
	if cmd.BaseCommand == "" {
		return simulator.Success("")
	}

	sim := in.router.Resolve(cmd.BaseCommand)
	if sim == nil {
		return simulator.Failure(127, fmt.Sprintf("%s: command not found\n", cmd.BaseCommand))
	}

	if res := in.checkSpelling(cmd); res != nil {
		return res
	}
	if res := in.checkPrivilege(cmd, ctx); res != nil {
		return res
	}

	return sim.Execute(cmd, ctx)
}

// checkSpelling validates flags and the leading subcommand against the
// registry, turning near-miss typos into corrections. Tools absent from
// the registry are a capability gap and pass through unchecked.
func (in *Interpreter) checkSpelling(cmd *parser.Command) *simulator.Result {
	tool := cmd.BaseCommand
	if !in.registry.HasTool(tool) {
		return nil
	}

	for _, flag := range cmd.FlagNames() {
		r := in.suggest.ValidateFlag(tool, flag)
		if !r.ExactMatch {
			return simulator.Failure(2, in.suggest.FormatSuggestion(tool, r, true)+"\n")
		}
	}

	if len(cmd.Subcommands) > 0 && len(in.registry.SubcommandNames(tool)) > 0 {
		r := in.suggest.ValidateSubcommand(tool, cmd.Subcommands[0])
		if !r.ExactMatch {
			return simulator.Failure(2, in.suggest.FormatSuggestion(tool, r, false)+"\n")
		}
	}

	return nil
}

// checkPrivilege consults the advisory privilege engine and rejects the
// invocation when the context lacks required root.
func (in *Interpreter) checkPrivilege(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	tool := cmd.BaseCommand
	flags := cmd.FlagNames()

	needsRoot := in.privilege.RequiresRoot(tool, flags) ||
		in.privilege.RequiresRootSubcommand(tool, cmd.Subcommands)
	if !needsRoot || ctx.IsRoot {
		return nil
	}

	reason := in.privilege.PrerequisiteError(tool, flags, false)
	if reason == "" {
		reason = fmt.Sprintf("%s: this operation requires root privileges", tool)
	}
	return simulator.Failure(1, reason+"\n")
}
