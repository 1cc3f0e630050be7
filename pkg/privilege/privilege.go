// Package privilege decides whether a command invocation needs elevated
// privilege, from the state interactions declared in the registry.
//
// The engine is purely advisory: it performs no mutation and does not
// itself reject anything. Callers (the interpreter, the shell) consult it
// before dispatching to a simulator and decide what to do with the answer.
package privilege

import (
	"fmt"

	"github.com/fleetsim/fleetsim/pkg/registry"
)

// Engine answers privilege questions for registered tools.
type Engine struct {
	reg *registry.Registry
}

// NewEngine creates a privilege engine over the given registry.
func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Decision is the result of a CanExecute check.
type Decision struct {
	Valid  bool
	Reason string
}

// RequiresRoot reports whether invoking the tool with the given flags
// (normalized names, dashes stripped) needs root. A command is privileged
// when any invoked flag is individually root-marked, or when a declared
// privileged write interaction applies: ungated interactions always apply,
// gated ones apply when any of their gating flags is present.
func (e *Engine) RequiresRoot(tool string, flags []string) bool {
	def := e.reg.Definition(tool)
	if def == nil {
		// Unknown tools are a capability gap, never privileged.
		return false
	}

	for _, flag := range flags {
		if e.reg.RequiresRoot(tool, flag) {
			return true
		}
	}

	for _, w := range def.StateInteractions.WritesTo {
		if !w.RequiresPrivilege {
			continue
		}
		if len(w.RequiresFlags) == 0 {
			return true
		}
		if anyFlagPresent(w.RequiresFlags, flags) {
			return true
		}
	}

	return false
}

// RequiresRootSubcommand reports whether a subcommand word is individually
// root-marked, for tools whose privilege boundary is a subcommand rather
// than a flag (e.g. "scontrol update").
func (e *Engine) RequiresRootSubcommand(tool string, subcommands []string) bool {
	for _, sub := range subcommands {
		if s := e.reg.Subcommand(tool, sub); s != nil && s.RequiresRoot {
			return true
		}
	}
	return false
}

// PrerequisiteError returns a descriptive message when the invocation needs
// root and the context does not have it, and "" otherwise.
func (e *Engine) PrerequisiteError(tool string, flags []string, isRoot bool) string {
	if isRoot {
		return ""
	}
	if !e.RequiresRoot(tool, flags) {
		return ""
	}
	return fmt.Sprintf("%s: this operation requires root privileges", tool)
}

// CanExecute wraps PrerequisiteError into a decision.
func (e *Engine) CanExecute(tool string, flags []string, isRoot bool) Decision {
	if reason := e.PrerequisiteError(tool, flags, isRoot); reason != "" {
		return Decision{Valid: false, Reason: reason}
	}
	return Decision{Valid: true}
}

// anyFlagPresent reports whether any gating flag appears in the invocation.
// A single matching gating flag is sufficient (OR semantics).
func anyFlagPresent(gating, invoked []string) bool {
	for _, g := range gating {
		for _, f := range invoked {
			if g == f {
				return true
			}
		}
	}
	return false
}
