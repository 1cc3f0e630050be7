// Package simulator defines the contract every simulated tool implements
// and the state-resolution rules shared by all of them.
//
// A simulator turns a parsed command plus an execution context into a
// Result. User-input mistakes (bad flags, missing targets, unknown
// subcommands) are encoded as non-zero exit codes with explanatory
// output, never as errors: the simulation always produces some output.
//
// State resolution is the isolation contract. Reads resolve through a
// priority chain (explicit override, then active scenario, then the shared
// store) and writes resolve to exactly one sink per invocation, so a
// command can never split its effects across isolated and shared state.
package simulator

import (
	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/scenario"
)

// Result is the outcome of executing one command.
type Result struct {
	Output   string
	ExitCode int
	// Prompt optionally replaces the shell prompt (e.g. after su).
	Prompt string
}

// Metadata describes a simulator to the catalogue.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Commands    []string
}

// Simulator is implemented by every simulated tool.
type Simulator interface {
	Metadata() Metadata
	Execute(cmd *parser.Command, ctx *Context) *Result
}

// Context carries the ambient execution state for one invocation. It is
// supplied by the caller (shell or test harness) per command, not owned by
// the core.
type Context struct {
	IsRoot      bool
	CurrentNode string
	WorkingDir  string
	Env         map[string]string
	History     []string

	// Cluster, when set, is an explicit per-call override and wins over
	// everything else for reads.
	Cluster *cluster.Config

	// Scenario, when set, is the session's isolated snapshot.
	Scenario *scenario.Context

	// Store is the shared default world.
	Store *Store
}

// Mutator is the single write sink resolved per invocation. Both the
// scenario context and the shared store satisfy it.
type Mutator interface {
	UpdateGPU(nodeID string, index int, update cluster.GPUUpdate) error
	AddXIDError(nodeID string, index, code int, message string) error
	UpdateNodeHealth(nodeID string, health cluster.HealthStatus) error
	SetMIGMode(nodeID string, index int, enabled bool) error
	SetSlurmState(nodeID, state, reason string) error
	SetNICLink(nodeID, nic string, up bool) error
	SetBMCPower(nodeID, state string) error
}

// Success builds a zero-exit result.
func Success(output string) *Result {
	return &Result{Output: output}
}

// Failure builds a non-zero result with explanatory output.
func Failure(code int, output string) *Result {
	return &Result{Output: output, ExitCode: code}
}
