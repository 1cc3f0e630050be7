package tools

import (
	"fmt"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// DCGMI simulates the Data Center GPU Manager CLI.
type DCGMI struct{}

// Metadata implements simulator.Simulator.
func (s *DCGMI) Metadata() simulator.Metadata {
	return simulator.Metadata{
		Name:        "dcgmi",
		Version:     "3.3.5",
		Description: "NVIDIA Data Center GPU Manager",
		Commands:    []string{"dcgmi"},
	}
}

// Execute implements simulator.Simulator.
func (s *DCGMI) Execute(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	if len(cmd.Subcommands) == 0 {
		return simulator.Failure(1, "dcgmi: usage: dcgmi discovery|health|diag ...\n")
	}

	nodes := simulator.ResolveAllNodes(ctx)
	if nodes == nil {
		return simulator.Failure(1, "Error: unable to connect to the host engine\n")
	}

	switch cmd.Subcommands[0] {
	case "discovery":
		return s.discovery(nodes)
	case "health":
		return s.health(nodes)
	case "diag":
		return s.diag(cmd, nodes)
	default:
		return simulator.Failure(1, fmt.Sprintf("dcgmi: unknown subcommand %q\n", cmd.Subcommands[0]))
	}
}

func (s *DCGMI) discovery(nodes []*cluster.Node) *simulator.Result {
	var b strings.Builder
	count := 0
	for _, n := range nodes {
		for _, g := range n.GPUs {
			fmt.Fprintf(&b, "%-4d %-14s %-20s %s\n", count, n.ID, g.Model, g.UUID)
			count++
		}
	}
	return simulator.Success(fmt.Sprintf("%d GPUs found.\n", count) + b.String())
}

func (s *DCGMI) health(nodes []*cluster.Node) *simulator.Result {
	var b strings.Builder
	overall := "Healthy"
	for _, n := range nodes {
		for _, g := range n.GPUs {
			status := "Healthy"
			switch {
			case g.Health == cluster.HealthCritical || len(g.XIDErrors) > 0 || g.ECC.DoubleBit > 0:
				status = "Failure"
				overall = "Failure"
			case g.Health == cluster.HealthWarning || g.ECC.SingleBit > 0:
				status = "Warning"
				if overall == "Healthy" {
					overall = "Warning"
				}
			}
			fmt.Fprintf(&b, "%-14s GPU %d : %s\n", n.ID, g.Index, status)
		}
	}
	return simulator.Success(fmt.Sprintf("Overall Health: %s\n", overall) + b.String())
}

func (s *DCGMI) diag(cmd *parser.Command, nodes []*cluster.Node) *simulator.Result {
	level := cmd.FlagString("r")
	if level == "" {
		level = cmd.FlagString("run")
	}
	if level == "" {
		level = "1"
	}
	if level != "1" && level != "2" && level != "3" {
		return simulator.Failure(1, fmt.Sprintf("dcgmi diag: invalid run level %q\n", level))
	}

	var failures []string
	for _, n := range nodes {
		for _, g := range n.GPUs {
			if g.Health == cluster.HealthCritical || len(g.XIDErrors) > 0 || g.ECC.DoubleBit > 0 {
				failures = append(failures, fmt.Sprintf("%s GPU %d", n.ID, g.Index))
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diagnostic run level %s\n", level)
	if len(failures) == 0 {
		b.WriteString("Deployment: Pass\nHardware: Pass\n")
		return simulator.Success(b.String())
	}
	fmt.Fprintf(&b, "Deployment: Pass\nHardware: Fail (%s)\n", strings.Join(failures, ", "))
	return simulator.Failure(20, b.String())
}
