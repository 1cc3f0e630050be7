// Package tools implements the simulated administrative tool catalogue.
//
// Every simulator resolves its read state and its single write sink through
// the simulator package's resolution helpers, so tools never decide for
// themselves whether they are operating on an isolated scenario or the
// shared world. Output is plausible but minimal; formatting fidelity is not
// a goal.
package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// NvidiaSMI simulates the nvidia-smi utility for the current node.
type NvidiaSMI struct{}

// Metadata implements simulator.Simulator.
func (s *NvidiaSMI) Metadata() simulator.Metadata {
	return simulator.Metadata{
		Name:        "nvidia-smi",
		Version:     "550.54.15",
		Description: "NVIDIA System Management Interface",
		Commands:    []string{"nvidia-smi"},
	}
}

// Execute implements simulator.Simulator.
func (s *NvidiaSMI) Execute(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	node := simulator.ResolveNode(ctx, "")
	if node == nil {
		return simulator.Failure(6, "Unable to determine the device handle for the current node\n")
	}

	gpus, res := s.selectGPUs(cmd, node)
	if res != nil {
		return res
	}

	if len(cmd.Subcommands) > 0 {
		switch cmd.Subcommands[0] {
		case "nvlink":
			return s.nvlink(gpus)
		case "topo":
			return s.topo(node)
		default:
			return simulator.Failure(2, fmt.Sprintf("Invalid combination of input arguments. %q is not a valid command.\n", cmd.Subcommands[0]))
		}
	}

	switch {
	case cmd.HasFlag("pl") || cmd.HasFlag("power-limit"):
		return s.setPowerLimit(cmd, ctx, node, gpus)
	case cmd.HasFlag("gpu-reset"):
		return s.gpuReset(cmd, ctx, node, gpus)
	case cmd.HasFlag("mig"):
		return s.setMIG(cmd, ctx, node, gpus)
	case cmd.HasFlag("L") || cmd.HasFlag("list-gpus"):
		return s.list(gpus)
	case cmd.HasFlag("q") || cmd.HasFlag("query"):
		return s.query(gpus)
	default:
		return s.summary(node, gpus)
	}
}

// selectGPUs narrows to the -i target when given. A malformed or negative
// index is an argument error; a valid-but-absent index is a missing device.
func (s *NvidiaSMI) selectGPUs(cmd *parser.Command, node *cluster.Node) ([]*cluster.GPU, *simulator.Result) {
	idx, ok := cmd.Flags["i"]
	if !ok {
		idx, ok = cmd.Flags["id"]
	}
	if !ok {
		gpus := make([]*cluster.GPU, len(node.GPUs))
		for i := range node.GPUs {
			gpus[i] = &node.GPUs[i]
		}
		return gpus, nil
	}

	raw, _ := idx.(string)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, simulator.Failure(2, fmt.Sprintf("Invalid GPU index: %q\n", raw))
	}
	for i := range node.GPUs {
		if node.GPUs[i].Index == n {
			return []*cluster.GPU{&node.GPUs[i]}, nil
		}
	}
	return nil, simulator.Failure(6, fmt.Sprintf("GPU %d: not found\n", n))
}

func (s *NvidiaSMI) summary(node *cluster.Node, gpus []*cluster.GPU) *simulator.Result {
	var b strings.Builder
	fmt.Fprintf(&b, "NVIDIA-SMI 550.54.15    Driver Version: 550.54.15    Node: %s\n", node.Hostname)
	fmt.Fprintf(&b, "%-4s %-18s %-6s %-10s %-14s %-6s\n", "GPU", "Name", "Temp", "Pwr/Cap", "Memory-Usage", "Util")
	for _, g := range gpus {
		fmt.Fprintf(&b, "%-4d %-18s %-6s %-10s %-14s %-6s\n",
			g.Index, g.Model,
			fmt.Sprintf("%dC", g.TemperatureC),
			fmt.Sprintf("%dW/%dW", g.PowerDrawW, g.PowerLimitW),
			fmt.Sprintf("%d/%dMiB", g.MemoryUsedMiB, g.MemoryTotalMiB),
			fmt.Sprintf("%d%%", g.UtilizationPct))
	}
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) list(gpus []*cluster.GPU) *simulator.Result {
	var b strings.Builder
	for _, g := range gpus {
		fmt.Fprintf(&b, "GPU %d: %s (UUID: %s)\n", g.Index, g.Model, g.UUID)
	}
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) query(gpus []*cluster.GPU) *simulator.Result {
	var b strings.Builder
	for _, g := range gpus {
		fmt.Fprintf(&b, "GPU %d\n", g.Index)
		fmt.Fprintf(&b, "    Product Name          : %s\n", g.Model)
		fmt.Fprintf(&b, "    GPU UUID              : %s\n", g.UUID)
		fmt.Fprintf(&b, "    Temperature           : %d C\n", g.TemperatureC)
		fmt.Fprintf(&b, "    Power Draw            : %d W\n", g.PowerDrawW)
		fmt.Fprintf(&b, "    Power Limit           : %d W\n", g.PowerLimitW)
		fmt.Fprintf(&b, "    Memory Usage          : %d MiB / %d MiB\n", g.MemoryUsedMiB, g.MemoryTotalMiB)
		fmt.Fprintf(&b, "    Utilization           : %d %%\n", g.UtilizationPct)
		fmt.Fprintf(&b, "    Health                : %s\n", g.Health)
		fmt.Fprintf(&b, "    ECC Errors            : single-bit %d, double-bit %d\n", g.ECC.SingleBit, g.ECC.DoubleBit)
		fmt.Fprintf(&b, "    MIG Mode              : %s\n", onOff(g.MIG.Enabled))
		for _, x := range g.XIDErrors {
			fmt.Fprintf(&b, "    XID Error             : %d (%s)\n", x.Code, x.Message)
		}
	}
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) nvlink(gpus []*cluster.GPU) *simulator.Result {
	var b strings.Builder
	for _, g := range gpus {
		fmt.Fprintf(&b, "GPU %d: %s\n", g.Index, g.Model)
		for _, l := range g.NVLinks {
			fmt.Fprintf(&b, "    Link %d: %s (replay %d, recovery %d, crc %d)\n",
				l.ID, l.State, l.ReplayErrors, l.RecoveryErrors, l.CRCErrors)
		}
	}
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) topo(node *cluster.Node) *simulator.Result {
	var b strings.Builder
	b.WriteString("     ")
	for _, g := range node.GPUs {
		fmt.Fprintf(&b, "GPU%d  ", g.Index)
	}
	b.WriteString("\n")
	for _, g := range node.GPUs {
		fmt.Fprintf(&b, "GPU%d ", g.Index)
		for _, h := range node.GPUs {
			if g.Index == h.Index {
				b.WriteString(" X    ")
			} else {
				b.WriteString("NV18  ")
			}
		}
		b.WriteString("\n")
	}
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) setPowerLimit(cmd *parser.Command, ctx *simulator.Context, node *cluster.Node, gpus []*cluster.GPU) *simulator.Result {
	raw := cmd.FlagString("pl")
	if raw == "" {
		raw = cmd.FlagString("power-limit")
	}
	watts, err := strconv.Atoi(raw)
	if err != nil || watts <= 0 {
		return simulator.Failure(2, fmt.Sprintf("Invalid power limit: %q\n", raw))
	}

	mut := simulator.ResolveMutator(ctx)
	var b strings.Builder
	for _, g := range gpus {
		if err := mut.UpdateGPU(node.ID, g.Index, cluster.GPUUpdate{PowerLimitW: cluster.Int(watts)}); err != nil {
			return simulator.Failure(6, err.Error()+"\n")
		}
		fmt.Fprintf(&b, "Power limit for GPU %d was set to %d.00 W from %d.00 W.\n", g.Index, watts, g.PowerLimitW)
	}
	b.WriteString("All done.\n")
	return simulator.Success(b.String())
}

func (s *NvidiaSMI) gpuReset(cmd *parser.Command, ctx *simulator.Context, node *cluster.Node, gpus []*cluster.GPU) *simulator.Result {
	if !cmd.HasFlag("i") && !cmd.HasFlag("id") {
		return simulator.Failure(2, "GPU reset requires a target GPU (-i).\n")
	}
	mut := simulator.ResolveMutator(ctx)
	g := gpus[0]
	update := cluster.GPUUpdate{
		Health:         cluster.Health(cluster.HealthOK),
		UtilizationPct: cluster.Int(0),
		MemoryUsedMiB:  cluster.Int(0),
	}
	if err := mut.UpdateGPU(node.ID, g.Index, update); err != nil {
		return simulator.Failure(6, err.Error()+"\n")
	}
	return simulator.Success(fmt.Sprintf("GPU %d was successfully reset.\n", g.Index))
}

func (s *NvidiaSMI) setMIG(cmd *parser.Command, ctx *simulator.Context, node *cluster.Node, gpus []*cluster.GPU) *simulator.Result {
	raw := cmd.FlagString("mig")
	if raw != "0" && raw != "1" {
		return simulator.Failure(2, fmt.Sprintf("Invalid MIG mode: %q (expected 0 or 1)\n", raw))
	}
	enable := raw == "1"

	verb := "Enabled"
	if !enable {
		verb = "Disabled"
	}

	mut := simulator.ResolveMutator(ctx)
	var b strings.Builder
	for _, g := range gpus {
		if err := mut.SetMIGMode(node.ID, g.Index, enable); err != nil {
			return simulator.Failure(6, err.Error()+"\n")
		}
		fmt.Fprintf(&b, "%s MIG Mode for GPU %d.\n", verb, g.Index)
	}
	b.WriteString("All done.\n")
	return simulator.Success(b.String())
}

func onOff(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}
