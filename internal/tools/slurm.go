package tools

import (
	"fmt"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// Slurm simulates the scheduler family: sinfo, squeue, and scontrol share
// one simulator because they operate on the same state.
type Slurm struct{}

// BaseCommands lists the names this simulator should be routed under.
func (s *Slurm) BaseCommands() []string {
	return []string{"sinfo", "squeue", "scontrol"}
}

// Metadata implements simulator.Simulator.
func (s *Slurm) Metadata() simulator.Metadata {
	return simulator.Metadata{
		Name:        "slurm",
		Version:     "23.11.4",
		Description: "Slurm workload manager tools",
		Commands:    s.BaseCommands(),
	}
}

// Execute implements simulator.Simulator.
func (s *Slurm) Execute(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	c := simulator.ResolveCluster(ctx)
	if c == nil {
		return simulator.Failure(1, "slurm_load_partitions: Unable to contact slurm controller\n")
	}

	switch cmd.BaseCommand {
	case "sinfo":
		return s.sinfo(cmd, c)
	case "squeue":
		return s.squeue(cmd, c)
	case "scontrol":
		return s.scontrol(cmd, ctx, c)
	default:
		return simulator.Failure(1, fmt.Sprintf("%s: command not handled by slurm simulator\n", cmd.BaseCommand))
	}
}

func (s *Slurm) sinfo(cmd *parser.Command, c *cluster.Config) *simulator.Result {
	var b strings.Builder

	switch {
	case cmd.HasFlag("R") || cmd.HasFlag("list-reasons"):
		fmt.Fprintf(&b, "%-20s %-10s %s\n", "REASON", "NODELIST", "STATE")
		for _, n := range c.Nodes {
			if n.SlurmState == cluster.SlurmDrain || n.SlurmState == cluster.SlurmDown {
				reason := n.SlurmReason
				if reason == "" {
					reason = "none"
				}
				fmt.Fprintf(&b, "%-20s %-10s %s\n", reason, n.ID, n.SlurmState)
			}
		}

	case cmd.HasFlag("N") || cmd.HasFlag("Node"):
		fmt.Fprintf(&b, "%-14s %-10s %s\n", "NODELIST", "PARTITION", "STATE")
		for _, p := range c.Partitions {
			if skipPartition(cmd, p.Name) {
				continue
			}
			for _, id := range p.Nodes {
				if n := c.Node(id); n != nil {
					fmt.Fprintf(&b, "%-14s %-10s %s\n", n.ID, p.Name, n.SlurmState)
				}
			}
		}

	default:
		fmt.Fprintf(&b, "%-10s %-6s %-6s %-8s %s\n", "PARTITION", "AVAIL", "NODES", "STATE", "NODELIST")
		for _, p := range c.Partitions {
			if skipPartition(cmd, p.Name) {
				continue
			}
			name := p.Name
			if p.Default {
				name += "*"
			}
			fmt.Fprintf(&b, "%-10s %-6s %-6d %-8s %s\n",
				name, p.State, len(p.Nodes), partitionState(c, p), strings.Join(p.Nodes, ","))
		}
	}

	return simulator.Success(b.String())
}

// partitionState summarizes a partition: "drain" or "down" if any member
// node is, else "idle"/"alloc".
func partitionState(c *cluster.Config, p cluster.Partition) string {
	state := cluster.SlurmIdle
	for _, id := range p.Nodes {
		n := c.Node(id)
		if n == nil {
			continue
		}
		switch n.SlurmState {
		case cluster.SlurmDown:
			return cluster.SlurmDown
		case cluster.SlurmDrain:
			state = cluster.SlurmDrain
		case cluster.SlurmAllocated:
			if state == cluster.SlurmIdle {
				state = cluster.SlurmAllocated
			}
		}
	}
	return state
}

func skipPartition(cmd *parser.Command, name string) bool {
	want := cmd.FlagString("p")
	if want == "" {
		want = cmd.FlagString("partition")
	}
	return want != "" && want != name
}

func (s *Slurm) squeue(cmd *parser.Command, c *cluster.Config) *simulator.Result {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-10s %-10s %-8s %s\n", "JOBID", "PARTITION", "NAME", "ST", "NODELIST")
	jobID := 1000
	for _, p := range c.Partitions {
		if skipPartition(cmd, p.Name) {
			continue
		}
		for _, id := range p.Nodes {
			n := c.Node(id)
			if n == nil || n.SlurmState != cluster.SlurmAllocated {
				continue
			}
			jobID++
			fmt.Fprintf(&b, "%-8d %-10s %-10s %-8s %s\n", jobID, p.Name, "train", "R", n.ID)
		}
	}
	return simulator.Success(b.String())
}

func (s *Slurm) scontrol(cmd *parser.Command, ctx *simulator.Context, c *cluster.Config) *simulator.Result {
	if len(cmd.Subcommands) == 0 {
		return simulator.Failure(1, "scontrol: usage: scontrol show|update|ping ...\n")
	}

	switch cmd.Subcommands[0] {
	case "ping":
		return simulator.Success(fmt.Sprintf("Slurmctld(primary) at %s is UP\n", c.Manager.ActiveNode))

	case "show":
		return s.scontrolShow(cmd, c)

	case "update":
		return s.scontrolUpdate(cmd, ctx, c)

	default:
		return simulator.Failure(1, fmt.Sprintf("scontrol: invalid entity %q\n", cmd.Subcommands[0]))
	}
}

func (s *Slurm) scontrolShow(cmd *parser.Command, c *cluster.Config) *simulator.Result {
	if len(cmd.Subcommands) < 2 {
		return simulator.Failure(1, "scontrol show: specify an entity (node, partition)\n")
	}
	entity := strings.TrimSuffix(cmd.Subcommands[1], "s")

	var target string
	if len(cmd.PositionalArgs) > 0 {
		target = cmd.PositionalArgs[0]
	}

	var b strings.Builder
	switch entity {
	case "node":
		for _, n := range c.Nodes {
			if target != "" && n.ID != target && n.Hostname != target {
				continue
			}
			fmt.Fprintf(&b, "NodeName=%s State=%s Reason=%s Gres=gpu:%d Health=%s\n",
				n.ID, strings.ToUpper(n.SlurmState), orNone(n.SlurmReason), len(n.GPUs), n.Health)
		}
		if target != "" && b.Len() == 0 {
			return simulator.Failure(1, fmt.Sprintf("Node %s not found\n", target))
		}

	case "partition":
		for _, p := range c.Partitions {
			if target != "" && p.Name != target {
				continue
			}
			fmt.Fprintf(&b, "PartitionName=%s State=%s Nodes=%s Default=%v\n",
				p.Name, strings.ToUpper(p.State), strings.Join(p.Nodes, ","), p.Default)
		}
		if target != "" && b.Len() == 0 {
			return simulator.Failure(1, fmt.Sprintf("Partition %s not found\n", target))
		}

	default:
		return simulator.Failure(1, fmt.Sprintf("scontrol show: invalid entity %q\n", entity))
	}

	return simulator.Success(b.String())
}

// scontrolUpdate handles "scontrol update NodeName=x State=drain Reason=y".
// Key=value pairs arrive as positional arguments.
func (s *Slurm) scontrolUpdate(cmd *parser.Command, ctx *simulator.Context, c *cluster.Config) *simulator.Result {
	kv := make(map[string]string)
	for _, arg := range cmd.PositionalArgs {
		if eq := strings.IndexByte(arg, '='); eq > 0 {
			key := strings.ToLower(arg[:eq])
			kv[key] = strings.Trim(arg[eq+1:], `"'`)
		}
	}

	nodeID := kv["nodename"]
	state := strings.ToLower(kv["state"])
	if nodeID == "" || state == "" {
		return simulator.Failure(1, "scontrol update: NodeName and State are required\n")
	}
	if c.Node(nodeID) == nil {
		return simulator.Failure(1, fmt.Sprintf("Node %s not found\n", nodeID))
	}

	switch state {
	case cluster.SlurmIdle, cluster.SlurmAllocated, cluster.SlurmDrain, cluster.SlurmDown, "resume":
	default:
		return simulator.Failure(1, fmt.Sprintf("scontrol update: invalid state %q\n", state))
	}
	if state == "resume" {
		state = cluster.SlurmIdle
	}

	reason := kv["reason"]
	if state == cluster.SlurmDrain && reason == "" {
		return simulator.Failure(1, "scontrol update: a Reason is required when draining a node\n")
	}

	mut := simulator.ResolveMutator(ctx)
	if err := mut.SetSlurmState(nodeID, state, reason); err != nil {
		return simulator.Failure(1, err.Error()+"\n")
	}
	return simulator.Success("")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
