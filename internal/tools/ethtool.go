package tools

import (
	"fmt"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// Ethtool simulates NIC queries against the current node.
type Ethtool struct{}

// Metadata implements simulator.Simulator.
func (s *Ethtool) Metadata() simulator.Metadata {
	return simulator.Metadata{
		Name:        "ethtool",
		Version:     "6.7",
		Description: "Network adapter settings",
		Commands:    []string{"ethtool"},
	}
}

// Execute implements simulator.Simulator.
func (s *Ethtool) Execute(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	node := simulator.ResolveNode(ctx, "")
	if node == nil {
		return simulator.Failure(1, "Cannot get device settings: No such device\n")
	}

	iface := ""
	switch {
	case len(cmd.PositionalArgs) > 0:
		iface = cmd.PositionalArgs[0]
	case len(cmd.Subcommands) > 0:
		// Interface names without digits parse as bare words.
		iface = cmd.Subcommands[0]
	default:
		// "-i eth0": the device lands as the flag's value.
		for _, name := range []string{"i", "driver", "S", "statistics"} {
			if v := cmd.FlagString(name); v != "" {
				iface = v
				break
			}
		}
	}
	if iface == "" {
		return simulator.Failure(1, "ethtool: no device specified\n")
	}

	var nic *cluster.NetworkAdapter
	for i := range node.NICs {
		if node.NICs[i].Name == iface {
			nic = &node.NICs[i]
			break
		}
	}
	if nic == nil {
		return simulator.Failure(1, fmt.Sprintf("Cannot get device settings: %s: not found\n", iface))
	}

	if cmd.HasFlag("i") || cmd.HasFlag("driver") {
		var b strings.Builder
		fmt.Fprintf(&b, "driver: %s\n", nic.Driver)
		fmt.Fprintf(&b, "bus-info: %s\n", nic.MAC)
		return simulator.Success(b.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Settings for %s:\n", nic.Name)
	fmt.Fprintf(&b, "\tSpeed: %dGb/s\n", nic.SpeedGbps)
	link := "no"
	if nic.LinkUp {
		link = "yes"
	}
	fmt.Fprintf(&b, "\tLink detected: %s\n", link)
	return simulator.Success(b.String())
}
