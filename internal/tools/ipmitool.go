package tools

import (
	"fmt"
	"strings"

	"github.com/fleetsim/fleetsim/pkg/parser"
	"github.com/fleetsim/fleetsim/pkg/simulator"
)

// IPMITool simulates BMC management for the current node.
type IPMITool struct{}

// Metadata implements simulator.Simulator.
func (s *IPMITool) Metadata() simulator.Metadata {
	return simulator.Metadata{
		Name:        "ipmitool",
		Version:     "1.8.19",
		Description: "BMC management utility",
		Commands:    []string{"ipmitool"},
	}
}

// Execute implements simulator.Simulator.
func (s *IPMITool) Execute(cmd *parser.Command, ctx *simulator.Context) *simulator.Result {
	node := simulator.ResolveNode(ctx, "")
	if node == nil {
		return simulator.Failure(1, "Could not open device at /dev/ipmi0: No such file or directory\n")
	}

	if len(cmd.Subcommands) == 0 {
		return simulator.Failure(1, "ipmitool: usage: ipmitool sensor|power|lan|chassis ...\n")
	}

	switch cmd.Subcommands[0] {
	case "sensor":
		var b strings.Builder
		for _, g := range node.GPUs {
			fmt.Fprintf(&b, "GPU%d Temp        | %d degrees C | ok\n", g.Index, g.TemperatureC)
		}
		fmt.Fprintf(&b, "Inlet Temp       | 24 degrees C | ok\n")
		fmt.Fprintf(&b, "PSU1 Status      | 0x01 | ok\n")
		return simulator.Success(b.String())

	case "lan":
		var b strings.Builder
		fmt.Fprintf(&b, "IP Address              : %s\n", node.BMC.IP)
		fmt.Fprintf(&b, "MAC Address             : %s\n", node.BMC.MAC)
		fmt.Fprintf(&b, "Firmware Revision       : %s\n", node.BMC.Firmware)
		return simulator.Success(b.String())

	case "power", "chassis":
		return s.power(cmd, ctx, node.ID, node.BMC.PowerState)

	default:
		return simulator.Failure(1, fmt.Sprintf("Invalid command: %s\n", cmd.Subcommands[0]))
	}
}

func (s *IPMITool) power(cmd *parser.Command, ctx *simulator.Context, nodeID, current string) *simulator.Result {
	action := ""
	if len(cmd.Subcommands) > 1 {
		action = cmd.Subcommands[1]
	}
	// "chassis power status" nests one level deeper.
	if action == "power" && len(cmd.Subcommands) > 2 {
		action = cmd.Subcommands[2]
	}

	switch action {
	case "", "status":
		return simulator.Success(fmt.Sprintf("Chassis Power is %s\n", current))

	case "on", "off":
		mut := simulator.ResolveMutator(ctx)
		if err := mut.SetBMCPower(nodeID, action); err != nil {
			return simulator.Failure(1, err.Error()+"\n")
		}
		label := "On"
		if action == "off" {
			label = "Off"
		}
		return simulator.Success(fmt.Sprintf("Chassis Power Control: %s\n", label))

	case "cycle":
		mut := simulator.ResolveMutator(ctx)
		if err := mut.SetBMCPower(nodeID, "on"); err != nil {
			return simulator.Failure(1, err.Error()+"\n")
		}
		return simulator.Success("Chassis Power Control: Cycle\n")

	default:
		return simulator.Failure(1, fmt.Sprintf("Invalid chassis power command: %s\n", action))
	}
}
