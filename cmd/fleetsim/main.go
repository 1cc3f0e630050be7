// Package main implements the fleetsim trainer CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	version = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleetsim",
		Short: "fleetsim - GPU fleet operations training simulator",
		Long: `fleetsim simulates the command-line surface of a GPU cluster:
nvidia-smi, the Slurm tools, dcgmi, ipmitool, and ethtool all run
against an in-memory fleet model instead of real hardware.

Trainees practice diagnosis and remediation in isolated scenarios;
nothing they break leaks outside the simulation.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation drops into the shell.
			return runShell(cmd)
		},
	}

	cmd.AddCommand(newShellCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
