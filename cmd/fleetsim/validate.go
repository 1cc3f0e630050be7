package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetsim/fleetsim/pkg/cluster"
	"github.com/fleetsim/fleetsim/pkg/registry"
)

func newValidateCmd() *cobra.Command {
	var (
		clusterPath string
		defsDir     string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate cluster topology and tool definition files",
		Long: `Validate the YAML inputs fleetsim runs on.

This command checks:
  - Cluster topology syntax and required fields
  - Tool definition syntax across a definitions directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clusterPath == "" && defsDir == "" {
				return fmt.Errorf("nothing to validate: pass --cluster and/or --definitions")
			}

			if clusterPath != "" {
				cfg, err := cluster.LoadFile(clusterPath)
				if err != nil {
					return fmt.Errorf("cluster validation failed: %w", err)
				}
				gpus := 0
				for _, n := range cfg.Nodes {
					gpus += len(n.GPUs)
				}
				fmt.Printf("✓ Cluster %q is valid: %d nodes, %d GPUs, %d partitions\n",
					cfg.Name, len(cfg.Nodes), gpus, len(cfg.Partitions))
			}

			if defsDir != "" {
				reg, err := registry.Load(os.DirFS(defsDir), ".")
				if err != nil {
					return fmt.Errorf("definition validation failed: %w", err)
				}
				fmt.Printf("✓ Definitions are valid: %d tools (%v)\n",
					len(reg.Tools()), reg.Tools())
			}

			fmt.Println("\n✓ All validations passed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&clusterPath, "cluster", "c", "", "Path to a cluster topology YAML file")
	cmd.Flags().StringVarP(&defsDir, "definitions", "d", "", "Path to a directory of tool definition YAML files")

	return cmd
}
