package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var asRoot bool

	cmd := &cobra.Command{
		Use:   "run -- <command line>",
		Short: "Execute a single simulated command and exit",
		Long: `Execute one command line against the simulated fleet without
entering the shell. The process exit code mirrors the simulated one,
so "fleetsim run" composes with scripts and judges.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			ctx := a.execContext()
			ctx.IsRoot = ctx.IsRoot || asRoot

			line := strings.Join(args, " ")
			res := a.interp.Run(line, ctx)
			fmt.Fprint(cmd.OutOrStdout(), res.Output)

			if res.ExitCode != 0 {
				os.Exit(res.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asRoot, "root", false, "Run with root privileges")
	return cmd
}
