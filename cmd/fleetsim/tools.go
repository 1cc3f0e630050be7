package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the simulated tool catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			reg := a.interp.Registry()
			rows := pterm.TableData{{"Tool", "Version", "Description"}}
			for _, tool := range reg.Tools() {
				def := reg.Definition(tool)
				rows = append(rows, []string{def.Name, def.Version, def.Description})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
}
