// Check command for the bowl CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the template in the current directory is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, b, err := a.buildBundle()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Check succeeded: %s %s (%d files, %d bytes)\n",
				cfg.Template.Name, cfg.Template.Version, len(b.Files), b.Size())
			return nil
		},
	}
}
