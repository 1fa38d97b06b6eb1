// Version command for the bowl CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl"
	"github.com/jackjohn7/bowl/pkg/bundle"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bowl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bowl %s (bundle format %s)\n", bowl.Version, bundle.CurrentVersion)
			return nil
		},
	}
}
