// Init command for the bowl CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and local template cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := writeConfigIfMissing(a.configDir, a.dataDir)
			if err != nil {
				return sysErr(err)
			}

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Bowl initialized successfully")
			fmt.Fprintln(out, "  config:   ", configPath)
			fmt.Fprintln(out, "  templates:", store.Dir())
			return nil
		},
	}
}
