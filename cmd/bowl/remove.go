// Remove command for the bowl CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/config"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <template>",
		Aliases: []string{"rm"},
		Short:   "Remove a template from the local cache",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := config.ValidateName(name); err != nil {
				return err
			}

			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Remove(name); err != nil {
				if errors.Is(err, cache.ErrNotFound) {
					return err
				}
				return sysErr(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			return nil
		},
	}
}
