// Use command for the bowl CLI.
package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl/internal/files"
)

func newUseCmd(a *app) *cobra.Command {
	var (
		path  string
		dest  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "use <template>",
		Short: "Create a new project from a template",
		Long: `Create a project from a template in the local cache, or from a .bowl
file given with --path. Files are written to --dest, which defaults to a
directory named after the template.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			b, err := a.readBundle(name, a.resolvePath(path))
			if err != nil {
				return err
			}

			target := a.resolvePath(dest)
			if target == "" {
				target = filepath.Join(a.workDir, filepath.Base(name))
			}

			if err := files.Extract(target, b, force); err != nil {
				if errors.Is(err, files.ErrFileExists) || errors.Is(err, files.ErrUnsafePath) {
					return err
				}
				return sysErr(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s from %s (%d files)\n", target, name, len(b.Files))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "read the bundle from this .bowl file instead of the local cache")
	cmd.Flags().StringVar(&dest, "dest", "", "directory to create the project in (default: ./<template>)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
