// New command for the bowl CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl/internal/config"
	"github.com/jackjohn7/bowl/internal/vcs"
)

var errTemplateExists = errors.New("destination already exists")

func newNewCmd(a *app) *cobra.Command {
	var noGit bool

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty bowl template",
		Long: `Create a directory containing a bowl.toml and a bowl.md readme.
A git repository is initialized unless --no-git is given or git is not
installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := config.ValidateName(name); err != nil {
				return err
			}

			dir := filepath.Join(a.workDir, name)
			if _, err := os.Stat(dir); err == nil {
				return fmt.Errorf("%w: %s", errTemplateExists, dir)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return sysErr(fmt.Errorf("create %s: %w", dir, err))
			}

			cfg := config.Default(name)
			if err := config.Write(dir, cfg); err != nil {
				return sysErr(err)
			}
			readme := filepath.Join(dir, filepath.FromSlash(cfg.Options.Readme))
			if err := os.WriteFile(readme, []byte("# "+name+"\n"), 0o644); err != nil {
				return sysErr(fmt.Errorf("write readme: %w", err))
			}

			switch {
			case noGit:
				a.logger.Debug("git init skipped", "reason", "--no-git")
			case !vcs.Available():
				a.logger.Warn("git not found, skipping repository initialization")
			default:
				if err := vcs.Init(commandContext(cmd), dir); err != nil {
					return sysErr(err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created template %q in %s\n", name, dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not initialize a git repository")
	return cmd
}
