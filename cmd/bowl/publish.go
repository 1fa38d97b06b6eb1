// Publish and save commands for the bowl CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/config"
	"github.com/jackjohn7/bowl/pkg/bundle"
)

var errRegistryUnavailable = errors.New("publishing to a remote registry is not supported yet; use --local or --output")

func newPublishCmd(a *app) *cobra.Command {
	var output string
	var local bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Check the template and build its bundle",
		Long: `Check the template in the current directory and build a .bowl bundle.

With --output the bundle is written to the given file, or to <name>.bowl
inside it when the path is a directory. With --local it is saved to the
local template cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && !local {
				return errRegistryUnavailable
			}

			cfg, b, err := a.buildBundle()
			if err != nil {
				return err
			}

			if output != "" {
				path, err := writeBundleFile(a.resolvePath(output), cfg.Template.Name, b)
				if err != nil {
					return err
				}
				a.logger.Info("bundle written", "path", path)
			}
			if local {
				if _, err := a.saveLocal(cfg, b); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Bowl template built successfully!")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the bundle to this file or directory")
	cmd.Flags().BoolVar(&local, "local", false, "save the bundle to the local template cache")
	return cmd
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the template to the local cache without publishing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, b, err := a.buildBundle()
			if err != nil {
				return err
			}
			path, err := a.saveLocal(cfg, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s to %s\n", cfg.Template.Name, cfg.Template.Version, path)
			return nil
		},
	}
}

// saveLocal stores b in the local cache under the template name.
func (a *app) saveLocal(cfg config.Config, b *bundle.Bundle) (string, error) {
	store, closeStore, err := a.openStore()
	if err != nil {
		return "", err
	}
	defer closeStore()

	path, err := store.Put(cfg.Template.Name, cfg.Template.Version, b)
	if err != nil {
		return "", sysErr(err)
	}
	a.logger.Info("bundle saved to cache", "name", cfg.Template.Name, "path", path)
	return path, nil
}

// writeBundleFile writes b to out. When out is an existing directory or ends
// with a path separator the bundle is written to <name>.bowl inside it.
func writeBundleFile(out, name string, b *bundle.Bundle) (string, error) {
	path := out
	if strings.HasSuffix(out, string(filepath.Separator)) || strings.HasSuffix(out, "/") {
		path = filepath.Join(out, name+cache.Extension)
	} else if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, name+cache.Extension)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", sysErr(fmt.Errorf("create directory: %w", err))
	}
	f, err := os.Create(path)
	if err != nil {
		return "", sysErr(fmt.Errorf("create bundle file: %w", err))
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return "", sysErr(fmt.Errorf("write bundle file: %w", err))
	}
	if err := f.Close(); err != nil {
		return "", sysErr(fmt.Errorf("close bundle file: %w", err))
	}
	return path, nil
}
