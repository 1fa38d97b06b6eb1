// Inspect command for the bowl CLI.
package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// inspectOutput is the JSON form of inspect.
type inspectOutput struct {
	Version string        `json:"version"`
	Files   []inspectFile `json:"files"`
	Size    int64         `json:"size"`
}

type inspectFile struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func newInspectCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect <template>",
		Short: "Show the version and files of a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.readBundle(args[0], a.resolvePath(path))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonMode {
				res := inspectOutput{Version: b.Version, Files: []inspectFile{}, Size: b.Size()}
				for _, f := range b.Files {
					res.Files = append(res.Files, inspectFile{Path: f.Path, Size: f.Size()})
				}
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal output: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "format version: %s\n", b.Version)
			fmt.Fprintf(out, "files: %d (%d bytes)\n", len(b.Files), b.Size())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, f := range b.Files {
				fmt.Fprintf(tw, "%d\t  %s\t\n", f.Size(), f.Path)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "read the bundle from this .bowl file instead of the local cache")
	return cmd
}
