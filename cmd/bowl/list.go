// List command for the bowl CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/sqlite"
)

// listEntry is the JSON form of a catalog entry.
type listEntry struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	TemplateVersion string    `json:"template_version"`
	FormatVersion   string    `json:"format_version"`
	FileCount       int       `json:"files"`
	Size            int64     `json:"size"`
	Path            string    `json:"path"`
	SavedAt         time.Time `json:"saved_at"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates in the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.resolveDataDir()
			if err != nil {
				return sysErr(err)
			}
			catalog := sqlite.NewBackend()
			if err := catalog.Attach(dataDir); err != nil {
				return sysErr(err)
			}
			defer catalog.Detach()

			entries, err := catalog.List()
			if err != nil {
				return sysErr(err)
			}
			rows := make([]listEntry, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, listEntry(e))
			}

			extra, err := a.uncatalogued(cache.Open(catalog.DataDir(), catalog), entries)
			if err != nil {
				return sysErr(err)
			}
			rows = append(rows, extra...)
			sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

			out := cmd.OutOrStdout()
			if a.jsonMode {
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal output: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(rows) == 0 {
				fmt.Fprintln(out, "No templates saved")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tVERSION\tFILES\tSIZE\tSAVED")
			for _, r := range rows {
				version := r.TemplateVersion
				if version == "" {
					version = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
					r.Name, version, r.FileCount, r.Size, r.SavedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

// uncatalogued describes bundles in the cache directory that have no catalog
// row, such as files copied in by hand. Their template version is unknown.
func (a *app) uncatalogued(store *cache.Store, entries []sqlite.Entry) ([]listEntry, error) {
	names, err := store.List()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Name] = true
	}

	var rows []listEntry
	for _, name := range names {
		if known[name] {
			continue
		}
		p, err := store.Path(name)
		if err != nil {
			a.logger.Warn("skipping cached bundle", "name", name, "error", err)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		row := listEntry{Name: name, Size: info.Size(), Path: p, SavedAt: info.ModTime().UTC()}
		if b, err := store.Get(name); err != nil {
			a.logger.Warn("cached bundle does not decode", "name", name, "error", err)
		} else {
			row.FormatVersion = b.Version
			row.FileCount = len(b.Files)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
