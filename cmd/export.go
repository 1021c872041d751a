package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/export"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/spf13/cobra"
)

func newExportCmd(g *globals) *cobra.Command {
	var (
		output   string
		format   string
		category string
		status   string
		query    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as parquet, YAML or JSON",
		Long: `Pages through every media item matching the filters and writes them as
flattened records. The format is taken from --format, or from the extension
of --output, and defaults to JSON.`,
		Example: `  mediashelf export -o collection.parquet
  mediashelf export --category Books --format yaml > books.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f := export.FormatJSON
			switch {
			case format != "":
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			case output != "":
				if parsed, err := export.ParseFormat(output); err == nil {
					f = parsed
				}
			}

			c := g.client()
			q := client.MediaQuery{Query: query}
			if category != "" {
				store := state.NewStore()
				if err := store.Refresh(ctx, c); err != nil {
					return err
				}
				cat, err := resolveCategory(store, category)
				if err != nil {
					return err
				}
				q.CategoryID = models.Int64(cat.ID)
			}
			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				q.Status = string(st)
			}

			records, err := export.Collect(ctx, c, q)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			if err := export.Write(w, f, records); err != nil {
				return err
			}

			slog.Info("Export finished", "format", f, "items", len(records), "output", output)
			if output != "" {
				msg := fmt.Sprintf("Exported %s items to %s", humanize.Comma(int64(len(records))), output)
				ui.NewConsole(cmd.ErrOrStderr()).Notify(ui.LevelSuccess, msg)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	fs.StringVar(&format, "format", "", "Output format (parquet, yaml, json)")
	fs.StringVarP(&category, "category", "c", "", "Only items in this category (name or id)")
	fs.StringVar(&status, "status", "", "Only items with this status")
	fs.StringVarP(&query, "query", "q", "", "Only items matching this search")

	return cmd
}
