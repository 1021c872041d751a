package cmd

import (
	"context"

	"github.com/mediashelf/mediashelf/internal/browser"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/spf13/cobra"
)

func newLibraryCmd(g *globals) *cobra.Command {
	var (
		category string
		query    string
		status   string
		rating   string
		sortBy   string
		sortDir  string
		view     string
		page     int
	)

	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"ls"},
		Short:   "Browse media items with filters, sorting and paging",
		Example: `  mediashelf library --category Books --sort title --dir asc
  mediashelf library -q dune --view list
  mediashelf library --status owned --rating A --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := g.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var categoryID *int64
			if category != "" {
				cat, err := resolveCategory(a.Store(), category)
				if err != nil {
					return err
				}
				categoryID = models.Int64(cat.ID)
			}

			lib := a.Library
			steps := []func(context.Context) error{
				func(ctx context.Context) error { return lib.Enter(ctx, categoryID) },
			}
			flags := cmd.Flags()
			if flags.Changed("query") {
				steps = append(steps, func(ctx context.Context) error { return lib.SetQueryNow(ctx, query) })
			}
			if flags.Changed("status") {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				steps = append(steps, func(ctx context.Context) error { return lib.SetStatus(ctx, &st) })
			}
			if flags.Changed("rating") {
				grade, err := parseRating(rating)
				if err != nil {
					return err
				}
				steps = append(steps, func(ctx context.Context) error { return lib.SetRating(ctx, grade) })
			}
			if flags.Changed("sort") || flags.Changed("dir") {
				steps = append(steps, func(ctx context.Context) error { return lib.SetSort(ctx, sortBy, sortDir) })
			}
			if flags.Changed("view") {
				steps = append(steps, func(ctx context.Context) error { return lib.SetView(ctx, browser.ViewMode(view)) })
			}
			for range page - 1 {
				steps = append(steps, lib.Next)
			}

			for _, step := range steps {
				if err := step(ctx); err != nil {
					ui.ErrorPanel(out, err)
					return err
				}
			}
			if err := lib.Render(out); err != nil {
				ui.ErrorPanel(out, err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&category, "category", "c", "", "Category name or id")
	f.StringVarP(&query, "query", "q", "", "Search titles and notes")
	f.StringVar(&status, "status", "", "Only items with this status (wishlist, owned)")
	f.StringVar(&rating, "rating", "", "Only items with this grade (A+ to F)")
	f.StringVar(&sortBy, "sort", browser.SortCreatedAt, "Sort by created_at, title or rating")
	f.StringVar(&sortDir, "dir", "desc", "Sort direction (asc, desc)")
	f.StringVar(&view, "view", string(browser.ViewGrid), "Layout (grid, list)")
	f.IntVar(&page, "page", 1, "Page number")

	return cmd
}
