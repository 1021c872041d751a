package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mediashelf/mediashelf/internal/app"
	"github.com/mediashelf/mediashelf/internal/covers"
	"github.com/mediashelf/mediashelf/internal/form"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/spf13/cobra"
)

func newItemCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit, show and delete media items",
	}
	cmd.AddCommand(newItemAddCmd(g))
	cmd.AddCommand(newItemEditCmd(g))
	cmd.AddCommand(newItemShowCmd(g))
	cmd.AddCommand(newItemDeleteCmd(g))
	return cmd
}

// itemFlags are the form inputs shared by add and edit
type itemFlags struct {
	category   string
	title      string
	notes      string
	status     string
	rating     string
	cover      string
	coverURL   string
	coverISBN  string
	clearCover bool
	fields     []string
	tags       []string
	untag      []string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.category, "category", "c", "", "Category name or id")
	fs.StringVar(&f.title, "title", "", "Title")
	fs.StringVar(&f.notes, "notes", "", "Notes")
	fs.StringVar(&f.status, "status", "", "Status (wishlist, owned)")
	fs.StringVar(&f.rating, "rating", "", `Grade from A+ to F, or "none"`)
	fs.StringVar(&f.cover, "cover", "", "Upload this image as the cover")
	fs.StringVar(&f.coverURL, "cover-url", "", "Download this image and upload it as the cover")
	fs.StringVar(&f.coverISBN, "cover-isbn", "", "Use the Open Library cover of this ISBN")
	fs.BoolVar(&f.clearCover, "clear-cover", false, "Remove the cover image")
	fs.StringArrayVarP(&f.fields, "field", "f", nil, "Metadata field as key=value; separate multiple values with commas")
	fs.StringArrayVarP(&f.tags, "tag", "t", nil, "Tag to attach, created if it does not exist")
	fs.StringArrayVar(&f.untag, "untag", nil, "Tag to detach")
}

// apply copies the flags that were set into the session
func (f *itemFlags) apply(ctx context.Context, cmd *cobra.Command, a *app.App, s *form.Session) error {
	flags := cmd.Flags()

	if flags.Changed("category") {
		cat, err := resolveCategory(a.Store(), f.category)
		if err != nil {
			return err
		}
		if err := s.SetCategory(cat.ID); err != nil {
			return err
		}
	}
	if flags.Changed("title") {
		s.SetTitle(f.title)
	}
	if flags.Changed("notes") {
		s.SetNotes(f.notes)
	}
	if flags.Changed("status") {
		st, err := models.ParseStatus(f.status)
		if err != nil {
			return err
		}
		if err := s.SetStatus(st); err != nil {
			return err
		}
	}
	if flags.Changed("rating") {
		grade, err := parseRating(f.rating)
		if err != nil {
			return err
		}
		if err := s.SetRating(grade); err != nil {
			return err
		}
	}

	if f.clearCover {
		s.ClearCover()
	}
	if f.cover != "" {
		file, err := os.Open(f.cover)
		if err != nil {
			return fmt.Errorf("failed to open cover image: %w", err)
		}
		defer file.Close()
		if err := s.UploadCover(ctx, filepath.Base(f.cover), file); err != nil {
			return err
		}
	}

	if f.coverURL != "" || f.coverISBN != "" {
		if err := fetchCover(ctx, s, f.coverURL, f.coverISBN); err != nil {
			return err
		}
	}

	for _, kv := range f.fields {
		if err := setField(s, kv); err != nil {
			return err
		}
	}

	picker := s.Tags()
	for _, name := range f.tags {
		if tag, ok := findTag(picker.All(), name); ok {
			picker.Select(tag.ID)
			continue
		}
		if _, err := picker.Create(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range f.untag {
		if tag, ok := findTag(picker.All(), name); ok {
			picker.Remove(tag.ID)
		}
	}
	return nil
}

func fetchCover(ctx context.Context, s *form.Session, rawURL, isbn string) error {
	fetcher := covers.NewFetcher()
	var (
		img *covers.Image
		err error
	)
	if rawURL != "" {
		img, err = fetcher.FetchURL(ctx, rawURL)
	} else {
		img, err = fetcher.FetchISBN(ctx, isbn)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch cover: %w", err)
	}
	return s.UploadCover(ctx, img.Filename, img.Reader())
}

func setField(s *form.Session, kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("invalid field %q, expected key=value", kv)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	for _, field := range s.Fields() {
		if field.Key != key {
			continue
		}
		switch field.Kind {
		case schema.KindMultiSelect:
			var values []string
			for v := range strings.SplitSeq(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					values = append(values, v)
				}
			}
			return s.SelectMany(key, values)
		case schema.KindSingleSelect:
			return s.Select(key, value)
		default:
			return s.SetText(key, value)
		}
	}
	return fmt.Errorf("no field %q for this category", key)
}

func findTag(tags []models.Tag, name string) (models.Tag, bool) {
	name = strings.TrimSpace(name)
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return models.Tag{}, false
}

func saveItem(ctx context.Context, cmd *cobra.Command, s *form.Session) error {
	item, err := s.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.MutedStyle.Render(fmt.Sprintf("#%d", item.ID)), item.Title)
	return nil
}

func newItemAddCmd(g *globals) *cobra.Command {
	f := &itemFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a media item",
		Example: `  mediashelf item add -c Books --title Dune -f author="Frank Herbert" -f genre=Sci-Fi
  mediashelf item add -c Games --title Hades --status owned --rating A+ -t roguelike --cover hades.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := g.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var categoryID *int64
			if f.category != "" {
				cat, err := resolveCategory(a.Store(), f.category)
				if err != nil {
					return err
				}
				categoryID = models.Int64(cat.ID)
			}
			if err := a.OpenEditor(ctx, nil, categoryID); err != nil {
				return err
			}
			s := a.Editor()
			if err := f.apply(ctx, cmd, a, s); err != nil {
				return err
			}
			return saveItem(ctx, cmd, s)
		},
	}
	f.register(cmd)
	return cmd
}

func newItemEditCmd(g *globals) *cobra.Command {
	f := &itemFlags{}
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit a media item; only the flags given are changed",
		Example: `  mediashelf item edit 12 --rating B+ -f genre= --untag backlog`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.OpenEditor(ctx, &id, nil); err != nil {
				return err
			}
			s := a.Editor()
			if err := f.apply(ctx, cmd, a, s); err != nil {
				return err
			}
			return saveItem(ctx, cmd, s)
		},
	}
	f.register(cmd)
	return cmd
}

func newItemShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a media item with all its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.OpenEditor(cmd.Context(), &id, nil); err != nil {
				return err
			}
			return a.Editor().Render(cmd.OutOrStdout())
		},
	}
}

func newItemDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a media item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.Library.Delete(cmd.Context(), id)
			return err
		},
	}
}
