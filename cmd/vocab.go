package cmd

import (
	"strings"

	"github.com/mediashelf/mediashelf/internal/app"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/settings"
	"github.com/spf13/cobra"
)

func newVocabCmd(g *globals) *cobra.Command {
	var category string

	// listKey turns "genre", "genre|3" or "genre --category Books" into a list key
	listKey := func(a *app.App, arg string) (string, error) {
		if category != "" {
			cat, err := resolveCategory(a.Store(), category)
			if err != nil {
				return "", err
			}
			return settings.EntryKey(arg, models.Int64(cat.ID)), nil
		}
		if strings.Contains(arg, "|") {
			return arg, nil
		}
		return settings.EntryKey(arg, nil), nil
	}

	// run opens the settings view on the list named by args[0], runs fn and renders the view
	run := func(cmd *cobra.Command, args []string, fn func(m *settings.Manager) error) error {
		a, err := g.newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m := a.Settings
		if err := m.Refresh(cmd.Context(), a.Store().Categories()); err != nil {
			return err
		}
		if len(args) > 0 {
			key, err := listKey(a, args[0])
			if err != nil {
				return err
			}
			if err := m.Select(cmd.Context(), key); err != nil {
				return err
			}
		}
		if fn != nil {
			if err := fn(m); err != nil {
				return err
			}
		}
		return m.Render(cmd.OutOrStdout())
	}

	cmd := &cobra.Command{
		Use:     "vocab [list]",
		Aliases: []string{"settings", "fields"},
		Short:   "Show and edit the field value lists behind metadata dropdowns",
		Long: `Shows the field value lists. A list is named by its field type, optionally
scoped to a category with --category or as "<field>|<category id>".`,
		Example: `  mediashelf vocab
  mediashelf vocab genre
  mediashelf vocab sub_genre --category Albums`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, nil)
		},
	}
	cmd.PersistentFlags().StringVarP(&category, "category", "c", "", "Category the list is scoped to")

	add := &cobra.Command{
		Use:     "add <list> <value>...",
		Short:   "Add values to a list",
		Example: `  mediashelf vocab add platform "Steam Deck"
  mediashelf vocab add genre -c Games Roguelike`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[:1], func(m *settings.Manager) error {
				for _, v := range args[1:] {
					if err := m.Add(cmd.Context(), v); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	rename := &cobra.Command{
		Use:   "rename <list> <id> <value>",
		Short: "Rename a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return run(cmd, args[:1], func(m *settings.Manager) error {
				if err := m.BeginRename(id); err != nil {
					return err
				}
				if err := m.SetDraft(id, args[2]); err != nil {
					return err
				}
				return m.SaveRename(cmd.Context(), id)
			})
		},
	}

	del := &cobra.Command{
		Use:     "delete <list> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a value",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return run(cmd, args[:1], func(m *settings.Manager) error {
				_, err := m.Delete(cmd.Context(), id)
				return err
			})
		},
	}

	cmd.AddCommand(add, rename, del)
	return cmd
}
