package cmd

import (
	"github.com/mediashelf/mediashelf/internal/app"
	"github.com/mediashelf/mediashelf/internal/categories"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage media categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, g, func(a *app.App, m *categories.Manager) error {
				return nil
			})
		},
	}

	var icon, color string
	create := &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a category",
		Example: `  mediashelf categories create "Board Games" --icon 🎲 --color "#f97316"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, g, func(a *app.App, m *categories.Manager) error {
				_, err := m.Create(cmd.Context(), args[0], icon, color)
				return err
			})
		},
	}
	create.Flags().StringVar(&icon, "icon", categories.DefaultIcon, "Icon shown next to the name")
	create.Flags().StringVar(&color, "color", categories.DefaultColor, "Accent color")

	var name, newIcon, newColor string
	update := &cobra.Command{
		Use:     "update <id|name>",
		Aliases: []string{"rename"},
		Short:   "Rename or restyle a category",
		Example: `  mediashelf categories update "Board Games" --name Tabletop`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, g, func(a *app.App, m *categories.Manager) error {
				cat, err := resolveCategory(a.Store(), args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					if _, err := m.Rename(cmd.Context(), cat.ID, name); err != nil {
						return err
					}
				}
				if newIcon != "" || newColor != "" {
					in := models.CategoryInput{Icon: newIcon, Color: newColor}
					if _, err := m.Update(cmd.Context(), cat.ID, in); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "New name")
	update.Flags().StringVar(&newIcon, "icon", "", "New icon")
	update.Flags().StringVar(&newColor, "color", "", "New accent color")

	del := &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty, non built-in category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCategories(cmd, g, func(a *app.App, m *categories.Manager) error {
				cat, err := resolveCategory(a.Store(), args[0])
				if err != nil {
					return err
				}
				_, err = m.Delete(cmd.Context(), cat.ID)
				return err
			})
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

// withCategories loads the category view, runs fn and renders the view
func withCategories(cmd *cobra.Command, g *globals, fn func(*app.App, *categories.Manager) error) error {
	a, err := g.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := a.Categories
	if err := m.Load(cmd.Context()); err != nil {
		return err
	}
	if err := fn(a, m); err != nil {
		return err
	}
	return m.Render(cmd.OutOrStdout())
}
