package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/mediashelf/mediashelf/internal/validation"
	"github.com/spf13/cobra"
)

func newTagsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List and manage tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := g.client().ListTags(cmd.Context())
			if err != nil {
				return err
			}
			renderTags(cmd.OutOrStdout(), tags)
			return nil
		},
	}

	var color string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.TagInput{Name: strings.TrimSpace(args[0]), Color: color}
			if err := validation.NewValidator().Validate(in); err != nil {
				return err
			}
			tag, err := g.client().CreateTag(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}
			ui.NewConsole(cmd.OutOrStdout()).Notify(ui.LevelSuccess, fmt.Sprintf("Tag %q created", tag.Name))
			return nil
		},
	}
	create.Flags().StringVar(&color, "color", "", "Chip color (default chosen by the backend)")

	var name, newColor string
	update := &cobra.Command{
		Use:     "update <id|name>",
		Aliases: []string{"rename", "recolor"},
		Short:   "Rename or recolor a tag",
		Example: `  mediashelf tags update backlog --name "up next" --color "#22c55e"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := g.client()
			tag, err := lookupTag(ctx, c, args[0])
			if err != nil {
				return err
			}
			in := models.TagInput{Name: tag.Name, Color: tag.Color}
			if cmd.Flags().Changed("name") {
				in.Name = strings.TrimSpace(name)
			}
			if newColor != "" {
				in.Color = newColor
			}
			if err := validation.NewValidator().Validate(in); err != nil {
				return err
			}
			updated, err := c.UpdateTag(ctx, tag.ID, in)
			if err != nil {
				return fmt.Errorf("failed to update tag %d: %w", tag.ID, err)
			}
			ui.NewConsole(cmd.OutOrStdout()).Notify(ui.LevelSuccess, fmt.Sprintf("Tag %q updated", updated.Name))
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "New name")
	update.Flags().StringVar(&newColor, "color", "", "New chip color")

	del := &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag and detach it from every item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := g.client()
			tag, err := lookupTag(ctx, c, args[0])
			if err != nil {
				return err
			}
			prompt := &ui.Prompt{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), AssumeYes: g.cfg.Yes}
			question := fmt.Sprintf("Delete tag %q? It is used by %s.", tag.Name, english.Plural(tag.UsageCount, "item", ""))
			if !prompt.Confirm(ctx, question) {
				return nil
			}
			if err := c.DeleteTag(ctx, tag.ID); err != nil {
				return fmt.Errorf("failed to delete tag %d: %w", tag.ID, err)
			}
			ui.NewConsole(cmd.OutOrStdout()).Notify(ui.LevelSuccess, fmt.Sprintf("Tag %q deleted", tag.Name))
			return nil
		},
	}

	cmd.AddCommand(create, update, del)
	return cmd
}

// lookupTag finds a tag by id or by name, ignoring case
func lookupTag(ctx context.Context, c *client.Client, s string) (models.Tag, error) {
	tags, err := c.ListTags(ctx)
	if err != nil {
		return models.Tag{}, err
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		for _, t := range tags {
			if t.ID == id {
				return t, nil
			}
		}
		return models.Tag{}, fmt.Errorf("no tag with id %d", id)
	}
	if t, ok := findTag(tags, s); ok {
		return t, nil
	}
	return models.Tag{}, fmt.Errorf("unknown tag %q", s)
}

func renderTags(w io.Writer, tags []models.Tag) {
	fmt.Fprintln(w, ui.TitleStyle.Render("Tags"))
	if len(tags) == 0 {
		ui.EmptyState(w, "🏷️", "No tags yet", "Tags are created from the item editor or with \"mediashelf tags create\".")
		return
	}
	slices.SortFunc(tags, func(a, b models.Tag) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	for _, t := range tags {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(6).Render(ui.MutedStyle.Render(fmt.Sprintf("#%d", t.ID))),
			lipgloss.NewStyle().Width(28).Render(ui.TagChip(t)),
			ui.MutedStyle.Render(english.Plural(t.UsageCount, "item", "")),
		))
	}
}
