package cmd

import (
	"fmt"

	"github.com/mediashelf/mediashelf/internal/app"
	"github.com/spf13/cobra"
)

func newOpenCmd(g *globals) *cobra.Command {
	var sidebar bool

	cmd := &cobra.Command{
		Use:   "open [route]",
		Short: "Render a view by its route",
		Long: `Renders one of the application views by route:

  dashboard, library, library/category/<id>, categories, settings

Unknown routes show the dashboard.`,
		Example: `  mediashelf open library/category/3
  mediashelf open settings --sidebar`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route := app.RouteDashboard
			if len(args) == 1 {
				route = args[0]
			}
			return navigate(cmd, g, route, sidebar)
		},
	}
	cmd.Flags().BoolVar(&sidebar, "sidebar", false, "Show the navigation sidebar first")
	return cmd
}

func newDashboardCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show collection statistics and recently owned items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return navigate(cmd, g, app.RouteDashboard, false)
		},
	}
}

func navigate(cmd *cobra.Command, g *globals, route string, sidebar bool) error {
	a, err := g.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if sidebar {
		if err := a.Sidebar(cmd.Context(), cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return a.Navigate(cmd.Context(), route)
}
