package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/mediashelf/mediashelf/internal/app"
	"github.com/mediashelf/mediashelf/internal/browser"
	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/config"
	"github.com/mediashelf/mediashelf/internal/logging"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/spf13/cobra"
)

// globals holds the persistent flags and the configuration built from them
type globals struct {
	configPath string
	apiURL     string
	timeout    time.Duration
	pageSize   int
	yes        bool
	logLevel   string
	logFormat  string
	logFile    string

	cfg     config.Config
	logSink io.Closer
}

func NewRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "mediashelf",
		Short: "Track your books, movies, games, albums and TV shows",
		Long: `Mediashelf is a personal media collection tracker.

It catalogs media items with category-specific metadata, a letter-grade
rating, notes, a cover image and tags, and keeps the controlled vocabularies
behind the metadata dropdowns. Run "mediashelf serve" for a local development
backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return g.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.logSink != nil {
				return g.logSink.Close()
			}
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&g.configPath, "config", "", "Path to a YAML config file (default $MEDIASHELF_CONFIG)")
	f.StringVar(&g.apiURL, "api-url", config.DefaultAPIURL, "Base URL of the backend API")
	f.DurationVar(&g.timeout, "timeout", config.DefaultTimeout, "Timeout for each API request")
	f.IntVar(&g.pageSize, "page-size", config.DefaultPageSize, "Items per library page")
	f.BoolVarP(&g.yes, "yes", "y", false, "Answer yes to every confirmation")
	f.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")
	f.StringVar(&g.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newOpenCmd(g))
	cmd.AddCommand(newDashboardCmd(g))
	cmd.AddCommand(newLibraryCmd(g))
	cmd.AddCommand(newItemCmd(g))
	cmd.AddCommand(newCategoriesCmd(g))
	cmd.AddCommand(newTagsCmd(g))
	cmd.AddCommand(newVocabCmd(g))
	cmd.AddCommand(newExportCmd(g))

	return cmd
}

// setup merges the config file, the environment and the flags that were set,
// then installs the logger
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = g.apiURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = g.timeout
	}
	if flags.Changed("page-size") {
		cfg.PageSize = g.pageSize
	}
	if flags.Changed("yes") {
		cfg.Yes = g.yes
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = g.logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sink, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.logSink = sink
	slog.Debug("Configuration loaded", "api_url", cfg.APIURL, "timeout", cfg.Timeout, "page_size", cfg.PageSize)
	return nil
}

func (g *globals) client() *client.Client {
	return client.New(g.cfg.APIURL, client.WithTimeout(g.cfg.Timeout))
}

// newApp builds the application against the configured backend and loads the
// shared categories and tags
func (g *globals) newApp(cmd *cobra.Command) (*app.App, error) {
	out := cmd.OutOrStdout()
	prompt := &ui.Prompt{In: cmd.InOrStdin(), Out: out, AssumeYes: g.cfg.Yes}
	a := app.New(g.client(), ui.NewConsole(out), prompt, out,
		app.WithBrowserOptions(browser.WithPageSize(g.cfg.PageSize)),
	)
	if err := a.Start(cmd.Context()); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to reach backend at %s: %w", g.cfg.APIURL, err)
	}
	return a, nil
}
