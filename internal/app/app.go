// Package app wires the views together: routing, the sidebar, the item
// editor and the loop that reloads views when data changes.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/mediashelf/mediashelf/internal/browser"
	"github.com/mediashelf/mediashelf/internal/categories"
	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/dashboard"
	"github.com/mediashelf/mediashelf/internal/form"
	"github.com/mediashelf/mediashelf/internal/schema"
	"github.com/mediashelf/mediashelf/internal/settings"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
)

// API is everything the views need from the backend
type API interface {
	state.Source
	browser.API
	form.API
	dashboard.API
	categories.API
	settings.API
}

// Option configures an App
type Option func(*options)

type options struct {
	browser []browser.Option
	schema  *schema.Registry
}

// WithBrowserOptions passes options to the library browser
func WithBrowserOptions(opts ...browser.Option) Option {
	return func(o *options) {
		o.browser = append(o.browser, opts...)
	}
}

// WithSchema replaces the default field schema
func WithSchema(r *schema.Registry) Option {
	return func(o *options) {
		o.schema = r
	}
}

// App is the application context shared by every view
type App struct {
	api       API
	store     *state.Store
	bus       *state.Bus
	schema    *schema.Registry
	notifier  ui.Notifier
	confirmer ui.Confirmer
	out       io.Writer

	Dashboard  *dashboard.Dashboard
	Library    *browser.Browser
	Categories *categories.Manager
	Settings   *settings.Manager

	events      <-chan state.Event
	unsubscribe func()

	mu     sync.Mutex
	route  Route
	editor *form.Session
}

func New(api API, notifier ui.Notifier, confirmer ui.Confirmer, out io.Writer, opts ...Option) *App {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.schema == nil {
		o.schema = schema.DefaultRegistry()
	}

	a := &App{
		api:       api,
		store:     state.NewStore(),
		bus:       state.NewBus(),
		schema:    o.schema,
		notifier:  notifier,
		confirmer: confirmer,
		out:       out,
		route:     Route{Name: RouteDashboard},
	}
	a.events, a.unsubscribe = a.bus.Subscribe(32)

	a.Dashboard = dashboard.New(api)
	a.Library = browser.New(api, a.store, a, notifier, confirmer, a.bus, o.browser...)
	a.Categories = categories.New(api, notifier, confirmer, a.bus)
	a.Settings = settings.New(api, notifier, confirmer)
	return a
}

// Store returns the shared category and tag snapshots
func (a *App) Store() *state.Store {
	return a.store
}

// Bus returns the event bus views publish mutations on
func (a *App) Bus() *state.Bus {
	return a.bus
}

// Start loads the shared state. The schema is checked against the categories
// the backend knows; a mismatch is logged, not fatal.
func (a *App) Start(ctx context.Context) error {
	if err := a.store.Refresh(ctx, a.api); err != nil {
		return err
	}
	names := make([]string, 0)
	for _, c := range a.store.Categories() {
		names = append(names, c.Name)
	}
	if err := a.schema.Validate(names); err != nil {
		slog.Warn("Field schema does not match backend categories", "err", err)
	}
	return nil
}

// Close stops the event subscription and any pending search
func (a *App) Close() {
	a.Library.Close()
	a.unsubscribe()
}

// Route returns the current route
func (a *App) Route() Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// Navigate switches to route and renders it. Errors and panics from the view
// are rendered as an error panel and returned.
func (a *App) Navigate(ctx context.Context, route string) error {
	r := ParseRoute(route)
	a.mu.Lock()
	a.route = r
	a.mu.Unlock()
	return a.render(ctx, r)
}

func (a *App) render(ctx context.Context, r Route) (err error) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("View panicked", "route", r.String(), "panic", p, "stack", string(debug.Stack()))
			err = fmt.Errorf("view %s panicked: %v", r, p)
		}
		if err != nil {
			ui.ErrorPanel(a.out, err)
		}
	}()

	switch r.Name {
	case RouteLibrary:
		if err := a.Library.Enter(ctx, r.CategoryID); err != nil {
			return err
		}
		return a.Library.Render(a.out)
	case RouteCategories:
		if err := a.Categories.Load(ctx); err != nil {
			return err
		}
		return a.Categories.Render(a.out)
	case RouteSettings:
		if err := a.Settings.Refresh(ctx, a.store.Categories()); err != nil {
			return err
		}
		return a.Settings.Render(a.out)
	default:
		if err := a.Dashboard.Load(ctx); err != nil {
			return err
		}
		return a.Dashboard.Render(a.out)
	}
}

// OpenEditor starts an add or edit session; the session is available from Editor
func (a *App) OpenEditor(ctx context.Context, itemID *int64, defaultCategoryID *int64) error {
	s, err := form.Open(ctx, form.Deps{
		API:      a.api,
		Store:    a.store,
		Schema:   a.schema,
		Notifier: a.notifier,
		Bus:      a.bus,
	}, itemID, defaultCategoryID)
	if err != nil {
		a.notifier.Notify(ui.LevelError, err.Error())
		return err
	}

	a.mu.Lock()
	a.editor = s
	a.mu.Unlock()
	return nil
}

// Editor returns the open edit session, or nil
func (a *App) Editor() *form.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editor != nil && a.editor.Closed() {
		a.editor = nil
	}
	return a.editor
}

// Run reloads shared state and re-renders the current route after every
// published mutation, until ctx is done.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-a.events:
			if !ok {
				return nil
			}
			a.handle(ctx, e)
		}
	}
}

// Flush handles the events already published, without waiting for more
func (a *App) Flush(ctx context.Context) {
	for {
		select {
		case e, ok := <-a.events:
			if !ok {
				return
			}
			a.handle(ctx, e)
		default:
			return
		}
	}
}

func (a *App) handle(ctx context.Context, e state.Event) {
	slog.Debug("Handling event", "event", e.String())
	if err := a.store.Refresh(ctx, a.api); err != nil {
		slog.Warn("Failed to refresh shared state", "event", e.String(), "err", err)
	}
	if err := a.render(ctx, a.Route()); err != nil {
		slog.Warn("Failed to re-render view", "event", e.String(), "err", err)
	}
}

// Sidebar lists the navigation targets with item counts. Categories come
// from the shared store; only the total is fetched.
func (a *App) Sidebar(ctx context.Context, w io.Writer) error {
	stats, err := a.api.StatsOverview(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	renderSidebar(w, a.Route(), a.store.Categories(), stats.TotalItems)
	return nil
}

// compile-time checks
var (
	_ browser.Opener = (*App)(nil)
	_ API            = (*client.Client)(nil)
)
