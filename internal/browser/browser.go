// Package browser implements the library view: a filtered, sorted and
// paginated listing shown as a grid or a list.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
)

// DefaultDebounce is how long search waits for typing to pause
const DefaultDebounce = 300 * time.Millisecond

var ErrClosed = errors.New("browser is closed")

// ViewMode is how a page of items is laid out
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Origin is the part of a card or row an interaction started on
type Origin int

const (
	OriginBody Origin = iota
	OriginMenu
	OriginActions
)

// API is the part of the backend the browser uses
type API interface {
	ListMedia(ctx context.Context, q client.MediaQuery) (*models.MediaPage, error)
	DeleteMedia(ctx context.Context, id int64) error
}

// Opener opens the item editor. A nil itemID adds a new item.
type Opener interface {
	OpenEditor(ctx context.Context, itemID *int64, defaultCategoryID *int64) error
}

// Option configures a Browser
type Option func(*Browser)

// WithDebounce changes the search debounce delay
func WithDebounce(d time.Duration) Option {
	return func(b *Browser) {
		b.debounce = d
	}
}

// WithPageSize changes the initial page size
func WithPageSize(n int) Option {
	return func(b *Browser) {
		if n > 0 && n <= MaxPageSize {
			b.filters.Limit = n
		}
	}
}

// WithLoaded registers a callback run after a page is applied, including
// pages loaded by a debounced search
func WithLoaded(fn func()) Option {
	return func(b *Browser) {
		b.onLoaded = fn
	}
}

// Browser keeps filters and view mode for the lifetime of the application
type Browser struct {
	api       API
	store     *state.Store
	opener    Opener
	notifier  ui.Notifier
	confirmer ui.Confirmer
	bus       state.Publisher
	debounce  time.Duration
	onLoaded  func()

	mu      sync.Mutex
	filters Filters
	view    ViewMode
	page    *models.MediaPage
	err     error
	seq     uint64
	timer   *time.Timer
	closed  bool
}

// New creates a browser with default filters in grid mode
func New(api API, store *state.Store, opener Opener, notifier ui.Notifier, confirmer ui.Confirmer, bus state.Publisher, opts ...Option) *Browser {
	b := &Browser{
		api:       api,
		store:     store,
		opener:    opener,
		notifier:  notifier,
		confirmer: confirmer,
		bus:       bus,
		debounce:  DefaultDebounce,
		filters:   DefaultFilters(),
		view:      ViewGrid,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Filters returns a copy of the current filters
func (b *Browser) Filters() Filters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters
}

// View returns the current view mode
func (b *Browser) View() ViewMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Page returns the last applied page, or nil before the first load
func (b *Browser) Page() *models.MediaPage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page == nil {
		return nil
	}
	p := *b.page
	return &p
}

// Err returns the error of the last applied load
func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Enter shows the library, scoped to a category or, with nil, unscoped.
// The offset starts over on every entry.
func (b *Browser) Enter(ctx context.Context, categoryID *int64) error {
	b.mu.Lock()
	if categoryID != nil {
		b.filters.CategoryID = models.Int64(*categoryID)
	} else {
		b.filters.CategoryID = nil
	}
	b.filters.Offset = 0
	b.mu.Unlock()
	return b.load(ctx)
}

// Reload fetches the current page again
func (b *Browser) Reload(ctx context.Context) error {
	return b.load(ctx)
}

// SetQuery schedules a search once typing pauses. A pending search is replaced.
func (b *Browser) SetQuery(ctx context.Context, q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		if err := b.SetQueryNow(ctx, q); err != nil && !errors.Is(err, ErrClosed) {
			slog.Warn("Search failed", "query", q, "err", err)
		}
	})
}

// SetQueryNow applies a search immediately
func (b *Browser) SetQueryNow(ctx context.Context, q string) error {
	return b.update(ctx, func(f *Filters) error {
		f.Query = q
		return nil
	})
}

// SetStatus filters by status; nil shows all
func (b *Browser) SetStatus(ctx context.Context, st *models.Status) error {
	return b.update(ctx, func(f *Filters) error {
		if st != nil {
			if _, err := models.ParseStatus(string(*st)); err != nil {
				return err
			}
			v := *st
			f.Status = &v
		} else {
			f.Status = nil
		}
		return nil
	})
}

// SetRating filters by grade; nil shows all
func (b *Browser) SetRating(ctx context.Context, g *models.Grade) error {
	return b.update(ctx, func(f *Filters) error {
		if g != nil {
			if g.Rank() < 0 {
				return fmt.Errorf("unknown grade %q", *g)
			}
			v := *g
			f.Rating = &v
		} else {
			f.Rating = nil
		}
		return nil
	})
}

// SetSort chooses the sort field and direction
func (b *Browser) SetSort(ctx context.Context, by, dir string) error {
	if err := validSort(by, dir); err != nil {
		return err
	}
	return b.update(ctx, func(f *Filters) error {
		f.SortBy = by
		f.SortDir = dir
		return nil
	})
}

// SetPageSize changes how many items a page holds
func (b *Browser) SetPageSize(ctx context.Context, n int) error {
	if n < 1 || n > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
	}
	return b.update(ctx, func(f *Filters) error {
		f.Limit = n
		return nil
	})
}

// update applies a filter change, which always starts over at the first page
func (b *Browser) update(ctx context.Context, change func(*Filters) error) error {
	b.mu.Lock()
	next := b.filters
	if err := change(&next); err != nil {
		b.mu.Unlock()
		return err
	}
	next.Offset = 0
	b.filters = next
	b.mu.Unlock()
	return b.load(ctx)
}

// SetView switches between grid and list. Filters and offset are kept.
func (b *Browser) SetView(ctx context.Context, mode ViewMode) error {
	if mode != ViewGrid && mode != ViewList {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	b.mu.Lock()
	b.view = mode
	b.mu.Unlock()
	return b.load(ctx)
}

// CanNext reports whether a later page exists
func (b *Browser) CanNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page != nil && b.filters.Offset+b.filters.Limit < b.page.Total
}

// CanPrev reports whether an earlier page exists
func (b *Browser) CanPrev() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters.Offset > 0
}

// Next advances one page. It does nothing on the last page.
func (b *Browser) Next(ctx context.Context) error {
	if !b.CanNext() {
		return nil
	}
	b.mu.Lock()
	b.filters.Offset += b.filters.Limit
	b.mu.Unlock()
	return b.load(ctx)
}

// Prev goes back one page. It does nothing on the first page.
func (b *Browser) Prev(ctx context.Context) error {
	if !b.CanPrev() {
		return nil
	}
	b.mu.Lock()
	b.filters.Offset = max(0, b.filters.Offset-b.filters.Limit)
	b.mu.Unlock()
	return b.load(ctx)
}

// load fetches the page for the current filters. Only the response to the
// most recent request is applied.
func (b *Browser) load(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.seq++
	seq := b.seq
	q := b.filters.MediaQuery()
	b.mu.Unlock()

	page, err := b.api.ListMedia(ctx, q)

	b.mu.Lock()
	if b.closed || seq != b.seq {
		latest, closed := b.seq, b.closed
		b.mu.Unlock()
		slog.Debug("Discarding stale media page", "seq", seq, "latest", latest, "closed", closed)
		return nil
	}
	if err != nil {
		b.err = fmt.Errorf("failed to load media: %w", err)
		b.page = nil
		b.mu.Unlock()
		slog.Error("Failed to load media", "query", q.Query, "offset", q.Offset, "err", err)
		return b.err
	}
	b.err = nil
	b.page = page
	onLoaded := b.onLoaded
	b.mu.Unlock()

	if onLoaded != nil {
		onLoaded()
	}
	return nil
}

// Close stops any pending search. Responses arriving afterwards are ignored.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Add opens the editor for a new item in the current category
func (b *Browser) Add(ctx context.Context) error {
	return b.opener.OpenEditor(ctx, nil, b.Filters().CategoryID)
}

// Activate handles a click on a card or row. Only clicks on the body open
// the editor; the menu and action controls handle their own clicks.
func (b *Browser) Activate(ctx context.Context, id int64, origin Origin) error {
	if origin != OriginBody {
		return nil
	}
	return b.Edit(ctx, id)
}

// Edit opens the editor for an item
func (b *Browser) Edit(ctx context.Context, id int64) error {
	return b.opener.OpenEditor(ctx, models.Int64(id), nil)
}

// Delete removes an item after confirmation. It reports whether the item was deleted.
func (b *Browser) Delete(ctx context.Context, id int64) (bool, error) {
	if !b.confirmer.Confirm(ctx, "Delete this item?") {
		return false, nil
	}
	if err := b.api.DeleteMedia(ctx, id); err != nil {
		b.notifier.Notify(ui.LevelError, err.Error())
		return false, fmt.Errorf("failed to delete media item %d: %w", id, err)
	}
	b.notifier.Notify(ui.LevelSuccess, "Deleted successfully")
	b.bus.Publish(state.EventMediaDeleted)
	return true, nil
}
