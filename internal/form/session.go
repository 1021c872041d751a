// Package form implements the add/edit session for a media item: core
// fields, category-specific metadata fields and tags.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/tagpicker"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/mediashelf/mediashelf/internal/validation"
	"github.com/mediashelf/mediashelf/internal/vocabulary"
	"golang.org/x/sync/errgroup"
)

var (
	ErrClosed = errors.New("form is closed")
	ErrSaving = errors.New("save already in progress")
)

// API is the part of the backend the form talks to
type API interface {
	vocabulary.Lister
	tagpicker.TagCreator
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetMedia(ctx context.Context, id int64) (*models.MediaItem, error)
	CreateMedia(ctx context.Context, in models.MediaInput) (*models.MediaItem, error)
	UpdateMedia(ctx context.Context, id int64, in models.MediaInput) (*models.MediaItem, error)
	UploadCover(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Deps are the collaborators a session needs
type Deps struct {
	API      API
	Store    *state.Store
	Schema   *schema.Registry
	Notifier ui.Notifier
	Bus      state.Publisher
}

var validate = validation.NewValidator()

// Session is the in-memory state of one add/edit form. Metadata is collected
// from the session's field records only.
type Session struct {
	deps  Deps
	vocab *vocabulary.Cache
	tags  *tagpicker.Picker

	mu         sync.Mutex
	itemID     *int64
	original   models.Metadata
	title      string
	notes      string
	status     models.Status
	rating     *models.Grade
	cover      *string
	categoryID *int64
	fields     []*fieldState
	saving     bool
	closed     bool
}

// Open loads what the form needs and starts a session. itemID nil means a new item.
// The tag list and the vocabularies load concurrently; a vocabulary failure
// leaves the selects empty, a tag failure aborts.
func Open(ctx context.Context, deps Deps, itemID *int64, defaultCategoryID *int64) (*Session, error) {
	if deps.Schema == nil {
		deps.Schema = schema.DefaultRegistry()
	}

	vocab := vocabulary.New(deps.API)
	var tags []models.Tag

	g, gctx := errgroup.WithContext(ctx)
	state.Go(g, func() error {
		var err error
		tags, err = deps.API.ListTags(gctx)
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
		return nil
	})
	state.Go(g, func() error {
		if err := vocab.Load(gctx); err != nil {
			slog.Warn("Vocabularies unavailable, selects will be empty", "err", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Session{
		deps:     deps,
		vocab:    vocab,
		status:   models.StatusWishlist,
		original: models.Metadata{},
	}

	var selected []int64
	if itemID != nil {
		item, err := deps.API.GetMedia(ctx, *itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load item %d: %w", *itemID, err)
		}
		s.itemID = models.Int64(item.ID)
		s.title = item.Title
		s.status = item.Status
		s.rating = item.Rating
		s.cover = item.CoverImageURL
		if item.Notes != nil {
			s.notes = *item.Notes
		}
		if item.Metadata != nil {
			s.original = item.Metadata.Clone()
		}
		if item.CategoryID != 0 {
			s.categoryID = models.Int64(item.CategoryID)
		}
		selected = item.TagIDs()
	}

	if s.categoryID == nil {
		if defaultCategoryID != nil {
			s.categoryID = models.Int64(*defaultCategoryID)
		} else if cats := deps.Store.Categories(); len(cats) > 0 {
			s.categoryID = models.Int64(cats[0].ID)
		}
	}

	s.tags = tagpicker.New(deps.API, deps.Notifier, tags, selected)
	s.fields = s.deriveFields(nil)

	slog.Debug("Opened form", "editing", s.itemID != nil, "fields", len(s.fields))
	return s, nil
}

// deriveFields builds the field records of the current category, carrying
// values from prev for keys both sets share. A carried select value survives
// only if it is an option of the current category.
func (s *Session) deriveFields(prev []*fieldState) []*fieldState {
	carried := make(map[string]*fieldState, len(prev))
	for _, fs := range prev {
		carried[fs.desc.Key] = fs
	}

	descs := s.descriptors()
	out := make([]*fieldState, 0, len(descs))
	for _, d := range descs {
		if old, ok := carried[d.Key]; ok {
			fs := seedField(d, old.value())
			if d.Kind.IsSelect() {
				s.dropForeignOptions(fs)
			}
			out = append(out, fs)
			continue
		}
		out = append(out, seedField(d, s.original[d.Key]))
	}
	return out
}

func (s *Session) dropForeignOptions(fs *fieldState) {
	options := s.vocab.OptionsFor(fs.desc.Vocabulary, s.categoryID, fs.desc.ScopedToCategory)
	if fs.single != "" && !slices.Contains(options, fs.single) {
		fs.single = ""
	}
	fs.multi = slices.DeleteFunc(fs.multi, func(v string) bool {
		return !slices.Contains(options, v)
	})
}

func (s *Session) descriptors() []schema.FieldDescriptor {
	if s.categoryID == nil {
		return nil
	}
	cat, ok := s.deps.Store.Category(*s.categoryID)
	if !ok {
		return nil
	}
	return s.deps.Schema.FieldsFor(cat.Name)
}

// Editing reports whether the session edits an existing item
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemID != nil
}

// Tags returns the session's tag picker
func (s *Session) Tags() *tagpicker.Picker {
	return s.tags
}

// Title returns the current title
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

// Status returns the current status
func (s *Session) Status() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus accepts only the statuses offered in the editor
func (s *Session) SetStatus(st models.Status) error {
	if !st.Editable() {
		return validation.New(fmt.Sprintf("Status %q cannot be chosen here", st))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
	return nil
}

// SetRating sets or, with nil, clears the grade
func (s *Session) SetRating(g *models.Grade) error {
	if g != nil && g.Rank() < 0 {
		return validation.New(fmt.Sprintf("Unknown grade %q", *g))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rating = g
	return nil
}

// Cover returns the current cover image URL, or nil
func (s *Session) Cover() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cover
}

// UploadCover uploads an image and uses it as the cover. On failure the
// previous cover is kept.
func (s *Session) UploadCover(ctx context.Context, filename string, r io.Reader) error {
	url, err := s.deps.API.UploadCover(ctx, filename, r)
	if err != nil {
		s.deps.Notifier.Notify(ui.LevelError, errorMessage(err, "Upload failed"))
		return fmt.Errorf("failed to upload cover: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cover = &url
	return nil
}

func (s *Session) ClearCover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cover = nil
}

// CategoryID returns the selected category
func (s *Session) CategoryID() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryID == nil {
		return nil
	}
	return models.Int64(*s.categoryID)
}

// SetCategory switches the category and re-derives the metadata fields.
// Keys the new category does not declare are dropped from the session.
func (s *Session) SetCategory(id int64) error {
	if _, ok := s.deps.Store.Category(id); !ok {
		return validation.New(fmt.Sprintf("Unknown category %d", id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryID != nil && *s.categoryID == id {
		return nil
	}
	s.categoryID = models.Int64(id)
	s.fields = s.deriveFields(s.fields)
	return nil
}

// Fields returns the metadata inputs of the current category with their
// values and options
func (s *Session) Fields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Field, 0, len(s.fields))
	for _, fs := range s.fields {
		f := Field{
			FieldDescriptor: fs.desc,
			Value:           fs.single,
			Values:          slices.Clone(fs.multi),
		}
		if fs.desc.Kind.IsSelect() {
			f.Options = s.vocab.OptionsFor(fs.desc.Vocabulary, s.categoryID, fs.desc.ScopedToCategory)
			if len(f.Options) == 0 {
				f.Placeholder = NoOptionsHint
			}
		} else {
			f.Placeholder = fs.desc.Label
		}
		out = append(out, f)
	}
	return out
}

func (s *Session) field(key string) (*fieldState, error) {
	for _, fs := range s.fields {
		if fs.desc.Key == key {
			return fs, nil
		}
	}
	return nil, fmt.Errorf("no field %q for this category", key)
}

// SetText edits a text or number field. Numbers must parse or be blank.
func (s *Session) SetText(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, err := s.field(key)
	if err != nil {
		return err
	}
	switch fs.desc.Kind {
	case schema.KindText:
	case schema.KindNumber:
		if v := strings.TrimSpace(value); v != "" {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return validation.New(fmt.Sprintf("%s must be a number", fs.desc.Label))
			}
		}
	default:
		return fmt.Errorf("field %q is a %s, not a text input", key, fs.desc.Kind)
	}
	fs.single = value
	return nil
}

// Select sets a single-select field. An empty value clears it.
func (s *Session) Select(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, err := s.field(key)
	if err != nil {
		return err
	}
	if fs.desc.Kind != schema.KindSingleSelect {
		return fmt.Errorf("field %q is a %s, not a single select", key, fs.desc.Kind)
	}
	if value != "" && value != fs.single {
		options := s.vocab.OptionsFor(fs.desc.Vocabulary, s.categoryID, fs.desc.ScopedToCategory)
		if !slices.Contains(options, value) {
			return validation.New(fmt.Sprintf("%q is not a %s option", value, fs.desc.Label))
		}
	}
	fs.single = value
	return nil
}

// SelectMany replaces the selection of a multi-select field
func (s *Session) SelectMany(key string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fs, err := s.field(key)
	if err != nil {
		return err
	}
	if fs.desc.Kind != schema.KindMultiSelect {
		return fmt.Errorf("field %q is a %s, not a multi select", key, fs.desc.Kind)
	}
	options := s.vocab.OptionsFor(fs.desc.Vocabulary, s.categoryID, fs.desc.ScopedToCategory)
	picked := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(options, v) && !slices.Contains(fs.multi, v) {
			return validation.New(fmt.Sprintf("%q is not a %s option", v, fs.desc.Label))
		}
		if !slices.Contains(picked, v) {
			picked = append(picked, v)
		}
	}
	fs.multi = picked
	return nil
}

// CollectMetadata builds the metadata to save from the current field records.
// Blank values and empty selections are left out.
func (s *Session) CollectMetadata() models.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectLocked()
}

func (s *Session) collectLocked() models.Metadata {
	md := models.Metadata{}
	for _, fs := range s.fields {
		if v, ok := fs.collect(); ok {
			md[fs.desc.Key] = v
		}
	}
	return md
}

func (s *Session) inputLocked() models.MediaInput {
	in := models.MediaInput{
		Title:    strings.TrimSpace(s.title),
		Status:   s.status,
		Rating:   s.rating,
		Notes:    models.String(strings.TrimSpace(s.notes)),
		Metadata: s.collectLocked(),
		TagIDs:   s.tags.SelectedIDs(),
	}
	if s.categoryID != nil {
		in.CategoryID = *s.categoryID
	}
	if s.cover != nil && *s.cover != "" {
		in.CoverImageURL = s.cover
	}
	return in
}

// Input returns the request body Save would send
func (s *Session) Input() models.MediaInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputLocked()
}

// Validate checks the form without touching the network
func (s *Session) Validate() error {
	return validate.Validate(s.Input())
}

// Saving reports whether a save request is in flight
func (s *Session) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Closed reports whether the session ended with a successful save
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Save validates and sends the item. On success the session closes and
// EventMediaSaved is published; on failure it stays open for a retry.
func (s *Session) Save(ctx context.Context) (*models.MediaItem, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, ErrClosed
	case s.saving:
		s.mu.Unlock()
		return nil, ErrSaving
	}
	in := s.inputLocked()
	itemID := s.itemID
	s.mu.Unlock()

	if err := validate.Validate(in); err != nil {
		s.deps.Notifier.Notify(ui.LevelError, err.Error())
		return nil, err
	}

	s.mu.Lock()
	s.saving = true
	s.mu.Unlock()

	var (
		item *models.MediaItem
		err  error
		msg  string
	)
	if itemID != nil {
		item, err = s.deps.API.UpdateMedia(ctx, *itemID, in)
		msg = "Updated successfully"
	} else {
		item, err = s.deps.API.CreateMedia(ctx, in)
		msg = "Added successfully"
	}

	s.mu.Lock()
	s.saving = false
	if err == nil {
		s.closed = true
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("Failed to save media item", "title", in.Title, "editing", itemID != nil, "err", err)
		s.deps.Notifier.Notify(ui.LevelError, errorMessage(err, "Save failed"))
		return nil, fmt.Errorf("failed to save media item: %w", err)
	}

	s.deps.Notifier.Notify(ui.LevelSuccess, msg)
	if s.deps.Bus != nil {
		s.deps.Bus.Publish(state.EventMediaSaved)
	}
	return item, nil
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
