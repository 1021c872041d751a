package form

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/schema"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/mediashelf/mediashelf/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu       sync.Mutex
	calls    int
	tags     []models.Tag
	tagErr   error
	values   []models.FieldValue
	valueErr error
	items    map[int64]*models.MediaItem
	saveErr  error
	saved    []models.MediaInput
}

func (f *fakeAPI) hit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) ListFieldValues(context.Context, client.FieldValueQuery) ([]models.FieldValue, error) {
	f.hit()
	return f.values, f.valueErr
}

func (f *fakeAPI) ListTags(context.Context) ([]models.Tag, error) {
	f.hit()
	return f.tags, f.tagErr
}

func (f *fakeAPI) CreateTag(_ context.Context, in models.TagInput) (*models.Tag, error) {
	f.hit()
	return &models.Tag{ID: 100, Name: in.Name}, nil
}

func (f *fakeAPI) GetMedia(_ context.Context, id int64) (*models.MediaItem, error) {
	f.hit()
	item, ok := f.items[id]
	if !ok {
		return nil, &client.RequestError{Status: 404, Detail: "Media item not found"}
	}
	return item, nil
}

func (f *fakeAPI) CreateMedia(_ context.Context, in models.MediaInput) (*models.MediaItem, error) {
	f.hit()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, in)
	return &models.MediaItem{ID: 42, Title: in.Title, CategoryID: in.CategoryID, Metadata: in.Metadata}, nil
}

func (f *fakeAPI) UpdateMedia(_ context.Context, id int64, in models.MediaInput) (*models.MediaItem, error) {
	f.hit()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, in)
	return &models.MediaItem{ID: id, Title: in.Title, CategoryID: in.CategoryID, Metadata: in.Metadata}, nil
}

func (f *fakeAPI) UploadCover(_ context.Context, filename string, r io.Reader) (string, error) {
	f.hit()
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

type categorySource struct{}

func (categorySource) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{
		{ID: 1, Name: schema.CategoryMovies, Icon: "🎬"},
		{ID: 2, Name: schema.CategoryTVShows},
		{ID: 3, Name: schema.CategoryBooks},
		{ID: 4, Name: schema.CategoryGames},
		{ID: 5, Name: schema.CategoryAlbums},
		{ID: 6, Name: "Comics"},
	}, nil
}

func (categorySource) ListTags(context.Context) ([]models.Tag, error) {
	return nil, nil
}

type recordingBus struct {
	events []state.Event
}

func (b *recordingBus) Publish(e state.Event) {
	b.events = append(b.events, e)
}

type harness struct {
	api      *fakeAPI
	notifier *ui.Recorder
	bus      *recordingBus
	deps     Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := state.NewStore()
	require.NoError(t, store.Refresh(context.Background(), categorySource{}))

	api := &fakeAPI{
		tags: []models.Tag{{ID: 1, Name: "Fiction"}, {ID: 2, Name: "Drama"}},
		values: []models.FieldValue{
			{ID: 1, FieldType: "cast", Value: "Actor A"},
			{ID: 2, FieldType: "cast", Value: "Actor B"},
			{ID: 3, FieldType: "genre", CategoryID: models.Int64(1), Value: "Noir"},
			{ID: 4, FieldType: "genre", CategoryID: models.Int64(2), Value: "Sitcom"},
			{ID: 5, FieldType: "format_movie", Value: "Blu-ray"},
			{ID: 6, FieldType: "author", Value: "X"},
		},
		items: map[int64]*models.MediaItem{
			7: {
				ID: 7, Title: "Dune", CategoryID: 3, Status: models.StatusOwned,
				Metadata: models.Metadata{"author": models.Single("X"), "year": models.Single("1965")},
				Tags:     []models.Tag{{ID: 2, Name: "Drama"}},
			},
		},
	}
	h := &harness{api: api, notifier: &ui.Recorder{}, bus: &recordingBus{}}
	h.deps = Deps{API: api, Store: store, Notifier: h.notifier, Bus: h.bus}
	return h
}

func (h *harness) open(t *testing.T, itemID, defaultCategory *int64) *Session {
	t.Helper()
	s, err := Open(context.Background(), h.deps, itemID, defaultCategory)
	require.NoError(t, err)
	return s
}

func TestOpenInitialCategory(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name     string
		itemID   *int64
		fallback *int64
		expected int64
	}{
		{"item category wins", models.Int64(7), models.Int64(1), 3},
		{"default category", nil, models.Int64(5), 5},
		{"first store category", nil, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := h.open(t, tt.itemID, tt.fallback)
			require.NotNil(t, s.CategoryID())
			assert.Equal(t, tt.expected, *s.CategoryID())
		})
	}
}

func TestOpenVocabularyFailureDegrades(t *testing.T) {
	h := newHarness(t)
	h.api.valueErr = &client.TransportError{Op: "GET /field-values", Err: errors.New("connection refused")}

	s := h.open(t, nil, models.Int64(1))
	for _, f := range s.Fields() {
		if f.Kind.IsSelect() {
			assert.Empty(t, f.Options, f.Key)
			assert.Equal(t, NoOptionsHint, f.Placeholder, f.Key)
		}
	}
}

func TestOpenTagFailureAborts(t *testing.T) {
	h := newHarness(t)
	h.api.tagErr = &client.RequestError{Status: 500}

	_, err := Open(context.Background(), h.deps, nil, nil)
	require.Error(t, err)
	assert.True(t, client.IsRequestError(err))
}

func TestSavedMetadataKeysBelongToCategory(t *testing.T) {
	h := newHarness(t)
	registry := schema.DefaultRegistry()

	for _, catID := range []int64{1, 2, 3, 4, 5, 6} {
		s := h.open(t, models.Int64(7), nil)
		s.SetTitle("Anything")
		for _, f := range s.Fields() {
			if f.Kind == schema.KindText || f.Kind == schema.KindNumber {
				require.NoError(t, s.SetText(f.Key, "1"))
			}
		}
		require.NoError(t, s.SetCategory(catID))

		_, err := s.Save(context.Background())
		require.NoError(t, err)

		cat, _ := h.deps.Store.Category(catID)
		keys := registry.Keys(cat.Name)
		saved := h.api.saved[len(h.api.saved)-1]
		for k := range saved.Metadata {
			assert.True(t, keys[k], "%s should not carry %q", cat.Name, k)
		}
	}
}

func TestCategorySwitchDiscardsAuthor(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, models.Int64(7), nil)
	assert.Equal(t, "X", s.CollectMetadata()["author"].String())

	require.NoError(t, s.SetCategory(1))
	_, err := s.Save(context.Background())
	require.NoError(t, err)

	saved := h.api.saved[0]
	assert.NotContains(t, saved.Metadata, "author")
	assert.Equal(t, "1965", saved.Metadata["year"].String())
}

func TestCategorySwitchDropsForeignOptions(t *testing.T) {
	h := newHarness(t)
	h.api.values = append(h.api.values,
		models.FieldValue{ID: 7, FieldType: "format_book", Value: "Hardcover"},
		models.FieldValue{ID: 8, FieldType: "genre", CategoryID: models.Int64(3), Value: "Fantasy"},
		models.FieldValue{ID: 9, FieldType: "format_movie", Value: "DVD"},
	)
	s := h.open(t, nil, models.Int64(3))
	require.NoError(t, s.Select("format", "Hardcover"))
	require.NoError(t, s.Select("genre", "Fantasy"))

	require.NoError(t, s.SetCategory(1))
	for _, f := range s.Fields() {
		switch f.Key {
		case "format":
			assert.Empty(t, f.Value)
			assert.Equal(t, []string{"Blu-ray", "DVD"}, f.Options)
		case "genre":
			assert.Empty(t, f.Value)
			assert.Equal(t, []string{"Noir"}, f.Options)
		}
	}
	md := s.CollectMetadata()
	assert.NotContains(t, md, "format")
	assert.NotContains(t, md, "genre")

	t.Run("shared vocabulary keeps values", func(t *testing.T) {
		s := h.open(t, nil, models.Int64(1))
		require.NoError(t, s.SelectMany("cast", []string{"Actor A", "Actor B"}))
		require.NoError(t, s.Select("genre", "Noir"))

		require.NoError(t, s.SetCategory(2))
		md := s.CollectMetadata()
		assert.Equal(t, []string{"Actor A", "Actor B"}, md["cast"].Values())
		assert.NotContains(t, md, "genre")
	})
}

func TestCategorySwitchBackReseedsFromItem(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, models.Int64(7), nil)

	require.NoError(t, s.SetCategory(1))
	require.NoError(t, s.SetText("year", "1984"))
	require.NoError(t, s.SetCategory(3))

	md := s.CollectMetadata()
	assert.Equal(t, "X", md["author"].String())
	assert.Equal(t, "1984", md["year"].String())
}

func TestMultiSelectOmission(t *testing.T) {
	h := newHarness(t)

	t.Run("empty selection omits key", func(t *testing.T) {
		s := h.open(t, nil, models.Int64(1))
		require.NoError(t, s.SelectMany("cast", nil))
		assert.NotContains(t, s.CollectMetadata(), "cast")
	})

	t.Run("two actors", func(t *testing.T) {
		s := h.open(t, nil, models.Int64(1))
		s.SetTitle("Heat")
		require.NoError(t, s.SelectMany("cast", []string{"Actor A", "Actor B"}))

		_, err := s.Save(context.Background())
		require.NoError(t, err)
		cast := h.api.saved[len(h.api.saved)-1].Metadata["cast"]
		assert.True(t, cast.IsList())
		assert.Equal(t, []string{"Actor A", "Actor B"}, cast.Values())
	})

	t.Run("unknown option rejected", func(t *testing.T) {
		s := h.open(t, nil, models.Int64(1))
		err := s.SelectMany("cast", []string{"Actor Z"})
		require.Error(t, err)
		assert.True(t, validation.IsValidation(err))
	})
}

func TestTitleValidationMakesNoRequests(t *testing.T) {
	for _, title := range []string{"", "   "} {
		t.Run("title "+strings.Repeat("_", len(title)), func(t *testing.T) {
			h := newHarness(t)
			s := h.open(t, nil, models.Int64(1))
			before := h.api.Calls()

			s.SetTitle(title)
			_, err := s.Save(context.Background())
			require.Error(t, err)
			assert.True(t, validation.IsValidation(err))
			assert.Equal(t, "Title is required", err.Error())

			assert.Equal(t, before, h.api.Calls())
			assert.Equal(t, []string{"Title is required"}, h.notifier.Messages(ui.LevelError))
			assert.False(t, s.Closed())
			assert.Empty(t, h.bus.events)
		})
	}
}

func TestSaveSuccess(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, models.Int64(7), nil)
	s.SetTitle("  Dune Messiah ")
	s.SetNotes("  ")
	s.Tags().Select(1)

	item, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)

	saved := h.api.saved[0]
	assert.Equal(t, "Dune Messiah", saved.Title)
	assert.Nil(t, saved.Notes)
	assert.Equal(t, []int64{2, 1}, saved.TagIDs)
	assert.Equal(t, models.StatusOwned, saved.Status)

	assert.True(t, s.Closed())
	assert.False(t, s.Saving())
	assert.Equal(t, []state.Event{state.EventMediaSaved}, h.bus.events)
	assert.Equal(t, []string{"Updated successfully"}, h.notifier.Messages(ui.LevelSuccess))

	_, err = s.Save(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSaveFailureKeepsSessionOpen(t *testing.T) {
	h := newHarness(t)
	h.api.saveErr = &client.RequestError{Status: 400, Detail: "Category not found"}
	s := h.open(t, nil, models.Int64(1))
	s.SetTitle("Heat")

	_, err := s.Save(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsRequestError(err))

	assert.False(t, s.Closed())
	assert.False(t, s.Saving())
	assert.Empty(t, h.bus.events)
	assert.Equal(t, []string{"Category not found"}, h.notifier.Messages(ui.LevelError))

	h.api.saveErr = nil
	_, err = s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Added successfully"}, h.notifier.Messages(ui.LevelSuccess))
}

func TestFieldEditing(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, nil, models.Int64(1))

	tests := []struct {
		name  string
		apply func() error
		valid bool
	}{
		{"number accepts digits", func() error { return s.SetText("year", "1999") }, true},
		{"number accepts blank", func() error { return s.SetText("runtime", " ") }, true},
		{"number rejects words", func() error { return s.SetText("year", "nineteen") }, false},
		{"select accepts option", func() error { return s.Select("genre", "Noir") }, true},
		{"select clears", func() error { return s.Select("format", "") }, true},
		{"select rejects unknown", func() error { return s.Select("genre", "Sitcom") }, false},
		{"text on select rejected", func() error { return s.SetText("genre", "Noir") }, false},
		{"select on multi rejected", func() error { return s.Select("cast", "Actor A") }, false},
		{"unknown key rejected", func() error { return s.SetText("isbn", "123") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.apply()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	md := s.CollectMetadata()
	assert.Equal(t, "1999", md["year"].String())
	assert.Equal(t, "Noir", md["genre"].String())
	assert.NotContains(t, md, "runtime")
}

func TestFieldsUseCategoryScopedOptions(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, nil, models.Int64(2))

	options := map[string][]string{}
	for _, f := range s.Fields() {
		options[f.Key] = f.Options
	}
	assert.Equal(t, []string{"Sitcom"}, options["genre"])
	assert.Equal(t, []string{"Blu-ray"}, options["format"])
	assert.Equal(t, []string{"Actor A", "Actor B"}, options["cast"])
}

func TestCoreFields(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, nil, nil)

	assert.Equal(t, models.StatusWishlist, s.Status())
	require.Error(t, s.SetStatus(models.StatusCompleted))
	require.NoError(t, s.SetStatus(models.StatusOwned))

	bad := models.Grade("E")
	require.Error(t, s.SetRating(&bad))
	good := models.Grade("B+")
	require.NoError(t, s.SetRating(&good))

	require.NoError(t, s.UploadCover(context.Background(), "cover.png", bytes.NewReader([]byte("png"))))
	require.NotNil(t, s.Cover())
	assert.Equal(t, "/uploads/cover.png", *s.Cover())
	s.ClearCover()
	assert.Nil(t, s.Cover())

	require.Error(t, s.SetCategory(99))
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	s := h.open(t, models.Int64(7), nil)

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Edit Media")
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Details (Books)")
	assert.Contains(t, out, "#Drama")
	assert.Contains(t, out, NoOptionsHint)
}
