package categories

import (
	"bytes"
	"context"
	"testing"

	"github.com/mediashelf/mediashelf/internal/client"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/state"
	"github.com/mediashelf/mediashelf/internal/ui"
	"github.com/mediashelf/mediashelf/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryAPI struct {
	categories []models.Category
	nextID     int64
	created    []models.CategoryInput
	deletes    int
}

func (a *memoryAPI) ListCategories(context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), a.categories...), nil
}

func (a *memoryAPI) CreateCategory(_ context.Context, in models.CategoryInput) (*models.Category, error) {
	a.created = append(a.created, in)
	a.nextID++
	c := models.Category{ID: a.nextID, Name: in.Name, Icon: in.Icon, Color: in.Color}
	a.categories = append(a.categories, c)
	return &c, nil
}

func (a *memoryAPI) UpdateCategory(_ context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	for i := range a.categories {
		if a.categories[i].ID == id {
			a.categories[i].Name = in.Name
			if in.Icon != "" {
				a.categories[i].Icon = in.Icon
			}
			c := a.categories[i]
			return &c, nil
		}
	}
	return nil, &client.RequestError{Status: 404, Detail: "Category not found"}
}

func (a *memoryAPI) DeleteCategory(_ context.Context, id int64) error {
	a.deletes++
	for i, c := range a.categories {
		if c.ID != id {
			continue
		}
		if c.ItemCount > 0 {
			return &client.RequestError{Status: 400, Detail: "Category has items — move or delete them first"}
		}
		a.categories = append(a.categories[:i], a.categories[i+1:]...)
		return nil
	}
	return &client.RequestError{Status: 404, Detail: "Category not found"}
}

type recordingBus struct {
	events []state.Event
}

func (b *recordingBus) Publish(e state.Event) {
	b.events = append(b.events, e)
}

type harness struct {
	api    *memoryAPI
	toasts *ui.Recorder
	answer *ui.Answer
	bus    *recordingBus
	m      *Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api: &memoryAPI{
			nextID: 10,
			categories: []models.Category{
				{ID: 1, Name: "Movies", Icon: "🎬", Color: "#ef4444", IsSystem: true, ItemCount: 2},
				{ID: 7, Name: "Comics", Icon: "💬", Color: "#000000"},
				{ID: 8, Name: "Vinyl", Icon: "💿", Color: "#111111", ItemCount: 3},
			},
		},
		toasts: &ui.Recorder{},
		answer: &ui.Answer{Yes: true},
		bus:    &recordingBus{},
	}
	h.m = New(h.api, h.toasts, h.answer, h.bus)
	require.NoError(t, h.m.Load(context.Background()))
	return h
}

func TestCreate(t *testing.T) {
	t.Run("defaults icon and color", func(t *testing.T) {
		h := newHarness(t)
		cat, err := h.m.Create(context.Background(), "  Podcasts ", "", "")
		require.NoError(t, err)
		assert.Equal(t, "Podcasts", cat.Name)
		assert.Equal(t, DefaultIcon, h.api.created[0].Icon)
		assert.Equal(t, DefaultColor, h.api.created[0].Color)
		assert.Equal(t, []string{`Category "Podcasts" created`}, h.toasts.Messages(ui.LevelSuccess))
		assert.Equal(t, []state.Event{state.EventCategoriesChanged}, h.bus.events)
		assert.Len(t, h.m.Categories(), 4)
	})

	t.Run("name is required", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.m.Create(context.Background(), "   ", "🎲", "")
		require.Error(t, err)
		assert.True(t, validation.IsValidation(err))
		assert.Equal(t, "Name is required", err.Error())
		assert.Empty(t, h.api.created)
		assert.Empty(t, h.bus.events)
	})
}

func TestRename(t *testing.T) {
	h := newHarness(t)
	cat, err := h.m.Rename(context.Background(), 7, "Graphic Novels")
	require.NoError(t, err)
	assert.Equal(t, "Graphic Novels", cat.Name)
	assert.Equal(t, "💬", cat.Icon)
	assert.Equal(t, []state.Event{state.EventCategoriesChanged}, h.bus.events)

	_, err = h.m.Rename(context.Background(), 7, " ")
	require.Error(t, err)
	assert.True(t, validation.IsValidation(err))

	_, err = h.m.Rename(context.Background(), 99, "Nope")
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	t.Run("system category refused without a request", func(t *testing.T) {
		h := newHarness(t)
		ok, err := h.m.Delete(context.Background(), 1)
		assert.False(t, ok)
		require.ErrorIs(t, err, ErrSystemCategory)
		assert.Zero(t, h.api.deletes)
		assert.Empty(t, h.answer.Asked)
		assert.Equal(t, []string{"Cannot delete built-in category"}, h.toasts.Messages(ui.LevelError))
	})

	t.Run("confirmed", func(t *testing.T) {
		h := newHarness(t)
		ok, err := h.m.Delete(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{`Delete category "Comics"? This will fail if it has items.`}, h.answer.Asked)
		assert.Equal(t, []string{`Category "Comics" deleted`}, h.toasts.Messages(ui.LevelSuccess))
		assert.Len(t, h.m.Categories(), 2)
		assert.Equal(t, []state.Event{state.EventCategoriesChanged}, h.bus.events)
	})

	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		h.answer.Yes = false
		ok, err := h.m.Delete(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, h.api.deletes)
	})

	t.Run("backend refuses non-empty category", func(t *testing.T) {
		h := newHarness(t)
		ok, err := h.m.Delete(context.Background(), 8)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"Category has items — move or delete them first"}, h.toasts.Messages(ui.LevelError))
		assert.Empty(t, h.bus.events)
	})
}

func TestRender(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	require.NoError(t, h.m.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "Manage Categories")
	assert.Contains(t, out, "2 items · Built-in")
	assert.Contains(t, out, "Comics")
	assert.Contains(t, out, "0 items")
	assert.Contains(t, out, "3 items")
}
