package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

func TestNewMapped_ProjectsBothWays(t *testing.T) {
	ctx := context.Background()
	svc := newFake[*widget, int64]()
	svc.nextID = 5
	c, err := NewMapped[*widget, int64, widgetIn, widgetOut](svc, types.PositiveID[int64], WithLogger(nil))
	require.NoError(t, err)

	key := uuid.New()
	res := c.Create(ctx, widgetIn{Key: key, Name: "spring"})

	require.Equal(t, outcome.KindValue, res.Kind())
	out, _ := res.Value()
	assert.Equal(t, widgetOut{ID: 5, Key: key, Name: "spring"}, out)
	require.NotNil(t, svc.inserted)
	assert.Equal(t, "spring", svc.inserted.Name)
	assert.Equal(t, key, svc.inserted.Key)
}

func TestNewMapped_ListProjectsEveryElement(t *testing.T) {
	svc := newFake[*widget, int64]()
	svc.list = []*widget{
		{Base: types.Base[int64]{ID: 1}, Name: "a", Color: "red"},
		{Base: types.Base[int64]{ID: 2}, Name: "b"},
	}
	c, err := NewMapped[*widget, int64, widgetIn, widgetOut](svc, types.PositiveID[int64], WithLogger(nil))
	require.NoError(t, err)

	res := c.Page(context.Background(), 0, 10)

	got, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, []widgetOut{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, got)
}

func TestNewProjected_ProjectionErrorIsFailed(t *testing.T) {
	svc := newFake[*widget, int64]()
	svc.get = &widget{Name: "a"}
	broken := func(*widget) (string, error) { return "", errors.New("cannot render") }
	build := func(s string) (*widget, error) { return &widget{Name: s}, nil }
	c, err := NewProjected[*widget, int64, string, string](svc, types.PositiveID[int64], build, broken, WithLogger(nil))
	require.NoError(t, err)

	res := c.Get(context.Background(), 1)

	assert.Equal(t, outcome.KindFailed, res.Kind())
	assert.Equal(t, "cannot render", res.Message())
}

// syncWidgets is a store without context support.
type syncWidgets struct {
	items map[uuid.UUID]*widget
	limit int
}

func (s *syncWidgets) Exists(e *widget) (bool, error) {
	_, ok := s.items[e.Key]
	return ok, nil
}

func (s *syncWidgets) ExistsByKey(key uuid.UUID) (bool, error) {
	_, ok := s.items[key]
	return ok, nil
}

func (s *syncWidgets) Get(id int64) (*widget, error) {
	for _, w := range s.items {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *syncWidgets) GetByKey(key uuid.UUID) (*widget, error) {
	if w, ok := s.items[key]; ok {
		return w, nil
	}
	return nil, types.ErrNotFound
}

func (s *syncWidgets) List() ([]*widget, error) {
	out := make([]*widget, 0, len(s.items))
	for _, w := range s.items {
		out = append(out, w)
	}
	return out, nil
}

func (s *syncWidgets) Page(page, limit int) ([]*widget, error) {
	s.limit = limit
	return nil, nil
}

func (s *syncWidgets) Insert(e *widget) (*widget, error) {
	e.ID = int64(len(s.items) + 1)
	s.items[e.Key] = e
	return e, nil
}

func (s *syncWidgets) Update(e *widget) error {
	s.items[e.Key] = e
	return nil
}

func (s *syncWidgets) DeleteByKey(key uuid.UUID) (bool, error) {
	delete(s.items, key)
	return true, nil
}

func (s *syncWidgets) DefaultLimit() int { return 3 }

func TestFromSync_RunsFullLifecycle(t *testing.T) {
	ctx := context.Background()
	store := &syncWidgets{items: map[uuid.UUID]*widget{}}
	c := newWidgetController(t, FromSync[*widget, int64](store))

	key := uuid.New()
	created := c.Create(ctx, &widget{Base: types.Base[int64]{Key: key}, Name: "cog"})
	require.Equal(t, outcome.KindValue, created.Kind())

	assert.Equal(t, outcome.KindValue, c.Get(ctx, 1).Kind())
	assert.Equal(t, outcome.KindNotFound, c.Get(ctx, 2).Kind())
	assert.Equal(t, outcome.KindValue, c.GetByKey(ctx, key).Kind())

	c.Page(ctx, 0, -1)
	assert.Equal(t, 3, store.limit, "default limit is forwarded through the adapter")

	assert.Equal(t, outcome.KindEmpty, c.Delete(ctx, key).Kind())
	assert.Equal(t, outcome.KindEmpty, c.List(ctx).Kind())
}

func TestFromSync_IgnoresCancellation(t *testing.T) {
	store := &syncWidgets{items: map[uuid.UUID]*widget{}}
	c := newWidgetController(t, FromSync[*widget, int64](store))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, outcome.KindValue, c.Create(ctx, &widget{Base: types.Base[int64]{Key: uuid.New()}}).Kind())
}
