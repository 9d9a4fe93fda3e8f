package crud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

func newWidgetController(t *testing.T, svc types.Service[*widget, int64], opts ...Option) *Controller[*widget, int64, *widget, *widget] {
	t.Helper()
	opts = append([]Option{WithLogger(nil)}, opts...)
	c, err := New[*widget, int64](svc, types.PositiveID[int64], opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New[*widget, int64](nil, types.PositiveID[int64])
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = New[*widget, int64](newFake[*widget, int64](), nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = NewProjected[*widget, int64, widgetIn, widgetOut](newFake[*widget, int64](), types.PositiveID[int64], nil, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestController_Name(t *testing.T) {
	c := newWidgetController(t, newFake[*widget, int64]())
	assert.Equal(t, "crud.widget", c.Name())

	c = newWidgetController(t, newFake[*widget, int64](), WithName("widgets"))
	assert.Equal(t, "widgets", c.Name())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts when absent", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.nextID = 11
		c := newWidgetController(t, svc)

		res := c.Create(ctx, &widget{Name: "gear"})

		require.Equal(t, outcome.KindValue, res.Kind())
		got, ok := res.Value()
		require.True(t, ok)
		assert.Equal(t, int64(11), got.ID)
		assert.NotEqual(t, uuid.Nil, got.Key)
		assert.Equal(t, "gear", got.Name)
		assert.Equal(t, 1, svc.count("insert"))
	})

	t.Run("conflict when present, no mutation", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.exists = true
		c := newWidgetController(t, svc)

		res := c.Create(ctx, &widget{Name: "gear"})

		assert.Equal(t, outcome.KindConflict, res.Kind())
		assert.Equal(t, "entity already exists", res.Message())
		assert.Equal(t, 0, svc.count("insert"))
	})

	t.Run("missing payload is invalid", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)

		res := c.Create(ctx, nil)

		assert.Equal(t, outcome.KindInvalid, res.Kind())
		assert.Equal(t, 0, svc.total())
	})

	t.Run("store error is failed with message", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.insertErr = errors.New("disk full")
		c := newWidgetController(t, svc)

		res := c.Create(ctx, &widget{Name: "gear"})

		assert.Equal(t, outcome.KindFailed, res.Kind())
		assert.Equal(t, "disk full", res.Message())
	})

	t.Run("store conflict sentinel is conflict", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.insertErr = fmt.Errorf("insert: %w", types.ErrAlreadyExists)
		c := newWidgetController(t, svc)

		assert.Equal(t, outcome.KindConflict, c.Create(ctx, &widget{}).Kind())
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("zero id is invalid before any store call", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)

		for _, id := range []int64{0, -4} {
			res := c.Get(ctx, id)
			assert.Equal(t, outcome.KindInvalid, res.Kind())
			assert.Equal(t, "invalid id", res.Message())
		}
		assert.Equal(t, 0, svc.total())
	})

	t.Run("found", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.get = &widget{Base: types.Base[int64]{ID: 3}, Name: "bolt"}
		c := newWidgetController(t, svc)

		res := c.Get(ctx, 3)

		require.Equal(t, outcome.KindValue, res.Kind())
		got, _ := res.Value()
		assert.Equal(t, "bolt", got.Name)
		assert.Equal(t, int64(3), svc.lastGetID)
	})

	t.Run("nil result is not found", func(t *testing.T) {
		c := newWidgetController(t, newFake[*widget, int64]())
		assert.Equal(t, outcome.KindNotFound, c.Get(ctx, 3).Kind())
	})

	t.Run("not found sentinel is not found", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.getErr = fmt.Errorf("lookup: %w", types.ErrNotFound)
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindNotFound, c.Get(ctx, 3).Kind())
	})
}

func TestGet_OtherIdentityKinds(t *testing.T) {
	ctx := context.Background()

	type tag struct {
		types.Base[string]
	}
	tags := newFake[*tag, string]()
	tc, err := New[*tag, string](tags, types.NonBlankID, WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindInvalid, tc.Get(ctx, "").Kind())
	assert.Equal(t, outcome.KindInvalid, tc.Get(ctx, "  ").Kind())
	assert.Equal(t, 0, tags.total())

	type token struct {
		types.Base[uuid.UUID]
	}
	tokens := newFake[*token, uuid.UUID]()
	kc, err := New[*token, uuid.UUID](tokens, types.NonNilUUID, WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, outcome.KindInvalid, kc.Get(ctx, uuid.Nil).Kind())
	assert.Equal(t, 0, tokens.total())
}

func TestGetByKey(t *testing.T) {
	ctx := context.Background()

	svc := newFake[*widget, int64]()
	c := newWidgetController(t, svc)
	assert.Equal(t, outcome.KindInvalid, c.GetByKey(ctx, uuid.Nil).Kind())
	assert.Equal(t, 0, svc.total())

	assert.Equal(t, outcome.KindNotFound, c.GetByKey(ctx, uuid.New()).Kind())

	svc.get = &widget{Name: "nut"}
	res := c.GetByKey(ctx, uuid.New())
	require.Equal(t, outcome.KindValue, res.Kind())
	got, _ := res.Value()
	assert.Equal(t, "nut", got.Name)
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store is empty outcome", func(t *testing.T) {
		c := newWidgetController(t, newFake[*widget, int64]())
		res := c.List(ctx)
		assert.Equal(t, outcome.KindEmpty, res.Kind())
		_, ok := res.Value()
		assert.False(t, ok)
	})

	t.Run("non-empty store is value", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.list = []*widget{{Name: "a"}, {Name: "b"}}
		c := newWidgetController(t, svc)

		res := c.List(ctx)

		require.Equal(t, outcome.KindValue, res.Kind())
		got, _ := res.Value()
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Name)
	})

	t.Run("canceled context surfaces as canceled", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.list = []*widget{{Name: "a"}}
		c := newWidgetController(t, svc)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res := c.List(cctx)

		assert.Equal(t, outcome.KindCanceled, res.Kind())
		assert.Equal(t, context.Canceled.Error(), res.Message())
	})
}

func TestPage(t *testing.T) {
	ctx := context.Background()

	t.Run("empty page is still a value", func(t *testing.T) {
		c := newWidgetController(t, newFake[*widget, int64]())
		res := c.Page(ctx, 0, 10)
		require.Equal(t, outcome.KindValue, res.Kind())
		got, ok := res.Value()
		assert.True(t, ok)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("negative limit uses controller default", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc, WithDefaultLimit(25))
		c.Page(ctx, 0, -1)
		assert.Equal(t, []int{0, 25}, svc.pageArgs)
	})

	t.Run("negative limit without configuration uses package default", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)
		c.Page(ctx, 2, -1)
		assert.Equal(t, []int{2, types.DefaultPageLimit}, svc.pageArgs)
	})

	t.Run("store default wins over controller default", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.defaultLim = 7
		c := newWidgetController(t, limitedService{svc}, WithDefaultLimit(25))
		c.Page(ctx, 0, -1)
		assert.Equal(t, []int{0, 7}, svc.pageArgs)
	})

	t.Run("explicit limit passes through", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc, WithDefaultLimit(25))
		c.Page(ctx, 1, 5)
		assert.Equal(t, []int{1, 5}, svc.pageArgs)
	})

	t.Run("negative page is invalid", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindInvalid, c.Page(ctx, -1, 10).Kind())
		assert.Equal(t, 0, svc.total())
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("absent is not found without update", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindNotFound, c.Update(ctx, &widget{Name: "x"}).Kind())
		assert.Equal(t, 0, svc.count("update"))
	})

	t.Run("present is updated", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.exists = true
		c := newWidgetController(t, svc)
		w := &widget{Name: "x"}
		res := c.Update(ctx, w)
		assert.Equal(t, outcome.KindEmpty, res.Kind())
		assert.Same(t, w, svc.updated)
	})

	t.Run("missing payload is invalid", func(t *testing.T) {
		c := newWidgetController(t, newFake[*widget, int64]())
		assert.Equal(t, outcome.KindInvalid, c.Update(ctx, nil).Kind())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	key := uuid.New()

	t.Run("invalid key", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindInvalid, c.Delete(ctx, uuid.Nil).Kind())
		assert.Equal(t, 0, svc.total())
	})

	t.Run("absent key is not found", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindNotFound, c.Delete(ctx, key).Kind())
		assert.Equal(t, 0, svc.count("delete_by_key"))
	})

	t.Run("present but not removed is failed", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.existsByKey = true
		svc.removed = false
		c := newWidgetController(t, svc)
		res := c.Delete(ctx, key)
		assert.Equal(t, outcome.KindFailed, res.Kind())
		assert.Equal(t, "could not remove entity", res.Message())
	})

	t.Run("removed", func(t *testing.T) {
		svc := newFake[*widget, int64]()
		svc.existsByKey = true
		svc.removed = true
		c := newWidgetController(t, svc)
		assert.Equal(t, outcome.KindEmpty, c.Delete(ctx, key).Kind())
	})
}

func TestPatch(t *testing.T) {
	ctx := context.Background()
	key := uuid.New()

	svc := newFake[*widget, int64]()
	svc.get = &widget{Base: types.Base[int64]{ID: 4, Key: key}, Name: "old", Color: "red"}
	c := newWidgetController(t, svc)

	name := "new"
	res := c.Patch(ctx, key, widgetPatch{ID: 99, Name: &name})

	require.Equal(t, outcome.KindValue, res.Kind())
	got, _ := res.Value()
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "red", got.Color, "absent patch field keeps stored value")
	assert.Equal(t, int64(4), got.ID, "identity is not patched")
	assert.Equal(t, key, got.Key)
	assert.Equal(t, 1, svc.count("update"))

	assert.Equal(t, outcome.KindInvalid, c.Patch(ctx, uuid.Nil, widgetPatch{}).Kind())
	assert.Equal(t, outcome.KindInvalid, c.Patch(ctx, key, nil).Kind())

	svc.get = nil
	assert.Equal(t, outcome.KindNotFound, c.Patch(ctx, key, widgetPatch{Color: "blue"}).Kind())
}

func TestPatch_VerboseMismatch(t *testing.T) {
	type badPatch struct{ Name int }
	svc := newFake[*widget, int64]()
	svc.get = &widget{Name: "old"}
	key := uuid.New()

	quiet := newWidgetController(t, svc)
	assert.Equal(t, outcome.KindValue, quiet.Patch(context.Background(), key, badPatch{Name: 1}).Kind())

	loud := newWidgetController(t, svc, WithVerbose(true))
	assert.Equal(t, outcome.KindFailed, loud.Patch(context.Background(), key, badPatch{Name: 1}).Kind())
}

func TestFailureBoundary_RecoversPanics(t *testing.T) {
	ctx := context.Background()
	svc := newFake[*widget, int64]()
	svc.panicMsg = "store exploded"
	c := newWidgetController(t, svc)

	res := c.List(ctx)
	assert.Equal(t, outcome.KindFailed, res.Kind())
	assert.Equal(t, "store exploded", res.Message())

	assert.Equal(t, outcome.KindFailed, c.Create(ctx, &widget{}).Kind())
	assert.Equal(t, outcome.KindFailed, c.Get(ctx, 1).Kind())
	assert.Equal(t, outcome.KindFailed, c.Delete(ctx, uuid.New()).Kind())
}

func TestFailureBoundary_LogsOperationContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := newFake[*widget, int64]()
	svc.err = errors.New("connection reset")
	c, err := New[*widget, int64](svc, types.PositiveID[int64], WithLogger(logger), WithName("widgets"))
	require.NoError(t, err)

	res := c.Page(context.Background(), 0, 10)

	assert.Equal(t, outcome.KindFailed, res.Kind())
	assert.Equal(t, "connection reset", res.Message())
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "resource=widgets")
	assert.Contains(t, out, "op=page")
	assert.Contains(t, out, `error="connection reset"`)
}
