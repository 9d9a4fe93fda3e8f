package mapper

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

type quantity int

type orderItem struct {
	ID   int
	Name string
}

type orderItemDTO struct {
	ID   int
	Name string
}

type order struct {
	types.Base[int64]
	Customer  string
	Total     float64
	Items     []orderItem
	Notes     map[string]string
	CreatedAt time.Time
	internal  string
}

type orderDTO struct {
	ID       int64
	Key      uuid.UUID
	Customer string
	Total    float64
	Items    []orderItemDTO
	Notes    map[string]string
	Count    quantity
}

type summary struct {
	Customer string
	Total    string // same name, different type
	Extra    string
}

func TestCopy_MatchesByNameAndType(t *testing.T) {
	key := uuid.New()
	src := &order{
		Base:     types.Base[int64]{ID: 7, Key: key},
		Customer: "ada",
		Total:    12.5,
		Items:    []orderItem{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}},
		Notes:    map[string]string{"gift": "yes"},
	}

	var dst orderDTO
	require.NoError(t, Copy(src, &dst))

	assert.Equal(t, int64(7), dst.ID, "promoted ID copied")
	assert.Equal(t, key, dst.Key, "promoted Key copied")
	assert.Equal(t, "ada", dst.Customer)
	assert.Equal(t, 12.5, dst.Total)
	assert.Equal(t, []orderItemDTO{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}}, dst.Items)
	assert.Equal(t, map[string]string{"gift": "yes"}, dst.Notes)
}

func TestCopy_LeavesUnmatchedFieldsUntouched(t *testing.T) {
	src := order{Customer: "bob", Total: 3}
	dst := summary{Total: "keep", Extra: "keep"}

	require.NoError(t, Copy(src, &dst))

	assert.Equal(t, "bob", dst.Customer)
	assert.Equal(t, "keep", dst.Total, "type mismatch is skipped")
	assert.Equal(t, "keep", dst.Extra, "no source field")
}

func TestCopy_InvalidArguments(t *testing.T) {
	var nilOrder *order
	var dst orderDTO

	tests := []struct {
		name   string
		source any
		target any
	}{
		{name: "nil source", source: nil, target: &dst},
		{name: "nil pointer source", source: nilOrder, target: &dst},
		{name: "nil target", source: order{}, target: nil},
		{name: "non-pointer target", source: order{}, target: dst},
		{name: "non-struct source", source: 5, target: &dst},
		{name: "non-struct target", source: order{}, target: new(int)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Copy(tt.source, tt.target)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}
}

func TestCopy_NamedScalarKinds(t *testing.T) {
	type in struct{ Count int }
	var out orderDTO
	require.NoError(t, Copy(in{Count: 4}, &out))
	assert.Equal(t, quantity(4), out.Count)
}

func TestCopy_PointerFields(t *testing.T) {
	type in struct {
		Name *string
		Age  int
	}
	type out struct {
		Name string
		Age  *int
	}
	name := "eve"
	var dst out
	require.NoError(t, Copy(in{Name: &name, Age: 30}, &dst))
	assert.Equal(t, "eve", dst.Name)
	require.NotNil(t, dst.Age)
	assert.Equal(t, 30, *dst.Age)

	dst = out{Name: "stale"}
	require.NoError(t, Copy(in{}, &dst))
	assert.Equal(t, "", dst.Name, "nil pointer copies as zero value")
}

func TestCopy_AllocatesEmbeddedPointer(t *testing.T) {
	type Inner struct{ Code string }
	type outer struct {
		*Inner
		Name string
	}
	type flat struct {
		Code string
		Name string
	}
	var dst outer
	require.NoError(t, Copy(flat{Code: "x1", Name: "n"}, &dst))
	require.NotNil(t, dst.Inner)
	assert.Equal(t, "x1", dst.Code)

	var back flat
	require.NoError(t, Copy(outer{Name: "only"}, &back), "nil embedded source pointer is skipped")
	assert.Equal(t, "only", back.Name)
	assert.Equal(t, "", back.Code)
}

func TestParse_RoundTripsSharedFields(t *testing.T) {
	key := uuid.New()
	x := &order{
		Base:     types.Base[int64]{ID: 3, Key: key},
		Customer: "carol",
		Total:    9.75,
		Items:    []orderItem{{ID: 5, Name: "five"}},
	}

	dto, err := Parse[orderDTO](x)
	require.NoError(t, err)

	back, err := Parse[*order](dto)
	require.NoError(t, err)

	assert.Equal(t, x.Base, back.Base)
	assert.Equal(t, x.Customer, back.Customer)
	assert.Equal(t, x.Total, back.Total)
	assert.Equal(t, x.Items, back.Items)
}

func TestParse_ReflexiveCopy(t *testing.T) {
	x := order{Customer: "dan", Total: 1, CreatedAt: time.Unix(100, 0).UTC(), internal: "hidden"}
	y, err := Parse[order](x)
	require.NoError(t, err)
	assert.Equal(t, x.Customer, y.Customer)
	assert.Equal(t, x.CreatedAt, y.CreatedAt)
	assert.Equal(t, "", y.internal, "unexported fields are not readable")
}

func TestNew(t *testing.T) {
	p := New[*order]()
	require.NotNil(t, p)
	v := New[orderDTO]()
	assert.Equal(t, orderDTO{}, v)
}

func TestCopyList(t *testing.T) {
	sources := []*order{{Customer: "a"}, {Customer: "b"}, {Customer: "c"}}

	t.Run("preserves order", func(t *testing.T) {
		var targets []orderDTO
		require.NoError(t, CopyList(sources, &targets))
		require.Len(t, targets, 3)
		assert.Equal(t, "a", targets[0].Customer)
		assert.Equal(t, "b", targets[1].Customer)
		assert.Equal(t, "c", targets[2].Customer)
	})

	t.Run("non-empty target is invalid state", func(t *testing.T) {
		targets := []orderDTO{{Customer: "existing"}}
		err := CopyList(sources, &targets)
		assert.ErrorIs(t, err, types.ErrInvalidState)
		assert.Len(t, targets, 1, "targets untouched")
	})

	t.Run("nil target pointer", func(t *testing.T) {
		err := CopyList[*order, orderDTO](sources, nil)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("nil element fails", func(t *testing.T) {
		var targets []orderDTO
		err := CopyList([]*order{{Customer: "a"}, nil}, &targets)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	})
}

func TestParseList(t *testing.T) {
	out, err := ParseList[*orderDTO]([]order{{Customer: "x"}, {Customer: "y"}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "x", out[0].Customer)
	assert.Equal(t, "y", out[1].Customer)

	empty, err := ParseList[orderDTO]([]order(nil))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCopy_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			dto, err := Parse[orderDTO](order{Customer: "c", Total: float64(n)})
			assert.NoError(t, err)
			assert.Equal(t, float64(n), dto.Total)
		}(i)
	}
	wg.Wait()
}
