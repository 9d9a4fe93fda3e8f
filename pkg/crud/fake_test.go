package crud

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

type widget struct {
	types.Base[int64]
	Name  string
	Color string
}

type widgetIn struct {
	Key  uuid.UUID
	Name string
}

type widgetOut struct {
	ID   int64
	Key  uuid.UUID
	Name string
}

type widgetPatch struct {
	ID    int64
	Name  *string
	Color string
}

// fakeService is a scripted store that records every call it receives.
type fakeService[E types.Model[ID], ID comparable] struct {
	mu sync.Mutex

	exists      bool
	existsByKey bool
	get         E
	getErr      error
	list        []E
	listErr     error
	insertErr   error
	updateErr   error
	removed     bool
	deleteErr   error
	err         error // returned by every call when set
	panicMsg    string
	defaultLim  int

	calls     map[string]int
	pageArgs  []int
	inserted  E
	updated   E
	nextID    ID
	lastGetID ID
}

func newFake[E types.Model[ID], ID comparable]() *fakeService[E, ID] {
	return &fakeService[E, ID]{calls: make(map[string]int)}
}

func (f *fakeService[E, ID]) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.err
}

func (f *fakeService[E, ID]) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeService[E, ID]) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeService[E, ID]) Exists(_ context.Context, _ E) (bool, error) {
	if err := f.record("exists"); err != nil {
		return false, err
	}
	return f.exists, nil
}

func (f *fakeService[E, ID]) ExistsByKey(_ context.Context, _ uuid.UUID) (bool, error) {
	if err := f.record("exists_by_key"); err != nil {
		return false, err
	}
	return f.existsByKey, nil
}

func (f *fakeService[E, ID]) Get(_ context.Context, id ID) (E, error) {
	f.lastGetID = id
	if err := f.record("get"); err != nil {
		var zero E
		return zero, err
	}
	return f.get, f.getErr
}

func (f *fakeService[E, ID]) GetByKey(_ context.Context, _ uuid.UUID) (E, error) {
	if err := f.record("get_by_key"); err != nil {
		var zero E
		return zero, err
	}
	return f.get, f.getErr
}

func (f *fakeService[E, ID]) List(ctx context.Context) ([]E, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.list, f.listErr
}

func (f *fakeService[E, ID]) Page(ctx context.Context, page, limit int) ([]E, error) {
	f.pageArgs = []int{page, limit}
	if err := f.record("page"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.list, f.listErr
}

func (f *fakeService[E, ID]) Insert(_ context.Context, e E) (E, error) {
	if err := f.record("insert"); err != nil {
		var zero E
		return zero, err
	}
	if f.insertErr != nil {
		var zero E
		return zero, f.insertErr
	}
	e.SetEntityID(f.nextID)
	if e.ExternalKey() == uuid.Nil {
		e.SetExternalKey(uuid.New())
	}
	f.inserted = e
	return e, nil
}

func (f *fakeService[E, ID]) Update(_ context.Context, e E) error {
	if err := f.record("update"); err != nil {
		return err
	}
	f.updated = e
	return f.updateErr
}

func (f *fakeService[E, ID]) DeleteByKey(_ context.Context, _ uuid.UUID) (bool, error) {
	if err := f.record("delete_by_key"); err != nil {
		return false, err
	}
	return f.removed, f.deleteErr
}

// limitedService adds a store-chosen default page size.
type limitedService struct {
	*fakeService[*widget, int64]
}

func (l limitedService) DefaultLimit() int { return l.defaultLim }
