package crud

import (
	"context"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// FromSync adapts a store without cancellation support to types.Service.
// The context is not consulted: a call that has started runs to completion.
func FromSync[E any, ID comparable](s types.SyncService[E, ID]) types.Service[E, ID] {
	return syncService[E, ID]{s: s}
}

type syncService[E any, ID comparable] struct {
	s types.SyncService[E, ID]
}

func (a syncService[E, ID]) Exists(_ context.Context, e E) (bool, error) { return a.s.Exists(e) }

func (a syncService[E, ID]) ExistsByKey(_ context.Context, key uuid.UUID) (bool, error) {
	return a.s.ExistsByKey(key)
}

func (a syncService[E, ID]) Get(_ context.Context, id ID) (E, error) { return a.s.Get(id) }

func (a syncService[E, ID]) GetByKey(_ context.Context, key uuid.UUID) (E, error) {
	return a.s.GetByKey(key)
}

func (a syncService[E, ID]) List(context.Context) ([]E, error) { return a.s.List() }

func (a syncService[E, ID]) Page(_ context.Context, page, limit int) ([]E, error) {
	return a.s.Page(page, limit)
}

func (a syncService[E, ID]) Insert(_ context.Context, e E) (E, error) { return a.s.Insert(e) }

func (a syncService[E, ID]) Update(_ context.Context, e E) error { return a.s.Update(e) }

func (a syncService[E, ID]) DeleteByKey(_ context.Context, key uuid.UUID) (bool, error) {
	return a.s.DeleteByKey(key)
}

// DefaultLimit forwards the wrapped store's default page size, or 0 when
// it has none.
func (a syncService[E, ID]) DefaultLimit() int {
	if dl, ok := a.s.(types.DefaultLimiter); ok {
		return dl.DefaultLimit()
	}
	return 0
}
