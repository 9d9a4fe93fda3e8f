package types

import (
	"context"

	"github.com/google/uuid"
)

// Creator inserts entities. Insert assigns the identity and, when unset,
// the external key, and returns the persisted entity.
type Creator[E any] interface {
	Exists(ctx context.Context, entity E) (bool, error)
	Insert(ctx context.Context, entity E) (E, error)
}

// Reader fetches entities. Get and GetByKey return ErrNotFound when no
// entity matches.
type Reader[E any, ID comparable] interface {
	Get(ctx context.Context, id ID) (E, error)
	GetByKey(ctx context.Context, key uuid.UUID) (E, error)
	List(ctx context.Context) ([]E, error)
}

// Pager fetches one page of entities. limit is never negative.
type Pager[E any] interface {
	Page(ctx context.Context, page, limit int) ([]E, error)
}

// Updater replaces the stored state of an existing entity.
type Updater[E any] interface {
	Exists(ctx context.Context, entity E) (bool, error)
	Update(ctx context.Context, entity E) error
}

// Deleter removes entities by external key. Whether removal is soft or
// hard is up to the store.
type Deleter interface {
	ExistsByKey(ctx context.Context, key uuid.UUID) (bool, error)
	DeleteByKey(ctx context.Context, key uuid.UUID) (bool, error)
}

// Service is the full capability contract consumed by the orchestrator.
// Every call accepts a context; stores that observe it make the calling
// operation cancellable.
type Service[E any, ID comparable] interface {
	Creator[E]
	Reader[E, ID]
	Pager[E]
	Updater[E]
	Deleter
}

// SyncService is the same contract for stores without cancellation support.
type SyncService[E any, ID comparable] interface {
	Exists(entity E) (bool, error)
	ExistsByKey(key uuid.UUID) (bool, error)
	Get(id ID) (E, error)
	GetByKey(key uuid.UUID) (E, error)
	List() ([]E, error)
	Page(page, limit int) ([]E, error)
	Insert(entity E) (E, error)
	Update(entity E) error
	DeleteByKey(key uuid.UUID) (bool, error)
}
