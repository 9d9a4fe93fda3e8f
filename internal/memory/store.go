// Package memory implements an in-process store satisfying types.Service.
// It backs the memory backend of the CLI and the orchestrator's end to end
// tests. Entities are deep copied on the way in and out so callers never
// share state with the store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Store keeps entities in insertion order behind a RWMutex.
type Store[E types.Model[ID], ID comparable] struct {
	mu     sync.RWMutex
	gen    types.IDGenerator[ID]
	seq    int64
	order  []uuid.UUID
	byKey  map[uuid.UUID]E
	byID   map[ID]uuid.UUID
	limits limits
}

type limits struct {
	page int
	list int
}

// Option configures a Store.
type Option func(*limits)

// WithPageLimit sets the page size reported through DefaultLimit.
func WithPageLimit(n int) Option {
	return func(l *limits) { l.page = n }
}

// WithListLimit caps the number of entities List returns. Zero means no cap.
func WithListLimit(n int) Option {
	return func(l *limits) { l.list = n }
}

// New creates an empty store that assigns identities with gen.
func New[E types.Model[ID], ID comparable](gen types.IDGenerator[ID], opts ...Option) *Store[E, ID] {
	s := &Store[E, ID]{
		gen:   gen,
		byKey: make(map[uuid.UUID]E),
		byID:  make(map[ID]uuid.UUID),
	}
	for _, opt := range opts {
		opt(&s.limits)
	}
	return s
}

// DefaultLimit returns the configured page size, 0 when unset.
func (s *Store[E, ID]) DefaultLimit() int { return s.limits.page }

// Len returns the number of stored entities.
func (s *Store[E, ID]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Exists reports whether an entity with the identity or external key of e
// is stored.
func (s *Store[E, ID]) Exists(ctx context.Context, e E) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holds(e), nil
}

// ExistsByKey reports whether key is stored.
func (s *Store[E, ID]) ExistsByKey(ctx context.Context, key uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byKey[key]
	return ok, nil
}

// Get returns a copy of the entity with the given identity.
func (s *Store[E, ID]) Get(ctx context.Context, id ID) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.byID[id]
	if !ok {
		return zero, types.ErrNotFound
	}
	return s.clone(s.byKey[key])
}

// GetByKey returns a copy of the entity with the given external key.
func (s *Store[E, ID]) GetByKey(ctx context.Context, key uuid.UUID) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byKey[key]
	if !ok {
		return zero, types.ErrNotFound
	}
	return s.clone(e)
}

// List returns copies of the stored entities in insertion order.
func (s *Store[E, ID]) List(ctx context.Context) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.order
	if s.limits.list > 0 && len(keys) > s.limits.list {
		keys = keys[:s.limits.list]
	}
	return s.collect(keys)
}

// Page returns copies of the entities on the zero-based page.
func (s *Store[E, ID]) Page(ctx context.Context, page, limit int) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, types.ErrInvalidPage
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", types.ErrInvalidArgument)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	offset := types.PageRequest{Page: page, Limit: limit}.Offset()
	if offset >= len(s.order) {
		return []E{}, nil
	}
	end := offset + min(limit, len(s.order)-offset)
	return s.collect(s.order[offset:end])
}

// Insert stores a copy of e with a fresh identity and, when unset, a fresh
// external key.
func (s *Store[E, ID]) Insert(ctx context.Context, e E) (E, error) {
	var zero E
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	stored, err := s.clone(e)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holds(stored) {
		return zero, types.ErrAlreadyExists
	}
	id, err := s.gen(s.seq + 1)
	if err != nil {
		return zero, fmt.Errorf("generate id: %w", err)
	}
	if _, taken := s.byID[id]; taken {
		return zero, fmt.Errorf("%w: id %v", types.ErrAlreadyExists, id)
	}
	s.seq++
	stored.SetEntityID(id)
	if !types.ValidKey(stored.ExternalKey()) {
		stored.SetExternalKey(types.NewKey())
	}
	key := stored.ExternalKey()
	s.byKey[key] = stored
	s.byID[id] = key
	s.order = append(s.order, key)
	return s.clone(stored)
}

// Update replaces the stored entity matched by external key, or by identity
// when the key is unset. The stored identity and key are kept.
func (s *Store[E, ID]) Update(ctx context.Context, e E) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := s.clone(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keyOf(next)
	if !ok {
		return types.ErrNotFound
	}
	next.SetEntityID(s.byKey[key].EntityID())
	next.SetExternalKey(key)
	s.byKey[key] = next
	return nil
}

// DeleteByKey removes the entity with the given key. It reports false when
// nothing was removed.
func (s *Store[E, ID]) DeleteByKey(ctx context.Context, key uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byKey[key]
	if !ok {
		return false, nil
	}
	delete(s.byKey, key)
	delete(s.byID, e.EntityID())
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// holds reports whether e's key or identity is stored. The caller must
// hold s.mu.
func (s *Store[E, ID]) holds(e E) bool {
	_, ok := s.keyOf(e)
	return ok
}

// keyOf resolves e to a stored key. The caller must hold s.mu.
func (s *Store[E, ID]) keyOf(e E) (uuid.UUID, bool) {
	if key := e.ExternalKey(); types.ValidKey(key) {
		_, ok := s.byKey[key]
		return key, ok
	}
	var zero ID
	if id := e.EntityID(); id != zero {
		key, ok := s.byID[id]
		return key, ok
	}
	return uuid.Nil, false
}

// collect copies the entities for keys. The caller must hold s.mu.
func (s *Store[E, ID]) collect(keys []uuid.UUID) ([]E, error) {
	out := make([]E, 0, len(keys))
	for _, key := range keys {
		e, err := s.clone(s.byKey[key])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// clone deep copies e through its JSON form.
func (s *Store[E, ID]) clone(e E) (E, error) {
	out := mapper.New[E]()
	data, err := json.Marshal(e)
	if err != nil {
		return out, fmt.Errorf("%w: encode: %v", types.ErrInvalidData, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return out, fmt.Errorf("%w: decode: %v", types.ErrInvalidData, err)
	}
	out.SetEntityID(e.EntityID())
	out.SetExternalKey(e.ExternalKey())
	return out, nil
}
