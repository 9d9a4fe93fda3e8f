package crud

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Get fetches the entity with the given identity. An identity rejected by
// the controller's validator is reported as Invalid without calling the
// store.
func (c *Controller[E, ID, In, Out]) Get(ctx context.Context, id ID) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opGet, &res)

	if !c.validID(id) {
		return outcome.Invalid[Out](msgInvalidID)
	}
	entity, err := c.svc.Get(ctx, id)
	if errors.Is(err, types.ErrNotFound) || (err == nil && isNil(entity)) {
		return notFound[Out](ctx, &c.settings, opGet, "id", id)
	}
	if err != nil {
		return fail[Out](ctx, &c.settings, opGet, err)
	}
	return c.single(ctx, opGet, entity)
}

// GetByKey fetches the entity with the given external key. uuid.Nil is
// reported as Invalid without calling the store.
func (c *Controller[E, ID, In, Out]) GetByKey(ctx context.Context, key uuid.UUID) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opGetByKey, &res)

	if !types.ValidKey(key) {
		return outcome.Invalid[Out](msgInvalidKey)
	}
	entity, err := c.svc.GetByKey(ctx, key)
	if errors.Is(err, types.ErrNotFound) || (err == nil && isNil(entity)) {
		return notFound[Out](ctx, &c.settings, opGetByKey, "key", key.String())
	}
	if err != nil {
		return fail[Out](ctx, &c.settings, opGetByKey, err)
	}
	return c.single(ctx, opGetByKey, entity)
}

// List fetches every entity the store returns. An empty result is reported
// as Empty, distinct from a Value holding an empty list.
func (c *Controller[E, ID, In, Out]) List(ctx context.Context) (res outcome.Outcome[[]Out]) {
	defer recoverTo(ctx, &c.settings, opList, &res)

	entities, err := c.svc.List(ctx)
	if err != nil {
		return fail[[]Out](ctx, &c.settings, opList, err)
	}
	if len(entities) == 0 {
		c.logger.DebugContext(ctx, "no content", "resource", c.name, "op", opList)
		return outcome.Empty[[]Out]()
	}
	out, err := c.outputs(entities)
	if err != nil {
		return fail[[]Out](ctx, &c.settings, opList, err)
	}
	return outcome.Value(out)
}

// Page fetches one zero-based page. A negative limit is replaced by the
// store's default limit, or the controller's when the store has none. The
// result is always a Value, possibly holding an empty list.
func (c *Controller[E, ID, In, Out]) Page(ctx context.Context, page, limit int) (res outcome.Outcome[[]Out]) {
	defer recoverTo(ctx, &c.settings, opPage, &res)

	if page < 0 {
		return outcome.Invalid[[]Out](types.ErrInvalidPage.Error())
	}
	req := c.pageLimit(page, limit)
	entities, err := c.svc.Page(ctx, req.Page, req.Limit)
	if err != nil {
		return fail[[]Out](ctx, &c.settings, opPage, err)
	}
	out, err := c.outputs(entities)
	if err != nil {
		return fail[[]Out](ctx, &c.settings, opPage, err)
	}
	return outcome.Value(out)
}

func (c *Controller[E, ID, In, Out]) single(ctx context.Context, op string, entity E) outcome.Outcome[Out] {
	out, err := c.toOut(entity)
	if err != nil {
		return fail[Out](ctx, &c.settings, op, err)
	}
	return outcome.Value(out)
}
