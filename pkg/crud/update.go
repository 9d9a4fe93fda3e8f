package crud

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Update replaces the stored state of the entity built from in. It reports
// NotFound when the store holds no such entity.
func (c *Controller[E, ID, In, Out]) Update(ctx context.Context, in In) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opUpdate, &res)

	if isNil(in) {
		return outcome.Invalid[Out](msgPayloadRequired)
	}
	entity, err := c.toEntity(in)
	if err != nil {
		return fail[Out](ctx, &c.settings, opUpdate, err)
	}
	if isNil(entity) {
		return outcome.Invalid[Out](msgPayloadRequired)
	}

	exists, err := c.svc.Exists(ctx, entity)
	if err != nil {
		return fail[Out](ctx, &c.settings, opUpdate, err)
	}
	if !exists {
		return notFound[Out](ctx, &c.settings, opUpdate, "key", entity.ExternalKey().String())
	}
	if err := c.svc.Update(ctx, entity); err != nil {
		return fail[Out](ctx, &c.settings, opUpdate, err)
	}
	return outcome.Empty[Out]()
}

// Patch applies the non-zero fields of patch to the entity with the given
// external key and stores the result. Identity and external key of the
// stored entity are never changed by a patch.
func (c *Controller[E, ID, In, Out]) Patch(ctx context.Context, key uuid.UUID, patch any) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opPatch, &res)

	if !types.ValidKey(key) {
		return outcome.Invalid[Out](msgInvalidKey)
	}
	if isNil(patch) {
		return outcome.Invalid[Out](msgPayloadRequired)
	}

	entity, err := c.svc.GetByKey(ctx, key)
	if errors.Is(err, types.ErrNotFound) || (err == nil && isNil(entity)) {
		return notFound[Out](ctx, &c.settings, opPatch, "key", key.String())
	}
	if err != nil {
		return fail[Out](ctx, &c.settings, opPatch, err)
	}

	id := entity.EntityID()
	if err := mapper.ApplyNonZero(patch, entity, mapper.Verbose(c.verbose), mapper.WithLogger(c.logger)); err != nil {
		return fail[Out](ctx, &c.settings, opPatch, err)
	}
	entity.SetEntityID(id)
	entity.SetExternalKey(key)

	if err := c.svc.Update(ctx, entity); err != nil {
		return fail[Out](ctx, &c.settings, opPatch, err)
	}
	return c.single(ctx, opPatch, entity)
}
