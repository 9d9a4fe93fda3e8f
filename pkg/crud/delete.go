package crud

import (
	"context"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Delete removes the entity with the given external key. A store that
// reports the key present but fails to remove it yields Failed, never
// NotFound.
func (c *Controller[E, ID, In, Out]) Delete(ctx context.Context, key uuid.UUID) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opDelete, &res)

	if !types.ValidKey(key) {
		return outcome.Invalid[Out](msgInvalidKey)
	}
	exists, err := c.svc.ExistsByKey(ctx, key)
	if err != nil {
		return fail[Out](ctx, &c.settings, opDelete, err)
	}
	if !exists {
		return notFound[Out](ctx, &c.settings, opDelete, "key", key.String())
	}
	removed, err := c.svc.DeleteByKey(ctx, key)
	if err != nil {
		return fail[Out](ctx, &c.settings, opDelete, err)
	}
	if !removed {
		c.logger.ErrorContext(ctx, msgCouldNotRemove, "resource", c.name, "op", opDelete, "key", key.String())
		return outcome.Failed[Out](msgCouldNotRemove)
	}
	return outcome.Empty[Out]()
}
