package crud

import (
	"context"

	"github.com/mesh-intelligence/crudkit/pkg/outcome"
)

// Create persists a new entity built from in. It reports Conflict when the
// store already holds an entity with the same identity or external key.
func (c *Controller[E, ID, In, Out]) Create(ctx context.Context, in In) (res outcome.Outcome[Out]) {
	defer recoverTo(ctx, &c.settings, opCreate, &res)

	if isNil(in) {
		return outcome.Invalid[Out](msgPayloadRequired)
	}
	entity, err := c.toEntity(in)
	if err != nil {
		return fail[Out](ctx, &c.settings, opCreate, err)
	}
	if isNil(entity) {
		return outcome.Invalid[Out](msgPayloadRequired)
	}

	exists, err := c.svc.Exists(ctx, entity)
	if err != nil {
		return fail[Out](ctx, &c.settings, opCreate, err)
	}
	if exists {
		c.logger.DebugContext(ctx, "entity already exists", "resource", c.name, "op", opCreate)
		return outcome.Conflict[Out](msgAlreadyExists)
	}

	saved, err := c.svc.Insert(ctx, entity)
	if err != nil {
		return fail[Out](ctx, &c.settings, opCreate, err)
	}
	out, err := c.toOut(saved)
	if err != nil {
		return fail[Out](ctx, &c.settings, opCreate, err)
	}
	return outcome.Value(out)
}
