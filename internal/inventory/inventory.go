package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/crudkit/internal/memory"
	"github.com/mesh-intelligence/crudkit/pkg/crud"
	"github.com/mesh-intelligence/crudkit/pkg/sqlite"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Resource is the path segment and table name of the item resource.
const Resource = "items"

// Controller is the item controller type.
type Controller = crud.Controller[*Item, int64, ItemDTO, ItemDTO]

// Inventory owns the item store and its controller.
type Inventory struct {
	Items *Controller

	backend types.Backend
	table   *sqlite.Table[*Item, int64]
}

// Open builds the store named by cfg.Backend and an item controller on
// top of it. Close must be called to release the store.
func Open(cfg types.Config, logger *slog.Logger) (*Inventory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inv := &Inventory{}
	var svc types.Service[*Item, int64]
	switch cfg.Backend {
	case types.BackendSQLite:
		backend := sqlite.NewBackend()
		if err := backend.Attach(cfg); err != nil {
			return nil, fmt.Errorf("attach sqlite: %w", err)
		}
		table, err := sqlite.NewTable[*Item](backend, Resource, types.SequentialID[int64], sqlite.FromConfig(cfg)...)
		if err != nil {
			backend.Detach()
			return nil, err
		}
		inv.backend = backend
		inv.table = table
		svc = table
	case types.BackendMemory:
		svc = memory.New[*Item](types.SequentialID[int64],
			memory.WithPageLimit(cfg.PageLimit),
			memory.WithListLimit(cfg.ListLimit),
		)
	}

	items, err := crud.NewProjected[*Item, int64, ItemDTO, ItemDTO](svc, types.PositiveID[int64], toItem, toDTO,
		crud.WithLogger(logger),
		crud.WithName(Resource),
		crud.WithDefaultLimit(cfg.PageLimit),
		crud.WithVerbose(cfg.Verbose),
	)
	if err != nil {
		inv.Close()
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// Close detaches the backing store, if any.
func (inv *Inventory) Close() error {
	if inv.backend == nil {
		return nil
	}
	return inv.backend.Detach()
}

// Export writes all items to path as JSON Lines. Only the sqlite backend
// supports it.
func (inv *Inventory) Export(ctx context.Context, path string) (int, error) {
	if inv.table == nil {
		return 0, fmt.Errorf("%w: export requires the sqlite backend", types.ErrInvalidState)
	}
	return inv.table.Export(ctx, path)
}

// Import inserts the items read from a JSON Lines file. Only the sqlite
// backend supports it.
func (inv *Inventory) Import(ctx context.Context, path string) (sqlite.ImportResult, error) {
	if inv.table == nil {
		return sqlite.ImportResult{}, fmt.Errorf("%w: import requires the sqlite backend", types.ErrInvalidState)
	}
	return inv.table.Import(ctx, path)
}
