// Package sqlite provides the public API for the SQLite store.
// It exposes the backend factory and table constructor while keeping
// implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/crudkit/internal/sqlite"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Backend owns one SQLite database file.
type Backend = sqlite.Backend

// Table stores one resource and implements types.Service.
type Table[E types.Model[ID], ID comparable] = sqlite.Table[E, ID]

// ImportResult counts the outcome of Table.Import.
type ImportResult = sqlite.ImportResult

// TableOption configures a Table.
type TableOption = sqlite.TableOption

// Table options.
var (
	WithSoftDelete = sqlite.WithSoftDelete
	WithPageLimit  = sqlite.WithPageLimit
	WithListLimit  = sqlite.WithListLimit
	WithClock      = sqlite.WithClock
	FromConfig     = sqlite.FromConfig
)

var _ types.Backend = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".crudkit",
//	})
//	defer backend.Detach()
//	items, err := sqlite.NewTable[*Item](backend, "items", types.SequentialID[int64])
func NewBackend() *Backend {
	return sqlite.NewBackend()
}

// NewTable creates the SQL table for a resource on an attached backend.
func NewTable[E types.Model[ID], ID comparable](b *Backend, name string, gen types.IDGenerator[ID], opts ...TableOption) (*Table[E, ID], error) {
	return sqlite.NewTable[E, ID](b, name, gen, opts...)
}
