// Package sqlite implements types.Service on top of SQLite. A Backend owns
// one database file; each Table stores one resource in its own SQL table
// with the entity serialized as a JSON body.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "crudkit.db"

// Backend is the attachable owner of the SQLite connection.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]bool
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{tables: make(map[string]bool)}
}

// Attach opens the database in config.DataDir, creating the directory when
// needed. Existing data is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFile))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and keeps the pragmas below
	// in effect for every statement.
	db.SetMaxOpenConns(1)
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, every table operation returns
// ErrNotAttached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	b.tables = make(map[string]bool)
	return nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// register creates the SQL table for name and records it.
func (b *Backend) register(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrNotAttached
	}
	if b.tables[name] {
		return fmt.Errorf("%w: %s", types.ErrTableExists, name)
	}
	for _, stmt := range tableDDL(name) {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", name, err)
		}
	}
	b.tables[name] = true
	return nil
}

// read runs fn with the database under the read lock.
func (b *Backend) read(fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrNotAttached
	}
	return fn(b.db)
}

// write runs fn with the database under the write lock.
func (b *Backend) write(fn func(db *sql.DB) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrNotAttached
	}
	return fn(b.db)
}
