package sqlite

import (
	"fmt"
	"regexp"
)

// Connection pragmas applied on Attach.
var pragmas = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA busy_timeout = 5000;`,
	`PRAGMA foreign_keys = ON;`,
}

// tableName restricts resource names to identifiers safe to splice into
// DDL and queries.
var tableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// tableDDL returns the statements creating the table for a resource.
// seq orders rows and feeds the identity generator; AUTOINCREMENT keeps
// it from reusing values after deletes. id holds the JSON
// encoding of the entity identity.
func tableDDL(name string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    ext_key TEXT NOT NULL UNIQUE,
    body TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    deleted_at TEXT
);`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_live ON %s(deleted_at);`, name, name),
	}
}
