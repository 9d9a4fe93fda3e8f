package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/crudkit/pkg/mapper"
	"github.com/mesh-intelligence/crudkit/pkg/types"
)

// Table stores entities of one resource. It implements types.Service and
// types.DefaultLimiter.
type Table[E types.Model[ID], ID comparable] struct {
	backend *Backend
	name    string
	gen     types.IDGenerator[ID]
	opts    tableOptions

	selectLive string
}

type tableOptions struct {
	softDelete bool
	pageLimit  int
	listLimit  int
	now        func() time.Time
}

// TableOption configures a Table.
type TableOption func(*tableOptions)

// WithSoftDelete marks deleted rows instead of removing them. Marked rows
// are invisible to every read but keep their identity and key reserved.
func WithSoftDelete(on bool) TableOption {
	return func(o *tableOptions) { o.softDelete = on }
}

// WithPageLimit sets the page size reported through DefaultLimit.
func WithPageLimit(n int) TableOption {
	return func(o *tableOptions) { o.pageLimit = n }
}

// WithListLimit caps the number of rows List returns. Zero means no cap.
func WithListLimit(n int) TableOption {
	return func(o *tableOptions) { o.listLimit = n }
}

// WithClock sets the time source for row timestamps.
func WithClock(now func() time.Time) TableOption {
	return func(o *tableOptions) { o.now = now }
}

// FromConfig maps the store settings of cfg to table options.
func FromConfig(cfg types.Config) []TableOption {
	return []TableOption{
		WithSoftDelete(cfg.SoftDelete),
		WithPageLimit(cfg.PageLimit),
		WithListLimit(cfg.ListLimit),
	}
}

// NewTable creates the SQL table for the resource name on an attached
// backend. Returns ErrTableExists when name is already registered.
func NewTable[E types.Model[ID], ID comparable](b *Backend, name string, gen types.IDGenerator[ID], opts ...TableOption) (*Table[E, ID], error) {
	if b == nil || gen == nil {
		return nil, fmt.Errorf("%w: backend and id generator are required", types.ErrInvalidArgument)
	}
	if !tableName.MatchString(name) {
		return nil, fmt.Errorf("%w: table name %q", types.ErrInvalidArgument, name)
	}
	t := &Table[E, ID]{
		backend:    b,
		name:       name,
		gen:        gen,
		opts:       tableOptions{now: time.Now},
		selectLive: fmt.Sprintf("SELECT id, ext_key, body FROM %s WHERE deleted_at IS NULL", name),
	}
	for _, opt := range opts {
		opt(&t.opts)
	}
	if err := b.register(name); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the SQL table name.
func (t *Table[E, ID]) Name() string { return t.name }

// DefaultLimit returns the configured page size, 0 when unset.
func (t *Table[E, ID]) DefaultLimit() int { return t.opts.pageLimit }

// Exists reports whether a live row matches the external key of e, or its
// identity when the key is unset.
func (t *Table[E, ID]) Exists(ctx context.Context, e E) (bool, error) {
	var found bool
	err := t.backend.read(func(db *sql.DB) error {
		clause, arg, ok, err := t.match(e)
		if err != nil || !ok {
			return err
		}
		found, err = t.exists(ctx, db, clause, arg)
		return err
	})
	return found, err
}

// ExistsByKey reports whether a live row has the given external key.
func (t *Table[E, ID]) ExistsByKey(ctx context.Context, key uuid.UUID) (bool, error) {
	var found bool
	err := t.backend.read(func(db *sql.DB) error {
		var err error
		found, err = t.exists(ctx, db, "ext_key = ?", key.String())
		return err
	})
	return found, err
}

// Get returns the entity with the given identity or ErrNotFound.
func (t *Table[E, ID]) Get(ctx context.Context, id ID) (E, error) {
	var out E
	idText, err := encodeID(id)
	if err != nil {
		return out, err
	}
	err = t.backend.read(func(db *sql.DB) error {
		row := db.QueryRowContext(ctx, t.selectLive+" AND id = ?", idText)
		out, err = t.scan(row)
		return err
	})
	return out, err
}

// GetByKey returns the entity with the given external key or ErrNotFound.
func (t *Table[E, ID]) GetByKey(ctx context.Context, key uuid.UUID) (E, error) {
	var out E
	err := t.backend.read(func(db *sql.DB) error {
		var err error
		row := db.QueryRowContext(ctx, t.selectLive+" AND ext_key = ?", key.String())
		out, err = t.scan(row)
		return err
	})
	return out, err
}

// List returns live entities in insertion order, capped by the list limit.
func (t *Table[E, ID]) List(ctx context.Context) ([]E, error) {
	query := t.selectLive + " ORDER BY seq"
	var args []any
	if t.opts.listLimit > 0 {
		query += " LIMIT ?"
		args = append(args, t.opts.listLimit)
	}
	return t.query(ctx, query, args...)
}

// Page returns the live entities on the zero-based page.
func (t *Table[E, ID]) Page(ctx context.Context, page, limit int) ([]E, error) {
	if page < 0 {
		return nil, types.ErrInvalidPage
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", types.ErrInvalidArgument)
	}
	req := types.PageRequest{Page: page, Limit: limit}
	return t.query(ctx, t.selectLive+" ORDER BY seq LIMIT ? OFFSET ?", req.Limit, req.Offset())
}

// Insert stores e with a generated identity and, when unset, a new
// external key. Returns ErrAlreadyExists when the key or identity is taken.
func (t *Table[E, ID]) Insert(ctx context.Context, e E) (E, error) {
	var out E
	prevID, prevKey := e.EntityID(), e.ExternalKey()
	err := t.backend.write(func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin insert: %w", err)
		}
		defer tx.Rollback()

		var seq int64
		if err := tx.QueryRowContext(ctx, nextSeq, t.name).Scan(&seq); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		id, err := t.gen(seq)
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		e.SetEntityID(id)
		if !types.ValidKey(e.ExternalKey()) {
			e.SetExternalKey(types.NewKey())
		}

		idText, body, err := t.encode(e)
		if err != nil {
			return err
		}
		now := t.timestamp()
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (seq, id, ext_key, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)", t.name),
			seq, idText, e.ExternalKey().String(), body, now, now)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", types.ErrAlreadyExists, e.ExternalKey())
		}
		if err != nil {
			return fmt.Errorf("insert into %s: %w", t.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit insert: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		e.SetEntityID(prevID)
		e.SetExternalKey(prevKey)
	}
	return out, err
}

// Update replaces the body of the live row matched by external key, or by
// identity when the key is unset. The stored identity and key are kept.
func (t *Table[E, ID]) Update(ctx context.Context, e E) error {
	return t.backend.write(func(db *sql.DB) error {
		clause, arg, ok, err := t.match(e)
		if err != nil {
			return err
		}
		if !ok {
			return types.ErrNotFound
		}
		current, err := t.scan(db.QueryRowContext(ctx, t.selectLive+" AND "+clause, arg))
		if err != nil {
			return err
		}
		e.SetEntityID(current.EntityID())
		e.SetExternalKey(current.ExternalKey())

		_, body, err := t.encode(e)
		if err != nil {
			return err
		}
		res, err := db.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET body = ?, updated_at = ? WHERE ext_key = ? AND deleted_at IS NULL", t.name),
			body, t.timestamp(), e.ExternalKey().String())
		if err != nil {
			return fmt.Errorf("update %s: %w", t.name, err)
		}
		return requireRow(res)
	})
}

// DeleteByKey removes, or marks deleted when soft delete is on, the live
// row with the given key. It reports false when no row was affected.
func (t *Table[E, ID]) DeleteByKey(ctx context.Context, key uuid.UUID) (bool, error) {
	var removed bool
	err := t.backend.write(func(db *sql.DB) error {
		var (
			res sql.Result
			err error
		)
		if t.opts.softDelete {
			res, err = db.ExecContext(ctx,
				fmt.Sprintf("UPDATE %s SET deleted_at = ? WHERE ext_key = ? AND deleted_at IS NULL", t.name),
				t.timestamp(), key.String())
		} else {
			res, err = db.ExecContext(ctx,
				fmt.Sprintf("DELETE FROM %s WHERE ext_key = ? AND deleted_at IS NULL", t.name),
				key.String())
		}
		if err != nil {
			return fmt.Errorf("delete from %s: %w", t.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

// match builds the WHERE clause identifying e. ok is false when e carries
// neither a key nor an identity.
func (t *Table[E, ID]) match(e E) (clause string, arg any, ok bool, err error) {
	if key := e.ExternalKey(); types.ValidKey(key) {
		return "ext_key = ?", key.String(), true, nil
	}
	var zero ID
	if id := e.EntityID(); id != zero {
		idText, err := encodeID(id)
		if err != nil {
			return "", nil, false, err
		}
		return "id = ?", idText, true, nil
	}
	return "", nil, false, nil
}

func (t *Table[E, ID]) exists(ctx context.Context, db *sql.DB, clause string, arg any) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL AND %s", t.name, clause), arg).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query %s: %w", t.name, err)
	}
	return n > 0, nil
}

func (t *Table[E, ID]) query(ctx context.Context, query string, args ...any) ([]E, error) {
	var out []E
	err := t.backend.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query %s: %w", t.name, err)
		}
		defer rows.Close()

		out = make([]E, 0)
		for rows.Next() {
			e, err := t.scan(rows)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	return out, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scan decodes one row. The id and ext_key columns override whatever the
// body holds.
func (t *Table[E, ID]) scan(row scanner) (E, error) {
	var (
		idText, keyText, body string
		zero                  E
	)
	if err := row.Scan(&idText, &keyText, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, types.ErrNotFound
		}
		return zero, fmt.Errorf("scan %s: %w", t.name, err)
	}
	e := mapper.New[E]()
	if err := json.Unmarshal([]byte(body), e); err != nil {
		return zero, fmt.Errorf("%w: body of %s: %v", types.ErrInvalidData, keyText, err)
	}
	var id ID
	if err := json.Unmarshal([]byte(idText), &id); err != nil {
		return zero, fmt.Errorf("%w: id of %s: %v", types.ErrInvalidData, keyText, err)
	}
	key, err := uuid.Parse(keyText)
	if err != nil {
		return zero, fmt.Errorf("%w: key %q: %v", types.ErrInvalidData, keyText, err)
	}
	e.SetEntityID(id)
	e.SetExternalKey(key)
	return e, nil
}

func (t *Table[E, ID]) encode(e E) (idText, body string, err error) {
	idText, err = encodeID(e.EntityID())
	if err != nil {
		return "", "", err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return "", "", fmt.Errorf("%w: encode body: %v", types.ErrInvalidData, err)
	}
	return idText, string(data), nil
}

const nextSeq = `SELECT COALESCE((SELECT seq FROM sqlite_sequence WHERE name = ?), 0) + 1`

func (t *Table[E, ID]) timestamp() string {
	return t.opts.now().UTC().Format(time.RFC3339Nano)
}

// encodeID stores identities as JSON so any comparable identity kind
// round-trips through one TEXT column.
func encodeID[ID comparable](id ID) (string, error) {
	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidID, err)
	}
	return string(data), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
