package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"steam-toolbox/internal/errors"
)

// created_at is stored as text in this layout so it sorts lexically
const timestampLayout = "2006-01-02 15:04:05.000"

// dialect holds what differs between the SQL backends
type dialect struct {
	name string

	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool

	// noLimit is the LIMIT argument that means "all rows"
	noLimit any
}

var (
	sqliteDialect   = dialect{name: "sqlite", noLimit: -1}
	postgresDialect = dialect{name: "postgres", numbered: true, noLimit: nil}
)

// rebind rewrites ? placeholders for dialects that number them
func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// SQLStore is the database/sql storage backend shared by sqlite and postgres
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// Save inserts a record. If ID or CreatedAt are empty, they're set.
func (s *SQLStore) Save(ctx context.Context, rec *Record) error {
	prepare(rec)

	var name *string
	if n := strings.TrimSpace(rec.Name); n != "" {
		name = &n
	}

	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO calculations (id, name, fluid, pressure_drop_pa, fingerprint, request, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`),
		rec.ID,
		name,
		rec.Fluid,
		rec.PressureDropPa,
		rec.Fingerprint,
		string(rec.Request),
		string(rec.Result),
		rec.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		return errors.Storage("failed to save calculation", err).WithContext("id", rec.ID)
	}
	return nil
}

const selectColumns = `SELECT id, name, fluid, pressure_drop_pa, fingerprint, request, result, created_at FROM calculations`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		name      sql.NullString
		req, res  string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &name, &rec.Fluid, &rec.PressureDropPa, &rec.Fingerprint, &req, &res, &createdAt); err != nil {
		return nil, err
	}
	rec.Name = name.String
	rec.Request = []byte(req)
	rec.Result = []byte(res)

	t, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return nil, errors.Storage("invalid created_at", err).WithContext("id", rec.ID)
	}
	rec.CreatedAt = t.UTC()
	return &rec, nil
}

// Get returns one record
func (s *SQLStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(selectColumns+` WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("calculation", id)
	}
	if err != nil {
		if errors.TypeOf(err) != "" {
			return nil, err
		}
		return nil, errors.Storage("failed to load calculation", err).WithContext("id", id)
	}
	return rec, nil
}

// List returns records filtered by fluid and [since, until], newest first
func (s *SQLStore) List(ctx context.Context, filter *ListFilter) ([]*Record, error) {
	var (
		conds []string
		args  []any
	)
	var limit any = s.dialect.noLimit
	offset := 0

	if filter != nil {
		if filter.Fluid != "" {
			conds = append(conds, "fluid = ?")
			args = append(args, filter.Fluid)
		}
		if !filter.Since.IsZero() {
			conds = append(conds, "created_at >= ?")
			args = append(args, filter.Since.UTC().Format(timestampLayout))
		}
		if !filter.Until.IsZero() {
			conds = append(conds, "created_at <= ?")
			args = append(args, filter.Until.UTC().Format(timestampLayout))
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if filter.Offset > 0 {
			offset = filter.Offset
		}
	}

	q := selectColumns
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
	if err != nil {
		return nil, errors.Storage("failed to list calculations", err)
	}
	defer rows.Close()

	out := make([]*Record, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			if errors.TypeOf(err) != "" {
				return nil, err
			}
			return nil, errors.Storage("failed to scan calculation", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to list calculations", err)
	}
	return out, nil
}

// Delete removes one record
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM calculations WHERE id = ?`), id)
	if err != nil {
		return errors.Storage("failed to delete calculation", err).WithContext("id", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Storage("failed to delete calculation", err).WithContext("id", id)
	}
	if n == 0 {
		return errors.NotFound("calculation", id)
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}
