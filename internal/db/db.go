// Package db opens the relational store, applies the schema and runs units of
// work against it.
package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema.sql schema_postgres.sql
var schemaFS embed.FS

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// sqliteParams turn on foreign keys and make writers queue on the database lock
// instead of failing with SQLITE_BUSY.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// DB is an open store handle. It is created once at process start and closed at
// shutdown.
type DB struct {
	*sql.DB
	Driver string
}

// Open connects with the given driver and applies the schema. For sqlite3 the
// dsn is a file path; for pgx it is a Postgres connection URL.
func Open(driver, dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory failed")
		}
		conn, err = sql.Open(DriverSQLite, sqliteDSN(dsn))
	case DriverPostgres:
		conn, err = sql.Open(DriverPostgres, dsn)
	default:
		return nil, errors.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database failed", driver)
	}
	d := &DB{DB: conn, Driver: driver}
	if err := d.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteParams
	}
	return path + "?" + sqliteParams
}

func (d *DB) migrate(ctx context.Context) error {
	name := "schema.sql"
	if d.Driver == DriverPostgres {
		name = "schema_postgres.sql"
	}
	sqlBytes, err := fs.ReadFile(schemaFS, name)
	if err != nil {
		return errors.Wrap(err, "reading schema failed")
	}
	for _, stmt := range strings.Split(string(sqlBytes), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "applying schema failed")
		}
	}
	return nil
}

// Rebind rewrites ? placeholders into the form the driver expects.
func (d *DB) Rebind(query string) string {
	if d.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InTx runs fn in a single transaction. The transaction commits when fn returns
// nil and rolls back otherwise; fn's error is returned unchanged.
func (d *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction failed")
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
			return
		}
		err = errors.Wrap(tx.Commit(), "committing transaction failed")
	}()
	return fn(tx)
}

// IsForeignKeyViolation reports whether err is a foreign key constraint failure
// from either supported driver.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
