// Package models holds the blog's users, posts and tags and every read and write
// against them. Each Store method is one unit of work: it commits as a whole or
// leaves the database untouched.
package models

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"blogly/internal/clock"
	"blogly/internal/db"
)

type Store struct {
	db *db.DB
	// Clock stamps new posts. Tests swap in a stub.
	Clock clock.Clock
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database, Clock: clock.System{}}
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func (s *Store) now() time.Time {
	return s.Clock.NowUTC().Truncate(time.Microsecond)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// requireRef fails with a ReferentialError when table has no row with id.
func (s *Store) requireRef(ctx context.Context, tx *sql.Tx, entity, table string, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM `+table+` WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &ReferentialError{Entity: entity, ID: id}
	}
	return errors.Wrapf(err, "checking %s %d failed", entity, id)
}
