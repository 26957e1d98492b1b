package models

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

func (s *Store) CreateTag(ctx context.Context, name string) (*Tag, error) {
	if err := requireText("tag", "name", name, maxTagNameLen); err != nil {
		return nil, err
	}
	t := &Tag{Name: name}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, s.q(`INSERT INTO tags (name) VALUES (?) RETURNING id`), name)
		return errors.Wrap(row.Scan(&t.ID), "creating tag failed")
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		tags, err = s.queryTags(ctx, tx, `SELECT t.id, t.name FROM tags t ORDER BY t.name, t.id`)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTag loads a tag with the posts it is attached to, oldest first.
func (s *Store) GetTag(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, s.q(`SELECT id, name FROM tags WHERE id = ?`), id).Scan(&t.ID, &t.Name)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "tag", ID: id}
		}
		if err != nil {
			return errors.Wrapf(err, "loading tag %d failed", id)
		}
		t.Posts, err = s.queryPosts(ctx, tx,
			`SELECT `+postColumns+` FROM posts p JOIN post_tags pt ON pt.post_id = p.id WHERE pt.tag_id = ? ORDER BY p.created_at, p.id`, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTags(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]Tag, error) {
	rows, err := tx.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing tags failed")
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, errors.Wrap(err, "scanning tag failed")
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing tags failed")
	}
	return tags, nil
}
