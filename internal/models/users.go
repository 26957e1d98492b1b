package models

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

const userColumns = `id, first_name, last_name, image_url`

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.ImageURL)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, s.q(`SELECT `+userColumns+` FROM users ORDER BY last_name, first_name, id`))
		if err != nil {
			return errors.Wrap(err, "listing users failed")
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return errors.Wrap(err, "scanning user failed")
			}
			users = append(users, u)
		}
		return errors.Wrap(rows.Err(), "listing users failed")
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser stores a new user. A blank imageURL is replaced by DefaultImageURL.
func (s *Store) CreateUser(ctx context.Context, firstName, lastName, imageURL string) (*User, error) {
	if err := validateUser(firstName, lastName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(imageURL) == "" {
		imageURL = DefaultImageURL
	}
	u := &User{FirstName: firstName, LastName: lastName, ImageURL: imageURL}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, s.q(`INSERT INTO users (first_name, last_name, image_url) VALUES (?, ?, ?) RETURNING id`),
			firstName, lastName, imageURL)
		return errors.Wrap(row.Scan(&u.ID), "creating user failed")
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser loads a user together with its posts, oldest first.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	var u *User
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if u, err = s.getUser(ctx, tx, id); err != nil {
			return err
		}
		u.Posts, err = s.postsByUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser overwrites all editable fields. Unlike CreateUser, an empty
// imageURL is stored as given.
func (s *Store) UpdateUser(ctx context.Context, id int64, firstName, lastName, imageURL string) (*User, error) {
	if err := validateUser(firstName, lastName); err != nil {
		return nil, err
	}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`UPDATE users SET first_name = ?, last_name = ?, image_url = ? WHERE id = ?`),
			firstName, lastName, imageURL, id)
		if err != nil {
			return errors.Wrap(err, "updating user failed")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "updating user failed")
		}
		if n == 0 {
			return &NotFoundError{Entity: "user", ID: id}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &User{ID: id, FirstName: firstName, LastName: lastName, ImageURL: imageURL}, nil
}

// DeleteUser removes a user, its posts and their tag links. The deleted user is
// returned so callers can name it.
func (s *Store) DeleteUser(ctx context.Context, id int64) (*User, error) {
	var u *User
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if u, err = s.getUser(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM post_tags WHERE post_id IN (SELECT id FROM posts WHERE user_id = ?)`), id); err != nil {
			return errors.Wrap(err, "deleting user's post tags failed")
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM posts WHERE user_id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting user's posts failed")
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting user failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) getUser(ctx context.Context, tx *sql.Tx, id int64) (*User, error) {
	u, err := scanUser(tx.QueryRowContext(ctx, s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading user %d failed", id)
	}
	return &u, nil
}
