package models

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"blogly/internal/db"
)

const postColumns = `p.id, p.title, p.content, p.created_at, p.user_id`

func scanPost(row rowScanner) (Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.UserID); err != nil {
		return p, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// CreatePost stores a post for userID stamped with the current time and links
// it to each distinct tag in tagIDs.
func (s *Store) CreatePost(ctx context.Context, userID int64, title, content string, tagIDs []int64) (*Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	tagIDs = uniqueIDs(tagIDs)
	p := &Post{Title: title, Content: content, UserID: userID}
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.requireRef(ctx, tx, "user", "users", userID); err != nil {
			return err
		}
		if err := s.requireTags(ctx, tx, tagIDs); err != nil {
			return err
		}
		p.CreatedAt = s.now()
		row := tx.QueryRowContext(ctx, s.q(`INSERT INTO posts (title, content, created_at, user_id) VALUES (?, ?, ?, ?) RETURNING id`),
			title, content, p.CreatedAt, userID)
		if err := row.Scan(&p.ID); err != nil {
			if db.IsForeignKeyViolation(err) {
				return &ReferentialError{Entity: "user", ID: userID}
			}
			return errors.Wrap(err, "creating post failed")
		}
		if err := s.insertPostTags(ctx, tx, linksFor(p.ID, tagIDs)); err != nil {
			return err
		}
		var err error
		p.Tags, err = s.postTags(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost loads a post with its author and tags.
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	var p *Post
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if p, err = s.getPost(ctx, tx, id); err != nil {
			return err
		}
		if p.User, err = s.getUser(ctx, tx, p.UserID); err != nil {
			return err
		}
		p.Tags, err = s.postTags(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePost overwrites title and content and replaces the post's whole tag set
// with tagIDs. Readers see either the old set or the new one.
func (s *Store) UpdatePost(ctx context.Context, id int64, title, content string, tagIDs []int64) (*Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	tagIDs = uniqueIDs(tagIDs)
	var p *Post
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if p, err = s.getPost(ctx, tx, id); err != nil {
			return err
		}
		if err := s.requireTags(ctx, tx, tagIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE posts SET title = ?, content = ? WHERE id = ?`), title, content, id); err != nil {
			return errors.Wrap(err, "updating post failed")
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM post_tags WHERE post_id = ?`), id); err != nil {
			return errors.Wrap(err, "clearing post tags failed")
		}
		if err := s.insertPostTags(ctx, tx, linksFor(id, tagIDs)); err != nil {
			return err
		}
		p.Title, p.Content = title, content
		p.Tags, err = s.postTags(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post and its tag links and returns the deleted post,
// whose UserID names the former owner.
func (s *Store) DeletePost(ctx context.Context, id int64) (*Post, error) {
	var p *Post
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if p, err = s.getPost(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM post_tags WHERE post_id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting post tags failed")
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM posts WHERE id = ?`), id); err != nil {
			return errors.Wrap(err, "deleting post failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPostsByUser returns a user's posts by ascending creation time, ties broken
// by id.
func (s *Store) ListPostsByUser(ctx context.Context, userID int64) ([]Post, error) {
	var posts []Post
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getUser(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		posts, err = s.postsByUser(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Store) getPost(ctx context.Context, tx *sql.Tx, id int64) (*Post, error) {
	p, err := scanPost(tx.QueryRowContext(ctx, s.q(`SELECT `+postColumns+` FROM posts p WHERE p.id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "post", ID: id}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading post %d failed", id)
	}
	return &p, nil
}

func (s *Store) postsByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]Post, error) {
	return s.queryPosts(ctx, tx, `SELECT `+postColumns+` FROM posts p WHERE p.user_id = ? ORDER BY p.created_at, p.id`, userID)
}

func (s *Store) queryPosts(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]Post, error) {
	rows, err := tx.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning post failed")
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	return posts, nil
}

func (s *Store) requireTags(ctx context.Context, tx *sql.Tx, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if err := s.requireRef(ctx, tx, "tag", "tags", tagID); err != nil {
			return err
		}
	}
	return nil
}

// linksFor pairs postID with each tag id, one row per pair.
func linksFor(postID int64, tagIDs []int64) []PostTag {
	links := make([]PostTag, 0, len(tagIDs))
	for _, tagID := range uniqueIDs(tagIDs) {
		links = append(links, PostTag{PostID: postID, TagID: tagID})
	}
	return links
}

func (s *Store) insertPostTags(ctx context.Context, tx *sql.Tx, links []PostTag) error {
	for _, link := range links {
		_, err := tx.ExecContext(ctx, s.q(`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`), link.PostID, link.TagID)
		if db.IsForeignKeyViolation(err) {
			return &ReferentialError{Entity: "tag", ID: link.TagID}
		}
		if err != nil {
			return errors.Wrap(err, "linking post tag failed")
		}
	}
	return nil
}

func (s *Store) postTags(ctx context.Context, tx *sql.Tx, postID int64) ([]Tag, error) {
	return s.queryTags(ctx, tx, `SELECT t.id, t.name FROM tags t JOIN post_tags pt ON pt.tag_id = t.id WHERE pt.post_id = ? ORDER BY t.name, t.id`, postID)
}
