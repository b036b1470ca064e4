package pg

import (
	"context"
	"database/sql"
	"errors"

	"inkwell.dev/internal/blog"
)

// CommentStore persists comments.
type CommentStore struct {
	store *Store
}

var _ blog.CommentStore = (*CommentStore)(nil)

func NewCommentStore(store *Store) *CommentStore { return &CommentStore{store: store} }

const commentColumns = `id, post_id, author_id, content, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (*blog.Comment, error) {
	var c blog.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentStore) Create(ctx context.Context, c *blog.Comment) (*blog.Comment, error) {
	cp := *c
	err := s.store.db.QueryRowContext(ctx, `
		insert into comments(post_id, author_id, content)
		values ($1,$2,$3)
		returning id, created_at, updated_at
	`, cp.PostID, cp.AuthorID, cp.Content).Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *CommentStore) FindByID(ctx context.Context, id int64) (*blog.Comment, error) {
	return scanComment(s.store.db.QueryRowContext(ctx,
		`select `+commentColumns+` from comments where id=$1`, id))
}

func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]*blog.Comment, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`select `+commentColumns+` from comments where post_id=$1 order by id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*blog.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, `delete from comments where id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func (s *CommentStore) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := s.store.db.QueryRowContext(ctx, `select author_id from comments where id=$1`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, blog.ErrNotFound
	}
	return owner, err
}
