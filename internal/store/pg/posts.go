package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/blog"
)

// PostStore persists posts. The visibility condition of ListFilter is
// evaluated inside the query so gated rows never cross the wire.
type PostStore struct {
	store *Store
}

var _ blog.PostStore = (*PostStore)(nil)

func NewPostStore(store *Store) *PostStore { return &PostStore{store: store} }

const postColumns = `id, author_id, title, content, read_role, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*blog.Post, error) {
	var p blog.Post
	var readRole sql.NullString
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &readRole, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if readRole.Valid {
		role := auth.Role(readRole.String)
		p.ReadRole = &role
	}
	return &p, nil
}

func nullRole(r *auth.Role) sql.NullString {
	if r == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*r), Valid: true}
}

// rolesArray renders a Postgres text[] literal. Roles come from the closed
// role set, never from raw request input.
func rolesArray(roles []auth.Role) string {
	if len(roles) == 0 {
		return "{}"
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func (s *PostStore) Create(ctx context.Context, p *blog.Post) (*blog.Post, error) {
	cp := *p
	err := s.store.db.QueryRowContext(ctx, `
		insert into posts(author_id, title, content, read_role)
		values ($1,$2,$3,$4)
		returning id, created_at, updated_at
	`, cp.AuthorID, cp.Title, cp.Content, nullRole(cp.ReadRole)).Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *PostStore) FindByID(ctx context.Context, id int64) (*blog.Post, error) {
	return scanPost(s.store.db.QueryRowContext(ctx,
		`select `+postColumns+` from posts where id=$1`, id))
}

func (s *PostStore) List(ctx context.Context, f blog.ListFilter) ([]*blog.Post, int, error) {
	visible := rolesArray(f.VisibleRoles)

	var total int
	if err := s.store.db.QueryRowContext(ctx, `
		select count(*) from posts
		where read_role is null or read_role = any($1::text[])
	`, visible).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		select `+postColumns+` from posts
		where read_role is null or read_role = any($1::text[])
		order by id desc
		limit $2 offset $3
	`, visible, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*blog.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *PostStore) Update(ctx context.Context, id int64, upd blog.PostUpdate) (*blog.Post, error) {
	return scanPost(s.store.db.QueryRowContext(ctx, `
		update posts
		set title = coalesce($2, title),
		    content = coalesce($3, content),
		    read_role = case when $4 then $5 else read_role end,
		    updated_at = now()
		where id=$1
		returning `+postColumns, id, upd.Title, upd.Content, upd.SetReadRole, nullRole(upd.ReadRole)))
}

func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, `delete from posts where id=$1`, id)
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

func (s *PostStore) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	err := s.store.db.QueryRowContext(ctx, `select author_id from posts where id=$1`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, blog.ErrNotFound
	}
	return owner, err
}
