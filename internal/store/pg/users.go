package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell.dev/internal/auth"
)

// UserStore persists users. Email and nickname uniqueness is enforced by
// unique indexes; violations surface as auth.ErrConflict.
type UserStore struct {
	store *Store
}

var _ auth.UserStore = (*UserStore)(nil)

func NewUserStore(store *Store) *UserStore { return &UserStore{store: store} }

const userColumns = `id, email, nickname, password_hash, role, refresh_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	var u auth.User
	var refresh sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash, &u.Role, &refresh, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, u *auth.User) error {
	err := s.store.db.QueryRowContext(ctx, `
		insert into users(email, nickname, password_hash, role)
		values ($1,$2,$3,$4)
		returning id, created_at, updated_at
	`, u.Email, u.Nickname, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email or nickname already registered", auth.ErrConflict)
	}
	return err
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	return scanUser(s.store.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id))
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return scanUser(s.store.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where lower(email)=lower($1)`, email))
}

func (s *UserStore) FindByNickname(ctx context.Context, nickname string) (*auth.User, error) {
	return scanUser(s.store.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where nickname=$1`, nickname))
}

func (s *UserStore) List(ctx context.Context) ([]*auth.User, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`select `+userColumns+` from users order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) Update(ctx context.Context, id int64, upd auth.UserUpdate) (*auth.User, error) {
	u, err := scanUser(s.store.db.QueryRowContext(ctx, `
		update users
		set nickname = coalesce($2, nickname),
		    password_hash = coalesce($3, password_hash),
		    updated_at = now()
		where id=$1
		returning `+userColumns, id, upd.Nickname, upd.Password))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: nickname already taken", auth.ErrConflict)
	}
	return u, err
}

func (s *UserStore) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	return s.setRefreshToken(ctx, userID, &token)
}

func (s *UserStore) ClearRefreshToken(ctx context.Context, userID int64) error {
	return s.setRefreshToken(ctx, userID, nil)
}

func (s *UserStore) setRefreshToken(ctx context.Context, userID int64, token *string) error {
	res, err := s.store.db.ExecContext(ctx,
		`update users set refresh_token=$2, updated_at=now() where id=$1`, userID, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}
