package auth

import "context"

// UserUpdate carries optional profile mutations. Nil fields are left as-is.
type UserUpdate struct {
	Nickname *string
	Password *string
}

// UserStore describes persistence operations required by the session layer.
// Implementations must enforce uniqueness of email and nickname, returning
// ErrConflict on violation, and must serialize writes to the refresh-token
// column (last write wins).
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByNickname(ctx context.Context, nickname string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*User, error)
	SaveRefreshToken(ctx context.Context, userID int64, token string) error
	ClearRefreshToken(ctx context.Context, userID int64) error
}
