package auth

import "time"

// User is a registered principal. RefreshToken holds the single refresh
// token currently considered valid for the user; nil means no active
// session. Issuing a new one always replaces the previous value.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the claim payload shared by access and refresh tokens.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// Principal is the verified identity attached to a request context.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}
