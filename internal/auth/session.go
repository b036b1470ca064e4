package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"
)

const maxNicknameLen = 20

// SessionService orchestrates signup, login, access-token renewal and
// logout. It is the only component that mutates the stored refresh token.
type SessionService struct {
	users UserStore
	codec *Codec
	now   func() time.Time
}

// SessionOption configures SessionService behavior.
type SessionOption func(*SessionService)

// WithSessionClock overrides the time source (useful for tests).
func WithSessionClock(fn func() time.Time) SessionOption {
	return func(s *SessionService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewSessionService constructs the service.
func NewSessionService(users UserStore, codec *Codec, opts ...SessionOption) (*SessionService, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	if codec == nil {
		return nil, errors.New("auth: token codec is required")
	}
	s := &SessionService{users: users, codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Signup registers a new principal with role "user" and returns its id.
// Fails with ErrConflict when the email or nickname is already taken.
// The password never leaves this method unhashed.
func (s *SessionService) Signup(ctx context.Context, email, nickname, password string) (int64, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	nickname = strings.TrimSpace(nickname)
	if email == "" || !strings.Contains(email, "@") {
		return 0, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if nickname == "" || len(nickname) > maxNicknameLen {
		return 0, fmt.Errorf("%w: nickname must be 1-%d characters", ErrInvalidInput, maxNicknameLen)
	}
	if strings.TrimSpace(password) == "" {
		return 0, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return 0, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if _, err := s.users.FindByNickname(ctx, nickname); err == nil {
		return 0, fmt.Errorf("%w: nickname already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}
	user := &User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	// The store enforces uniqueness too; a concurrent signup loses here.
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login verifies credentials and issues a fresh token pair. The new refresh
// token overwrites any previously stored one, so an earlier session's
// refresh token stops being accepted. Unknown email and wrong password
// produce the same ErrUnauthorized.
func (s *SessionService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, ErrUnauthorized
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	id := Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	access, accessExp, err := s.codec.Issue(TokenAccess, id)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.codec.Issue(TokenRefresh, id)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.users.SaveRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// RenewAccessToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated. A presented token that does not
// byte-match the stored one is treated as reuse or theft: the stored token
// is cleared before ErrUnauthorized is raised, forcing re-login.
func (s *SessionService) RenewAccessToken(ctx context.Context, userID int64, presented string) (string, time.Time, error) {
	if userID <= 0 || presented == "" {
		return "", time.Time{}, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, ErrUnauthorized
		}
		return "", time.Time{}, err
	}
	if user.RefreshToken == nil {
		return "", time.Time{}, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		// Revoke before rejecting. Clearing is best-effort: the caller
		// gets ErrUnauthorized either way.
		_ = s.users.ClearRefreshToken(ctx, user.ID)
		return "", time.Time{}, ErrUnauthorized
	}
	if _, err := s.codec.Verify(TokenRefresh, presented); err != nil {
		return "", time.Time{}, ErrUnauthorized
	}

	id := Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
	access, exp, err := s.codec.Issue(TokenAccess, id)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// Logout clears the stored refresh token. Calling it again is a no-op;
// only an unknown principal is an error.
func (s *SessionService) Logout(ctx context.Context, userID int64) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

// ValidateRefreshToken is the cross-check used by the refresh guard: the
// presented token must byte-match the stored value for the principal. On
// mismatch the stored token is cleared and ErrUnauthorized returned.
func (s *SessionService) ValidateRefreshToken(ctx context.Context, userID int64, presented string) error {
	if userID <= 0 || presented == "" {
		return ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if user.RefreshToken == nil {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		_ = s.users.ClearRefreshToken(ctx, user.ID)
		return ErrUnauthorized
	}
	return nil
}
