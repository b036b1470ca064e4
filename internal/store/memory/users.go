// Package memory provides map-backed stores with the same contracts as the
// Postgres implementations. Used by the API tests and as a fallback when no
// database DSN is configured, so a development server starts with zero
// infrastructure.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"inkwell.dev/internal/auth"
)

// UserStore is an in-memory auth.UserStore. Sequential ids start at 1.
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*auth.User
}

func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, users: map[int64]*auth.User{}}
}

func cloneUser(u *auth.User) *auth.User {
	cp := *u
	if u.RefreshToken != nil {
		tok := *u.RefreshToken
		cp.RefreshToken = &tok
	}
	return &cp
}

func (s *UserStore) Create(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: email already registered", auth.ErrConflict)
		}
		if existing.Nickname == u.Nickname {
			return fmt.Errorf("%w: nickname already taken", auth.ErrConflict)
		}
	}
	u.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *UserStore) FindByNickname(_ context.Context, nickname string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			return cloneUser(u), nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *UserStore) List(_ context.Context) ([]*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*auth.User, 0, len(s.users))
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, id int64, upd auth.UserUpdate) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if upd.Nickname != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Nickname == *upd.Nickname {
				return nil, fmt.Errorf("%w: nickname already taken", auth.ErrConflict)
			}
		}
		u.Nickname = *upd.Nickname
	}
	if upd.Password != nil {
		u.PasswordHash = *upd.Password
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (s *UserStore) SaveRefreshToken(_ context.Context, userID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return auth.ErrNotFound
	}
	u.RefreshToken = &token
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *UserStore) ClearRefreshToken(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return auth.ErrNotFound
	}
	u.RefreshToken = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}
