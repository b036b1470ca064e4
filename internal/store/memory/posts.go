package memory

import (
	"context"
	"sync"
	"time"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/blog"
)

// PostStore is an in-memory blog.PostStore.
type PostStore struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*blog.Post
}

func NewPostStore() *PostStore {
	return &PostStore{nextID: 1, posts: map[int64]*blog.Post{}}
}

func clonePost(p *blog.Post) *blog.Post {
	cp := *p
	if p.ReadRole != nil {
		role := *p.ReadRole
		cp.ReadRole = &role
	}
	return &cp
}

func (s *PostStore) Create(_ context.Context, p *blog.Post) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clonePost(p)
	cp.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.posts[cp.ID] = cp
	return clonePost(cp), nil
}

func (s *PostStore) FindByID(_ context.Context, id int64) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, blog.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *PostStore) List(_ context.Context, f blog.ListFilter) ([]*blog.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var visible []*blog.Post
	for id := int64(1); id < s.nextID; id++ {
		p, ok := s.posts[id]
		if !ok {
			continue
		}
		if p.ReadRole != nil && !containsRole(f.VisibleRoles, *p.ReadRole) {
			continue
		}
		visible = append(visible, clonePost(p))
	}
	total := len(visible)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return visible[f.Offset:end], total, nil
}

func containsRole(set []auth.Role, r auth.Role) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}

func (s *PostStore) Update(_ context.Context, id int64, upd blog.PostUpdate) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, blog.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.SetReadRole {
		if upd.ReadRole != nil {
			role := *upd.ReadRole
			p.ReadRole = &role
		} else {
			p.ReadRole = nil
		}
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePost(p), nil
}

func (s *PostStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return blog.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) OwnerID(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return 0, blog.ErrNotFound
	}
	return p.AuthorID, nil
}
