package memory

import (
	"context"
	"sync"
	"time"

	"inkwell.dev/internal/blog"
)

// CommentStore is an in-memory blog.CommentStore.
type CommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*blog.Comment
}

func NewCommentStore() *CommentStore {
	return &CommentStore{nextID: 1, comments: map[int64]*blog.Comment{}}
}

func (s *CommentStore) Create(_ context.Context, c *blog.Comment) (*blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	cp.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.comments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *CommentStore) FindByID(_ context.Context, id int64) (*blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, blog.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *CommentStore) ListByPost(_ context.Context, postID int64) ([]*blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*blog.Comment
	for id := int64(1); id < s.nextID; id++ {
		c, ok := s.comments[id]
		if !ok || c.PostID != postID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *CommentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return blog.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *CommentStore) OwnerID(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return 0, blog.ErrNotFound
	}
	return c.AuthorID, nil
}
