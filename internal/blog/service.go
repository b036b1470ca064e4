package blog

import (
	"context"
	"fmt"
	"strings"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/authz"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements the content operations. Reads are filtered by the
// visibility gate; writes that touch a post's read role go through the
// mirror check so authors cannot gate content above their own role.
// Ownership of existing resources is enforced by the guard layer before
// the request reaches this service.
type Service struct {
	posts    PostStore
	comments CommentStore
}

func NewService(posts PostStore, comments CommentStore) *Service {
	return &Service{posts: posts, comments: comments}
}

// CreatePostInput is the author-supplied part of a new post.
type CreatePostInput struct {
	Title    string
	Content  string
	ReadRole *auth.Role
}

func (in CreatePostInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || len(in.Title) > maxTitleLen {
		return fmt.Errorf("%w: title must be 1..%d characters", ErrInvalidInput, maxTitleLen)
	}
	if strings.TrimSpace(in.Content) == "" || len(in.Content) > maxContentLen {
		return fmt.Errorf("%w: content must be 1..%d characters", ErrInvalidInput, maxContentLen)
	}
	if in.ReadRole != nil && !in.ReadRole.Valid() {
		return fmt.Errorf("%w: unknown read permission %q", ErrInvalidInput, *in.ReadRole)
	}
	return nil
}

// CreatePost stores a new post authored by principal.
func (s *Service) CreatePost(ctx context.Context, principal auth.Principal, in CreatePostInput) (*Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !authz.CanSetReadRole(in.ReadRole, &principal) {
		return nil, fmt.Errorf("%w: read permission exceeds author role", authz.ErrForbidden)
	}
	return s.posts.Create(ctx, &Post{
		AuthorID: principal.UserID,
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		ReadRole: in.ReadRole,
	})
}

// GetPost returns one post if the caller may read it. A nil principal is
// an anonymous reader. Gated posts a caller cannot see yield ErrForbidden,
// not ErrNotFound: existence of a post id is not secret, its body is.
func (s *Service) GetPost(ctx context.Context, principal *auth.Principal, id int64) (*Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanRead(post.ReadRole, principal) {
		return nil, fmt.Errorf("%w: post %d requires role %s", authz.ErrForbidden, id, *post.ReadRole)
	}
	return post, nil
}

// ListPosts pages through the posts visible to the caller. The visibility
// condition is pushed into the store query so gated posts never leave the
// database for callers that cannot read them.
func (s *Service) ListPosts(ctx context.Context, principal *auth.Principal, page, size int) ([]*Post, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	var visible []auth.Role
	if principal != nil {
		visible = auth.RolesDominatedBy(principal.Role)
	}
	return s.posts.List(ctx, ListFilter{
		VisibleRoles: visible,
		Offset:       (page - 1) * size,
		Limit:        size,
	})
}

// UpdatePost applies a partial mutation. When the read role changes, the
// mirror check runs against the caller, not the original author: whoever
// performs the edit must dominate the new gate.
func (s *Service) UpdatePost(ctx context.Context, principal auth.Principal, id int64, upd PostUpdate) (*Post, error) {
	if upd.Title != nil && (strings.TrimSpace(*upd.Title) == "" || len(*upd.Title) > maxTitleLen) {
		return nil, fmt.Errorf("%w: title must be 1..%d characters", ErrInvalidInput, maxTitleLen)
	}
	if upd.Content != nil && (strings.TrimSpace(*upd.Content) == "" || len(*upd.Content) > maxContentLen) {
		return nil, fmt.Errorf("%w: content must be 1..%d characters", ErrInvalidInput, maxContentLen)
	}
	if upd.SetReadRole {
		if upd.ReadRole != nil && !upd.ReadRole.Valid() {
			return nil, fmt.Errorf("%w: unknown read permission %q", ErrInvalidInput, *upd.ReadRole)
		}
		if !authz.CanSetReadRole(upd.ReadRole, &principal) {
			return nil, fmt.Errorf("%w: read permission exceeds caller role", authz.ErrForbidden)
		}
	}
	return s.posts.Update(ctx, id, upd)
}

// DeletePost removes a post. Ownership was already settled by the guard.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	return s.posts.Delete(ctx, id)
}

// CreateComment attaches a comment to a post the commenter can read.
func (s *Service) CreateComment(ctx context.Context, principal auth.Principal, postID int64, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" || len(content) > maxContentLen {
		return nil, fmt.Errorf("%w: content must be 1..%d characters", ErrInvalidInput, maxContentLen)
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !authz.CanRead(post.ReadRole, &principal) {
		return nil, fmt.Errorf("%w: post %d requires role %s", authz.ErrForbidden, postID, *post.ReadRole)
	}
	return s.comments.Create(ctx, &Comment{
		PostID:   postID,
		AuthorID: principal.UserID,
		Content:  content,
	})
}

// ListComments returns a post's comments, subject to the post's own
// visibility gate.
func (s *Service) ListComments(ctx context.Context, principal *auth.Principal, postID int64) ([]*Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !authz.CanRead(post.ReadRole, principal) {
		return nil, fmt.Errorf("%w: post %d requires role %s", authz.ErrForbidden, postID, *post.ReadRole)
	}
	return s.comments.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Ownership was settled by the guard.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	return s.comments.Delete(ctx, id)
}
